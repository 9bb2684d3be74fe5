package groundnet

import "fmt"

// Route is the result of a shortest-path search: the visited node indices,
// the segment indices joining them and the total score.
type Route struct {
	Nodes    []int
	Segments []int
	Score    float64

	cursor int
}

// NewRoute builds a route. A route that visits n nodes has exactly n-1
// segments; anything else is a programming error.
func NewRoute(nodes, segments []int, score float64) Route {
	if !(len(nodes) == 0 && len(segments) == 0) && len(nodes) != len(segments)+1 {
		panic(fmt.Sprintf("groundnet: misconfigured route: %d nodes, %d segments", len(nodes), len(segments)))
	}
	return Route{Nodes: nodes, Segments: segments, Score: score}
}

func (r *Route) Empty() bool {
	return len(r.Nodes) == 0
}

// Size returns the number of nodes in the route.
func (r *Route) Size() int {
	return len(r.Nodes)
}

// Next returns the next node and the segment leading into it. The first
// call returns the start node and segment 0.
func (r *Route) Next() (node int, segment int, ok bool) {
	if r.cursor >= len(r.Nodes) {
		return 0, 0, false
	}
	node = r.Nodes[r.cursor]
	if r.cursor > 0 {
		segment = r.Segments[r.cursor-1]
	}
	r.cursor++
	return node, segment, true
}

func (r *Route) Rewind() {
	r.cursor = 0
}
