package groundnet

import (
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb/geo"
)

const (
	PARKING_PENALTY = 10000
	RUNWAY_PENALTY  = 1000
)

// edgePenalty biases the search away from cutting through parking areas and
// across runways. It is charged on the node an edge leads into.
func edgePenalty(n *Node) float64 {
	var p float64
	if n.IsParking() {
		p += PARKING_PENALTY
	}
	if n.OnRunway {
		p += RUNWAY_PENALTY
	}
	return p
}

type searchData struct {
	score    float64
	previous int // slot of the predecessor, -1 for none
}

// FindShortestRoute returns the cheapest route from start to end, or an
// empty route when end cannot be reached. With fullSearch set, a failed
// search is logged.
func (n *Network) FindShortestRoute(start, end *Node, fullSearch bool) Route {
	if start == nil || end == nil {
		panic("groundnet: FindShortestRoute called with nil node")
	}
	n.mustBeInitialized("FindShortestRoute")

	key := routeKey{start: start.Index, end: end.Index}
	if r, ok := n.routes.Get(key); ok {
		return cloneRoute(r)
	}

	// Failed searches are not cached so that a later full search still
	// reports them.
	r := n.dijkstra(start, end)
	if r.Empty() {
		if fullSearch {
			n.lg.Warnf("%s: failed to find route from node %d to node %d", n.Airport, start.Index, end.Index)
		}
		return r
	}
	n.routes.Add(key, r)
	return cloneRoute(r)
}

func (n *Network) dijkstra(start, end *Node) Route {
	data := make([]searchData, len(n.nodes))
	for i := range data {
		data[i] = searchData{score: math.Inf(1), previous: -1}
	}
	startSlot, endSlot := n.nodeSlots[start.Index], n.nodeSlots[end.Index]
	data[startSlot].score = 0

	// Unvisited slots in insertion order; ties go to the first one scanned.
	unvisited := make([]int, len(n.nodes))
	for i := range unvisited {
		unvisited[i] = i
	}

	for len(unvisited) > 0 {
		bi := 0
		for i, slot := range unvisited {
			if data[slot].score < data[unvisited[bi]].score {
				bi = i
			}
		}
		best := unvisited[bi]
		unvisited = slices.Delete(unvisited, bi, bi+1)

		if best == endSlot || math.IsInf(data[best].score, 1) {
			break
		}

		from := n.nodes[best]
		for _, idx := range n.segmentsFrom[from.Index] {
			target := n.nodes[n.nodeSlots[n.segments[idx-1].End]]
			w := geo.Distance(from.Position, target.Position) + edgePenalty(target)
			if w < 0 {
				panic(fmt.Sprintf("groundnet: negative edge weight %f on segment %d", w, idx))
			}
			ts := n.nodeSlots[target.Index]
			if alt := data[best].score + w; alt < data[ts].score {
				data[ts].score = alt
				data[ts].previous = best
			}
		}
	}

	if math.IsInf(data[endSlot].score, 1) {
		return Route{}
	}

	var nodes, segments []int
	for bt := endSlot; data[bt].previous != -1; bt = data[bt].previous {
		prev := n.nodes[data[bt].previous]
		seg := n.FindSegmentBetween(prev, n.nodes[bt])
		nodes = append(nodes, n.nodes[bt].Index)
		segments = append(segments, seg.Index)
	}
	nodes = append(nodes, start.Index)
	slices.Reverse(nodes)
	slices.Reverse(segments)

	return NewRoute(nodes, segments, data[endSlot].score)
}

func cloneRoute(r Route) Route {
	return Route{
		Nodes:    slices.Clone(r.Nodes),
		Segments: slices.Clone(r.Segments),
		Score:    r.Score,
	}
}
