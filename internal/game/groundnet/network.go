package groundnet

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/labstack/gommon/log"
)

const routeCacheSize = 1024

// Routes are cached once the network is initialized, after which it can no
// longer change. Only successful searches are cached.
type routeKey struct {
	start, end int
}

// Network owns every node and segment of one airport's ground network.
type Network struct {
	Airport string

	nodes     []*Node
	nodeSlots map[int]int // node index -> position in nodes
	segments  []*Segment

	// Built by Init.
	segmentsFrom     map[int][]int // node index -> indices of segments starting there
	segmentsEndingAt map[int][]int // node index -> indices of segments ending there
	initialized      bool

	routes *lru.Cache[routeKey, Route]
	lg     *log.Logger
}

func NewNetwork(airport string, lg *log.Logger) *Network {
	if lg == nil {
		lg = log.New("groundnet")
	}
	routes, err := lru.New[routeKey, Route](routeCacheSize)
	if err != nil {
		panic(err)
	}
	return &Network{
		Airport:   airport,
		nodeSlots: make(map[int]int),
		routes:    routes,
		lg:        lg,
	}
}

func (n *Network) AddNode(node *Node) error {
	if n.initialized {
		panic("groundnet: AddNode after Init")
	}
	if _, ok := n.nodeSlots[node.Index]; ok {
		return fmt.Errorf("%s: node %d: %w", n.Airport, node.Index, ErrDuplicateNode)
	}
	n.nodeSlots[node.Index] = len(n.nodes)
	n.nodes = append(n.nodes, node)
	return nil
}

// AddSegment adds a directed segment between two existing nodes. Indices are
// assigned by Init.
func (n *Network) AddSegment(start, end int) error {
	if n.initialized {
		panic("groundnet: AddSegment after Init")
	}
	for _, idx := range []int{start, end} {
		if _, ok := n.nodeSlots[idx]; !ok {
			return fmt.Errorf("%s: segment %d->%d: node %d: %w", n.Airport, start, end, idx, ErrUnknownNode)
		}
	}
	n.segments = append(n.segments, &Segment{Start: start, End: end, net: n})
	return nil
}

// AddTwoWaySegment adds both directions between a and b.
func (n *Network) AddTwoWaySegment(a, b int) error {
	if err := n.AddSegment(a, b); err != nil {
		return err
	}
	return n.AddSegment(b, a)
}

// Init numbers the segments, pairs opposite directions and builds the
// adjacency indexes. It must be called exactly once, after the last node
// and segment have been added.
func (n *Network) Init() {
	if n.initialized {
		panic(fmt.Sprintf("groundnet: %s: Init called twice", n.Airport))
	}

	n.segmentsFrom = make(map[int][]int)
	n.segmentsEndingAt = make(map[int][]int)
	for i, s := range n.segments {
		s.Index = i + 1
		n.segmentsFrom[s.Start] = append(n.segmentsFrom[s.Start], s.Index)
		n.segmentsEndingAt[s.End] = append(n.segmentsEndingAt[s.End], s.Index)
	}

	for _, s := range n.segments {
		if s.opposite != 0 {
			continue
		}
		for _, idx := range n.segmentsFrom[s.End] {
			opp := n.segments[idx-1]
			if opp.End == s.Start && opp.opposite == 0 && opp != s {
				s.opposite = opp.Index
				opp.opposite = s.Index
				break
			}
		}
	}

	n.initialized = true
	n.lg.Debugf("%s: ground network initialized with %d nodes and %d segments",
		n.Airport, len(n.nodes), len(n.segments))
}

func (n *Network) Initialized() bool {
	return n.initialized
}

func (n *Network) mustBeInitialized(op string) {
	if !n.initialized {
		panic(fmt.Sprintf("groundnet: %s: %s: %v", n.Airport, op, ErrNotInitialized))
	}
}

// Nodes returns the nodes in insertion order. The slice must not be
// modified.
func (n *Network) Nodes() []*Node {
	return n.nodes
}

// Segments returns the segments ordered by index. The slice must not be
// modified.
func (n *Network) Segments() []*Segment {
	return n.segments
}

func (n *Network) FindNode(index int) *Node {
	if slot, ok := n.nodeSlots[index]; ok {
		return n.nodes[slot]
	}
	return nil
}

// FindSegment returns the segment with the given 1-based index, or nil.
func (n *Network) FindSegment(index int) *Segment {
	n.mustBeInitialized("FindSegment")
	if index > 0 && index <= len(n.segments) {
		return n.segments[index-1]
	}
	return nil
}

// FindSegmentBetween returns the first segment starting at from and, when
// to is non-nil, ending at to.
func (n *Network) FindSegmentBetween(from, to *Node) *Segment {
	if from == nil {
		return nil
	}
	for _, s := range n.segments {
		if s.Start != from.Index {
			continue
		}
		if to == nil || s.End == to.Index {
			return s
		}
	}
	return nil
}

func (n *Network) FindOppositeSegment(index int) *Segment {
	if s := n.FindSegment(index); s != nil {
		return s.Opposite()
	}
	return nil
}

// FindSegmentsFrom returns all segments starting at node.
func (n *Network) FindSegmentsFrom(node *Node) []*Segment {
	if node == nil {
		panic("groundnet: FindSegmentsFrom called with nil node")
	}
	n.mustBeInitialized("FindSegmentsFrom")

	idxs := n.segmentsFrom[node.Index]
	segs := make([]*Segment, 0, len(idxs))
	for _, idx := range idxs {
		segs = append(segs, n.segments[idx-1])
	}
	return segs
}

// SegmentsEndingAt returns all segments whose end is node.
func (n *Network) SegmentsEndingAt(node *Node) []*Segment {
	n.mustBeInitialized("SegmentsEndingAt")

	idxs := n.segmentsEndingAt[node.Index]
	segs := make([]*Segment, 0, len(idxs))
	for _, idx := range idxs {
		segs = append(segs, n.segments[idx-1])
	}
	return segs
}

// Parkings returns the parking nodes in insertion order.
func (n *Network) Parkings() []*Node {
	var p []*Node
	for _, node := range n.nodes {
		if node.IsParking() {
			p = append(p, node)
		}
	}
	return p
}
