package groundnet

import (
	"atc-ground/pkg/types"

	"github.com/paulmach/orb/geo"
)

// Segment is a directed taxiway edge between two nodes of the owning
// network. Endpoints and the opposite direction are stored as indices into
// the network's arena.
type Segment struct {
	Index    int
	Start    int
	End      int
	opposite int

	blocks []Block
	net    *Network
}

func (s *Segment) StartNode() *Node {
	return s.net.FindNode(s.Start)
}

func (s *Segment) EndNode() *Node {
	return s.net.FindNode(s.End)
}

// Length returns the great-circle length of the segment in meters.
func (s *Segment) Length() float64 {
	return geo.Distance(s.StartNode().Position, s.EndNode().Position)
}

// Heading returns the true course from start to end in [0, 360).
func (s *Segment) Heading() float64 {
	return types.NormalizeHeading(geo.Bearing(s.StartNode().Position, s.EndNode().Position))
}

// Opposite returns the segment running the other way between the same two
// nodes, or nil.
func (s *Segment) Opposite() *Segment {
	if s.opposite == 0 {
		return nil
	}
	return s.net.FindSegment(s.opposite)
}

func (s *Segment) OppositeIndex() int {
	return s.opposite
}
