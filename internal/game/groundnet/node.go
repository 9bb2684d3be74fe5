package groundnet

import (
	"github.com/paulmach/orb"
)

// ElevationProvider resolves terrain elevation (meters) at a position. It is
// consulted at most once per node; a miss leaves the node unresolved.
type ElevationProvider interface {
	Elevation(p orb.Point) (float64, bool)
}

// Parking carries the metadata of a parking position. Parkings double as
// spawn points for departing traffic.
type Parking struct {
	Name          string
	Heading       float64
	Radius        float64
	Type          string
	Airlines      string
	PushBackRoute int // node index of the pushback holding point, 0 if none
}

// Node is a point of the taxiway graph.
type Node struct {
	Index    int
	Position orb.Point
	OnRunway bool
	HoldType int
	Parking  *Parking

	elevation    float64
	hasElevation bool
}

func NewNode(index int, pos orb.Point, onRunway bool, holdType int) *Node {
	return &Node{
		Index:    index,
		Position: pos,
		OnRunway: onRunway,
		HoldType: holdType,
	}
}

func NewParking(index int, pos orb.Point, p Parking) *Node {
	return &Node{
		Index:    index,
		Position: pos,
		Parking:  &p,
	}
}

func (n *Node) IsParking() bool {
	return n.Parking != nil
}

// Elevation returns the node's elevation, asking ep the first time and
// caching a successful answer.
func (n *Node) Elevation(ep ElevationProvider) float64 {
	if n.hasElevation || ep == nil {
		return n.elevation
	}
	if e, ok := ep.Elevation(n.Position); ok {
		n.elevation = e
		n.hasElevation = true
	}
	return n.elevation
}

// SetElevation stores a known elevation, e.g. from a snapshot.
func (n *Node) SetElevation(e float64) {
	n.elevation = e
	n.hasElevation = true
}
