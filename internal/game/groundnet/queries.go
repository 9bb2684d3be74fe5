package groundnet

import (
	"math"

	"atc-ground/pkg/types"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

const (
	EXIT_AHEAD_TOLERANCE     = 10.0 // degrees between runway heading and bearing to the exit
	EXIT_DIRECTION_TOLERANCE = 70.0 // degrees between runway heading and the exit taxiway
	MAX_EXIT_EGRESS          = 2
)

// Runway is what the network needs to know about a runway.
type Runway interface {
	Ident() string
	HeadingDeg() float64
	Threshold() orb.Point
	End() orb.Point
}

// FindNearestNode returns the node closest to p, or nil for an empty
// network.
func (n *Network) FindNearestNode(p orb.Point) *Node {
	return n.nearest(p, func(*Node) bool { return true })
}

// FindNearestNodeOnRunwayEntry returns the on-runway node closest to p.
func (n *Network) FindNearestNodeOnRunwayEntry(p orb.Point) *Node {
	return n.nearest(p, func(node *Node) bool { return node.OnRunway })
}

// FindNearestNodeOffRunway returns the closest node that is neither on a
// runway nor a parking and lies at least marginM from rwy's centreline.
// Parkings are skipped since networks that only list parking positions give
// poor results otherwise.
func (n *Network) FindNearestNodeOffRunway(p orb.Point, rwy Runway, marginM float64) *Node {
	var a, b orb.Point
	if rwy != nil {
		a, b = localXY(rwy.Threshold(), rwy.Threshold()), localXY(rwy.Threshold(), rwy.End())
	}
	return n.nearest(p, func(node *Node) bool {
		if node.OnRunway || node.IsParking() {
			return false
		}
		if rwy == nil {
			return true
		}
		return planar.DistanceFromSegment(a, b, localXY(rwy.Threshold(), node.Position)) >= marginM
	})
}

// FindNearestNodeOnRunwayExit picks the node an aircraft rolling out on rwy
// from p should leave the runway at. Ground network data is often
// incomplete, so it falls back in stages rather than failing:
//
//  1. the nearest runway node ahead of p whose exit taxiway points roughly
//     along the runway, excluding junctions with more than MAX_EXIT_EGRESS
//     egress segments and runway points with no way off the runway;
//  2. the nearest runway node ahead of p;
//  3. the nearest runway node.
func (n *Network) FindNearestNodeOnRunwayExit(p orb.Point, rwy Runway) *Node {
	n.mustBeInitialized("FindNearestNodeOnRunwayExit")

	if rwy == nil {
		n.lg.Errorf("%s: no runway given for runway exit search", n.Airport)
	} else {
		hdg := rwy.HeadingDeg()
		if node := n.nearest(p, func(node *Node) bool {
			return node.OnRunway && n.isAhead(p, node, hdg) && n.isAlignedExit(node, hdg)
		}); node != nil {
			n.lg.Debugf("%s: runway %s: exit at node %d", n.Airport, rwy.Ident(), node.Index)
			return node
		}
	}

	if node := n.nearest(p, func(node *Node) bool {
		return node.OnRunway && (rwy == nil || n.isAhead(p, node, rwy.HeadingDeg()))
	}); node != nil {
		return node
	}

	if node := n.FindNearestNodeOnRunwayEntry(p); node != nil {
		return node
	}

	n.lg.Errorf("%s: no runway exit found", n.Airport)
	return nil
}

func (n *Network) isAhead(p orb.Point, node *Node, hdg float64) bool {
	return types.HeadingDifference(hdg, geo.Bearing(p, node.Position)) <= EXIT_AHEAD_TOLERANCE
}

func (n *Network) isAlignedExit(node *Node, hdg float64) bool {
	egress := n.FindSegmentsFrom(node)
	if len(egress) == 0 || len(egress) > MAX_EXIT_EGRESS {
		return false
	}
	for _, s := range egress {
		if s.EndNode().OnRunway {
			continue
		}
		if types.HeadingDifference(hdg, s.Heading()) <= EXIT_DIRECTION_TOLERANCE {
			return true
		}
	}
	return false
}

func (n *Network) nearest(p orb.Point, pred func(*Node) bool) *Node {
	var best *Node
	d := math.Inf(1)
	for _, node := range n.nodes {
		if !pred(node) {
			continue
		}
		if nd := geo.Distance(p, node.Position); nd < d {
			d = nd
			best = node
		}
	}
	return best
}

// localXY projects p onto a plane tangent at origin, in meters. Accurate
// enough over an airport's extent.
func localXY(origin, p orb.Point) orb.Point {
	rad := math.Pi / 180
	x := (p.Lon() - origin.Lon()) * rad * orb.EarthRadius * math.Cos(origin.Lat()*rad)
	y := (p.Lat() - origin.Lat()) * rad * orb.EarthRadius
	return orb.Point{x, y}
}
