package airspace

import (
	"fmt"
	"math"

	"atc-ground/internal/game/groundnet"
	"atc-ground/pkg/types"

	"github.com/paulmach/orb/geo"
)

// RunwayFromNetwork derives a runway from a ground network that carries no
// runway data of its own. The two on-runway nodes furthest apart are its
// ends; the threshold is the end that runway segments lead away from.
func RunwayFromNetwork(net *groundnet.Network) (Runway, bool) {
	var onRunway []*groundnet.Node
	for _, node := range net.Nodes() {
		if node.OnRunway {
			onRunway = append(onRunway, node)
		}
	}

	var a, b *groundnet.Node
	longest := 0.0
	for i := range onRunway {
		for j := i + 1; j < len(onRunway); j++ {
			if d := geo.Distance(onRunway[i].Position, onRunway[j].Position); d > longest {
				longest = d
				a, b = onRunway[i], onRunway[j]
			}
		}
	}
	if a == nil {
		return Runway{}, false
	}
	if runwayInbound(net, a) && !runwayInbound(net, b) {
		a, b = b, a
	}

	hdg := types.NormalizeHeading(geo.Bearing(a.Position, b.Position))
	return Runway{
		Name:    runwayName(hdg),
		Start:   a.Position,
		Heading: hdg,
		Length:  longest,
	}, true
}

func runwayInbound(net *groundnet.Network, node *groundnet.Node) bool {
	for _, seg := range net.SegmentsEndingAt(node) {
		if seg.StartNode().OnRunway {
			return true
		}
	}
	return false
}

func runwayName(hdg float64) string {
	n := int(math.Round(hdg / 10))
	if n == 0 {
		n = 36
	}
	return fmt.Sprintf("%02d", n)
}
