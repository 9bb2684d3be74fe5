package airspace

import (
	"fmt"

	"atc-ground/internal/game/groundnet"

	"github.com/labstack/gommon/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	DEMO_RUNWAY        = "09"
	DEMO_RUNWAY_LENGTH = 2000.0
	HOLD_SHORT         = 1
)

// Local returns the point x meters east and y meters north of ref.
func Local(ref orb.Point, x, y float64) orb.Point {
	p := ref
	if x >= 0 {
		p = geo.PointAtBearingAndDistance(p, 90, x)
	} else {
		p = geo.PointAtBearingAndDistance(p, 270, -x)
	}
	if y >= 0 {
		return geo.PointAtBearingAndDistance(p, 0, y)
	}
	return geo.PointAtBearingAndDistance(p, 180, -y)
}

type demoNode struct {
	index    int
	x, y     float64
	onRunway bool
	holdType int
	parking  string
}

// The demo field has one eastbound runway with two rapid exits, a parallel
// taxiway and an apron with five stands.
var (
	demoNodes = []demoNode{
		{index: 1, x: 0, onRunway: true},
		{index: 2, x: 500, onRunway: true},
		{index: 3, x: 1000, onRunway: true},
		{index: 4, x: 1500, onRunway: true},
		{index: 5, x: 2000, onRunway: true},

		{index: 11, x: 0, y: -150, holdType: HOLD_SHORT},
		{index: 12, x: 500, y: -150},
		{index: 13, x: 1000, y: -150},
		{index: 14, x: 1500, y: -150},
		{index: 15, x: 2000, y: -150},

		{index: 21, x: 400, y: -250},
		{index: 22, x: 600, y: -250},
		{index: 23, x: 800, y: -250},
		{index: 24, x: 1000, y: -250},
		{index: 25, x: 1200, y: -250},

		{index: 31, x: 400, y: -330, parking: "A1"},
		{index: 32, x: 600, y: -330, parking: "A2"},
		{index: 33, x: 800, y: -330, parking: "A3"},
		{index: 34, x: 1000, y: -330, parking: "A4"},
		{index: 35, x: 1200, y: -330, parking: "A5"},
	}
	demoOneWay = [][2]int{
		{1, 2}, {2, 3}, {3, 4}, {4, 5}, // runway, eastbound only
		{11, 1},                        // line up
		{2, 13}, {3, 14}, {5, 15},      // exits
	}
	demoTwoWay = [][2]int{
		{11, 12}, {12, 13}, {13, 14}, {14, 15},
		{21, 22}, {22, 23}, {23, 24}, {24, 25},
		{22, 12}, {24, 13},
		{31, 21}, {32, 22}, {33, 23}, {34, 24}, {35, 25},
	}
)

// DemoGround builds the ground network of the demo field around ref.
func DemoGround(airportID string, ref orb.Point, lg *log.Logger) (*groundnet.Network, error) {
	n := groundnet.NewNetwork(airportID, lg)
	for _, dn := range demoNodes {
		pos := Local(ref, dn.x, dn.y)
		var node *groundnet.Node
		if dn.parking != "" {
			node = groundnet.NewParking(dn.index, pos, groundnet.Parking{
				Name:   dn.parking,
				Radius: 30,
				Type:   "gate",
			})
		} else {
			node = groundnet.NewNode(dn.index, pos, dn.onRunway, dn.holdType)
		}
		if err := n.AddNode(node); err != nil {
			return nil, err
		}
	}
	for _, s := range demoOneWay {
		if err := n.AddSegment(s[0], s[1]); err != nil {
			return nil, err
		}
	}
	for _, s := range demoTwoWay {
		if err := n.AddTwoWaySegment(s[0], s[1]); err != nil {
			return nil, err
		}
	}
	n.Init()
	return n, nil
}

// AddDemoAirport adds a demo field with its ground network to the airspace.
func (ap *Airspace) AddDemoAirport(airportID string, ref orb.Point, lg *log.Logger) (*Airport, error) {
	ground, err := DemoGround(airportID, ref, lg)
	if err != nil {
		return nil, fmt.Errorf("%s: building ground network: %w", airportID, err)
	}
	airport := ap.AddAirport(airportID, airportID+" Demo Field", ref, []Runway{{
		Name:    DEMO_RUNWAY,
		Start:   ref,
		Heading: 90,
		Length:  DEMO_RUNWAY_LENGTH,
	}}, ground)
	ap.ActiveRunways[airportID] = DEMO_RUNWAY
	return airport, nil
}
