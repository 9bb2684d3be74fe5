package ground

import (
	"fmt"
	"math"
	"testing"
	"time"

	"atc-ground/internal/game/groundnet"
	"atc-ground/internal/game/radio"
	"atc-ground/internal/game/traffic"
	"atc-ground/pkg/types"

	"github.com/paulmach/orb"
)

var (
	origin = orb.Point{4.76, 52.31}
	t0     = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
)

// offset returns the point x meters east and y meters north of origin.
func offset(x, y float64) orb.Point {
	rad := math.Pi / 180
	lon := origin.Lon() + x/(orb.EarthRadius*math.Cos(origin.Lat()*rad))/rad
	lat := origin.Lat() + y/orb.EarthRadius/rad
	return orb.Point{lon, lat}
}

type testAircraft struct {
	id        types.AircraftID
	pos       orb.Point
	heading   float64
	speed     float64
	perf      *traffic.Performance
	dead      bool
	clearance bool
	takeOff   types.TakeOffStatus
	user      bool
}

func newTestAircraft(id types.AircraftID, pos orb.Point, heading float64) *testAircraft {
	return &testAircraft{
		id:      id,
		pos:     pos,
		heading: heading,
		speed:   10,
		perf:    &traffic.Performance{TaxiSpeed: 15, Radius: 10},
	}
}

func (a *testAircraft) ID() types.AircraftID               { return a.id }
func (a *testAircraft) Callsign() string                   { return fmt.Sprintf("TST%d", a.id) }
func (a *testAircraft) Position() orb.Point                { return a.pos }
func (a *testAircraft) Heading() float64                   { return a.heading }
func (a *testAircraft) Speed() float64                     { return a.speed }
func (a *testAircraft) Altitude() float64                  { return 0 }
func (a *testAircraft) Performance() *traffic.Performance  { return a.perf }
func (a *testAircraft) Dead() bool                         { return a.dead }
func (a *testAircraft) TaxiClearanceRequest() bool         { return a.clearance }
func (a *testAircraft) SetTaxiClearanceRequest(b bool)     { a.clearance = b }
func (a *testAircraft) TakeOffStatus() types.TakeOffStatus { return a.takeOff }
func (a *testAircraft) IsUser() bool                       { return a.user }

type testNode struct {
	index int
	x, y  float64
}

func buildNetwork(t *testing.T, nodes []testNode, oneWay [][2]int) *groundnet.Network {
	t.Helper()
	n := groundnet.NewNetwork("TEST", nil)
	for _, tn := range nodes {
		if err := n.AddNode(groundnet.NewNode(tn.index, offset(tn.x, tn.y), false, 0)); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	for _, s := range oneWay {
		if err := n.AddSegment(s[0], s[1]); err != nil {
			t.Fatalf("AddSegment: %v", err)
		}
	}
	n.Init()
	return n
}

// lineNetwork is 1 -> 2 -> 3 -> 4 -> 5 along an east-west line, 50m apart.
// Segment i runs from node i to node i+1.
func lineNetwork(t *testing.T) *groundnet.Network {
	return buildNetwork(t,
		[]testNode{{1, 0, 0}, {2, 50, 0}, {3, 100, 0}, {4, 150, 0}, {5, 200, 0}},
		[][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 5}})
}

func newTestController(t *testing.T, n *groundnet.Network, opts ...Option) (*Controller, *radio.Log) {
	t.Helper()
	rl := radio.NewLog(100)
	opts = append([]Option{WithRadio(rl)}, opts...)
	return New(n, DefaultConfig(), opts...), rl
}

func kinds(msgs []radio.Message) []radio.Kind {
	var k []radio.Kind
	for _, m := range msgs {
		k = append(k, m.Kind)
	}
	return k
}
