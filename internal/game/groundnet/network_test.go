package groundnet

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

var testOrigin = orb.Point{-122.0, 37.0}

// offset returns the point x meters east and y meters north of testOrigin.
func offset(x, y float64) orb.Point {
	rad := math.Pi / 180
	lon := testOrigin.Lon() + x/(orb.EarthRadius*math.Cos(testOrigin.Lat()*rad))/rad
	lat := testOrigin.Lat() + y/orb.EarthRadius/rad
	return orb.Point{lon, lat}
}

type testRunway struct {
	ident     string
	heading   float64
	threshold orb.Point
	end       orb.Point
}

func (r testRunway) Ident() string        { return r.ident }
func (r testRunway) HeadingDeg() float64  { return r.heading }
func (r testRunway) Threshold() orb.Point { return r.threshold }
func (r testRunway) End() orb.Point       { return r.end }

type nodeSpec struct {
	index    int
	x, y     float64
	onRunway bool
	parking  bool
}

func buildNetwork(t *testing.T, nodes []nodeSpec, oneWay [][2]int, twoWay [][2]int) *Network {
	t.Helper()
	n := NewNetwork("TEST", nil)
	for _, ns := range nodes {
		var node *Node
		if ns.parking {
			node = NewParking(ns.index, offset(ns.x, ns.y), Parking{Name: "P"})
		} else {
			node = NewNode(ns.index, offset(ns.x, ns.y), ns.onRunway, 0)
		}
		if err := n.AddNode(node); err != nil {
			t.Fatalf("AddNode(%d): %v", ns.index, err)
		}
	}
	for _, s := range oneWay {
		if err := n.AddSegment(s[0], s[1]); err != nil {
			t.Fatalf("AddSegment(%d, %d): %v", s[0], s[1], err)
		}
	}
	for _, s := range twoWay {
		if err := n.AddTwoWaySegment(s[0], s[1]); err != nil {
			t.Fatalf("AddTwoWaySegment(%d, %d): %v", s[0], s[1], err)
		}
	}
	n.Init()
	return n
}

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	f()
}

func TestAddNodeAndSegmentErrors(t *testing.T) {
	n := NewNetwork("TEST", nil)
	if err := n.AddNode(NewNode(1, offset(0, 0), false, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := n.AddNode(NewNode(1, offset(10, 0), false, 0)); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("expected ErrDuplicateNode, got %v", err)
	}
	if err := n.AddSegment(1, 7); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
}

func TestInitInvariants(t *testing.T) {
	n := NewNetwork("TEST", nil)
	n.AddNode(NewNode(1, offset(0, 0), false, 0))
	n.AddNode(NewNode(2, offset(100, 0), false, 0))
	n.AddSegment(1, 2)

	expectPanic(t, "FindSegment before Init", func() { n.FindSegment(1) })
	expectPanic(t, "FindShortestRoute before Init", func() {
		n.FindShortestRoute(n.FindNode(1), n.FindNode(2), true)
	})

	n.Init()
	expectPanic(t, "second Init", func() { n.Init() })
	expectPanic(t, "AddNode after Init", func() { n.AddNode(NewNode(3, offset(0, 0), false, 0)) })
	expectPanic(t, "AddSegment after Init", func() { n.AddSegment(2, 1) })
}

func TestFindSegment(t *testing.T) {
	n := buildNetwork(t, []nodeSpec{
		{index: 10, x: 0}, {index: 20, x: 100}, {index: 30, x: 200},
	}, [][2]int{{10, 20}, {20, 30}}, nil)

	if s := n.FindSegment(0); s != nil {
		t.Errorf("index 0 should not resolve, got %d", s.Index)
	}
	if s := n.FindSegment(3); s != nil {
		t.Errorf("index past the end should not resolve, got %d", s.Index)
	}
	s := n.FindSegment(2)
	if s == nil || s.Start != 20 || s.End != 30 {
		t.Fatalf("FindSegment(2) = %+v", s)
	}
	if l := s.Length(); math.Abs(l-100) > 0.5 {
		t.Errorf("segment length %f, expected ~100", l)
	}
	if h := s.Heading(); math.Abs(h-90) > 0.1 {
		t.Errorf("segment heading %f, expected ~90", h)
	}

	if s := n.FindSegmentBetween(n.FindNode(20), nil); s == nil || s.Index != 2 {
		t.Errorf("FindSegmentBetween(20, nil) = %v", s)
	}
	if s := n.FindSegmentBetween(n.FindNode(10), n.FindNode(30)); s != nil {
		t.Errorf("no segment joins 10 and 30, got %d", s.Index)
	}
	if s := n.FindSegmentBetween(nil, n.FindNode(30)); s != nil {
		t.Errorf("nil start should give nil")
	}

	from := n.FindSegmentsFrom(n.FindNode(20))
	if len(from) != 1 || from[0].Index != 2 {
		t.Errorf("FindSegmentsFrom(20) = %v", from)
	}
}

func TestOppositeSegmentRoundTrip(t *testing.T) {
	n := buildNetwork(t, []nodeSpec{
		{index: 1, x: 0}, {index: 2, x: 100}, {index: 3, x: 200}, {index: 4, x: 200, y: 100},
	}, [][2]int{{3, 4}}, [][2]int{{1, 2}, {2, 3}})

	for _, s := range n.Segments() {
		opp := n.FindOppositeSegment(s.Index)
		if s.Start == 3 && s.End == 4 {
			if opp != nil {
				t.Errorf("one-way segment %d has opposite %d", s.Index, opp.Index)
			}
			continue
		}
		if opp == nil {
			t.Fatalf("segment %d has no opposite", s.Index)
		}
		if opp.Start != s.End || opp.End != s.Start {
			t.Errorf("segment %d: opposite %d does not reverse it", s.Index, opp.Index)
		}
		if back := n.FindOppositeSegment(opp.Index); back != s {
			t.Errorf("segment %d: opposite of opposite is %v", s.Index, back)
		}
	}
}

type countingElevation struct {
	calls int
}

func (c *countingElevation) Elevation(p orb.Point) (float64, bool) {
	c.calls++
	return 12.5, true
}

func TestNodeElevationIsCached(t *testing.T) {
	node := NewNode(1, offset(0, 0), false, 0)
	ep := &countingElevation{}
	for range 3 {
		if e := node.Elevation(ep); e != 12.5 {
			t.Errorf("elevation %f, expected 12.5", e)
		}
	}
	if ep.calls != 1 {
		t.Errorf("provider consulted %d times, expected once", ep.calls)
	}
}
