package conflict

import (
	"math"
	"testing"

	"atc-ground/internal/game/traffic"
	"atc-ground/pkg/types"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

type movingAircraft struct {
	pos     orb.Point
	heading float64
	speed   float64
	radius  float64
}

func (a *movingAircraft) ID() types.AircraftID               { return 1 }
func (a *movingAircraft) Callsign() string                   { return "TST1" }
func (a *movingAircraft) Position() orb.Point                { return a.pos }
func (a *movingAircraft) Heading() float64                   { return a.heading }
func (a *movingAircraft) Speed() float64                     { return a.speed }
func (a *movingAircraft) Altitude() float64                  { return 0 }
func (a *movingAircraft) Performance() *traffic.Performance  { return &traffic.Performance{Radius: a.radius} }
func (a *movingAircraft) Dead() bool                         { return false }
func (a *movingAircraft) TaxiClearanceRequest() bool         { return false }
func (a *movingAircraft) SetTaxiClearanceRequest(bool)       {}
func (a *movingAircraft) TakeOffStatus() types.TakeOffStatus { return types.TAKEOFF_NONE }
func (a *movingAircraft) IsUser() bool                       { return false }

var origin = orb.Point{8.5, 47.45}

func east(m float64) orb.Point {
	return geo.PointAtBearingAndDistance(origin, 90, m)
}

func TestRelativeBearing(t *testing.T) {
	tests := []struct {
		heading float64
		expect  float64
		ahead   bool
	}{
		{90, 0, true},
		{135, 45, true},
		{20, 70, false},
		{270, 180, false},
	}
	for _, tt := range tests {
		got := RelativeBearing(origin, tt.heading, east(100))
		if math.Abs(got-tt.expect) > 0.5 {
			t.Errorf("heading %.0f: relative bearing %.2f, expected %.0f", tt.heading, got, tt.expect)
		}
		if a := IsAhead(origin, tt.heading, east(100)); a != tt.ahead {
			t.Errorf("heading %.0f: IsAhead %v", tt.heading, a)
		}
	}
}

func TestIsAheadBoundary(t *testing.T) {
	// Due north of origin, so the bearing is exactly 0.
	north := orb.Point{origin.Lon(), origin.Lat() + 0.001}
	tests := map[float64]bool{60: true, 300: true, 60.5: false, 299.5: false}
	for heading, ahead := range tests {
		if a := IsAhead(origin, heading, north); a != ahead {
			t.Errorf("heading %.1f: IsAhead %v, expected %v", heading, a, ahead)
		}
	}
}

func TestSeparationThresholds(t *testing.T) {
	if d := BrakingDistance(10, 20); math.Abs(d-66) > 1e-9 {
		t.Errorf("braking distance %f", d)
	}
	if d := StoppingDistance(10, 20); math.Abs(d-33) > 1e-9 {
		t.Errorf("stopping distance %f", d)
	}
	if StoppingDistance(10, 20) >= BrakingDistance(10, 20) {
		t.Errorf("stopping distance must lie inside braking distance")
	}
}

func TestCheckSeparation(t *testing.T) {
	a := &movingAircraft{pos: origin, radius: 20}
	b := &movingAircraft{pos: east(30), radius: 20}
	if !CheckSeparation(a, b) {
		t.Errorf("30m apart with 40m combined radius should conflict")
	}
	b.pos = east(50)
	if CheckSeparation(a, b) {
		t.Errorf("50m apart with 40m combined radius should not conflict")
	}
}

func TestPredictConflict(t *testing.T) {
	// Head-on, 400m apart, both at 10 kts: they meet after ~39s.
	a := &movingAircraft{pos: origin, heading: 90, speed: 10, radius: 15}
	b := &movingAircraft{pos: east(400), heading: 270, speed: 10, radius: 15}

	if c, _, _ := PredictConflict(a, b, 10); c {
		t.Errorf("no conflict expected after 10s")
	}
	c, p1, p2 := PredictConflict(a, b, 38)
	if !c {
		t.Fatalf("conflict expected after 38s")
	}
	if d := geo.Distance(p1, p2); d >= 30 {
		t.Errorf("projected positions %f apart", d)
	}
}
