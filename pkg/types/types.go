package types

import "math"

// AircraftID identifies a simulated aircraft for its whole lifetime. The zero
// value means "nobody".
type AircraftID int

const NoAircraft AircraftID = 0

const (
	KNOTS_TO_MPS = 1852.0 / 3600.0
	MPS_TO_KNOTS = 3600.0 / 1852.0
)

// Leg is the phase of a ground movement.
type Leg int

const (
	LEG_PUSHBACK Leg = iota
	LEG_TAXI_OUT
	LEG_TAXI_IN
	LEG_RUNWAY
)

var LegStringMap = map[Leg]string{
	LEG_PUSHBACK: "PUSHBACK",
	LEG_TAXI_OUT: "TAXI_OUT",
	LEG_TAXI_IN:  "TAXI_IN",
	LEG_RUNWAY:   "RUNWAY",
}

func (l Leg) String() string {
	if s, ok := LegStringMap[l]; ok {
		return s
	}
	return "UNKNOWN"
}

// TakeOffStatus is reported by the aircraft's owner; the ground controller
// never decides runway clearance itself.
type TakeOffStatus int

const (
	TAKEOFF_NONE TakeOffStatus = iota
	TAKEOFF_QUEUED
	TAKEOFF_CLEARED
)

// NormalizeHeading maps h into [0, 360).
func NormalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// HeadingDifference returns the absolute angle between two headings, in
// [0, 180].
func HeadingDifference(a, b float64) float64 {
	d := math.Abs(NormalizeHeading(a) - NormalizeHeading(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
