package traffic

import (
	"fmt"
	"slices"

	"atc-ground/internal/game/groundnet"
	"atc-ground/pkg/types"

	"github.com/paulmach/orb"
)

type MessageState int

const (
	NORMAL MessageState = iota
	ACK_HOLD
	ACK_RESUME_TAXI
	REPORT_RUNWAY
	ACK_REPORT_RUNWAY
	SWITCH_GROUND_TOWER
	ACK_SWITCH_GROUND_TOWER
	TAXI_CLEARED
	ACK_TAXI_CLEARED
	START_TAXI
)

var StateStringMap = map[MessageState]string{
	NORMAL:                  "NORMAL",
	ACK_HOLD:                "ACK_HOLD",
	ACK_RESUME_TAXI:         "ACK_RESUME_TAXI",
	REPORT_RUNWAY:           "REPORT_RUNWAY",
	ACK_REPORT_RUNWAY:       "ACK_REPORT_RUNWAY",
	SWITCH_GROUND_TOWER:     "SWITCH_GROUND_TOWER",
	ACK_SWITCH_GROUND_TOWER: "ACK_SWITCH_GROUND_TOWER",
	TAXI_CLEARED:            "TAXI_CLEARED",
	ACK_TAXI_CLEARED:        "ACK_TAXI_CLEARED",
	START_TAXI:              "START_TAXI",
}

func (s MessageState) String() string {
	if str, ok := StateStringMap[s]; ok {
		return str
	}
	return fmt.Sprintf("MessageState(%d)", int(s))
}

// Instruction is what the ground controller currently wants an aircraft to
// do. Speed is only meaningful when ChangeSpeed is set.
type Instruction struct {
	ChangeSpeed         bool
	Speed               float64 // knots
	HoldPosition        bool
	ResolveCircularWait bool
}

func (i *Instruction) SetSpeed(kts float64) {
	i.ChangeSpeed = true
	i.Speed = kts
}

func (i *Instruction) ClearSpeed() {
	i.ChangeSpeed = false
	i.Speed = 0
}

// Record is the controller's view of one aircraft on its ground network.
type Record struct {
	ID       types.AircraftID
	Callsign string

	Position orb.Point
	Heading  float64
	Speed    float64
	Altitude float64
	Radius   float64

	// CurrentPosition is the segment the aircraft occupies, 0 when it is not
	// on the network yet. Intentions are the segments it will use next, in
	// order.
	CurrentPosition int
	Intentions      []int
	Leg             types.Leg

	Priority    int
	Instruction Instruction
	WaitsForID  types.AircraftID
	State       MessageState

	PushBackAllowed bool
	HandedOff       bool

	aircraft Aircraft
}

func NewRecord(ac Aircraft) *Record {
	r := &Record{
		ID:       ac.ID(),
		Callsign: ac.Callsign(),
		aircraft: ac,
	}
	r.Refresh()
	return r
}

func (r *Record) Aircraft() Aircraft {
	return r.aircraft
}

// Refresh copies the kinematics from the aircraft.
func (r *Record) Refresh() {
	ac := r.aircraft
	r.SetPositionAndHeading(ac.Position(), ac.Heading(), ac.Speed(), ac.Altitude())
	if perf := ac.Performance(); perf != nil {
		r.Radius = perf.Radius
	}
}

func (r *Record) SetPositionAndHeading(pos orb.Point, heading, speed, altitude float64) {
	r.Position = pos
	r.Heading = heading
	r.Speed = speed
	r.Altitude = altitude
}

// SetPositionAndIntentions records the current segment and replaces the
// planned segments. A non-empty intention list that already starts with the
// current segment is trimmed so that it only holds what lies ahead.
func (r *Record) SetPositionAndIntentions(current int, intentions []int) {
	r.CurrentPosition = current
	r.Intentions = slices.Clone(intentions)
	if len(r.Intentions) > 0 && r.Intentions[0] == current {
		r.Intentions = r.Intentions[1:]
	}
}

// CheckPositionAndIntentions reports whether other is in our way: it is on
// our segment, or on a segment we intend to use.
func (r *Record) CheckPositionAndIntentions(other *Record) bool {
	if other.CurrentPosition == 0 {
		return false
	}
	if r.CurrentPosition == other.CurrentPosition {
		return true
	}
	return slices.Contains(r.Intentions, other.CurrentPosition)
}

// IsOpposite reports whether other is on the reverse of our current segment
// or of a segment we intend to use, i.e. taxiing towards us.
func (r *Record) IsOpposite(net *groundnet.Network, other *Record) bool {
	if other.CurrentPosition == 0 {
		return false
	}
	opp := net.FindOppositeSegment(other.CurrentPosition)
	if opp == nil {
		return false
	}
	return opp.Index == r.CurrentPosition || slices.Contains(r.Intentions, opp.Index)
}

// Status returns the record's plain data. Intentions is shared with the
// record.
func (r *Record) Status() Status {
	return Status{
		ID:              r.ID,
		Callsign:        r.Callsign,
		Position:        r.Position,
		Heading:         r.Heading,
		Speed:           r.Speed,
		Altitude:        r.Altitude,
		CurrentPosition: r.CurrentPosition,
		Intentions:      r.Intentions,
		Leg:             r.Leg,
		Priority:        r.Priority,
		Instruction:     r.Instruction,
		WaitsForID:      r.WaitsForID,
		State:           r.State,
		PushBackAllowed: r.PushBackAllowed,
		HandedOff:       r.HandedOff,
	}
}

// Status is the presentation view of a Record.
type Status struct {
	ID              types.AircraftID
	Callsign        string
	Position        orb.Point
	Heading         float64
	Speed           float64
	Altitude        float64
	CurrentPosition int
	Intentions      []int
	Leg             types.Leg
	Priority        int
	Instruction     Instruction
	WaitsForID      types.AircraftID
	State           MessageState
	PushBackAllowed bool
	HandedOff       bool
}
