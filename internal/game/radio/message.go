package radio

import (
	"fmt"
	"time"

	"atc-ground/pkg/types"

	"github.com/google/uuid"
)

type Kind int

const (
	MSG_REQUEST_TAXI_CLEARANCE Kind = iota
	MSG_ISSUE_TAXI_CLEARANCE
	MSG_ACKNOWLEDGE_TAXI_CLEARANCE
	MSG_HOLD_POSITION
	MSG_ACKNOWLEDGE_HOLD_POSITION
	MSG_RESUME_TAXI
	MSG_ACKNOWLEDGE_RESUME_TAXI
	MSG_REPORT_RUNWAY_HOLD_SHORT
	MSG_ACKNOWLEDGE_REPORT_RUNWAY_HOLD_SHORT
	MSG_SWITCH_TOWER_FREQUENCY
	MSG_ACKNOWLEDGE_SWITCH_TOWER_FREQUENCY
)

var KindStringMap = map[Kind]string{
	MSG_REQUEST_TAXI_CLEARANCE:               "REQUEST_TAXI_CLEARANCE",
	MSG_ISSUE_TAXI_CLEARANCE:                 "ISSUE_TAXI_CLEARANCE",
	MSG_ACKNOWLEDGE_TAXI_CLEARANCE:           "ACKNOWLEDGE_TAXI_CLEARANCE",
	MSG_HOLD_POSITION:                        "HOLD_POSITION",
	MSG_ACKNOWLEDGE_HOLD_POSITION:            "ACKNOWLEDGE_HOLD_POSITION",
	MSG_RESUME_TAXI:                          "RESUME_TAXI",
	MSG_ACKNOWLEDGE_RESUME_TAXI:              "ACKNOWLEDGE_RESUME_TAXI",
	MSG_REPORT_RUNWAY_HOLD_SHORT:             "REPORT_RUNWAY_HOLD_SHORT",
	MSG_ACKNOWLEDGE_REPORT_RUNWAY_HOLD_SHORT: "ACKNOWLEDGE_REPORT_RUNWAY_HOLD_SHORT",
	MSG_SWITCH_TOWER_FREQUENCY:               "SWITCH_TOWER_FREQUENCY",
	MSG_ACKNOWLEDGE_SWITCH_TOWER_FREQUENCY:   "ACKNOWLEDGE_SWITCH_TOWER_FREQUENCY",
}

func (k Kind) String() string {
	if s, ok := KindStringMap[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Direction int

const (
	AIR_TO_GROUND Direction = iota
	GROUND_TO_AIR
)

func (d Direction) String() string {
	if d == AIR_TO_GROUND {
		return "AIR_TO_GROUND"
	}
	return "GROUND_TO_AIR"
}

// Message is one radio transmission on a ground frequency, ready for a
// voice or text presentation layer.
type Message struct {
	ID         uuid.UUID
	Timestamp  time.Time
	AircraftID types.AircraftID
	Callsign   string
	Station    string
	Kind       Kind
	Direction  Direction
	Text       string
	IsUrgent   bool
}

// NewMessage builds a message and renders its text. station is the ground
// station's name, e.g. "KSFO Ground".
func NewMessage(now time.Time, id types.AircraftID, callsign, station string, kind Kind, dir Direction) Message {
	return Message{
		ID:         uuid.New(),
		Timestamp:  now,
		AircraftID: id,
		Callsign:   callsign,
		Station:    station,
		Kind:       kind,
		Direction:  dir,
		Text:       render(callsign, station, kind),
		IsUrgent:   kind == MSG_HOLD_POSITION,
	}
}

func render(callsign, station string, kind Kind) string {
	switch kind {
	case MSG_REQUEST_TAXI_CLEARANCE:
		return fmt.Sprintf("%s, %s, request taxi", station, callsign)
	case MSG_ISSUE_TAXI_CLEARANCE:
		return fmt.Sprintf("%s, %s, taxi as filed", callsign, station)
	case MSG_ACKNOWLEDGE_TAXI_CLEARANCE:
		return fmt.Sprintf("Taxi as filed, %s", callsign)
	case MSG_HOLD_POSITION:
		return fmt.Sprintf("%s, hold position", callsign)
	case MSG_ACKNOWLEDGE_HOLD_POSITION:
		return fmt.Sprintf("Holding position, %s", callsign)
	case MSG_RESUME_TAXI:
		return fmt.Sprintf("%s, resume taxiing", callsign)
	case MSG_ACKNOWLEDGE_RESUME_TAXI:
		return fmt.Sprintf("Continuing taxi, %s", callsign)
	case MSG_REPORT_RUNWAY_HOLD_SHORT:
		return fmt.Sprintf("%s, %s, holding short of the runway", station, callsign)
	case MSG_ACKNOWLEDGE_REPORT_RUNWAY_HOLD_SHORT:
		return fmt.Sprintf("%s, roger, stand by for tower", callsign)
	case MSG_SWITCH_TOWER_FREQUENCY:
		return fmt.Sprintf("%s, contact tower", callsign)
	case MSG_ACKNOWLEDGE_SWITCH_TOWER_FREQUENCY:
		return fmt.Sprintf("Over to tower, %s", callsign)
	default:
		return fmt.Sprintf("%s, %s", callsign, kind)
	}
}

// Sink receives transmissions as they are keyed.
type Sink interface {
	Transmit(msg Message)
}

// Discard drops every transmission.
var Discard Sink = discard{}

type discard struct{}

func (discard) Transmit(Message) {}
