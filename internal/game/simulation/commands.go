package simulation

import (
	"fmt"
	"strconv"
	"strings"

	"atc-ground/internal/game/aircraft"
	"atc-ground/pkg/types"
)

// ExecuteCommand runs one operator command of the form
// "[<Callsign>] <Command> [<Value>]". Without a callsign the command goes to
// the selected aircraft; a callsign on its own selects that aircraft.
func (s *Simulation) ExecuteCommand(cmd string) error {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return fmt.Errorf("invalid command format: %q, expected: [<Callsign>] <Command> [<Value>]", cmd)
	}

	aircraftID := s.selected
	if ac := s.findByCallsign(parts[0]); ac != nil {
		aircraftID = ac.ID()
		parts = parts[1:]
	}
	if aircraftID == types.NoAircraft {
		return ErrNoSelection
	}
	if len(parts) == 0 {
		s.selected = aircraftID
		s.lg.Infof("Selected aircraft: %s", s.Aircrafts[aircraftID].Callsign())
		return nil
	}

	commandType := strings.ToUpper(parts[0])
	var valueStr string
	if len(parts) > 1 {
		valueStr = parts[1]
	}

	switch commandType {
	case "S", "SPD", "SPEED":
		if strings.EqualFold(valueStr, "OFF") {
			return s.IssueSpeed(aircraftID, aircraft.NO_SPEED_LIMIT)
		}
		speed, err := strconv.ParseFloat(valueStr, 64)
		if err != nil || speed < 0 {
			return fmt.Errorf("invalid speed value: %q, must be positive or OFF", valueStr)
		}
		return s.IssueSpeed(aircraftID, speed)
	case "K", "KEY":
		return s.IssueKeyTransmission(aircraftID)
	case "U", "USER":
		user := !strings.EqualFold(valueStr, "OFF")
		return s.SetUserAircraft(aircraftID, user)
	case "TO", "TAKEOFF":
		return s.IssueTakeOffClearance(aircraftID)
	case "X", "DEL":
		return s.RemoveAircraft(aircraftID)
	default:
		return fmt.Errorf("unknown command type: %s", commandType)
	}
}

func (s *Simulation) findByCallsign(callsign string) *aircraft.Aircraft {
	for _, ac := range s.Aircrafts {
		if strings.EqualFold(ac.Callsign(), callsign) {
			return ac
		}
	}
	return nil
}

// IssueSpeed limits an aircraft's taxi speed. A negative speed lifts the
// limit.
func (s *Simulation) IssueSpeed(aircraftID types.AircraftID, speed float64) error {
	if ac, ok := s.Aircrafts[aircraftID]; ok {
		if speed < 0 {
			ac.ClearSpeedLimit()
			s.lg.Infof("Lifted speed limit of %s", ac.Callsign())
			return nil
		}
		ac.SetSpeedLimit(speed)
		s.lg.Infof("Issued S %.0f to %s", speed, ac.Callsign())
		return nil
	}
	return fmt.Errorf("aircraft %d not found", aircraftID)
}

// IssueKeyTransmission sends the pending call of a user aircraft.
func (s *Simulation) IssueKeyTransmission(aircraftID types.AircraftID) error {
	ap := s.airportOf(aircraftID)
	if ap == nil {
		return fmt.Errorf("aircraft %d not found", aircraftID)
	}
	ap.ground.KeyTransmission(aircraftID)
	return nil
}

// SetUserAircraft hands an aircraft's radio calls to the operator, or back.
func (s *Simulation) SetUserAircraft(aircraftID types.AircraftID, user bool) error {
	if ac, ok := s.Aircrafts[aircraftID]; ok {
		ac.SetUser(user)
		s.lg.Infof("%s user controlled: %v", ac.Callsign(), user)
		return nil
	}
	return fmt.Errorf("aircraft %d not found", aircraftID)
}

// IssueTakeOffClearance clears an aircraft waiting at the runway for
// take-off ahead of the tower's own sequence.
func (s *Simulation) IssueTakeOffClearance(aircraftID types.AircraftID) error {
	ap := s.airportOf(aircraftID)
	if ap == nil {
		return fmt.Errorf("aircraft %d not found", aircraftID)
	}
	if !ap.tower.clear(aircraftID, s.TimeOfDay) {
		return fmt.Errorf("%s is not holding short of runway %s", s.Aircrafts[aircraftID].Callsign(), ap.runway.Name)
	}
	s.lg.Infof("Issued TO to %s", s.Aircrafts[aircraftID].Callsign())
	return nil
}

// RemoveAircraft takes an aircraft out of the simulation.
func (s *Simulation) RemoveAircraft(aircraftID types.AircraftID) error {
	ac, ok := s.Aircrafts[aircraftID]
	if !ok {
		return fmt.Errorf("aircraft %d not found", aircraftID)
	}
	if ap := s.airportOf(aircraftID); ap != nil && ap.ground.Record(aircraftID) != nil {
		ap.ground.SignOff(aircraftID)
	}
	ac.Kill()
	s.lg.Infof("Removed %s", ac.Callsign())
	return nil
}
