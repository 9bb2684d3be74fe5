package ground

import (
	"time"

	"atc-ground/internal/game/radio"
	"atc-ground/internal/game/traffic"
	"atc-ground/pkg/types"

	"github.com/paulmach/orb/geo"
)

// checkHoldPosition works out whether rec has to hold short of a reserved
// segment and runs the hold, resume-taxi and runway hand-off exchanges. A
// changed hold decision only takes effect once the pilot has read it back.
func (c *Controller) checkHoldPosition(rec *traffic.Record, now time.Time) {
	status := rec.Aircraft().TakeOffStatus()
	if status == types.TAKEOFF_CLEARED {
		rec.Instruction.HoldPosition = false
		rec.Instruction.ClearSpeed()
		return
	}

	if now.Sub(c.lastTransmission) > c.cfg.HoldCooldown {
		c.available = true
	}

	if status == types.TAKEOFF_QUEUED {
		rec.Instruction.HoldPosition = true
	} else {
		origStatus := rec.Instruction.HoldPosition
		currStatus := c.mustHold(rec, now)
		if rec.State == traffic.NORMAL && origStatus != currStatus && c.available {
			if currStatus {
				c.transmit(rec, radio.MSG_HOLD_POSITION, radio.GROUND_TO_AIR, now)
				rec.State = traffic.ACK_HOLD
			} else {
				c.transmit(rec, radio.MSG_RESUME_TAXI, radio.GROUND_TO_AIR, now)
				rec.State = traffic.ACK_RESUME_TAXI
			}
			c.lastTransmission = now
			c.available = false
		}
	}

	if c.checkTransmissionState(rec, traffic.ACK_HOLD, traffic.NORMAL, now,
		radio.MSG_ACKNOWLEDGE_HOLD_POSITION, radio.AIR_TO_GROUND) {
		rec.Instruction.HoldPosition = true
		if c.metrics != nil {
			c.metrics.HoldsIssuedTotal.WithLabelValues(c.Airport()).Inc()
		}
	}
	if c.checkTransmissionState(rec, traffic.ACK_RESUME_TAXI, traffic.NORMAL, now,
		radio.MSG_ACKNOWLEDGE_RESUME_TAXI, radio.AIR_TO_GROUND) {
		rec.Instruction.HoldPosition = false
	}

	if status != types.TAKEOFF_QUEUED {
		return
	}
	rec.Instruction.HoldPosition = true
	if rec.State == traffic.NORMAL && !rec.HandedOff {
		rec.State = traffic.REPORT_RUNWAY
	}
	c.checkTransmissionState(rec, traffic.REPORT_RUNWAY, traffic.ACK_REPORT_RUNWAY, now,
		radio.MSG_REPORT_RUNWAY_HOLD_SHORT, radio.AIR_TO_GROUND)
	c.checkTransmissionState(rec, traffic.ACK_REPORT_RUNWAY, traffic.SWITCH_GROUND_TOWER, now,
		radio.MSG_ACKNOWLEDGE_REPORT_RUNWAY_HOLD_SHORT, radio.GROUND_TO_AIR)
	c.checkTransmissionState(rec, traffic.SWITCH_GROUND_TOWER, traffic.ACK_SWITCH_GROUND_TOWER, now,
		radio.MSG_SWITCH_TOWER_FREQUENCY, radio.GROUND_TO_AIR)
	if c.checkTransmissionState(rec, traffic.ACK_SWITCH_GROUND_TOWER, traffic.NORMAL, now,
		radio.MSG_ACKNOWLEDGE_SWITCH_TOWER_FREQUENCY, radio.AIR_TO_GROUND) {
		rec.HandedOff = true
		c.lg.Infof("%s: %s handed off to tower", c.Airport(), rec.Callsign)
	}
}

// mustHold reports whether a reserved segment starts within reach ahead of
// rec: the next segment, or any later one on its route.
func (c *Controller) mustHold(rec *traffic.Record, now time.Time) bool {
	cur := c.network.FindSegment(rec.CurrentPosition)
	if cur == nil {
		return false
	}
	next := cur
	if len(rec.Intentions) > 0 {
		if seg := c.network.FindSegment(rec.Intentions[0]); seg != nil {
			next = seg
		}
	}

	limit := rec.Radius * c.cfg.HoldDistanceFactor
	distance := geo.Distance(rec.Position, next.StartNode().Position)
	if next.HasBlock(now) && distance < limit {
		return true
	}
	for _, idx := range rec.Intentions {
		seg := c.network.FindSegment(idx)
		if seg == nil {
			continue
		}
		distance += seg.Length()
		if seg.HasBlock(now) && distance < limit {
			return true
		}
	}
	return false
}

// checkTaxiClearance runs the taxi clearance exchange for an aircraft that
// asked for one. It holds until the clearance has been read back.
func (c *Controller) checkTaxiClearance(rec *traffic.Record, now time.Time) {
	rec.Instruction.HoldPosition = true
	state := rec.State

	if now.Sub(c.lastTransmission) > c.cfg.TaxiClearanceCooldown {
		c.available = true
	}

	c.checkTransmissionState(rec, traffic.NORMAL, traffic.TAXI_CLEARED, now,
		radio.MSG_REQUEST_TAXI_CLEARANCE, radio.AIR_TO_GROUND)
	c.checkTransmissionState(rec, traffic.TAXI_CLEARED, traffic.ACK_TAXI_CLEARED, now,
		radio.MSG_ISSUE_TAXI_CLEARANCE, radio.GROUND_TO_AIR)
	c.checkTransmissionState(rec, traffic.ACK_TAXI_CLEARED, traffic.START_TAXI, now,
		radio.MSG_ACKNOWLEDGE_TAXI_CLEARANCE, radio.AIR_TO_GROUND)

	if state == traffic.START_TAXI && c.available {
		rec.State = traffic.NORMAL
		rec.Aircraft().SetTaxiClearanceRequest(false)
		rec.Instruction.HoldPosition = false
		c.available = false
	}
}

// checkTransmissionState sends one call of an exchange if rec is in the
// required state and the frequency is free, and moves rec to next. Calls
// from the user aircraft wait until the user keys them.
func (c *Controller) checkTransmissionState(rec *traffic.Record, required, next traffic.MessageState,
	now time.Time, kind radio.Kind, dir radio.Direction) bool {
	if rec.State != required || !c.available {
		return false
	}
	if dir == radio.AIR_TO_GROUND && rec.Aircraft().IsUser() {
		if !c.userKeyed[rec.ID] {
			return false
		}
		delete(c.userKeyed, rec.ID)
	}

	c.transmit(rec, kind, dir, now)
	rec.State = next
	c.lastTransmission = now
	c.available = false
	return true
}

func (c *Controller) transmit(rec *traffic.Record, kind radio.Kind, dir radio.Direction, now time.Time) {
	msg := radio.NewMessage(now, rec.ID, rec.Callsign, c.station, kind, dir)
	c.radio.Transmit(msg)
	c.lg.Debugf("%s: [%s] %s", c.Airport(), dir, msg.Text)
	if c.metrics != nil {
		c.metrics.TransmissionsTotal.WithLabelValues(c.Airport(), kind.String()).Inc()
	}
}
