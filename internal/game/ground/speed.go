package ground

import (
	"atc-ground/internal/game/conflict"
	"atc-ground/internal/game/traffic"

	"github.com/paulmach/orb/geo"
)

// Aircraft further away than this are never considered in conflict.
const MAX_CONFLICT_DISTANCE = 10000.0

// checkSpeedAdjustment slows rec down when the nearest aircraft ahead of it
// is in its way.
func (c *Controller) checkSpeedAdjustment(rec *traffic.Record) {
	c.adjustSpeed(rec)
	c.giveWay(rec)
}

func (c *Controller) adjustSpeed(rec *traffic.Record) {
	rec.Instruction.ClearSpeed()

	closest, closestOnNetwork := rec, rec
	minDist := MAX_CONFLICT_DISTANCE
	otherReasonToSlowDown := false

	for _, other := range c.active {
		if other == rec {
			continue
		}
		dist := geo.Distance(rec.Position, other.Position)
		if dist < minDist && conflict.IsAhead(rec.Position, rec.Heading, other.Position) {
			minDist = dist
			closest = other
			closestOnNetwork = other
		}
	}

	// The runway queue belongs to the tower, but we must not run into it.
	if c.tower != nil {
		for _, other := range c.tower.TowerTraffic() {
			if other.ID == rec.ID {
				continue
			}
			dist := geo.Distance(rec.Position, other.Position)
			if dist < minDist && conflict.IsAhead(rec.Position, rec.Heading, other.Position) {
				minDist = dist
				closest = other
				otherReasonToSlowDown = true
			}
		}
	}

	inTheWay := rec.CheckPositionAndIntentions(closest) || rec.IsOpposite(c.network, closest)
	if !inTheWay && !otherReasonToSlowDown {
		return
	}
	if minDist >= conflict.BrakingDistance(rec.Radius, closest.Radius) {
		return
	}
	if closest.WaitsForID == rec.ID {
		// It is already waiting for us; one of the two has to keep moving.
		return
	}

	rec.WaitsForID = closest.ID
	needBraking := false
	if closest.ID != rec.ID {
		rec.Instruction.SetSpeed(closest.Speed * minDist / 100)
		needBraking = true
	} else {
		rec.Instruction.ClearSpeed()
	}
	stop := minDist < conflict.StoppingDistance(rec.Radius, closest.Radius)
	if stop {
		rec.Instruction.SetSpeed(0)
	}

	// Of a braking pair on the same network, the aircraft processed first
	// keeps going and the other gives way once its own turn comes. A
	// candidate with nothing close ahead of it is leading, and a leader never
	// gives way to the aircraft behind it.
	if closest == closestOnNetwork && closest != rec && needBraking && !stop && rec.Priority < closest.Priority &&
		c.hasTrafficAhead(closest) {
		rec.Instruction.ClearSpeed()
		c.yielding[closest.ID] = rec.ID
	}
}

// hasTrafficAhead reports whether another aircraft is ahead of rec and
// close enough to make it brake.
func (c *Controller) hasTrafficAhead(rec *traffic.Record) bool {
	for _, other := range c.active {
		if other == rec {
			continue
		}
		if conflict.IsAhead(rec.Position, rec.Heading, other.Position) &&
			geo.Distance(rec.Position, other.Position) < conflict.BrakingDistance(rec.Radius, other.Radius) {
			return true
		}
	}
	return false
}

// giveWay brakes rec for an aircraft that was given right of way over it
// earlier in this tick, unless rec already has a speed restriction.
func (c *Controller) giveWay(rec *traffic.Record) {
	id, ok := c.yielding[rec.ID]
	if !ok || rec.Instruction.ChangeSpeed {
		return
	}
	other := c.findActive(id)
	if other == nil {
		return
	}
	rec.Instruction.SetSpeed(other.Speed * geo.Distance(rec.Position, other.Position) / 100)
}
