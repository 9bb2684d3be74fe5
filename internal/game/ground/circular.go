package ground

import "atc-ground/pkg/types"

// CheckForCircularWaits follows the waits-for chain starting at id and
// reports whether it leads back to id through other aircraft. The walk is
// bounded by the number of active aircraft.
func (c *Controller) CheckForCircularWaits(id types.AircraftID) bool {
	if len(c.active) == 0 {
		return false
	}
	current := c.findActive(id)
	if current == nil {
		c.lg.Errorf("%s: checking circular waits for aircraft %d that is not taxiing", c.Airport(), id)
		return false
	}

	target := current.WaitsForID
	// Waiting for ourselves means waiting for the user aircraft.
	if target == id {
		return false
	}

	for counter := 0; target > 0 && target != id && counter < len(c.active); counter++ {
		other := c.findActive(target)
		if other == nil {
			// Left the network, probably at the tower by now.
			return false
		}
		target = other.WaitsForID
		if other.ID == current.ID {
			return false
		}
	}

	if target == id {
		c.lg.Debugf("%s: circular wait detected for %s (%d)", c.Airport(), current.Callsign, id)
		return true
	}
	return false
}
