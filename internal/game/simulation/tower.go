package simulation

import (
	"slices"
	"time"

	"atc-ground/internal/game/aircraft"
	"atc-ground/internal/game/airspace"
	"atc-ground/internal/game/traffic"
	"atc-ground/pkg/types"

	"github.com/labstack/gommon/log"
)

// Minimum time between two take-off clearances on the same runway.
const TAKEOFF_INTERVAL = 60 * time.Second

// tower owns the departures handed off by ground control until they are
// airborne. Taxiing traffic keeps clear of them through TowerTraffic.
type tower struct {
	airport string
	runway  *airspace.Runway
	lg      *log.Logger

	queue         []*aircraft.Aircraft
	records       map[types.AircraftID]*traffic.Record
	lastClearance time.Time
}

func newTower(airport string, runway *airspace.Runway, lg *log.Logger) *tower {
	return &tower{
		airport: airport,
		runway:  runway,
		lg:      lg,
		records: make(map[types.AircraftID]*traffic.Record),
	}
}

func (t *tower) TowerTraffic() []*traffic.Record {
	recs := make([]*traffic.Record, 0, len(t.queue))
	for _, ac := range t.queue {
		recs = append(recs, t.records[ac.ID()])
	}
	return recs
}

func (t *tower) has(id types.AircraftID) bool {
	_, ok := t.records[id]
	return ok
}

func (t *tower) add(ac *aircraft.Aircraft) {
	if t.has(ac.ID()) {
		return
	}
	rec := traffic.NewRecord(ac)
	rec.SetPositionAndIntentions(ac.CurrentSegment(), ac.Intentions())
	t.queue = append(t.queue, ac)
	t.records[ac.ID()] = rec
	t.lg.Infof("%s: %s holding short of runway %s, %d in queue", t.airport, ac.Callsign(), t.runway.Name, len(t.queue))
}

// rolling reports whether a departure has been cleared and has not left yet.
func (t *tower) rolling() bool {
	return slices.ContainsFunc(t.queue, func(ac *aircraft.Aircraft) bool {
		return ac.TakeOffStatus() == types.TAKEOFF_CLEARED
	})
}

// update drops departed aircraft, refreshes the records the ground controller
// sees and clears the next departure when the runway is free. It returns the
// number of aircraft that left.
func (t *tower) update(now time.Time, runwayBusy bool) int {
	departed := 0
	t.queue = slices.DeleteFunc(t.queue, func(ac *aircraft.Aircraft) bool {
		if !ac.Dead() {
			return false
		}
		delete(t.records, ac.ID())
		if ac.State == aircraft.DEPARTED {
			departed++
			t.lg.Infof("%s: %s departed runway %s", t.airport, ac.Callsign(), t.runway.Name)
		}
		return true
	})

	for _, ac := range t.queue {
		rec := t.records[ac.ID()]
		rec.Refresh()
		rec.SetPositionAndIntentions(ac.CurrentSegment(), ac.Intentions())
	}

	if len(t.queue) == 0 || runwayBusy || t.rolling() || now.Sub(t.lastClearance) < TAKEOFF_INTERVAL {
		return departed
	}
	next := t.queue[0]
	if next.State != aircraft.HOLDING {
		return departed
	}
	next.ClearForTakeOff(t.runway.Heading)
	t.lastClearance = now
	t.lg.Infof("%s: %s cleared for take-off runway %s", t.airport, next.Callsign(), t.runway.Name)
	return departed
}

// clear lets an aircraft in the queue go at once, ahead of its turn.
func (t *tower) clear(id types.AircraftID, now time.Time) bool {
	for _, ac := range t.queue {
		if ac.ID() == id && ac.State == aircraft.HOLDING {
			ac.ClearForTakeOff(t.runway.Heading)
			t.lastClearance = now
			return true
		}
	}
	return false
}
