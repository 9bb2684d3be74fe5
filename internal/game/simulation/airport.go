package simulation

import (
	"fmt"
	"time"

	"atc-ground/internal/game/aircraft"
	"atc-ground/internal/game/airspace"
	"atc-ground/internal/game/conflict"
	"atc-ground/internal/game/flightplan"
	"atc-ground/internal/game/ground"
	"atc-ground/internal/game/groundnet"
	"atc-ground/internal/game/traffic"
	"atc-ground/internal/metrics"
	"atc-ground/pkg/types"

	"github.com/labstack/gommon/log"
	"github.com/paulmach/orb/geo"
)

// Aircraft predicted to come this close within PREDICTION_SECONDS are logged.
const PREDICTION_SECONDS = 10.0

// airportState is everything one airport ticks on its own. Nothing in here
// is shared with another airport.
type airportState struct {
	airport *airspace.Airport
	runway  *airspace.Runway
	ground  *ground.Controller
	tower   *tower
	lg      *log.Logger
	metrics *metrics.Registry

	aircraft  []*aircraft.Aircraft
	stands    map[int]types.AircraftID // parking node -> aircraft using it
	lastSpawn time.Time
}

// tickResult is what one airport reports back from a tick.
type tickResult struct {
	handOffs   int
	departures int
	arrivals   int
	conflicts  int
}

func (ap *airportState) net() *groundnet.Network {
	return ap.airport.Ground
}

func (ap *airportState) update(now time.Time, dt float64) tickResult {
	var res tickResult

	for _, ac := range ap.aircraft {
		if ac.Dead() || ap.tower.has(ac.ID()) || ac.Plan() == nil {
			continue
		}
		ap.ground.AnnouncePosition(ac, ac.CurrentSegment(), ac.Intentions(), ap.leg(ac))
	}
	ap.ground.Update(now)
	res.departures = ap.tower.update(now, ap.runwayBusy())

	for _, ac := range ap.aircraft {
		if ac.Dead() {
			continue
		}
		ac.Update(dt, ap.instruction(ac))

		switch ac.State {
		case aircraft.READY_TO_TAXI:
			ap.releaseStand(ac.ID())
			if err := ap.planTaxiOut(ac); err != nil {
				ap.lg.Warnf("%s: %s: %v", ap.airport.ID, ac.Callsign(), err)
				ap.ground.SignOff(ac.ID())
				ac.Kill()
			}
		case aircraft.HOLDING:
			if rec := ap.ground.Record(ac.ID()); rec != nil && rec.HandedOff {
				ap.ground.SignOff(ac.ID())
				ap.tower.add(ac)
				res.handOffs++
			}
		case aircraft.ARRIVED:
			ap.ground.SignOff(ac.ID())
			ap.releaseStand(ac.ID())
			ac.Kill()
			res.arrivals++
			ap.lg.Infof("%s: %s parked", ap.airport.ID, ac.Callsign())
		}
	}

	res.conflicts = ap.checkForConflicts()
	return res
}

func (ap *airportState) leg(ac *aircraft.Aircraft) types.Leg {
	return ac.Plan().Leg
}

// instruction returns what the aircraft has been told to do. Aircraft not
// yet known to ground control wait for it.
func (ap *airportState) instruction(ac *aircraft.Aircraft) traffic.Instruction {
	if ap.tower.has(ac.ID()) {
		return traffic.Instruction{}
	}
	rec := ap.ground.Record(ac.ID())
	if rec == nil {
		return traffic.Instruction{HoldPosition: true}
	}
	if rec.Leg == types.LEG_PUSHBACK {
		return traffic.Instruction{HoldPosition: !rec.PushBackAllowed}
	}
	return rec.Instruction
}

// runwayBusy reports whether an arrival is still rolling out on the runway.
func (ap *airportState) runwayBusy() bool {
	for _, ac := range ap.aircraft {
		if ac.Dead() || ac.Plan() == nil || ac.Plan().Leg != types.LEG_TAXI_IN {
			continue
		}
		if seg := ap.net().FindSegment(ac.CurrentSegment()); seg != nil && seg.StartNode().OnRunway {
			return true
		}
	}
	return false
}

func (ap *airportState) planTaxiOut(ac *aircraft.Aircraft) error {
	net := ap.net()
	from := net.FindNode(ac.Plan().LastNode())
	to := net.FindNearestNodeOnRunwayEntry(ap.runway.Threshold())
	if from == nil || to == nil {
		return fmt.Errorf("runway %s: %w", ap.runway.Name, ErrNoRoute)
	}
	route := net.FindShortestRoute(from, to, true)
	if route.Empty() {
		ap.routeFailed()
		return fmt.Errorf("node %d to runway %s: %w", from.Index, ap.runway.Name, ErrNoRoute)
	}
	plan, err := flightplan.NewTaxiPlan(ac.Callsign(), ap.airport.ID, ap.runway.Name, types.LEG_TAXI_OUT, route)
	if err != nil {
		return err
	}
	ac.SetPlan(plan, net)
	ap.lg.Debugf("%s: %s taxi out %v", ap.airport.ID, ac.Callsign(), route.Nodes)
	return nil
}

func (ap *airportState) routeFailed() {
	if ap.metrics != nil {
		ap.metrics.RoutesFailedTotal.WithLabelValues(ap.airport.ID).Inc()
	}
}

func (ap *airportState) releaseStand(id types.AircraftID) {
	for node, owner := range ap.stands {
		if owner == id {
			delete(ap.stands, node)
		}
	}
}

// freeStand returns a parking position nobody is using, or nil.
func (ap *airportState) freeStand() *groundnet.Node {
	for _, p := range ap.net().Parkings() {
		if _, taken := ap.stands[p.Index]; !taken {
			return p
		}
	}
	return nil
}

// checkForConflicts counts the pairs of moving aircraft that are closer
// than their combined radii.
func (ap *airportState) checkForConflicts() int {
	var moving []*aircraft.Aircraft
	for _, ac := range ap.aircraft {
		if !ac.Dead() && ac.State != aircraft.PARKED && ac.State != aircraft.ARRIVED {
			moving = append(moving, ac)
		}
	}

	conflicts := 0
	for i := 0; i < len(moving); i++ {
		for j := i + 1; j < len(moving); j++ {
			ac1, ac2 := moving[i], moving[j]
			if conflict.CheckSeparation(ac1, ac2) {
				conflicts++
				ap.lg.Warnj(log.JSON{
					"event":    "separation_loss",
					"airport":  ap.airport.ID,
					"aircraft": []string{ac1.Callsign(), ac2.Callsign()},
					"distance": geo.Distance(ac1.Position(), ac2.Position()),
				})
				continue
			}
			if ok, p1, p2 := conflict.PredictConflict(ac1, ac2, PREDICTION_SECONDS); ok {
				ap.lg.Debugf("%s: %s and %s predicted within %.0f m", ap.airport.ID,
					ac1.Callsign(), ac2.Callsign(), geo.Distance(p1, p2))
			}
		}
	}
	if conflicts > 0 && ap.metrics != nil {
		ap.metrics.SeparationLossesTotal.WithLabelValues(ap.airport.ID).Add(float64(conflicts))
	}
	return conflicts
}

// cleanup drops dead aircraft and returns their ids.
func (ap *airportState) cleanup() []types.AircraftID {
	var gone []types.AircraftID
	kept := ap.aircraft[:0]
	for _, ac := range ap.aircraft {
		if ac.Dead() {
			gone = append(gone, ac.ID())
			ap.releaseStand(ac.ID())
			continue
		}
		kept = append(kept, ac)
	}
	clear(ap.aircraft[len(kept):])
	ap.aircraft = kept
	return gone
}
