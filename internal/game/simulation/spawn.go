package simulation

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"atc-ground/internal/game/aircraft"
	"atc-ground/internal/game/flightplan"
	"atc-ground/internal/game/groundnet"
	"atc-ground/pkg/types"

	"github.com/paulmach/orb/geo"
)

const (
	// Arrivals appear this far past the threshold, rolling out.
	TOUCHDOWN_DISTANCE = 200.0
	// Arrival exits that cannot be found fall back to a taxiway node at least
	// this far from the centreline.
	RUNWAY_CLEARANCE = 100.0
	ROLLOUT_SPEED    = 30.0 // knots
)

func getRandomAirlinePrefix(rng *rand.Rand) string {
	prefixes := []string{"AAL", "SWA", "DAL", "UAL", "JBU", "ASA", "FFT", "KLM", "JAL"}
	return prefixes[rng.IntN(len(prefixes))]
}

func (s *Simulation) newAircraft(ap *airportState, stand *groundnet.Node) *aircraft.Aircraft {
	id := types.AircraftID(s.nextAircraftID)
	callsign := fmt.Sprintf("%s%03d", getRandomAirlinePrefix(s.rng), s.nextAircraftID)
	s.nextAircraftID++

	acTypes := slices.Sorted(maps.Keys(aircraft.PerformanceTable))
	acType := acTypes[s.rng.IntN(len(acTypes))]

	heading := 0.0
	if stand.Parking != nil {
		heading = stand.Parking.Heading
	}
	ac := aircraft.NewAircraft(id, callsign, acType, stand.Position, heading)
	ap.stands[stand.Index] = id
	s.Aircrafts[id] = ac
	ap.aircraft = append(ap.aircraft, ac)
	if s.metrics != nil {
		s.metrics.AircraftSpawnedTotal.Inc()
	}
	return ac
}

func (s *Simulation) airport(airportID string) (*airportState, error) {
	ap, ok := s.airports[airportID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", airportID, ErrUnknownAirport)
	}
	return ap, nil
}

// pushbackNode returns where an aircraft leaving stand ends its pushback.
func pushbackNode(net *groundnet.Network, stand *groundnet.Node) *groundnet.Node {
	if stand.Parking != nil && stand.Parking.PushBackRoute != 0 {
		if node := net.FindNode(stand.Parking.PushBackRoute); node != nil {
			return node
		}
	}
	for _, seg := range net.FindSegmentsFrom(stand) {
		if end := seg.EndNode(); !end.IsParking() {
			return end
		}
	}
	return nil
}

// SpawnDeparture puts a new aircraft on a free parking position, ready to
// push back.
func (s *Simulation) SpawnDeparture(airportID string) (types.AircraftID, error) {
	ap, err := s.airport(airportID)
	if err != nil {
		return types.NoAircraft, err
	}
	net := ap.net()
	stand := ap.freeStand()
	if stand == nil {
		return types.NoAircraft, fmt.Errorf("%s: %w", airportID, ErrNoFreeStand)
	}
	pushTo := pushbackNode(net, stand)
	if pushTo == nil {
		ap.routeFailed()
		return types.NoAircraft, fmt.Errorf("%s: stand %s: pushback: %w", airportID, stand.Parking.Name, ErrNoRoute)
	}
	route := net.FindShortestRoute(stand, pushTo, true)
	if route.Empty() {
		ap.routeFailed()
		return types.NoAircraft, fmt.Errorf("%s: stand %s: pushback: %w", airportID, stand.Parking.Name, ErrNoRoute)
	}

	ac := s.newAircraft(ap, stand)
	plan, err := flightplan.NewTaxiPlan(ac.Callsign(), airportID, ap.runway.Name, types.LEG_PUSHBACK, route)
	if err != nil {
		ac.Kill()
		return types.NoAircraft, err
	}
	ac.SetPlan(plan, net)
	ap.lastSpawn = s.TimeOfDay
	s.lg.Infof("%s: spawned %s (%s) at stand %s", airportID, ac.Callsign(), ac.Type, stand.Parking.Name)
	return ac.ID(), nil
}

// SpawnArrival puts a new aircraft on the active runway just past touchdown,
// routed from its runway exit to a free parking position.
func (s *Simulation) SpawnArrival(airportID string) (types.AircraftID, error) {
	ap, err := s.airport(airportID)
	if err != nil {
		return types.NoAircraft, err
	}
	if ap.runwayBusy() || ap.tower.rolling() {
		return types.NoAircraft, fmt.Errorf("%s: runway %s: %w", airportID, ap.runway.Name, ErrRunwayBusy)
	}
	net := ap.net()
	stand := ap.freeStand()
	if stand == nil {
		return types.NoAircraft, fmt.Errorf("%s: %w", airportID, ErrNoFreeStand)
	}

	pos := geo.PointAtBearingAndDistance(ap.runway.Threshold(), ap.runway.Heading, TOUCHDOWN_DISTANCE)
	exit := net.FindNearestNodeOnRunwayExit(pos, ap.runway)
	if exit == nil {
		exit = net.FindNearestNodeOffRunway(pos, ap.runway, RUNWAY_CLEARANCE)
	}
	if exit == nil {
		ap.routeFailed()
		return types.NoAircraft, fmt.Errorf("%s: runway %s: no exit: %w", airportID, ap.runway.Name, ErrNoRoute)
	}
	route := net.FindShortestRoute(exit, stand, true)
	if route.Empty() {
		ap.routeFailed()
		return types.NoAircraft, fmt.Errorf("%s: node %d to stand %s: %w", airportID, exit.Index, stand.Parking.Name, ErrNoRoute)
	}

	// Roll out along the runway segment leading to the exit.
	heading := ap.runway.Heading
	if lead := runwaySegmentInto(net, exit); lead != nil {
		route = groundnet.NewRoute(
			append([]int{lead.Start}, route.Nodes...),
			append([]int{lead.Index}, route.Segments...),
			route.Score+lead.Length(),
		)
	} else {
		pos = exit.Position
	}

	ac := s.newAircraft(ap, stand)
	plan, err := flightplan.NewTaxiPlan(ac.Callsign(), airportID, ap.runway.Name, types.LEG_TAXI_IN, route)
	if err != nil {
		ac.Kill()
		return types.NoAircraft, err
	}
	ac.SetPosition(pos, heading, ROLLOUT_SPEED)
	ac.SetPlan(plan, net)
	ap.lastSpawn = s.TimeOfDay
	s.lg.Infof("%s: %s (%s) landed runway %s, exit at node %d, parking %s", airportID, ac.Callsign(), ac.Type,
		ap.runway.Name, exit.Index, stand.Parking.Name)
	return ac.ID(), nil
}

func runwaySegmentInto(net *groundnet.Network, node *groundnet.Node) *groundnet.Segment {
	if !node.OnRunway {
		return nil
	}
	for _, seg := range net.SegmentsEndingAt(node) {
		if seg.StartNode().OnRunway {
			return seg
		}
	}
	return nil
}

// spawnTraffic adds a random departure or arrival at airports that have room
// for more traffic and have not seen a new aircraft for a while.
func (s *Simulation) spawnTraffic(now time.Time) {
	for _, id := range s.order {
		ap := s.airports[id]
		if len(ap.aircraft) >= s.cfg.MaxAircraft || now.Sub(ap.lastSpawn) < s.cfg.SpawnInterval {
			continue
		}
		var err error
		if s.rng.IntN(2) == 0 {
			_, err = s.SpawnArrival(id)
		} else {
			_, err = s.SpawnDeparture(id)
		}
		if err != nil {
			s.lg.Debugf("%s: spawn skipped: %v", id, err)
		}
	}
}
