package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"atc-ground/internal/config"
	"atc-ground/internal/game/aircraft"
	"atc-ground/internal/game/airspace"
	"atc-ground/internal/game/ground"
	"atc-ground/internal/game/radio"
	"atc-ground/internal/game/traffic"
	"atc-ground/internal/logging"
	"atc-ground/internal/metrics"
	"atc-ground/pkg/types"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

const RADIO_LOG_SIZE = 50

// Simulation drives the ground traffic of every airport in an airspace that
// has a ground network. Airports are ticked in parallel; a Simulation itself
// is driven from one goroutine.
type Simulation struct {
	Aircrafts       map[types.AircraftID]*aircraft.Aircraft
	Airspace        *airspace.Airspace
	TickRate        float64
	TimeOfDay       time.Time
	GameTimeSeconds float64

	HandOffs   int
	Departures int
	Arrivals   int
	Conflicts  int
	RadioLog   *radio.Log

	airports map[string]*airportState
	order    []string
	cfg      config.Config
	lg       *log.Logger
	metrics  *metrics.Registry
	rng      *rand.Rand

	nextAircraftID int
	selected       types.AircraftID
}

// NewSimulation sets up ground and tower control for every airport of as
// that has a ground network and spawns a first departure at each.
func NewSimulation(as *airspace.Airspace, cfg config.Config, lf *logging.Factory, m *metrics.Registry) (*Simulation, error) {
	s := &Simulation{
		Aircrafts: make(map[types.AircraftID]*aircraft.Aircraft),
		Airspace:  as,
		TickRate:  cfg.TickRate,
		TimeOfDay: time.Now().UTC().Truncate(time.Second),
		RadioLog:  radio.NewLog(RADIO_LOG_SIZE),

		airports:       make(map[string]*airportState),
		cfg:            cfg,
		lg:             lf.Logger("simulation"),
		metrics:        m,
		rng:            rand.New(rand.NewPCG(uint64(cfg.Seed), 0)),
		nextAircraftID: 100,
	}

	for _, id := range as.AirportIDs() {
		airport := as.Airports[id]
		if airport.Ground == nil {
			s.lg.Infof("%s: no ground network, no ground control", id)
			continue
		}
		runway := as.ActiveRunway(id)
		if runway == nil {
			return nil, fmt.Errorf("%s: %w", id, ErrNoRunway)
		}
		twr := newTower(id, runway, lf.Logger("tower"))
		ctrl := ground.New(airport.Ground, cfg.Ground,
			ground.WithLogger(lf.Logger("ground")),
			ground.WithMetrics(m),
			ground.WithRadio(s.RadioLog),
			ground.WithTower(twr),
		)
		s.airports[id] = &airportState{
			airport:   airport,
			runway:    runway,
			ground:    ctrl,
			tower:     twr,
			lg:        s.lg,
			metrics:   m,
			stands:    make(map[int]types.AircraftID),
			lastSpawn: s.TimeOfDay,
		}
		s.order = append(s.order, id)
	}
	if len(s.order) == 0 {
		return nil, fmt.Errorf("airspace: %w", ErrNoGroundNet)
	}

	for _, id := range s.order {
		if _, err := s.SpawnDeparture(id); err != nil {
			s.lg.Warnf("%s: initial departure: %v", id, err)
		}
	}
	return s, nil
}

// Update advances the simulation by dt seconds.
func (s *Simulation) Update(ctx context.Context, dt float64) error {
	s.GameTimeSeconds += dt
	s.TimeOfDay = s.TimeOfDay.Add(time.Duration(dt * float64(time.Second)))
	now := s.TimeOfDay

	results := make([]tickResult, len(s.order))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range s.order {
		ap := s.airports[id]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ap.update(now, dt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, res := range results {
		s.HandOffs += res.handOffs
		s.Departures += res.departures
		s.Arrivals += res.arrivals
		s.Conflicts += res.conflicts
		if s.metrics != nil {
			s.metrics.AircraftHandedOff.Add(float64(res.handOffs))
		}
	}

	s.CleanupAircraft()
	s.spawnTraffic(now)
	return nil
}

// CleanupAircraft forgets aircraft that have left the simulation.
func (s *Simulation) CleanupAircraft() {
	for _, id := range s.order {
		for _, acID := range s.airports[id].cleanup() {
			delete(s.Aircrafts, acID)
			if s.selected == acID {
				s.selected = types.NoAircraft
			}
		}
	}
}

// Traffic returns the ground controller's view of an airport.
func (s *Simulation) Traffic(airportID string) ([]traffic.Status, error) {
	ap, ok := s.airports[airportID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", airportID, ErrUnknownAirport)
	}
	return ap.ground.Snapshot(), nil
}

// Controller returns the ground controller of an airport, or nil.
func (s *Simulation) Controller(airportID string) *ground.Controller {
	if ap, ok := s.airports[airportID]; ok {
		return ap.ground
	}
	return nil
}

// AirportIDs returns the airports under ground control.
func (s *Simulation) AirportIDs() []string {
	return append([]string(nil), s.order...)
}

func (s *Simulation) airportOf(id types.AircraftID) *airportState {
	ac, ok := s.Aircrafts[id]
	if !ok || ac.Plan() == nil {
		return nil
	}
	return s.airports[ac.Plan().Airport]
}
