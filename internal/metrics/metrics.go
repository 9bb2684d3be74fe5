package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the Prometheus metrics of the ground simulation. All vectors
// are labelled by airport.
type Registry struct {
	Registry *prometheus.Registry

	// Ground controller
	TransmissionsTotal *prometheus.CounterVec
	HoldsIssuedTotal   *prometheus.CounterVec
	CircularWaitsTotal *prometheus.CounterVec
	ActiveTraffic      *prometheus.GaugeVec
	StartupTraffic     *prometheus.GaugeVec
	TickDuration       *prometheus.HistogramVec

	// Ground network
	RoutesFailedTotal *prometheus.CounterVec

	// Simulation
	AircraftSpawnedTotal  prometheus.Counter
	AircraftHandedOff     prometheus.Counter
	SeparationLossesTotal *prometheus.CounterVec
}

// NewRegistry creates the metrics on a fresh registry so that several
// simulations (and tests) can coexist in one process.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Registry{
		Registry: reg,

		TransmissionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atc_ground_transmissions_total",
				Help: "Radio transmissions on the ground frequency by message kind",
			},
			[]string{"airport", "kind"},
		),
		HoldsIssuedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atc_ground_holds_issued_total",
				Help: "Hold position instructions that took effect",
			},
			[]string{"airport"},
		),
		CircularWaitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atc_ground_circular_waits_total",
				Help: "Aircraft found waiting in a cycle",
			},
			[]string{"airport"},
		),
		ActiveTraffic: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "atc_ground_active_traffic",
				Help: "Aircraft taxiing under ground control",
			},
			[]string{"airport"},
		),
		StartupTraffic: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "atc_ground_startup_traffic",
				Help: "Aircraft waiting for pushback",
			},
			[]string{"airport"},
		),
		TickDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "atc_ground_tick_duration_seconds",
				Help:    "Wall time spent in one ground controller update",
				Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
			},
			[]string{"airport"},
		),
		RoutesFailedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atc_ground_routes_failed_total",
				Help: "Route requests that found no path",
			},
			[]string{"airport"},
		),
		AircraftSpawnedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "atc_ground_aircraft_spawned_total",
				Help: "Aircraft placed on a parking position",
			},
		),
		AircraftHandedOff: f.NewCounter(
			prometheus.CounterOpts{
				Name: "atc_ground_aircraft_handed_off_total",
				Help: "Aircraft handed off to the tower",
			},
		),
		SeparationLossesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atc_ground_separation_losses_total",
				Help: "Pairs of aircraft found closer than their combined radii",
			},
			[]string{"airport"},
		),
	}
}
