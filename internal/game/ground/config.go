package ground

import "time"

// Config holds the tunables of a ground controller.
type Config struct {
	// Minimum radio silence before the next hold or resume-taxi exchange.
	HoldCooldown time.Duration
	// Minimum radio silence before the next taxi clearance exchange.
	TaxiClearanceCooldown time.Duration
	// Junctions along the route are reserved this long before the aircraft
	// is expected to reach them.
	JunctionLead time.Duration
	// An aircraft holds when a blocked segment starts within this many of
	// its radii.
	HoldDistanceFactor float64
	// Flag circular waits on the records involved.
	FlagCircularWaits bool
}

func DefaultConfig() Config {
	return Config{
		HoldCooldown:          2 * time.Second,
		TaxiClearanceCooldown: 15 * time.Second,
		JunctionLead:          30 * time.Second,
		HoldDistanceFactor:    4,
		FlagCircularWaits:     true,
	}
}
