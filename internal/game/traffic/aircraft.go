package traffic

import (
	"atc-ground/pkg/types"

	"github.com/paulmach/orb"
)

// Performance is the part of an aircraft's performance data the ground
// controller needs.
type Performance struct {
	TaxiSpeed float64 // knots
	Radius    float64 // meters
}

// Aircraft is the authoritative state of one aircraft as owned by its flight
// model. The ground controller only reads it, apart from clearing the taxi
// clearance request once the clearance has been acknowledged.
type Aircraft interface {
	ID() types.AircraftID
	Callsign() string
	Position() orb.Point
	Heading() float64
	Speed() float64 // knots
	Altitude() float64

	// Performance returns nil when no performance data is available.
	Performance() *Performance
	Dead() bool

	TaxiClearanceRequest() bool
	SetTaxiClearanceRequest(bool)
	TakeOffStatus() types.TakeOffStatus
	IsUser() bool
}
