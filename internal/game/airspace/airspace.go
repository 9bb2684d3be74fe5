package airspace

import (
	"maps"
	"slices"
)

type Airspace struct {
	Airports map[string]*Airport

	// Runway in use for departures and arrivals, by airport.
	ActiveRunways map[string]string
}

func NewAirspace() *Airspace {
	return &Airspace{
		Airports:      make(map[string]*Airport),
		ActiveRunways: make(map[string]string),
	}
}

// AirportIDs returns the ids of all airports in a stable order.
func (ap *Airspace) AirportIDs() []string {
	return slices.Sorted(maps.Keys(ap.Airports))
}

// ActiveRunway returns the runway in use at an airport. Without an explicit
// choice the alphabetically first runway is used.
func (ap *Airspace) ActiveRunway(airportID string) *Runway {
	airport, ok := ap.Airports[airportID]
	if !ok || len(airport.Runways) == 0 {
		return nil
	}
	if name, ok := ap.ActiveRunways[airportID]; ok {
		if rwy := airport.Runway(name); rwy != nil {
			return rwy
		}
	}
	return airport.Runways[slices.Sorted(maps.Keys(airport.Runways))[0]]
}
