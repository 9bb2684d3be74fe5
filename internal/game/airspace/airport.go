package airspace

import (
	"atc-ground/internal/game/groundnet"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

type Runway struct {
	Name      string
	Start     orb.Point // threshold
	Heading   float64
	Length    float64 // meters
	AirportID string
}

func (r *Runway) Ident() string {
	return r.Name
}

func (r *Runway) HeadingDeg() float64 {
	return r.Heading
}

func (r *Runway) Threshold() orb.Point {
	return r.Start
}

func (r *Runway) End() orb.Point {
	return geo.PointAtBearingAndDistance(r.Start, r.Heading, r.Length)
}

type Airport struct {
	ID       string
	Name     string
	Position orb.Point
	Runways  map[string]*Runway

	// Ground is nil for airports without a ground network; they get no
	// ground control.
	Ground *groundnet.Network
}

func (ap *Airspace) AddAirport(airportID, name string, pos orb.Point, runways []Runway, ground *groundnet.Network) *Airport {
	airport := &Airport{
		ID:       airportID,
		Name:     name,
		Position: pos,
		Runways:  make(map[string]*Runway),
		Ground:   ground,
	}

	for _, rwy := range runways {
		rwy.AirportID = airportID
		airport.Runways[rwy.Name] = &rwy
	}
	ap.Airports[airportID] = airport
	return airport
}

// Runway returns the named runway, or nil.
func (a *Airport) Runway(name string) *Runway {
	return a.Runways[name]
}
