package simulation

import "errors"

var (
	ErrUnknownAirport = errors.New("unknown airport")
	ErrNoGroundNet    = errors.New("airport has no ground network")
	ErrNoRunway       = errors.New("airport has no runway")
	ErrNoFreeStand    = errors.New("no free parking position")
	ErrNoRoute        = errors.New("no taxi route")
	ErrRunwayBusy     = errors.New("runway occupied")
	ErrNoSelection    = errors.New("no aircraft selected")
)
