package flightplan

import (
	"fmt"

	"atc-ground/internal/game/groundnet"
	"atc-ground/pkg/types"
)

// TaxiPlan is the ground movement an aircraft has been routed along. The
// aircraft is always on the way to Route.Nodes[next] over the segment that
// leads into it.
type TaxiPlan struct {
	Callsign string
	Airport  string
	Runway   string
	Leg      types.Leg
	Route    groundnet.Route

	next int
}

func NewTaxiPlan(callsign, airport, runway string, leg types.Leg, route groundnet.Route) (*TaxiPlan, error) {
	if route.Size() < 2 {
		return nil, fmt.Errorf("%s: %s route with %d nodes", callsign, leg, route.Size())
	}
	return &TaxiPlan{
		Callsign: callsign,
		Airport:  airport,
		Runway:   runway,
		Leg:      leg,
		Route:    route,
		next:     1,
	}, nil
}

func (fp *TaxiPlan) Done() bool {
	return fp.next >= fp.Route.Size()
}

// NextNode returns the node being taxied to, 0 once the plan is done.
func (fp *TaxiPlan) NextNode() int {
	if fp.Done() {
		return 0
	}
	return fp.Route.Nodes[fp.next]
}

// LastNode returns the node the plan ends at.
func (fp *TaxiPlan) LastNode() int {
	return fp.Route.Nodes[fp.Route.Size()-1]
}

// CurrentSegment returns the segment being taxied along, 0 once the plan is
// done.
func (fp *TaxiPlan) CurrentSegment() int {
	if fp.Done() {
		return 0
	}
	return fp.Route.Segments[fp.next-1]
}

// Intentions returns the segments still ahead after the current one.
func (fp *TaxiPlan) Intentions() []int {
	if fp.Done() {
		return nil
	}
	return fp.Route.Segments[fp.next:]
}

// Remaining returns the nodes still ahead, the next node included.
func (fp *TaxiPlan) Remaining() []int {
	if fp.Done() {
		return nil
	}
	return fp.Route.Nodes[fp.next:]
}

// Advance moves on to the following node and reports whether the plan has
// any left.
func (fp *TaxiPlan) Advance() bool {
	if !fp.Done() {
		fp.next++
	}
	return !fp.Done()
}

func (fp *TaxiPlan) String() string {
	return fmt.Sprintf("%s %s %s via %v", fp.Callsign, fp.Leg, fp.Airport, fp.Route.Nodes)
}
