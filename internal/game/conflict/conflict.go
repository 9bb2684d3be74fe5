package conflict

import (
	"atc-ground/internal/game/traffic"
	"atc-ground/pkg/types"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	// Another aircraft within this many degrees of our heading is ahead of us.
	MAX_BEARING_AHEAD = 60.0
	// Applied to both radii before separation checks.
	SEPARATION_MARGIN = 1.1
)

// RelativeBearing returns the angle in [0, 180] between heading and the
// bearing from `from` to `to`.
func RelativeBearing(from orb.Point, heading float64, to orb.Point) float64 {
	return types.HeadingDifference(heading, geo.Bearing(from, to))
}

// IsAhead reports whether `to` lies at most MAX_BEARING_AHEAD off heading as
// seen from `from`.
func IsAhead(from orb.Point, heading float64, to orb.Point) bool {
	return RelativeBearing(from, heading, to) <= MAX_BEARING_AHEAD
}

// BrakingDistance is the separation below which the trailing aircraft has to
// slow down.
func BrakingDistance(r1, r2 float64) float64 {
	return 2 * (SEPARATION_MARGIN*r1 + SEPARATION_MARGIN*r2)
}

// StoppingDistance is the separation below which the trailing aircraft has to
// stop.
func StoppingDistance(r1, r2 float64) float64 {
	return SEPARATION_MARGIN * (r1 + r2)
}

func radius(ac traffic.Aircraft) float64 {
	if perf := ac.Performance(); perf != nil {
		return perf.Radius
	}
	return 0
}

// CheckSeparation reports whether two aircraft are closer than their combined
// radii, i.e. their wingtips may touch.
func CheckSeparation(ac1, ac2 traffic.Aircraft) bool {
	return geo.Distance(ac1.Position(), ac2.Position()) < radius(ac1)+radius(ac2)
}

// PredictConflict projects both aircraft along their current heading and speed
// and checks separation at the end of the projection.
// Returns: (isConflict, projectedPos1, projectedPos2)
func PredictConflict(ac1, ac2 traffic.Aircraft, futureTimeSeconds float64) (bool, orb.Point, orb.Point) {
	d1 := ac1.Speed() * types.KNOTS_TO_MPS * futureTimeSeconds
	d2 := ac2.Speed() * types.KNOTS_TO_MPS * futureTimeSeconds

	projectedPos1 := geo.PointAtBearingAndDistance(ac1.Position(), ac1.Heading(), d1)
	projectedPos2 := geo.PointAtBearingAndDistance(ac2.Position(), ac2.Heading(), d2)

	if geo.Distance(projectedPos1, projectedPos2) < radius(ac1)+radius(ac2) {
		return true, projectedPos1, projectedPos2
	}
	return false, orb.Point{}, orb.Point{}
}
