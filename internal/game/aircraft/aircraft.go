package aircraft

import (
	"math"

	"atc-ground/internal/game/flightplan"
	"atc-ground/internal/game/groundnet"
	"atc-ground/internal/game/traffic"
	"atc-ground/pkg/types"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

type AircraftState int

const (
	PARKED AircraftState = iota
	PUSHBACK
	READY_TO_TAXI
	TAXIING
	HOLDING
	TAKING_OFF
	DEPARTED
	ARRIVED
)

var StateStringMap = map[AircraftState]string{
	PARKED:        "PARKED",
	PUSHBACK:      "PUSHBACK",
	READY_TO_TAXI: "READY_TO_TAXI",
	TAXIING:       "TAXIING",
	HOLDING:       "HOLDING",
	TAKING_OFF:    "TAKING_OFF",
	DEPARTED:      "DEPARTED",
	ARRIVED:       "ARRIVED",
}

func (s AircraftState) String() string {
	if str, ok := StateStringMap[s]; ok {
		return str
	}
	return "UNKNOWN"
}

const (
	PUSHBACK_SPEED       = 3.0   // knots
	CREEP_SPEED          = 2.0   // knots
	ROTATE_SPEED         = 140.0 // knots
	DEPARTURE_ALTITUDE   = 1500.0
	TAKEOFF_ACCELERATION = 5.0 // knots per second
	TAKEOFF_CLIMB_RATE   = 2000.0
	NO_SPEED_LIMIT       = -1.0
)

// PerformanceTable holds ground performance by ICAO type designator.
var PerformanceTable = map[string]traffic.Performance{
	"A320": {TaxiSpeed: 15, Radius: 18},
	"B738": {TaxiSpeed: 15, Radius: 18},
	"E190": {TaxiSpeed: 15, Radius: 15},
	"A359": {TaxiSpeed: 12, Radius: 33},
	"B77W": {TaxiSpeed: 12, Radius: 35},
}

// Aircraft is a simulated aircraft moving along the ground network. It
// implements traffic.Aircraft.
type Aircraft struct {
	id       types.AircraftID
	callsign string
	Type     string

	position orb.Point
	heading  float64
	speed    float64 // knots
	altitude float64 // feet
	perf     *traffic.Performance

	ClimbRate                   float64
	TargetSpeed                 float64
	AccelerationRateKnotsPerSec float64
	DecelerationRateKnotsPerSec float64

	State AircraftState

	plan           *flightplan.TaxiPlan
	net            *groundnet.Network
	speedLimit     float64
	takeOffHeading float64

	taxiClearanceRequest bool
	takeOffStatus        types.TakeOffStatus
	user                 bool
	dead                 bool
}

// NewAircraft creates a parked aircraft. An unknown type gets no
// performance data.
func NewAircraft(id types.AircraftID, callsign, acType string, pos orb.Point, heading float64) *Aircraft {
	ac := &Aircraft{
		id:                          id,
		callsign:                    callsign,
		Type:                        acType,
		position:                    pos,
		heading:                     types.NormalizeHeading(heading),
		State:                       PARKED,
		AccelerationRateKnotsPerSec: 1.5,
		DecelerationRateKnotsPerSec: 4.0,
		speedLimit:                  NO_SPEED_LIMIT,
	}
	if perf, ok := PerformanceTable[acType]; ok {
		ac.perf = &perf
	}
	return ac
}

func (ac *Aircraft) ID() types.AircraftID                 { return ac.id }
func (ac *Aircraft) Callsign() string                     { return ac.callsign }
func (ac *Aircraft) Position() orb.Point                  { return ac.position }
func (ac *Aircraft) Heading() float64                     { return ac.heading }
func (ac *Aircraft) Speed() float64                       { return ac.speed }
func (ac *Aircraft) Altitude() float64                    { return ac.altitude }
func (ac *Aircraft) Performance() *traffic.Performance    { return ac.perf }
func (ac *Aircraft) Dead() bool                           { return ac.dead }
func (ac *Aircraft) TaxiClearanceRequest() bool           { return ac.taxiClearanceRequest }
func (ac *Aircraft) SetTaxiClearanceRequest(request bool) { ac.taxiClearanceRequest = request }
func (ac *Aircraft) TakeOffStatus() types.TakeOffStatus   { return ac.takeOffStatus }
func (ac *Aircraft) IsUser() bool                         { return ac.user }

func (ac *Aircraft) SetUser(user bool) {
	ac.user = user
}

func (ac *Aircraft) Plan() *flightplan.TaxiPlan {
	return ac.plan
}

// SetPlan hands the aircraft a new ground route on net. Taxi-out plans come
// with a pending taxi clearance request.
func (ac *Aircraft) SetPlan(plan *flightplan.TaxiPlan, net *groundnet.Network) {
	ac.plan = plan
	ac.net = net
	switch plan.Leg {
	case types.LEG_PUSHBACK:
		ac.State = PARKED
	case types.LEG_TAXI_OUT:
		ac.State = TAXIING
		ac.taxiClearanceRequest = true
	default:
		ac.State = TAXIING
	}
}

// SetPosition places the aircraft, e.g. on touchdown.
func (ac *Aircraft) SetPosition(pos orb.Point, heading, speed float64) {
	ac.position = pos
	ac.heading = types.NormalizeHeading(heading)
	ac.speed = speed
}

// CurrentSegment returns the segment the aircraft occupies, 0 when it is
// not on the network.
func (ac *Aircraft) CurrentSegment() int {
	if ac.plan == nil || ac.State == PARKED {
		return 0
	}
	return ac.plan.CurrentSegment()
}

// Intentions returns the segments the aircraft will use next. A parked
// aircraft intends to use its whole pushback route.
func (ac *Aircraft) Intentions() []int {
	if ac.plan == nil {
		return nil
	}
	if ac.State == PARKED {
		return ac.plan.Route.Segments
	}
	return ac.plan.Intentions()
}

func (ac *Aircraft) SetSpeedLimit(kts float64) {
	ac.speedLimit = math.Max(kts, 0)
}

func (ac *Aircraft) ClearSpeedLimit() {
	ac.speedLimit = NO_SPEED_LIMIT
}

func (ac *Aircraft) SpeedLimit() (float64, bool) {
	return ac.speedLimit, ac.speedLimit >= 0
}

// QueueForTakeOff reports the aircraft ready at the holding point.
func (ac *Aircraft) QueueForTakeOff() {
	ac.takeOffStatus = types.TAKEOFF_QUEUED
}

// ClearForTakeOff lets the aircraft line up and depart on a runway with the
// given heading.
func (ac *Aircraft) ClearForTakeOff(runwayHeading float64) {
	ac.takeOffStatus = types.TAKEOFF_CLEARED
	ac.takeOffHeading = types.NormalizeHeading(runwayHeading)
}

// Kill removes the aircraft from the simulation.
func (ac *Aircraft) Kill() {
	ac.dead = true
}

// Update advances the aircraft by dt seconds following the given ground
// instruction.
func (ac *Aircraft) Update(dt float64, instr traffic.Instruction) {
	if ac.dead {
		return
	}

	ac.TargetSpeed = ac.targetSpeed(instr)
	if ac.speed < ac.TargetSpeed {
		rate := ac.AccelerationRateKnotsPerSec
		if ac.State == TAKING_OFF {
			rate = TAKEOFF_ACCELERATION
		}
		ac.speed = math.Min(ac.speed+rate*dt, ac.TargetSpeed)
	} else if ac.speed > ac.TargetSpeed {
		ac.speed = math.Max(ac.speed-ac.DecelerationRateKnotsPerSec*dt, ac.TargetSpeed)
	}

	switch ac.State {
	case PUSHBACK, TAXIING:
		ac.follow(dt)
	case TAKING_OFF:
		ac.takeOff(dt)
	}
}

func (ac *Aircraft) targetSpeed(instr traffic.Instruction) float64 {
	switch ac.State {
	case PARKED:
		if ac.plan != nil && ac.plan.Leg == types.LEG_PUSHBACK && !instr.HoldPosition {
			ac.State = PUSHBACK
			return PUSHBACK_SPEED
		}
		return 0
	case PUSHBACK:
		if instr.HoldPosition {
			return 0
		}
		return PUSHBACK_SPEED
	case HOLDING:
		if ac.takeOffStatus != types.TAKEOFF_CLEARED {
			return 0
		}
		ac.State = TAXIING
	case TAKING_OFF:
		return ROTATE_SPEED
	case TAXIING:
	default:
		return 0
	}

	if ac.plan == nil || ac.plan.Done() || ac.perf == nil || ac.taxiClearanceRequest || instr.HoldPosition {
		return 0
	}
	target := ac.perf.TaxiSpeed
	if instr.ChangeSpeed {
		limit := instr.Speed
		if instr.ResolveCircularWait {
			limit = math.Max(limit, CREEP_SPEED)
		}
		target = math.Min(target, limit)
	}
	if ac.speedLimit >= 0 {
		target = math.Min(target, ac.speedLimit)
	}
	return math.Max(target, 0)
}

// follow moves the aircraft along its plan, node by node. A departure stops
// short of the runway until it is cleared for take-off.
func (ac *Aircraft) follow(dt float64) {
	dist := ac.speed * types.KNOTS_TO_MPS * dt
	for dist > 0 && !ac.plan.Done() {
		target := ac.net.FindNode(ac.plan.NextNode())
		if target == nil {
			ac.plan.Advance()
			continue
		}
		d := geo.Distance(ac.position, target.Position)
		brg := geo.Bearing(ac.position, target.Position)
		if d > 0.5 {
			ac.setTrack(brg)
		}
		if dist < d {
			ac.position = geo.PointAtBearingAndDistance(ac.position, brg, dist)
			return
		}
		ac.position = target.Position
		dist -= d
		ac.plan.Advance()

		if ac.mustHoldShort() {
			ac.State = HOLDING
			ac.speed = 0
			ac.QueueForTakeOff()
			return
		}
	}
	if ac.plan.Done() {
		ac.finishPlan()
	}
}

func (ac *Aircraft) setTrack(brg float64) {
	if ac.State == PUSHBACK {
		ac.heading = types.NormalizeHeading(brg + 180)
		return
	}
	ac.heading = types.NormalizeHeading(brg)
}

func (ac *Aircraft) mustHoldShort() bool {
	if ac.plan.Leg != types.LEG_TAXI_OUT || ac.plan.Done() || ac.takeOffStatus == types.TAKEOFF_CLEARED {
		return false
	}
	next := ac.net.FindNode(ac.plan.NextNode())
	return next != nil && next.OnRunway
}

func (ac *Aircraft) finishPlan() {
	switch {
	case ac.State == PUSHBACK:
		ac.State = READY_TO_TAXI
		ac.speed = 0
	case ac.plan.Leg == types.LEG_TAXI_OUT && ac.takeOffStatus == types.TAKEOFF_CLEARED:
		ac.State = TAKING_OFF
		ac.heading = ac.takeOffHeading
	case ac.plan.Leg == types.LEG_TAXI_OUT:
		ac.State = HOLDING
		ac.speed = 0
		ac.QueueForTakeOff()
	default:
		ac.State = ARRIVED
		ac.speed = 0
	}
}

func (ac *Aircraft) takeOff(dt float64) {
	ac.position = geo.PointAtBearingAndDistance(ac.position, ac.heading, ac.speed*types.KNOTS_TO_MPS*dt)
	if ac.speed < ROTATE_SPEED {
		return
	}
	ac.ClimbRate = TAKEOFF_CLIMB_RATE
	ac.altitude += ac.ClimbRate * dt / 60.0
	if ac.altitude >= DEPARTURE_ALTITUDE {
		ac.State = DEPARTED
		ac.dead = true
	}
}
