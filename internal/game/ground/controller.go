package ground

import (
	"time"

	"atc-ground/internal/game/groundnet"
	"atc-ground/internal/game/radio"
	"atc-ground/internal/game/traffic"
	"atc-ground/internal/metrics"
	"atc-ground/pkg/types"

	"github.com/brunoga/deep"
	"github.com/labstack/gommon/log"
)

// Tower exposes the aircraft that have left the ground frequency but that
// taxiing traffic still has to keep clear of, such as the runway queue.
type Tower interface {
	TowerTraffic() []*traffic.Record
}

// Controller manages the ground movements on one airport's network. It is
// driven by Update once per simulation tick and is not safe for concurrent
// use.
type Controller struct {
	network *groundnet.Network
	cfg     Config
	station string

	lg      *log.Logger
	metrics *metrics.Registry
	radio   radio.Sink
	tower   Tower

	startup []*traffic.Record
	active  []*traffic.Record

	// Tick-local state.
	priority int
	yielding map[types.AircraftID]types.AircraftID // closest -> aircraft it gives way to

	available        bool
	lastTransmission time.Time
	userKeyed        map[types.AircraftID]bool
}

type Option func(*Controller)

func WithLogger(lg *log.Logger) Option {
	return func(c *Controller) { c.lg = lg }
}

func WithMetrics(m *metrics.Registry) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithRadio(sink radio.Sink) Option {
	return func(c *Controller) { c.radio = sink }
}

func WithTower(t Tower) Option {
	return func(c *Controller) { c.tower = t }
}

func New(network *groundnet.Network, cfg Config, opts ...Option) *Controller {
	if network == nil {
		panic("ground: New called with nil network")
	}
	if !network.Initialized() {
		network.Init()
	}
	c := &Controller{
		network:   network,
		cfg:       cfg,
		station:   network.Airport + " Ground",
		radio:     radio.Discard,
		available: true,
		yielding:  make(map[types.AircraftID]types.AircraftID),
		userKeyed: make(map[types.AircraftID]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.lg == nil {
		c.lg = log.New("ground")
	}
	return c
}

func (c *Controller) Airport() string {
	return c.network.Airport
}

func (c *Controller) Network() *groundnet.Network {
	return c.network
}

// AnnouncePosition creates or refreshes the record of ac. current is the
// segment it occupies and intentions the segments it plans to use next.
func (c *Controller) AnnouncePosition(ac traffic.Aircraft, current int, intentions []int, leg types.Leg) {
	if ac.Performance() == nil {
		c.lg.Warnf("%s: %s has no performance data, ignoring position report", c.Airport(), ac.Callsign())
		return
	}

	rec, inStartup := c.find(ac.ID())
	if rec == nil {
		rec = traffic.NewRecord(ac)
		rec.Leg = leg
		rec.SetPositionAndIntentions(current, intentions)
		c.insert(rec)
		c.lg.Debugf("%s: %s announced on segment %d, leg %s", c.Airport(), rec.Callsign, current, leg)
		return
	}

	rec.SetPositionAndIntentions(current, intentions)
	rec.Refresh()
	if inStartup && leg != types.LEG_PUSHBACK {
		c.startup = remove(c.startup, rec.ID)
		rec.Leg = leg
		c.insert(rec)
		c.lg.Debugf("%s: %s pushed back, now %s", c.Airport(), rec.Callsign, leg)
		return
	}
	rec.Leg = leg
}

func (c *Controller) insert(rec *traffic.Record) {
	switch rec.Leg {
	case types.LEG_PUSHBACK:
		c.startup = append(c.startup, rec)
	case types.LEG_TAXI_OUT:
		c.active = append([]*traffic.Record{rec}, c.active...)
	default:
		c.active = append(c.active, rec)
	}
}

// SignOff removes an aircraft from the controller.
func (c *Controller) SignOff(id types.AircraftID) {
	rec, _ := c.find(id)
	if rec == nil {
		c.lg.Errorf("%s: aircraft %d signing off without a traffic record", c.Airport(), id)
		return
	}
	c.startup = remove(c.startup, id)
	c.active = remove(c.active, id)
	delete(c.userKeyed, id)
	c.lg.Debugf("%s: %s signed off", c.Airport(), rec.Callsign)
}

// KeyTransmission lets the user aircraft send its pending air-to-ground call.
// The controller never makes that call on the user's behalf.
func (c *Controller) KeyTransmission(id types.AircraftID) {
	c.userKeyed[id] = true
}

// Update runs one controller tick at simulation time now.
func (c *Controller) Update(now time.Time) {
	start := time.Now()

	c.network.UnblockAllSegments(now)
	c.startup = c.purgeDead(c.startup)
	c.active = c.purgeDead(c.active)

	c.priority = 0
	clear(c.yielding)
	for _, rec := range c.startup {
		c.updateStartupTraffic(rec, now)
	}
	for _, rec := range c.active {
		c.updateActiveTraffic(rec, now)
	}
	for _, rec := range c.active {
		c.UpdateAircraftInformation(rec.ID, now)
	}
	c.flagCircularWaits()

	if c.metrics != nil {
		c.metrics.ActiveTraffic.WithLabelValues(c.Airport()).Set(float64(len(c.active)))
		c.metrics.StartupTraffic.WithLabelValues(c.Airport()).Set(float64(len(c.startup)))
		c.metrics.TickDuration.WithLabelValues(c.Airport()).Observe(time.Since(start).Seconds())
	}
}

func (c *Controller) purgeDead(recs []*traffic.Record) []*traffic.Record {
	kept := recs[:0]
	for _, rec := range recs {
		if rec.Aircraft().Dead() {
			c.lg.Debugf("%s: removing %s", c.Airport(), rec.Callsign)
			delete(c.userKeyed, rec.ID)
			continue
		}
		kept = append(kept, rec)
	}
	clear(recs[len(kept):])
	return kept
}

func (c *Controller) updateStartupTraffic(rec *traffic.Record, now time.Time) {
	rec.Priority = c.nextPriority()

	rec.PushBackAllowed = true
	for _, idx := range rec.Intentions {
		if seg := c.network.FindSegment(idx); seg != nil && seg.HasBlock(now) {
			rec.PushBackAllowed = false
			break
		}
	}
	if !rec.PushBackAllowed {
		return
	}
	c.blockRoute(rec, now)
}

func (c *Controller) updateActiveTraffic(rec *traffic.Record, now time.Time) {
	rec.Priority = c.nextPriority()
	c.blockRoute(rec, now)
}

// blockRoute reserves the junction ahead of the aircraft now, and the
// junctions along its intentions from shortly before it is due there. It
// stops at the first segment that is already reserved: junctions past it
// are not claimed, so two aircraft converging on one junction cannot lock
// each other out.
func (c *Controller) blockRoute(rec *traffic.Record, now time.Time) {
	if seg := c.network.FindSegment(rec.CurrentPosition); seg != nil {
		c.network.BlockSegmentsEndingAt(seg, rec.ID, now, now)
	}

	perf := rec.Aircraft().Performance()
	if perf == nil || perf.TaxiSpeed <= 0 {
		c.lg.Warnf("%s: %s has no taxi speed, route not reserved", c.Airport(), rec.Callsign)
		return
	}
	vTaxi := perf.TaxiSpeed * types.KNOTS_TO_MPS

	length := 0.0
	for _, idx := range rec.Intentions {
		seg := c.network.FindSegment(idx)
		if seg == nil {
			continue
		}
		if seg.HasBlock(now) {
			break
		}
		length += seg.Length()
		eta := now.Add(time.Duration(length / vTaxi * float64(time.Second)))
		c.network.BlockSegmentsEndingAt(seg, rec.ID, eta.Add(-c.cfg.JunctionLead), now)
	}
}

func (c *Controller) nextPriority() int {
	p := c.priority
	c.priority++
	return p
}

// UpdateAircraftInformation refreshes one active aircraft and recomputes its
// instruction.
func (c *Controller) UpdateAircraftInformation(id types.AircraftID, now time.Time) {
	rec := c.findActive(id)
	if rec == nil {
		c.lg.Errorf("%s: updating aircraft %d without a traffic record", c.Airport(), id)
		return
	}
	ac := rec.Aircraft()
	if ac.Performance() == nil {
		c.lg.Warnf("%s: %s has no performance data, skipping update", c.Airport(), rec.Callsign)
		return
	}

	rec.Refresh()
	rec.Instruction.ResolveCircularWait = false
	rec.WaitsForID = types.NoAircraft

	c.checkSpeedAdjustment(rec)

	if !ac.TaxiClearanceRequest() {
		c.checkHoldPosition(rec, now)
	} else {
		c.checkTaxiClearance(rec, now)
	}
}

func (c *Controller) flagCircularWaits() {
	if !c.cfg.FlagCircularWaits {
		return
	}
	for _, rec := range c.active {
		if !c.CheckForCircularWaits(rec.ID) {
			continue
		}
		rec.Instruction.ResolveCircularWait = true
		c.lg.Warnj(log.JSON{
			"event":     "circular_wait",
			"airport":   c.Airport(),
			"aircraft":  rec.Callsign,
			"waits_for": rec.WaitsForID,
		})
		if c.metrics != nil {
			c.metrics.CircularWaitsTotal.WithLabelValues(c.Airport()).Inc()
		}
	}
}

func (c *Controller) find(id types.AircraftID) (rec *traffic.Record, inStartup bool) {
	for _, r := range c.startup {
		if r.ID == id {
			return r, true
		}
	}
	return c.findActive(id), false
}

func (c *Controller) findActive(id types.AircraftID) *traffic.Record {
	for _, r := range c.active {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func remove(recs []*traffic.Record, id types.AircraftID) []*traffic.Record {
	for i, r := range recs {
		if r.ID == id {
			return append(recs[:i], recs[i+1:]...)
		}
	}
	return recs
}

// Instruction returns the current instruction for an aircraft.
func (c *Controller) Instruction(id types.AircraftID) (traffic.Instruction, bool) {
	rec, _ := c.find(id)
	if rec == nil {
		return traffic.Instruction{}, false
	}
	return rec.Instruction, true
}

// Record returns the live record of an aircraft, or nil.
func (c *Controller) Record(id types.AircraftID) *traffic.Record {
	rec, _ := c.find(id)
	return rec
}

// ActiveTraffic returns the taxiing aircraft in processing order.
func (c *Controller) ActiveTraffic() []*traffic.Record {
	return append([]*traffic.Record(nil), c.active...)
}

// StartupTraffic returns the aircraft waiting for pushback.
func (c *Controller) StartupTraffic() []*traffic.Record {
	return append([]*traffic.Record(nil), c.startup...)
}

// Snapshot returns a copy of every record that the caller may keep across
// ticks, startup traffic first.
func (c *Controller) Snapshot() []traffic.Status {
	st := make([]traffic.Status, 0, len(c.startup)+len(c.active))
	for _, rec := range c.startup {
		st = append(st, rec.Status())
	}
	for _, rec := range c.active {
		st = append(st, rec.Status())
	}
	return deep.MustCopy(st)
}
