package ground

import (
	"slices"
	"testing"
	"time"

	"atc-ground/internal/game/groundnet"
	"atc-ground/internal/game/radio"
	"atc-ground/internal/game/traffic"
	"atc-ground/pkg/types"
)

func TestHoldPositionExchange(t *testing.T) {
	n := lineNetwork(t)
	c, rl := newTestController(t, n)
	ac := newTestAircraft(1, offset(0, 0), 90)
	ac.perf.Radius = 20
	c.AnnouncePosition(ac, 1, []int{2, 3}, types.LEG_TAXI_IN)

	// Somebody else has reserved the next segment, which starts 50m ahead.
	n.FindSegment(2).Block(99, t0, t0)

	steps := []struct {
		at    time.Duration
		clear bool
		state traffic.MessageState
		hold  bool
	}{
		{1 * time.Second, false, traffic.ACK_HOLD, false},
		{4 * time.Second, false, traffic.NORMAL, true},
		{7 * time.Second, true, traffic.ACK_RESUME_TAXI, true},
		{10 * time.Second, false, traffic.NORMAL, false},
	}
	for _, s := range steps {
		if s.clear {
			n.FindSegment(2).ClearBlocks()
		}
		c.Update(t0.Add(s.at))
		rec := c.Record(1)
		if rec.State != s.state || rec.Instruction.HoldPosition != s.hold {
			t.Fatalf("t+%s: state %s hold %v, expected %s hold %v",
				s.at, rec.State, rec.Instruction.HoldPosition, s.state, s.hold)
		}
	}

	expect := []radio.Kind{
		radio.MSG_HOLD_POSITION, radio.MSG_ACKNOWLEDGE_HOLD_POSITION,
		radio.MSG_RESUME_TAXI, radio.MSG_ACKNOWLEDGE_RESUME_TAXI,
	}
	if got := kinds(rl.Messages()); !slices.Equal(got, expect) {
		t.Errorf("radio exchange %v, expected %v", got, expect)
	}
}

func TestHoldPositionRespectsCooldown(t *testing.T) {
	n := lineNetwork(t)
	c, rl := newTestController(t, n)
	ac := newTestAircraft(1, offset(0, 0), 90)
	ac.perf.Radius = 20
	c.AnnouncePosition(ac, 1, []int{2, 3}, types.LEG_TAXI_IN)
	n.FindSegment(2).Block(99, t0, t0)

	c.Update(t0.Add(time.Second))
	c.Update(t0.Add(2 * time.Second))
	c.Update(t0.Add(3 * time.Second))
	if got := len(rl.Messages()); got != 1 {
		t.Errorf("read-back sent within the cooldown: %d messages", got)
	}
}

func TestDistantBlockDoesNotHold(t *testing.T) {
	n := lineNetwork(t)
	c, rl := newTestController(t, n)
	ac := newTestAircraft(1, offset(0, 0), 90)
	ac.perf.Radius = 20
	c.AnnouncePosition(ac, 1, []int{2, 3}, types.LEG_TAXI_IN)

	// Segment 3 starts 100m ahead and ends 150m ahead, beyond 4 radii.
	n.FindSegment(3).Block(99, t0, t0)
	c.Update(t0.Add(time.Second))

	if rec := c.Record(1); rec.State != traffic.NORMAL || rec.Instruction.HoldPosition {
		t.Errorf("held for a distant block: %s %+v", rec.State, rec.Instruction)
	}
	if len(rl.Messages()) != 0 {
		t.Errorf("unexpected transmissions %v", kinds(rl.Messages()))
	}
}

func TestBlockActivatesOnlyAfterBlockTime(t *testing.T) {
	n := lineNetwork(t)
	c, rl := newTestController(t, n)
	ac := newTestAircraft(1, offset(0, 0), 90)
	ac.perf.Radius = 20
	c.AnnouncePosition(ac, 1, []int{2, 3}, types.LEG_TAXI_IN)

	n.FindSegment(2).Block(99, t0.Add(time.Minute), t0)
	c.Update(t0.Add(time.Second))
	if len(rl.Messages()) != 0 {
		t.Errorf("held for a reservation that is not active yet")
	}
}

func TestTaxiClearanceExchange(t *testing.T) {
	c, rl := newTestController(t, lineNetwork(t))
	ac := newTestAircraft(1, offset(0, 0), 90)
	ac.clearance = true
	c.AnnouncePosition(ac, 1, []int{2}, types.LEG_TAXI_OUT)

	steps := []struct {
		at    time.Duration
		state traffic.MessageState
		hold  bool
	}{
		{0, traffic.TAXI_CLEARED, true},
		{5 * time.Second, traffic.TAXI_CLEARED, true}, // frequency busy
		{16 * time.Second, traffic.ACK_TAXI_CLEARED, true},
		{32 * time.Second, traffic.START_TAXI, true},
		{48 * time.Second, traffic.NORMAL, false},
	}
	for _, s := range steps {
		c.Update(t0.Add(s.at))
		rec := c.Record(1)
		if rec.State != s.state || rec.Instruction.HoldPosition != s.hold {
			t.Fatalf("t+%s: state %s hold %v, expected %s hold %v",
				s.at, rec.State, rec.Instruction.HoldPosition, s.state, s.hold)
		}
	}
	if ac.clearance {
		t.Errorf("taxi clearance request not cleared")
	}

	expect := []radio.Kind{
		radio.MSG_REQUEST_TAXI_CLEARANCE, radio.MSG_ISSUE_TAXI_CLEARANCE, radio.MSG_ACKNOWLEDGE_TAXI_CLEARANCE,
	}
	msgs := rl.Messages()
	if got := kinds(msgs); !slices.Equal(got, expect) {
		t.Errorf("radio exchange %v, expected %v", got, expect)
	}
	if msgs[0].Direction != radio.AIR_TO_GROUND || msgs[1].Direction != radio.GROUND_TO_AIR {
		t.Errorf("wrong directions: %s, %s", msgs[0].Direction, msgs[1].Direction)
	}
}

func TestUserAircraftKeysItsOwnCalls(t *testing.T) {
	c, rl := newTestController(t, lineNetwork(t))
	ac := newTestAircraft(1, offset(0, 0), 90)
	ac.clearance = true
	ac.user = true
	c.AnnouncePosition(ac, 1, []int{2}, types.LEG_TAXI_OUT)

	c.Update(t0)
	if rec := c.Record(1); rec.State != traffic.NORMAL || len(rl.Messages()) != 0 {
		t.Fatalf("request sent for the user: state %s", rec.State)
	}

	c.KeyTransmission(1)
	c.Update(t0.Add(time.Second))
	if rec := c.Record(1); rec.State != traffic.TAXI_CLEARED {
		t.Errorf("keyed request not sent: state %s", rec.State)
	}
	// The controller's own reply does not need keying.
	c.Update(t0.Add(20 * time.Second))
	if rec := c.Record(1); rec.State != traffic.ACK_TAXI_CLEARED {
		t.Errorf("clearance not issued: state %s", rec.State)
	}
}

func TestRunwayHandOff(t *testing.T) {
	c, rl := newTestController(t, lineNetwork(t))
	ac := newTestAircraft(1, offset(0, 0), 90)
	ac.takeOff = types.TAKEOFF_QUEUED
	c.AnnouncePosition(ac, 4, nil, types.LEG_TAXI_OUT)

	states := []traffic.MessageState{
		traffic.ACK_REPORT_RUNWAY,
		traffic.SWITCH_GROUND_TOWER,
		traffic.ACK_SWITCH_GROUND_TOWER,
		traffic.NORMAL,
		traffic.NORMAL,
	}
	for i, state := range states {
		c.Update(t0.Add(time.Duration(3*i) * time.Second))
		rec := c.Record(1)
		if rec.State != state {
			t.Fatalf("tick %d: state %s, expected %s", i, rec.State, state)
		}
		if !rec.Instruction.HoldPosition {
			t.Fatalf("tick %d: queued aircraft not holding", i)
		}
	}
	if !c.Record(1).HandedOff {
		t.Errorf("aircraft not handed off")
	}

	expect := []radio.Kind{
		radio.MSG_REPORT_RUNWAY_HOLD_SHORT,
		radio.MSG_ACKNOWLEDGE_REPORT_RUNWAY_HOLD_SHORT,
		radio.MSG_SWITCH_TOWER_FREQUENCY,
		radio.MSG_ACKNOWLEDGE_SWITCH_TOWER_FREQUENCY,
	}
	if got := kinds(rl.Messages()); !slices.Equal(got, expect) {
		t.Errorf("radio exchange %v, expected %v", got, expect)
	}

	ac.takeOff = types.TAKEOFF_CLEARED
	c.Update(t0.Add(time.Minute))
	if in, _ := c.Instruction(1); in.HoldPosition || in.ChangeSpeed {
		t.Errorf("cleared aircraft still restricted: %+v", in)
	}
}

// junctionNetwork has two approaches meeting at junction 10: 1 -> 2 -> 10
// from the west and 3 -> 4 -> 10 from the south. Both continue to 11.
func junctionNetwork(t *testing.T) *groundnet.Network {
	return buildNetwork(t,
		[]testNode{{1, 0, 0}, {2, 50, 0}, {3, 100, -100}, {4, 100, -50}, {10, 100, 0}, {11, 150, 0}},
		[][2]int{{1, 2}, {2, 10}, {3, 4}, {4, 10}, {10, 11}})
}

func segmentBetween(t *testing.T, n *groundnet.Network, from, to int) int {
	t.Helper()
	seg := n.FindSegmentBetween(n.FindNode(from), n.FindNode(to))
	if seg == nil {
		t.Fatalf("no segment %d->%d", from, to)
	}
	return seg.Index
}

func TestConvergingAircraftTakeTurns(t *testing.T) {
	n := junctionNetwork(t)
	c, _ := newTestController(t, n)
	a := newTestAircraft(1, offset(45, 0), 90)
	b := newTestAircraft(2, offset(100, -55), 0)
	for _, ac := range []*testAircraft{a, b} {
		ac.perf.Radius = 20
	}
	onward := segmentBetween(t, n, 10, 11)
	c.AnnouncePosition(a, segmentBetween(t, n, 1, 2), []int{segmentBetween(t, n, 2, 10), onward}, types.LEG_TAXI_IN)
	c.AnnouncePosition(b, segmentBetween(t, n, 3, 4), []int{segmentBetween(t, n, 4, 10), onward}, types.LEG_TAXI_IN)

	now := t0
	for range 120 {
		now = now.Add(time.Second)
		c.Update(now)
	}
	if rec := c.Record(1); rec.Instruction.HoldPosition {
		t.Errorf("first aircraft holds short of the junction it reserved")
	}
	if rec := c.Record(2); !rec.Instruction.HoldPosition || rec.State != traffic.NORMAL {
		t.Errorf("second aircraft: state %s hold %v, expected to hold", rec.State, rec.Instruction.HoldPosition)
	}

	// Once the first aircraft is through, its reservation ages out and the
	// second one is told to go.
	a.pos = offset(125, 0)
	c.AnnouncePosition(a, onward, nil, types.LEG_TAXI_IN)
	for range 40 {
		now = now.Add(time.Second)
		c.Update(now)
	}
	if rec := c.Record(2); rec.Instruction.HoldPosition || rec.State != traffic.NORMAL {
		t.Errorf("second aircraft still held after the junction cleared: state %s", rec.State)
	}
}

func TestTrailingAircraftDoNotHoldEachOther(t *testing.T) {
	n := junctionNetwork(t)
	c, rl := newTestController(t, n)
	lead := newTestAircraft(1, offset(80, 0), 90)
	trail := newTestAircraft(2, offset(20, 0), 90)
	for _, ac := range []*testAircraft{lead, trail} {
		ac.perf.Radius = 20
	}
	onward := segmentBetween(t, n, 10, 11)
	c.AnnouncePosition(lead, segmentBetween(t, n, 2, 10), []int{onward}, types.LEG_TAXI_IN)
	c.AnnouncePosition(trail, segmentBetween(t, n, 1, 2), []int{segmentBetween(t, n, 2, 10), onward}, types.LEG_TAXI_IN)

	now := t0
	for range 30 {
		now = now.Add(time.Second)
		c.Update(now)
	}
	for _, id := range []types.AircraftID{1, 2} {
		if rec := c.Record(id); rec.Instruction.HoldPosition {
			t.Errorf("aircraft %d holds behind traffic going the same way", id)
		}
	}
	for _, m := range rl.Messages() {
		if m.Kind == radio.MSG_HOLD_POSITION {
			t.Errorf("unexpected hold for %s", m.Callsign)
		}
	}
}
