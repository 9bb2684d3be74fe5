package groundnet

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestBlockActivation(t *testing.T) {
	s := &Segment{Index: 1}
	blockTime := t0.Add(20 * time.Second)
	s.Block(7, blockTime, t0)

	for _, tc := range []struct {
		now  time.Time
		want bool
	}{
		{t0, false},
		{blockTime.Add(-time.Second), false},
		{blockTime, false},
		{blockTime.Add(time.Nanosecond), true},
		{blockTime.Add(time.Minute), true},
	} {
		if got := s.HasBlock(tc.now); got != tc.want {
			t.Errorf("HasBlock(%s) = %v, expected %v", tc.now.Sub(blockTime), got, tc.want)
		}
	}
}

func TestBlockKeepsEarliestTime(t *testing.T) {
	s := &Segment{Index: 1}
	s.Block(7, t0.Add(60*time.Second), t0)
	s.Block(8, t0.Add(30*time.Second), t0)
	s.Block(7, t0.Add(10*time.Second), t0.Add(5*time.Second))
	s.Block(7, t0.Add(90*time.Second), t0.Add(6*time.Second))

	b := s.Blocks()
	if len(b) != 2 {
		t.Fatalf("expected one reservation per aircraft, got %d", len(b))
	}
	if b[0].ID != 7 || !b[0].BlockTime.Equal(t0.Add(10*time.Second)) {
		t.Errorf("first reservation %+v, expected aircraft 7 at +10s", b[0])
	}
	if !b[0].Touched.Equal(t0.Add(6 * time.Second)) {
		t.Errorf("touch time not refreshed: %s", b[0].Touched)
	}
	if b[1].ID != 8 {
		t.Errorf("second reservation should be aircraft 8, got %d", b[1].ID)
	}
}

func TestUnblockAging(t *testing.T) {
	s := &Segment{Index: 1}
	s.Block(7, t0, t0)

	s.Unblock(t0.Add(29 * time.Second))
	if len(s.Blocks()) != 1 {
		t.Fatalf("reservation dropped after 29s")
	}
	s.Unblock(t0.Add(31 * time.Second))
	if len(s.Blocks()) != 0 {
		t.Fatalf("reservation kept after 31s")
	}
}

func TestUnblockOnlyOldestPerCall(t *testing.T) {
	s := &Segment{Index: 1}
	s.Block(1, t0, t0)
	s.Block(2, t0.Add(time.Second), t0)

	s.Unblock(t0.Add(time.Minute))
	if b := s.Blocks(); len(b) != 1 || b[0].ID != 2 {
		t.Fatalf("expected only aircraft 2 left, got %+v", b)
	}
	s.Unblock(t0.Add(time.Minute))
	if len(s.Blocks()) != 0 {
		t.Fatalf("expected no reservations left")
	}
}

func TestBlockSegmentsEndingAt(t *testing.T) {
	// Three ways into junction 4, one way out.
	n := buildNetwork(t, []nodeSpec{
		{index: 1, x: -100}, {index: 2, y: 100}, {index: 3, y: -100}, {index: 4}, {index: 5, x: 100},
	}, [][2]int{{1, 4}, {2, 4}, {3, 4}, {4, 5}}, nil)

	segA := n.FindSegmentBetween(n.FindNode(1), n.FindNode(4))
	n.BlockSegmentsEndingAt(segA, 42, t0, t0)

	now := t0.Add(time.Second)
	for _, s := range n.Segments() {
		switch {
		case s == segA:
			if len(s.Blocks()) != 0 {
				t.Errorf("inbound segment %d blocked itself", s.Index)
			}
		case s.End == 4:
			if !s.HasBlock(now) {
				t.Errorf("segment %d into the junction not blocked", s.Index)
			}
			if b := s.Blocks(); len(b) != 1 || b[0].ID != 42 {
				t.Errorf("segment %d: unexpected reservations %+v", s.Index, b)
			}
		default:
			if len(s.Blocks()) != 0 {
				t.Errorf("segment %d does not end at the junction but was blocked", s.Index)
			}
		}
	}

	n.UnblockAllSegments(t0.Add(31 * time.Second))
	for _, s := range n.Segments() {
		if len(s.Blocks()) != 0 {
			t.Errorf("segment %d still blocked after expiry", s.Index)
		}
	}

	expectPanic(t, "nil segment", func() { n.BlockSegmentsEndingAt(nil, 1, t0, t0) })
}
