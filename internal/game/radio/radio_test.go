package radio

import (
	"strings"
	"testing"
	"time"
)

func TestLogKeepsMostRecent(t *testing.T) {
	l := NewLog(3)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		l.Transmit(NewMessage(now, 1, "AAL1", "TEST Ground", MSG_HOLD_POSITION, GROUND_TO_AIR))
		l.Transmit(NewMessage(now, 2, "DAL2", "TEST Ground", MSG_RESUME_TAXI, GROUND_TO_AIR))
	}

	msgs := l.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[2].AircraftID != 2 {
		t.Errorf("newest message should be for aircraft 2")
	}
	if n := len(l.For(1)); n != 1 {
		t.Errorf("expected 1 message for aircraft 1, got %d", n)
	}
	if msgs[0].ID == msgs[1].ID {
		t.Errorf("messages share an id")
	}
}

func TestMessageText(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for kind := range KindStringMap {
		msg := NewMessage(now, 1, "AAL1", "TEST Ground", kind, GROUND_TO_AIR)
		if !strings.Contains(msg.Text, "AAL1") {
			t.Errorf("%s: text %q lacks the callsign", kind, msg.Text)
		}
	}
	if msg := NewMessage(now, 1, "AAL1", "TEST Ground", MSG_HOLD_POSITION, GROUND_TO_AIR); !msg.IsUrgent {
		t.Errorf("hold position should be urgent")
	}
}
