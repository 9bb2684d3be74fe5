package radio

import (
	"sync"

	"atc-ground/pkg/types"
)

// Log keeps the most recent transmissions. It is safe for concurrent use so
// that airports ticking in parallel can share one.
type Log struct {
	mu       sync.Mutex
	messages []Message
	maxSize  int
}

func NewLog(maxSize int) *Log {
	return &Log{maxSize: maxSize}
}

func (l *Log) Transmit(msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, msg)
	if len(l.messages) > l.maxSize {
		l.messages = l.messages[len(l.messages)-l.maxSize:]
	}
}

// Messages returns a copy of the log, oldest first.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]Message(nil), l.messages...)
}

// For returns the logged transmissions to or from one aircraft.
func (l *Log) For(id types.AircraftID) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	var m []Message
	for _, msg := range l.messages {
		if msg.AircraftID == id {
			m = append(m, msg)
		}
	}
	return m
}
