package ui

import (
	"bufio"
	"io"
	"strings"
)

// CommandInput reads operator commands, one per line, and queues them until
// the simulation loop is ready to run them.
type CommandInput struct {
	lines chan string
	done  chan struct{}
	err   error
}

// NewCommandInput starts reading r in the background. Blank lines are
// skipped.
func NewCommandInput(r io.Reader) *CommandInput {
	ci := &CommandInput{
		lines: make(chan string, 16),
		done:  make(chan struct{}),
	}
	go ci.read(r)
	return ci
}

func (ci *CommandInput) read(r io.Reader) {
	defer close(ci.done)
	defer close(ci.lines)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if text := strings.TrimSpace(sc.Text()); text != "" {
			ci.lines <- text
		}
	}
	ci.err = sc.Err()
}

// Poll hands every queued command to onSubmit without blocking.
func (ci *CommandInput) Poll(onSubmit func(string)) {
	for {
		select {
		case text, ok := <-ci.lines:
			if !ok {
				return
			}
			onSubmit(text)
		default:
			return
		}
	}
}

// Done is closed once the input is exhausted.
func (ci *CommandInput) Done() <-chan struct{} {
	return ci.done
}

// Err returns the read error, if any, once Done is closed.
func (ci *CommandInput) Err() error {
	<-ci.done
	return ci.err
}
