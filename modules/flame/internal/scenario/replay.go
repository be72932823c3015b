package scenario

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yanet-platform/flame/modules/flame/internal/forward"
	"github.com/yanet-platform/flame/modules/flame/internal/rtable"
)

// ErrExpectationFailed is returned when a lookup does not match its
// expectation.
var ErrExpectationFailed = errors.New("expectation failed")

// Outcome is the result of a single replayed event.
type Outcome struct {
	// Index is the position of the event in the replay order.
	Index int
	Event Event
	// Lookup is set for lookup events.
	Lookup *rtable.LookupResult
	// Frame is set for successfully forwarded data units.
	Frame *forward.Frame
	// Err is a forwarding error or an expectation mismatch.
	Err error
}

// String returns a human readable description of this outcome.
func (m Outcome) String() string {
	prefix := fmt.Sprintf("[%8s] #%d %s", m.Event.At, m.Index, m.Event.Kind())

	switch {
	case m.Event.Add != nil:
		add := m.Event.Add
		return fmt.Sprintf("%s %s via %s if=%d cost=%d seqnum=%d",
			prefix, add.Destination, add.Retransmitter, add.Interface, add.Cost, add.Seqnum)
	case m.Event.Lookup != nil:
		line := fmt.Sprintf("%s %s: %s", prefix, *m.Event.Lookup, formatResult(*m.Lookup))
		if m.Err != nil {
			line += fmt.Sprintf(" (FAILED: %v)", m.Err)
		}
		return line
	case m.Event.Forward != nil:
		if m.Err != nil {
			return fmt.Sprintf("%s %s: dropped: %v", prefix, m.Event.Forward.Destination, m.Err)
		}
		return fmt.Sprintf("%s %s: %d bytes via %s if=%d",
			prefix, m.Event.Forward.Destination, len(m.Frame.Data), m.Frame.NextHop, m.Frame.Interface)
	default:
		return prefix
	}
}

// Option is a function that configures the runner.
type Option func(*options)

// WithLog configures the runner with a logger.
func WithLog(log *zap.SugaredLogger) Option {
	return func(o *options) {
		o.Log = log
	}
}

type options struct {
	Log *zap.SugaredLogger
}

func newOptions() *options {
	return &options{
		Log: zap.NewNop().Sugar(),
	}
}

// Runner replays scenarios against a routing table driven by a virtual
// clock.
type Runner struct {
	table *rtable.Table
	clock *ManualClock
	log   *zap.SugaredLogger
}

// NewRunner creates a new runner.
//
// The table must read time from the given clock.
func NewRunner(table *rtable.Table, clock *ManualClock, options ...Option) *Runner {
	opts := newOptions()
	for _, o := range options {
		o(opts)
	}

	return &Runner{
		table: table,
		clock: clock,
		log:   opts.Log,
	}
}

// Replay applies every event of the scenario in order.
//
// All events are replayed even if some expectations fail, in which case the
// returned error wraps ErrExpectationFailed.
func (m *Runner) Replay(ctx context.Context, sc *Scenario) ([]Outcome, error) {
	forwarder := forward.NewForwarder(m.table, sc.Local, forward.WithLog(m.log))

	outcomes := make([]Outcome, 0, len(sc.Events))
	failed := 0
	for idx, event := range sc.Events {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		m.clock.Set(event.At)

		outcome := Outcome{
			Index: idx,
			Event: event,
		}

		switch {
		case event.Add != nil:
			add := event.Add
			m.table.AddPath(add.Destination, add.Retransmitter, add.Interface, add.Cost, add.Seqnum)
		case event.Lookup != nil:
			result := m.table.Lookup(*event.Lookup)
			outcome.Lookup = &result
			if event.Expect != nil {
				if err := event.Expect.Check(result); err != nil {
					outcome.Err = fmt.Errorf("%w: %w", ErrExpectationFailed, err)
					failed++
				}
			}
		case event.Forward != nil:
			frame, err := forwarder.Forward(event.Forward.Destination, []byte(event.Forward.Payload))
			if err != nil {
				outcome.Err = err
			} else {
				outcome.Frame = &frame
			}
		}

		m.log.Debugw("replayed event",
			zap.Int("index", idx),
			zap.Duration("at", event.At),
			zap.String("kind", event.Kind()),
			zap.Error(outcome.Err),
		)
		outcomes = append(outcomes, outcome)
	}

	if failed > 0 {
		return outcomes, fmt.Errorf("%w: %d of %d events", ErrExpectationFailed, failed, len(sc.Events))
	}

	return outcomes, nil
}
