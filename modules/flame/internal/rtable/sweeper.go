package rtable

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepPeriod is the default interval between expiry sweeps.
const DefaultSweepPeriod = 30 * time.Second

// SweeperOption is a function that configures the sweeper.
type SweeperOption func(*sweeperOptions)

// WithSweepPeriod configures the sweeper with an interval between sweeps.
func WithSweepPeriod(period time.Duration) SweeperOption {
	return func(o *sweeperOptions) {
		o.Period = period
	}
}

// WithSweeperLog configures the sweeper with a logger.
func WithSweeperLog(log *zap.SugaredLogger) SweeperOption {
	return func(o *sweeperOptions) {
		o.Log = log
	}
}

type sweeperOptions struct {
	Period time.Duration
	Log    *zap.SugaredLogger
}

func newSweeperOptions() *sweeperOptions {
	return &sweeperOptions{
		Period: DefaultSweepPeriod,
		Log:    zap.NewNop().Sugar(),
	}
}

// Sweeper periodically reclaims expired routes of destinations that are
// never looked up again.
type Sweeper struct {
	table  *Table
	period time.Duration
	log    *zap.SugaredLogger
}

// NewSweeper creates a new sweeper for the given table.
func NewSweeper(table *Table, options ...SweeperOption) *Sweeper {
	opts := newSweeperOptions()
	for _, o := range options {
		o(opts)
	}

	period := opts.Period
	if period <= 0 {
		period = DefaultSweepPeriod
	}

	return &Sweeper{
		table:  table,
		period: period,
		log:    opts.Log,
	}
}

// Run runs the sweeper until the specified context is canceled.
func (m *Sweeper) Run(ctx context.Context) error {
	m.log.Debugw("starting routing table sweeper", zap.Duration("period", m.period))
	defer m.log.Debugf("stopped routing table sweeper")

	timer := time.NewTicker(m.period)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if removed := m.table.Sweep(); removed > 0 {
				m.log.Infow("removed expired routes",
					zap.Int("removed", removed),
					zap.Int("size", m.table.Len()),
				)
			}
		}
	}
}
