package flame

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanet-platform/flame/modules/flame/internal/rtable"
)

// Option is a function that configures the module.
type Option func(*options)

// WithClock configures the module with a routing table time source.
func WithClock(clock rtable.Clock) Option {
	return func(o *options) {
		o.Clock = clock
	}
}

type options struct {
	Clock rtable.Clock
}

func newOptions() *options {
	return &options{
		Clock: rtable.SystemClock{},
	}
}

// Module is the node-scoped FLAME routing state together with its
// maintenance tasks.
type Module struct {
	cfg      *Config
	table    *rtable.Table
	sweeper  *rtable.Sweeper
	registry *prometheus.Registry
	log      *zap.SugaredLogger
}

// NewModule creates a new Module.
func NewModule(cfg *Config, log *zap.SugaredLogger, options ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	opts := newOptions()
	for _, o := range options {
		o(opts)
	}

	log = log.With(zap.String("module", "flame"))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	table := rtable.NewTable(
		cfg.RTable.Lifetime,
		rtable.WithClock(opts.Clock),
		rtable.WithLog(log),
		rtable.WithRegisterer(registry),
	)
	sweeper := rtable.NewSweeper(
		table,
		rtable.WithSweepPeriod(cfg.RTable.SweepPeriod),
		rtable.WithSweeperLog(log),
	)

	log.Infow("initialized routing table",
		zap.Duration("lifetime", table.Lifetime()),
		zap.Duration("sweep_period", cfg.RTable.SweepPeriod),
	)

	return &Module{
		cfg:      cfg,
		table:    table,
		sweeper:  sweeper,
		registry: registry,
		log:      log,
	}, nil
}

// Table returns the routing table.
func (m *Module) Table() *rtable.Table {
	return m.table
}

// MetricsHandler returns the HTTP handler exposing module metrics.
func (m *Module) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Close closes the module, dropping all routes.
func (m *Module) Close() error {
	m.table.Clear()
	return nil
}

// Run runs the module until the specified context is canceled.
func (m *Module) Run(ctx context.Context) error {
	var listener net.Listener
	if m.cfg.MetricsEndpoint != "" {
		l, err := net.Listen("tcp", m.cfg.MetricsEndpoint)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics listener: %w", err)
		}
		listener = l
	}

	wg, ctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		return m.sweeper.Run(ctx)
	})
	if listener != nil {
		wg.Go(func() error {
			return m.serveMetrics(ctx, listener)
		})
	}

	return wg.Wait()
}

func (m *Module) serveMetrics(ctx context.Context, listener net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.MetricsHandler())

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	listenerAddr := listener.Addr()
	m.log.Infow("exposing metrics", zap.Stringer("addr", listenerAddr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server failed: %w", err)
	case <-ctx.Done():
	}

	m.log.Infow("stopping metrics", zap.Stringer("addr", listenerAddr))
	defer m.log.Infow("stopped metrics", zap.Stringer("addr", listenerAddr))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to stop metrics server: %w", err)
	}

	return ctx.Err()
}
