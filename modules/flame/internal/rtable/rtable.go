package rtable

import (
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/yanet-platform/flame/common/go/xmac"
)

// DefaultLifetime is the route lifetime used when none is configured.
const DefaultLifetime = 120 * time.Second

// Option is a function that configures the routing table.
type Option func(*options)

// WithClock configures the routing table with a time source.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.Clock = clock
	}
}

// WithLog configures the routing table with a logger.
func WithLog(log *zap.SugaredLogger) Option {
	return func(o *options) {
		o.Log = log
	}
}

// WithRegisterer configures where the routing table metrics are registered.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.Registerer = reg
	}
}

type options struct {
	Clock      Clock
	Log        *zap.SugaredLogger
	Registerer prometheus.Registerer
}

func newOptions() *options {
	return &options{
		Clock:      SystemClock{},
		Log:        zap.NewNop().Sugar(),
		Registerer: prometheus.NewRegistry(),
	}
}

// Table is the FLAME routing table.
//
// It keeps a single best path per destination. Every path is soft state: it
// becomes unusable once its lifetime elapses without being confirmed again.
type Table struct {
	mu       sync.Mutex
	routes   map[xmac.Addr]Route
	lifetime time.Duration
	clock    Clock
	metrics  *metrics
	log      *zap.SugaredLogger
}

// NewTable creates a new routing table whose paths live for the given
// duration after being accepted or confirmed.
//
// A non-positive lifetime means DefaultLifetime.
func NewTable(lifetime time.Duration, options ...Option) *Table {
	opts := newOptions()
	for _, o := range options {
		o(opts)
	}

	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}

	return &Table{
		routes:   map[xmac.Addr]Route{},
		lifetime: lifetime,
		clock:    opts.Clock,
		metrics:  newMetrics(opts.Registerer),
		log:      opts.Log,
	}
}

// Lifetime returns how long accepted paths stay valid.
func (m *Table) Lifetime() time.Duration {
	return m.lifetime
}

// AddPath offers a path to the destination via the given retransmitter.
//
// The path replaces the stored one only if its sequence number is fresher,
// or if the sequence numbers match and it is cheaper. Re-advertising exactly
// the stored sequence number and cost only extends the route's lifetime.
// Losing advertisements are dropped silently.
func (m *Table) AddPath(
	destination xmac.Addr,
	retransmitter xmac.Addr,
	iface uint32,
	cost uint32,
	seqnum uint16,
) {
	if destination.IsBroadcast() || retransmitter.IsBroadcast() {
		m.log.Debugw("ignoring path with broadcast address",
			zap.Stringer("destination", destination),
			zap.Stringer("retransmitter", retransmitter),
		)
		m.metrics.updates.WithLabelValues(updateInvalid).Inc()
		return
	}
	if cost > MaxCost {
		m.log.Debugw("clamping out of range path cost",
			zap.Stringer("destination", destination),
			zap.Uint32("cost", cost),
		)
		cost = clampCost(cost)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	expiresAt := now.Add(m.lifetime)

	route, ok := m.routes[destination]
	if ok && route.expired(now) {
		m.removeExpired(destination)
		ok = false
	}

	result := updateIgnored
	switch {
	case !ok:
		result = updateInserted
	case seqnumNewer(seqnum, route.Seqnum):
		result = updateReplaced
	case seqnum == route.Seqnum && cost < route.Cost:
		result = updateReplaced
	case seqnum == route.Seqnum && cost == route.Cost:
		result = updateRefreshed
	}

	switch result {
	case updateInserted, updateReplaced:
		m.routes[destination] = Route{
			Destination:   destination,
			Retransmitter: retransmitter,
			Interface:     iface,
			Cost:          cost,
			Seqnum:        seqnum,
			ExpiresAt:     expiresAt,
		}
	case updateRefreshed:
		route.ExpiresAt = expiresAt
		m.routes[destination] = route
	}

	m.metrics.updates.WithLabelValues(result).Inc()
	m.metrics.routes.Set(float64(len(m.routes)))

	m.log.Debugw("processed path",
		zap.String("result", result),
		zap.Stringer("destination", destination),
		zap.Stringer("retransmitter", retransmitter),
		zap.Uint32("interface", iface),
		zap.Uint32("cost", cost),
		zap.Uint16("seqnum", seqnum),
	)
}

// Lookup returns the path to the destination.
//
// Unknown and expired destinations yield NoRoute().
func (m *Table) Lookup(destination xmac.Addr) LookupResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	route, ok := m.routes[destination]
	if ok && route.expired(m.clock.Now()) {
		m.removeExpired(destination)
		ok = false
	}
	if !ok {
		m.metrics.lookups.WithLabelValues(lookupMiss).Inc()
		return NoRoute()
	}

	m.metrics.lookups.WithLabelValues(lookupHit).Inc()
	return route.result()
}

// Len returns the number of stored routes.
//
// Expired routes that were not observed yet are counted too.
func (m *Table) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.routes)
}

// Dump returns a copy of all valid routes ordered by destination.
func (m *Table) Dump() []Route {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	routes := make([]Route, 0, len(m.routes))
	for _, route := range m.routes {
		if !route.expired(now) {
			routes = append(routes, route)
		}
	}

	slices.SortFunc(routes, func(a Route, b Route) int {
		return a.Destination.Compare(b.Destination)
	})
	return routes
}

// Sweep removes all expired routes and returns how many were removed.
func (m *Table) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	removed := 0
	for destination, route := range m.routes {
		if route.expired(now) {
			m.removeExpired(destination)
			removed++
		}
	}

	return removed
}

// Clear removes all routes.
func (m *Table) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.routes)
	m.metrics.routes.Set(0)
}

// Must be called with the lock held.
func (m *Table) removeExpired(destination xmac.Addr) {
	delete(m.routes, destination)
	m.metrics.expired.Inc()
	m.metrics.routes.Set(float64(len(m.routes)))

	m.log.Debugw("route expired", zap.Stringer("destination", destination))
}
