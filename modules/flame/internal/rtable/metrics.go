package rtable

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	updateInserted  = "inserted"
	updateReplaced  = "replaced"
	updateRefreshed = "refreshed"
	updateIgnored   = "ignored"
	updateInvalid   = "invalid"

	lookupHit  = "hit"
	lookupMiss = "miss"
)

type metrics struct {
	routes  prometheus.Gauge
	updates *prometheus.CounterVec
	lookups *prometheus.CounterVec
	expired prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		routes: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flame",
			Subsystem: "rtable",
			Name:      "routes",
			Help:      "Number of stored routes, including expired ones not yet purged",
		})),
		updates: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flame",
			Subsystem: "rtable",
			Name:      "updates_total",
			Help:      "Total number of path advertisements, per outcome (inserted/replaced/refreshed/ignored/invalid)",
		}, []string{"result"})),
		lookups: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flame",
			Subsystem: "rtable",
			Name:      "lookups_total",
			Help:      "Total number of route lookups, per outcome (hit/miss)",
		}, []string{"result"})),
		expired: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flame",
			Subsystem: "rtable",
			Name:      "expired_total",
			Help:      "Total number of routes purged after their lifetime elapsed",
		})),
	}

	// Make the counters present even when zero.
	for _, result := range []string{updateInserted, updateReplaced, updateRefreshed, updateIgnored, updateInvalid} {
		m.updates.WithLabelValues(result)
	}
	m.lookups.WithLabelValues(lookupHit)
	m.lookups.WithLabelValues(lookupMiss)

	return m
}

// register registers the collector, reusing an identical one that is
// already present, so that several tables can share a registerer.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
