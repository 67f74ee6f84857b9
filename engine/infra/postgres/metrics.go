package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// poolMetrics exposes pgxpool statistics as prometheus gauges via a custom
// collector, sampled on scrape.
type poolMetrics struct {
	pool *pgxpool.Pool

	totalConns    *prometheus.Desc
	acquiredConns *prometheus.Desc
	idleConns     *prometheus.Desc
	maxConns      *prometheus.Desc
}

func newPoolMetrics(pool *pgxpool.Pool) *poolMetrics {
	return &poolMetrics{
		pool: pool,
		totalConns: prometheus.NewDesc(
			"policytracker_postgres_connections_open",
			"Number of open Postgres connections", nil, nil,
		),
		acquiredConns: prometheus.NewDesc(
			"policytracker_postgres_connections_in_use",
			"Number of Postgres connections currently acquired", nil, nil,
		),
		idleConns: prometheus.NewDesc(
			"policytracker_postgres_connections_idle",
			"Number of idle Postgres connections", nil, nil,
		),
		maxConns: prometheus.NewDesc(
			"policytracker_postgres_connections_max",
			"Configured maximum number of Postgres connections", nil, nil,
		),
	}
}

func (m *poolMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.totalConns
	ch <- m.acquiredConns
	ch <- m.idleConns
	ch <- m.maxConns
}

func (m *poolMetrics) Collect(ch chan<- prometheus.Metric) {
	stat := m.pool.Stat()
	ch <- prometheus.MustNewConstMetric(m.totalConns, prometheus.GaugeValue, float64(stat.TotalConns()))
	ch <- prometheus.MustNewConstMetric(m.acquiredConns, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(m.idleConns, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(m.maxConns, prometheus.GaugeValue, float64(stat.MaxConns()))
}

// registerPoolMetrics attaches the collector to the default registry. An
// already-registered collector (store re-created in one process) is not an
// error.
func registerPoolMetrics(pool *pgxpool.Pool) (*poolMetrics, error) {
	m := newPoolMetrics(pool)
	if err := prometheus.Register(m); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (m *poolMetrics) unregister() {
	prometheus.Unregister(m)
}
