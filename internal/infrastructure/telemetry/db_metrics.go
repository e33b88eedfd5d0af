package telemetry

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// DefaultPoolStatsInterval is the default sampling period for pool gauges
const DefaultPoolStatsInterval = 15 * time.Second

// poolStatser is satisfied by *sql.DB
type poolStatser interface {
	Stats() sql.DBStats
}

// DBPoolMetrics samples connection pool statistics into gauges
type DBPoolMetrics struct {
	db       poolStatser
	interval time.Duration
	logger   *zap.Logger

	connections *Gauge
	maxOpen     *Gauge
	waitCount   *Gauge
	waitMillis  *Gauge

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewDBPoolMetrics creates the pool gauges on meter
func NewDBPoolMetrics(meter metric.Meter, db poolStatser, interval time.Duration, logger *zap.Logger) (*DBPoolMetrics, error) {
	if interval <= 0 {
		interval = DefaultPoolStatsInterval
	}
	m := &DBPoolMetrics{
		db:       db,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	var err error
	if m.connections, err = NewGauge(meter, "db_pool_connections", "Open connections by state", "{connection}"); err != nil {
		return nil, err
	}
	if m.maxOpen, err = NewGauge(meter, "db_pool_max_open", "Configured connection limit", "{connection}"); err != nil {
		return nil, err
	}
	if m.waitCount, err = NewGauge(meter, "db_pool_wait_count", "Total waits for a connection", "{wait}"); err != nil {
		return nil, err
	}
	if m.waitMillis, err = NewGauge(meter, "db_pool_wait_duration_ms", "Total time blocked waiting for a connection", "ms"); err != nil {
		return nil, err
	}
	return m, nil
}

// Start samples until ctx is done or Stop is called
func (m *DBPoolMetrics) Start(ctx context.Context) {
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.Collect(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			case <-ticker.C:
				m.Collect(ctx)
			}
		}
	}()
}

// Collect records one sample
func (m *DBPoolMetrics) Collect(ctx context.Context) {
	s := m.db.Stats()
	m.connections.Record(ctx, int64(s.InUse), AttrDBState.String("in_use"))
	m.connections.Record(ctx, int64(s.Idle), AttrDBState.String("idle"))
	m.maxOpen.Record(ctx, int64(s.MaxOpenConnections))
	m.waitCount.Record(ctx, s.WaitCount)
	m.waitMillis.Record(ctx, s.WaitDuration.Milliseconds())
}

// Stop ends sampling and waits for the loop to exit
func (m *DBPoolMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		<-m.done
		m.logger.Debug("db pool metrics stopped")
	})
}
