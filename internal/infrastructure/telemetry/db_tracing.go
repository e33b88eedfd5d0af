package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSlowQueryThreshold applies when no threshold is configured
const DefaultSlowQueryThreshold = 200 * time.Millisecond

type queryStartKey struct{}

// DBTracing registers otelgorm spans plus a slow query detector on a gorm DB
type DBTracing struct {
	logFullSQL bool
	threshold  time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewDBTracing builds the plugin from the telemetry settings
func NewDBTracing(cfg config.TelemetryConfig, logger *zap.Logger) *DBTracing {
	threshold := cfg.DBSlowQueryThresh
	if threshold <= 0 {
		threshold = DefaultSlowQueryThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracing{
		logFullSQL: cfg.DBLogFullSQL,
		threshold:  threshold,
		logger:     logger.Named("db"),
		now:        time.Now,
	}
}

// Register installs otelgorm and the timing callbacks
func (t *DBTracing) Register(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !t.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := t.RegisterSlowQueryCallbacks(db); err != nil {
		return err
	}
	t.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", t.logFullSQL),
		zap.Duration("slow_query_threshold", t.threshold),
	)
	return nil
}

// RegisterSlowQueryCallbacks installs only the timing callbacks. Slow
// statements are logged and flagged on the active span.
func (t *DBTracing) RegisterSlowQueryCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	type registrar struct {
		op     string
		before func(name string, fn func(*gorm.DB)) error
		after  func(name string, fn func(*gorm.DB)) error
	}
	registrars := []registrar{
		{"create",
			func(n string, fn func(*gorm.DB)) error { return cb.Create().Before("gorm:create").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Create().After("gorm:create").Register(n, fn) }},
		{"query",
			func(n string, fn func(*gorm.DB)) error { return cb.Query().Before("gorm:query").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Query().After("gorm:query").Register(n, fn) }},
		{"update",
			func(n string, fn func(*gorm.DB)) error { return cb.Update().Before("gorm:update").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Update().After("gorm:update").Register(n, fn) }},
		{"delete",
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().Before("gorm:delete").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().After("gorm:delete").Register(n, fn) }},
		{"row",
			func(n string, fn func(*gorm.DB)) error { return cb.Row().Before("gorm:row").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Row().After("gorm:row").Register(n, fn) }},
		{"raw",
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().Before("gorm:raw").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().After("gorm:raw").Register(n, fn) }},
	}
	for _, r := range registrars {
		if err := r.before("bizledger:timing_before_"+r.op, t.before); err != nil {
			return err
		}
		if err := r.after("bizledger:timing_after_"+r.op, t.after); err != nil {
			return err
		}
	}
	return nil
}

func (t *DBTracing) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, t.now())
	}
}

func (t *DBTracing) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	recording := span.IsRecording()

	if recording {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := t.now().Sub(start)
	if elapsed <= t.threshold {
		return
	}
	fields := []zap.Field{
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Duration("threshold", t.threshold),
		zap.Int64("rows", db.Statement.RowsAffected),
	}
	if t.logFullSQL {
		fields = append(fields, zap.String("sql", db.Statement.SQL.String()))
	}
	t.logger.Warn("slow query", fields...)

	if recording {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
