package database

import (
	"errors"
	"time"

	"agora/internal/observability"

	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	startKey = "observability:start"
	spanKey  = "observability:span"
)

// ObservabilityPlugin records a span and a latency sample for every GORM statement.
type ObservabilityPlugin struct {
	metrics *observability.StoreMetrics
}

// NewObservabilityPlugin returns a plugin reporting under the given backend label.
func NewObservabilityPlugin(backend string) *ObservabilityPlugin {
	return &ObservabilityPlugin{metrics: observability.NewStoreMetrics(backend)}
}

// Name implements gorm.Plugin.
func (p *ObservabilityPlugin) Name() string {
	return "observability"
}

// Initialize implements gorm.Plugin.
func (p *ObservabilityPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("observability:before_create", p.before("create")),
		cb.Create().After("gorm:create").Register("observability:after_create", p.after("create")),
		cb.Query().Before("gorm:query").Register("observability:before_query", p.before("query")),
		cb.Query().After("gorm:query").Register("observability:after_query", p.after("query")),
		cb.Update().Before("gorm:update").Register("observability:before_update", p.before("update")),
		cb.Update().After("gorm:update").Register("observability:after_update", p.after("update")),
		cb.Delete().Before("gorm:delete").Register("observability:before_delete", p.before("delete")),
		cb.Delete().After("gorm:delete").Register("observability:after_delete", p.after("delete")),
		cb.Row().Before("gorm:row").Register("observability:before_row", p.before("row")),
		cb.Row().After("gorm:row").Register("observability:after_row", p.after("row")),
		cb.Raw().Before("gorm:raw").Register("observability:before_raw", p.before("raw")),
		cb.Raw().After("gorm:raw").Register("observability:after_raw", p.after("raw")),
	)
}

func (p *ObservabilityPlugin) before(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx, span := observability.StartStoreSpan(db.Statement.Context, "sql", db.Statement.Table, operation)
		db.Statement.Context = ctx
		db.InstanceSet(spanKey, span)
		db.InstanceSet(startKey, time.Now())
	}
}

func (p *ObservabilityPlugin) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if v, ok := db.InstanceGet(startKey); ok {
			if start, ok := v.(time.Time); ok {
				p.metrics.ObserveQuery(db.Statement.Table, operation, start)
			}
		}
		if v, ok := db.InstanceGet(spanKey); ok {
			if span, ok := v.(trace.Span); ok {
				var err error
				if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
					err = db.Error
				}
				observability.EndSpan(span, err)
			}
		}
	}
}
