package docstore

import (
	"context"
	"fmt"
	"sync"

	"agora/internal/observability"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/event"
	"go.opentelemetry.io/otel/trace"
)

// commandMonitor records one latency sample and one client span per command.
type commandMonitor struct {
	inflight sync.Map // request id -> inflightCommand
}

type inflightCommand struct {
	collection string
	span       trace.Span
}

func newCommandMonitor() *event.CommandMonitor {
	m := &commandMonitor{}
	return &event.CommandMonitor{
		Started:   m.started,
		Succeeded: m.succeeded,
		Failed:    m.failed,
	}
}

func (m *commandMonitor) started(ctx context.Context, e *event.CommandStartedEvent) {
	collection := commandCollection(e.Command, e.CommandName)
	_, span := observability.StartStoreSpan(ctx, "mongodb", collection, e.CommandName)
	m.inflight.Store(e.RequestID, inflightCommand{collection: collection, span: span})
}

func (m *commandMonitor) succeeded(_ context.Context, e *event.CommandSucceededEvent) {
	m.finish(e.CommandFinishedEvent, nil)
}

func (m *commandMonitor) failed(_ context.Context, e *event.CommandFailedEvent) {
	m.finish(e.CommandFinishedEvent, fmt.Errorf("%s: %v", e.CommandName, e.Failure))
}

func (m *commandMonitor) finish(e event.CommandFinishedEvent, err error) {
	v, ok := m.inflight.LoadAndDelete(e.RequestID)
	if !ok {
		return
	}
	cmd := v.(inflightCommand)
	observability.StoreQueryLatency.
		WithLabelValues(Backend, cmd.collection, e.CommandName).
		Observe(e.Duration.Seconds())
	observability.EndSpan(cmd.span, err)
}

// commandCollection extracts the target collection of a command such as
// {find: "users", ...}. Commands without one report "admin".
func commandCollection(cmd bson.Raw, name string) string {
	if cmd == nil {
		return "admin"
	}
	if coll, ok := cmd.Lookup(name).StringValueOK(); ok && coll != "" {
		return coll
	}
	return "admin"
}
