// Package wirebox provides CloudEvents integration for build observation.
// Events use the CloudEvents specification for standardized event format
// and better interoperability with external systems.
package wirebox

import (
	"context"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// CloudEvent is an alias for the CloudEvents Event type for convenience
type CloudEvent = cloudevents.Event

// ObserverFunc receives build events. Observers must return quickly; an
// error is logged but never fails the build.
type ObserverFunc func(ctx context.Context, event CloudEvent) error

// EventType constants for build events. Following the CloudEvents
// specification, these use reverse domain notation.
const (
	EventTypeBuildStarted   = "com.wirebox.build.started"
	EventTypeBuildCompleted = "com.wirebox.build.completed"
	EventTypeBuildFailed    = "com.wirebox.build.failed"

	EventTypeFileDiscovered       = "com.wirebox.file.discovered"
	EventTypeParameterSet         = "com.wirebox.parameter.set"
	EventTypeDefinitionRegistered = "com.wirebox.definition.registered"
)

// NewCloudEvent creates a new CloudEvent with the standard attributes set.
func NewCloudEvent(eventType, source string, data any) CloudEvent {
	event := cloudevents.NewEvent()
	event.SetID(generateEventID())
	event.SetSource(source)
	event.SetType(eventType)
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)
	if data != nil {
		_ = event.SetData(cloudevents.ApplicationJSON, data)
	}
	return event
}

// generateEventID generates a unique identifier for CloudEvents using
// UUIDv7, which is time-ordered.
func generateEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails for any reason
		id = uuid.New()
	}
	return id.String()
}

// observerRegistration holds one registered observer and its type filter.
// An empty filter receives every event.
type observerRegistration struct {
	fn         ObserverFunc
	eventTypes map[string]bool
}

func (r observerRegistration) wants(eventType string) bool {
	return len(r.eventTypes) == 0 || r.eventTypes[eventType]
}

// buildNotifier fans build events out to the registered observers.
type buildNotifier struct {
	source    string
	observers []observerRegistration
	logger    Logger
}

func (n *buildNotifier) notify(ctx context.Context, eventType string, data any) {
	if len(n.observers) == 0 {
		return
	}

	event := NewCloudEvent(eventType, n.source, data)
	for _, registration := range n.observers {
		if !registration.wants(eventType) {
			continue
		}
		if err := registration.fn(ctx, event); err != nil && n.logger != nil {
			n.logger.Warn("Build observer failed", "eventType", eventType, "error", err)
		}
	}
}

// observingSink decorates a Sink with event emission for every parameter
// and definition handed to it.
type observingSink struct {
	next     Sink
	notifier *buildNotifier
	ctx      context.Context
}

func (s *observingSink) SetParameter(name string, value any) {
	s.next.SetParameter(name, value)
	s.notifier.notify(s.ctx, EventTypeParameterSet, map[string]any{"name": name})
}

func (s *observingSink) SetDefinition(name string, definition *Definition) {
	s.next.SetDefinition(name, definition)
	s.notifier.notify(s.ctx, EventTypeDefinitionRegistered, map[string]any{
		"name":      name,
		"file":      definition.File,
		"namespace": definition.Namespace,
	})
}
