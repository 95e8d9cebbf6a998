package auditlog

import "time"

// QueryFilter specifies criteria for querying audit events.
type QueryFilter struct {
	Document string
	NodeID   int64
	Kinds    []EventKind
	Limit    int
	Before   time.Time
	After    time.Time
}

// Logger is the interface for emitting and querying audit events.
type Logger interface {
	Emit(event Event)
	Query(filter QueryFilter) ([]Event, error)
	Close() error
}

// EventOption is a functional option for configuring optional Event fields.
type EventOption func(*Event)

// NewEvent builds an Event for document with the given options applied.
func NewEvent(kind EventKind, document, message string, opts ...EventOption) Event {
	e := Event{Kind: kind, Document: document, Message: message, Ordinal: -1}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithNode sets the NodeID field on the event.
func WithNode(id int64) EventOption {
	return func(e *Event) { e.NodeID = id }
}

// WithTitle sets the marker Title field on the event.
func WithTitle(title string) EventOption {
	return func(e *Event) { e.Title = title }
}

// WithOrdinal sets the Ordinal field on the event.
func WithOrdinal(ordinal int) EventOption {
	return func(e *Event) { e.Ordinal = ordinal }
}

// WithDetail sets the Detail field on the event (JSON-encoded extra data).
func WithDetail(detail string) EventOption {
	return func(e *Event) { e.Detail = detail }
}

// WithLevel sets the Level field on the event (info, warn, error).
func WithLevel(level string) EventOption {
	return func(e *Event) { e.Level = level }
}

// nopLogger is a no-op Logger used when no audit database is configured.
type nopLogger struct{}

// NopLogger returns a Logger that discards all events.
func NopLogger() Logger {
	return &nopLogger{}
}

func (n *nopLogger) Emit(_ Event) {}

func (n *nopLogger) Query(_ QueryFilter) ([]Event, error) {
	return nil, nil
}

func (n *nopLogger) Close() error {
	return nil
}
