package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventConnect          EventType = "connect"
	EventDisconnect       EventType = "disconnect"
	EventMaterializeError EventType = "materialize_error"
	EventSeverError       EventType = "sever_error"
	EventClear            EventType = "clear"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// CableEvent reports a change (or a failed change) to one cable.
type CableEvent struct {
	EventBase
	Source string `json:"source"`
	Sink   string `json:"sink"`
	Color  string `json:"color,omitempty"`
	Error  string `json:"error,omitempty"`
	// Cables is the number of cables in the graph after the event.
	Cables int `json:"cables"`
}

// ClearEvent reports a full reset of the graph.
type ClearEvent struct {
	EventBase
	Removed int `json:"removed"`
}

// LifecycleHooks defines callbacks for graph observability.
type LifecycleHooks struct {
	OnConnect          func(context.Context, *CableEvent)
	OnDisconnect       func(context.Context, *CableEvent)
	OnMaterializeError func(context.Context, *CableEvent)
	OnSeverError       func(context.Context, *CableEvent)
	OnClear            func(context.Context, *ClearEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnConnect:          chain(h.OnConnect, other.OnConnect),
		OnDisconnect:       chain(h.OnDisconnect, other.OnDisconnect),
		OnMaterializeError: chain(h.OnMaterializeError, other.OnMaterializeError),
		OnSeverError:       chain(h.OnSeverError, other.OnSeverError),
		OnClear:            chain(h.OnClear, other.OnClear),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
