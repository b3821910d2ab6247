package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/TaroNakasendo/modularsynth/internal/logging"
	"github.com/TaroNakasendo/modularsynth/pkg/domain"
)

// StreamManager fans patch events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates a manager with no subscribers.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a new subscriber. The returned function unsubscribes
// and closes the channel.
func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast sends msg to every subscriber, dropping it for slow ones.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

func (sm *StreamManager) publish(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		sm.logger.Error("SSE: event encode failed", "error", err)
		return
	}
	sm.Broadcast(string(b))
}

// Hooks returns lifecycle hooks that publish every patch event.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	cable := func(_ context.Context, e *domain.CableEvent) { sm.publish(e) }
	return domain.LifecycleHooks{
		OnConnect:          cable,
		OnDisconnect:       cable,
		OnMaterializeError: cable,
		OnSeverError:       cable,
		OnClear:            func(_ context.Context, e *domain.ClearEvent) { sm.publish(e) },
	}
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
