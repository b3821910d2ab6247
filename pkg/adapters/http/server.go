package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/TaroNakasendo/modularsynth"
	"github.com/TaroNakasendo/modularsynth/internal/logging"
	"github.com/TaroNakasendo/modularsynth/internal/presentation/graph"
	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	"github.com/TaroNakasendo/modularsynth/pkg/rackfile"
)

// Rack defines the operations the HTTP API exposes.
type Rack interface {
	Inspect() modularsynth.Snapshot
	CurrentCables() []domain.CableView
	CurrentDragPath() (domain.DragPath, bool)
	JackAt(p domain.Point) *domain.Jack

	Connect(ctx context.Context, a, b string) (*domain.Cable, error)
	DisconnectAll(ctx context.Context, qualified string) ([]domain.Cable, error)
	Clear(ctx context.Context)
	Rebuild(ctx context.Context) error
	SetKnob(ctx context.Context, module, label string, value float64) (domain.Knob, error)

	PressOn(id domain.JackID, at domain.Point) (bool, error)
	MoveTo(at domain.Point)
	ReleaseAt(ctx context.Context, at domain.Point, id domain.JackID) (domain.Outcome, error)
	CancelDrag()
}

// Server serves the rack over HTTP.
type Server struct {
	Rack    Rack
	Streams *StreamManager
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams shares a StreamManager whose hooks are installed on the rack,
// enabling GET /events.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the rack.
func NewHandler(rack Rack, opts ...Option) http.Handler {
	s := &Server{Rack: rack, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/modules", s.GetModules)
	r.Get("/cables", s.GetCables)
	r.Get("/drag", s.GetDrag)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)

	r.Post("/connect", s.Connect)
	r.Post("/disconnect", s.Disconnect)
	r.Post("/clear", s.Clear)
	r.Post("/resync", s.Resync)
	r.Post("/knobs", s.SetKnob)

	r.Route("/gestures", func(r chi.Router) {
		r.Post("/press", s.Press)
		r.Post("/move", s.Move)
		r.Post("/release", s.Release)
		r.Post("/cancel", s.Cancel)
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ConnectRequest names the two jacks of a cable, in any order.
type ConnectRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DisconnectRequest names the jack to unpatch.
type DisconnectRequest struct {
	Jack string `json:"jack"`
}

// KnobRequest moves one knob.
type KnobRequest struct {
	Module string  `json:"module"`
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
}

// PointerRequest is a pointer event. When JackID is empty the jack under
// (X, Y) is looked up.
type PointerRequest struct {
	JackID domain.JackID `json:"jack_id,omitempty"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
}

func (p PointerRequest) point() domain.Point {
	return domain.Point{X: p.X, Y: p.Y}
}

// CableResponse reports the cable a request produced, if any.
type CableResponse struct {
	Connected bool              `json:"connected"`
	Cable     *domain.CableView `json:"cable,omitempty"`
}

// RemovedResponse reports the cables a request removed.
type RemovedResponse struct {
	Removed []domain.CableView `json:"removed"`
}

// ReleaseResponse reports how a gesture resolved.
type ReleaseResponse struct {
	Resolution domain.Resolution  `json:"resolution"`
	Cable      *domain.CableView  `json:"cable,omitempty"`
	Removed    []domain.CableView `json:"removed,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "modularsynth-http",
		"version": modularsynth.Version,
	})
}

// GetModules handles the GET /modules request.
func (s *Server) GetModules(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Rack.Inspect().Modules)
}

// GetCables handles the GET /cables request.
func (s *Server) GetCables(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Rack.CurrentCables())
}

// GetDrag handles the GET /drag request. It answers 204 when no gesture is in progress.
func (s *Server) GetDrag(w http.ResponseWriter, r *http.Request) {
	path, ok := s.Rack.CurrentDragPath()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, path)
}

// GetGraph handles the GET /graph request: the full snapshot as JSON, or a
// Mermaid flowchart with ?format=mermaid.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	snap := s.Rack.Inspect()
	if r.URL.Query().Get("format") == "mermaid" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, graph.GenerateMermaid(snap))
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// Connect handles the POST /connect request.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	var body ConnectRequest
	if !s.decode(w, r, &body) {
		return
	}
	cable, err := s.Rack.Connect(r.Context(), body.From, body.To)
	if err != nil {
		s.fail(w, "Connect", err)
		return
	}
	if cable == nil {
		s.writeJSON(w, http.StatusOK, CableResponse{})
		return
	}
	view := s.view(*cable)
	s.writeJSON(w, http.StatusOK, CableResponse{Connected: true, Cable: &view})
}

// Disconnect handles the POST /disconnect request.
func (s *Server) Disconnect(w http.ResponseWriter, r *http.Request) {
	var body DisconnectRequest
	if !s.decode(w, r, &body) {
		return
	}
	removed, err := s.Rack.DisconnectAll(r.Context(), body.Jack)
	if err != nil {
		s.fail(w, "Disconnect", err)
		return
	}
	s.writeJSON(w, http.StatusOK, RemovedResponse{Removed: s.views(removed)})
}

// Clear handles the POST /clear request.
func (s *Server) Clear(w http.ResponseWriter, r *http.Request) {
	s.Rack.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Resync handles the POST /resync request.
func (s *Server) Resync(w http.ResponseWriter, r *http.Request) {
	if err := s.Rack.Rebuild(r.Context()); err != nil {
		s.fail(w, "Resync", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetKnob handles the POST /knobs request.
func (s *Server) SetKnob(w http.ResponseWriter, r *http.Request) {
	var body KnobRequest
	if !s.decode(w, r, &body) {
		return
	}
	k, err := s.Rack.SetKnob(r.Context(), body.Module, body.Label, body.Value)
	if err != nil {
		s.fail(w, "SetKnob", err)
		return
	}
	s.writeJSON(w, http.StatusOK, k)
}

// Press handles the POST /gestures/press request. Pressing where there is no
// jack is not an error: the response reports armed=false.
func (s *Server) Press(w http.ResponseWriter, r *http.Request) {
	var body PointerRequest
	if !s.decode(w, r, &body) {
		return
	}
	id := s.resolvePointer(body)
	if id == "" {
		s.writeJSON(w, http.StatusOK, map[string]bool{"armed": false})
		return
	}
	armed, err := s.Rack.PressOn(id, body.point())
	if err != nil {
		s.fail(w, "Press", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"armed": armed})
}

// Move handles the POST /gestures/move request.
func (s *Server) Move(w http.ResponseWriter, r *http.Request) {
	var body PointerRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.Rack.MoveTo(body.point())
	w.WriteHeader(http.StatusNoContent)
}

// Release handles the POST /gestures/release request.
func (s *Server) Release(w http.ResponseWriter, r *http.Request) {
	var body PointerRequest
	if !s.decode(w, r, &body) {
		return
	}
	outcome, err := s.Rack.ReleaseAt(r.Context(), body.point(), s.resolvePointer(body))
	if err != nil {
		s.fail(w, "Release", err)
		return
	}
	resp := ReleaseResponse{Resolution: outcome.Resolution, Removed: s.views(outcome.Removed)}
	if outcome.Cable != nil {
		view := s.view(*outcome.Cable)
		resp.Cable = &view
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Cancel handles the POST /gestures/cancel request.
func (s *Server) Cancel(w http.ResponseWriter, r *http.Request) {
	s.Rack.CancelDrag()
	w.WriteHeader(http.StatusNoContent)
}

// -- Helpers --

func (s *Server) resolvePointer(p PointerRequest) domain.JackID {
	if p.JackID != "" {
		return p.JackID
	}
	if j := s.Rack.JackAt(p.point()); j != nil {
		return j.ID()
	}
	return ""
}

func (s *Server) view(c domain.Cable) domain.CableView {
	return domain.CableView{
		Source: c.Source.QualifiedName(),
		Sink:   c.Sink.QualifiedName(),
		Color:  c.Color,
	}
}

func (s *Server) views(cables []domain.Cable) []domain.CableView {
	out := make([]domain.CableView, 0, len(cables))
	for _, c := range cables {
		out = append(out, s.view(c))
	}
	return out
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrJackNotFound),
		errors.Is(err, domain.ErrModuleNotFound),
		errors.Is(err, domain.ErrKnobNotFound):
		status = http.StatusNotFound
	case errors.Is(err, rackfile.ErrNameTooLarge),
		errors.Is(err, rackfile.ErrInvalidUTF8):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrMaterialize):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
