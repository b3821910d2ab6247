package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/TaroNakasendo/modularsynth"
	"github.com/TaroNakasendo/modularsynth/internal/logging"
	"github.com/TaroNakasendo/modularsynth/internal/presentation/graph"
	"github.com/TaroNakasendo/modularsynth/pkg/domain"
)

// GraphURI is the resource holding the Mermaid diagram of the rack.
const GraphURI = "rack://graph"

// Rack defines the operations the MCP server exposes to agents.
type Rack interface {
	Inspect() modularsynth.Snapshot
	CurrentCables() []domain.CableView
	Connect(ctx context.Context, a, b string) (*domain.Cable, error)
	DisconnectAll(ctx context.Context, qualified string) ([]domain.Cable, error)
	Clear(ctx context.Context)
}

// CablesResponse aligns with the HTTP API and lists cables.
type CablesResponse struct {
	Cables []domain.CableView `json:"cables" jsonschema_description:"Cables currently patched"`
}

// ConnectArgs names the two jacks to patch.
type ConnectArgs struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ConnectResponse reports the cable a connect call produced.
type ConnectResponse struct {
	Connected bool   `json:"connected" jsonschema_description:"False when the pair cannot be patched (same jack or same direction)"`
	Source    string `json:"source,omitempty" jsonschema_description:"Source jack of the cable"`
	Sink      string `json:"sink,omitempty" jsonschema_description:"Sink jack of the cable"`
	Color     string `json:"color,omitempty" jsonschema_description:"Cable color"`
}

// DisconnectArgs names the jack to unpatch.
type DisconnectArgs struct {
	Jack string `json:"jack"`
}

// Server wraps the Rack and exposes it as an MCP Server.
type Server struct {
	rack      Rack
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(rack Rack, opts ...Option) *Server {
	s := &Server{
		rack:      rack,
		mcpServer: server.NewMCPServer("modularsynth-mcp", modularsynth.Version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_cables",
		mcp.WithDescription("List every cable currently patched, source first."),
		mcp.WithOutputSchema[CablesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListCables))

	s.mcpServer.AddTool(mcp.NewTool("connect",
		mcp.WithDescription("Patch a cable between two jacks given as MODULE.JACK. Order does not matter."),
		mcp.WithString("from", mcp.Required(), mcp.Description("First jack, e.g. VCO.OUT")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Second jack, e.g. VCF.IN")),
		mcp.WithOutputSchema[ConnectResponse](),
	), mcp.NewStructuredToolHandler(s.handleConnect))

	s.mcpServer.AddTool(mcp.NewTool("disconnect_all",
		mcp.WithDescription("Remove every cable plugged into a jack."),
		mcp.WithString("jack", mcp.Required(), mcp.Description("Jack as MODULE.JACK")),
		mcp.WithOutputSchema[CablesResponse](),
	), mcp.NewStructuredToolHandler(s.handleDisconnectAll))

	s.mcpServer.AddTool(mcp.NewTool("clear_patch",
		mcp.WithDescription("Remove every cable from the rack."),
	), s.handleClear)
}

func (s *Server) handleListCables(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (CablesResponse, error) {
	return CablesResponse{Cables: s.rack.CurrentCables()}, nil
}

func (s *Server) handleConnect(ctx context.Context, request mcp.CallToolRequest, args ConnectArgs) (ConnectResponse, error) {
	c, err := s.rack.Connect(ctx, args.From, args.To)
	if err != nil {
		return ConnectResponse{}, fmt.Errorf("connect failed: %w", err)
	}
	if c == nil {
		return ConnectResponse{}, nil
	}
	return ConnectResponse{
		Connected: true,
		Source:    c.Source.QualifiedName(),
		Sink:      c.Sink.QualifiedName(),
		Color:     c.Color,
	}, nil
}

func (s *Server) handleDisconnectAll(ctx context.Context, request mcp.CallToolRequest, args DisconnectArgs) (CablesResponse, error) {
	removed, err := s.rack.DisconnectAll(ctx, args.Jack)
	if err != nil {
		return CablesResponse{}, fmt.Errorf("disconnect failed: %w", err)
	}
	resp := CablesResponse{Cables: make([]domain.CableView, 0, len(removed))}
	for _, c := range removed {
		resp.Cables = append(resp.Cables, domain.CableView{
			Source: c.Source.QualifiedName(),
			Sink:   c.Sink.QualifiedName(),
			Color:  c.Color,
		})
	}
	return resp, nil
}

func (s *Server) handleClear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.rack.Clear(ctx)
	return mcp.NewToolResultText("patch cleared"), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Current Rack Diagram",
		mcp.WithMIMEType("text/plain"),
	), s.readGraph)

	s.mcpServer.AddResource(mcp.NewResource("rack://snapshot", "Current Rack Snapshot",
		mcp.WithMIMEType("application/json"),
	), s.readSnapshot)
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(s.rack.Inspect()),
		},
	}, nil
}

func (s *Server) readSnapshot(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(s.rack.Inspect())
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "rack://snapshot",
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
