package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/rover/internal/logging"
	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RobotURI is the resource exposing the current robot state.
const RobotURI = "rover://robot"

// RobotResult is returned by every tool and mirrors what the HTTP adapter answers.
type RobotResult struct {
	Pattern  string         `json:"pattern" jsonschema_description:"Active robot implementation"`
	Revision uint64         `json:"revision" jsonschema_description:"Number of state changes since startup"`
	X        int            `json:"x" jsonschema_description:"Horizontal coordinate"`
	Y        int            `json:"y" jsonschema_description:"Vertical coordinate"`
	Facing   string         `json:"facing" jsonschema_description:"North, East, South or West"`
	State    map[string]any `json:"state" jsonschema_description:"Robot state in the pattern's own JSON shape"`
	Undone   *bool          `json:"undone,omitempty" jsonschema_description:"Set by undo_robot; false when the history was empty"`
}

// MoveArgs are the arguments of move_robot.
type MoveArgs struct {
	Instructions string `json:"instructions"`
}

// RepositionArgs are the arguments of reposition_robot.
type RepositionArgs struct {
	State string `json:"state"`
}

// HistoryResult is the output of robot_history.
type HistoryResult struct {
	History []string `json:"history" jsonschema_description:"Recorded command names, oldest first"`
}

// Robot defines what the MCP server needs from the shared robot.
type Robot interface {
	Pattern() ports.Pattern
	SupportsUndo() bool
	Move(ctx context.Context, instructions string) (domain.Snapshot, error)
	Reposition(ctx context.Context, state []byte) (domain.Snapshot, error)
	Reset(ctx context.Context) (domain.Snapshot, error)
	Undo(ctx context.Context) (domain.Snapshot, bool, error)
	History(ctx context.Context) ([]string, error)
	Position(ctx context.Context) (domain.Snapshot, error)
}

// Server exposes the robot as an MCP Server.
type Server struct {
	robot     Robot
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(robot Robot, version string, opts ...Option) *Server {
	s := &Server{
		robot:     robot,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("rover-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: move_robot
	moveTool := mcp.NewTool("move_robot",
		mcp.WithDescription("Apply an instruction string: L turns left, R turns right, A advances. Other characters are ignored."),
		mcp.WithString("instructions", mcp.Required(), mcp.Description("Instruction string, e.g. RAALA")),
		mcp.WithOutputSchema[RobotResult](),
	)
	s.mcpServer.AddTool(moveTool, mcp.NewStructuredToolHandler(s.handleMove))

	// TOOL: reposition_robot
	repositionTool := mcp.NewTool("reposition_robot",
		mcp.WithDescription("Replace the robot with the given state document."),
		mcp.WithString("state", mcp.Required(), mcp.Description("Robot state JSON in the active pattern's shape")),
		mcp.WithOutputSchema[RobotResult](),
	)
	s.mcpServer.AddTool(repositionTool, mcp.NewStructuredToolHandler(s.handleReposition))

	// TOOL: reset_robot
	s.mcpServer.AddTool(mcp.NewTool("reset_robot",
		mcp.WithDescription("Put the robot back at its starting pose."),
		mcp.WithOutputSchema[RobotResult](),
	), mcp.NewStructuredToolHandler(s.handleReset))

	// TOOL: robot_position
	s.mcpServer.AddTool(mcp.NewTool("robot_position",
		mcp.WithDescription("Read the current robot state."),
		mcp.WithOutputSchema[RobotResult](),
	), mcp.NewStructuredToolHandler(s.handlePosition))

	if s.robot.SupportsUndo() {
		// TOOL: undo_robot
		s.mcpServer.AddTool(mcp.NewTool("undo_robot",
			mcp.WithDescription("Revert the last executed command."),
			mcp.WithOutputSchema[RobotResult](),
		), mcp.NewStructuredToolHandler(s.handleUndo))

		// TOOL: robot_history
		s.mcpServer.AddTool(mcp.NewTool("robot_history",
			mcp.WithDescription("List the commands undo_robot would revert, oldest first."),
			mcp.WithOutputSchema[HistoryResult](),
		), mcp.NewStructuredToolHandler(s.handleHistory))
	}
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest, args MoveArgs) (RobotResult, error) {
	snap, err := s.robot.Move(ctx, args.Instructions)
	if err != nil {
		return RobotResult{}, fmt.Errorf("move failed: %w", err)
	}
	return s.result(snap)
}

func (s *Server) handleReposition(ctx context.Context, request mcp.CallToolRequest, args RepositionArgs) (RobotResult, error) {
	snap, err := s.robot.Reposition(ctx, []byte(args.State))
	if err != nil {
		s.logger.Warn("MCP Reposition: State rejected", "err", err)
		return RobotResult{}, fmt.Errorf("reposition failed: %w", err)
	}
	return s.result(snap)
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (RobotResult, error) {
	snap, err := s.robot.Reset(ctx)
	if err != nil {
		return RobotResult{}, fmt.Errorf("reset failed: %w", err)
	}
	return s.result(snap)
}

func (s *Server) handlePosition(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (RobotResult, error) {
	snap, err := s.robot.Position(ctx)
	if err != nil {
		return RobotResult{}, fmt.Errorf("position failed: %w", err)
	}
	return s.result(snap)
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (RobotResult, error) {
	snap, undone, err := s.robot.Undo(ctx)
	if err != nil {
		return RobotResult{}, fmt.Errorf("undo failed: %w", err)
	}
	res, err := s.result(snap)
	res.Undone = &undone
	return res, err
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (HistoryResult, error) {
	history, err := s.robot.History(ctx)
	if err != nil {
		return HistoryResult{}, fmt.Errorf("history failed: %w", err)
	}
	if history == nil {
		history = []string{}
	}
	return HistoryResult{History: history}, nil
}

func (s *Server) result(snap domain.Snapshot) (RobotResult, error) {
	var state map[string]any
	if err := json.Unmarshal(snap.State, &state); err != nil {
		return RobotResult{}, fmt.Errorf("failed to decode robot state: %w", err)
	}
	return RobotResult{
		Pattern:  s.robot.Pattern().Name(),
		Revision: snap.Revision,
		X:        snap.Pose.X,
		Y:        snap.Pose.Y,
		Facing:   snap.Pose.Facing.String(),
		State:    state,
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: rover://robot
	s.mcpServer.AddResource(mcp.NewResource(RobotURI, "Current Robot State",
		mcp.WithResourceDescription("State of the shared robot in the active pattern's JSON shape"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		snap, err := s.robot.Position(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read robot: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      RobotURI,
				MIMEType: "application/json",
				Text:     string(snap.State),
			},
		}, nil
	})
}
