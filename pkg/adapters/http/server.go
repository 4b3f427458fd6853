package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/rover/internal/logging"
	"github.com/aretw0/rover/pkg/adapters/memory"
	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/observability"
	"github.com/aretw0/rover/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes bounds request bodies; robot states and instruction strings are small.
const maxBodyBytes = 1 << 20

// Robot is the shared robot the handlers operate on. session.Manager satisfies it.
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

// MoveRequest is the body of POST /move_robot.
type MoveRequest struct {
	Instructions string `json:"instructions"`
}

// UnmarshalJSON requires the instructions field. An empty string is valid.
func (m *MoveRequest) UnmarshalJSON(data []byte) error {
	var wire struct {
		Instructions *string `json:"instructions"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Instructions == nil {
		return fmt.Errorf("%w: instructions", domain.ErrMissingField)
	}
	m.Instructions = *wire.Instructions
	return nil
}

// decodeBody decodes exactly one JSON value; anything after it is an error.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after the JSON body")
	}
	return nil
}

// Server holds the handler dependencies.
type Server struct {
	robot   Robot
	events  *memory.Broadcaster
	metrics *observability.Metrics
	version string
	logger  *slog.Logger
	doc     *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithEvents enables GET /events, streaming what the broadcaster receives.
func WithEvents(b *memory.Broadcaster) Option {
	return func(s *Server) {
		s.events = b
	}
}

// WithMetrics enables GET /metrics and per-request instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithVersion sets the build version reported by GET /info.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// NewServer creates a Server for robot.
func NewServer(robot Robot, opts ...Option) *Server {
	s := &Server{
		robot:   robot,
		version: "dev",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc = NewDocument(robot.Pattern(), DocumentOptions{
		Version: s.version,
		Undo:    robot.SupportsUndo(),
		Events:  s.events != nil,
	})
	return s
}

// NewHandler creates a new HTTP handler for the robot.
func NewHandler(robot Robot, opts ...Option) http.Handler {
	return NewServer(robot, opts...).Routes()
}

// Document returns the OpenAPI document describing the routes.
func (s *Server) Document() *openapi3.T {
	return s.doc
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	if s.metrics != nil {
		r.Use(instrument(s.metrics))
	}

	r.Post("/move_robot", s.MoveRobot)
	r.Post("/reposition_robot", s.RepositionRobot)
	r.Post("/reset_robot", s.ResetRobot)
	r.Get("/robot_position", s.RobotPosition)
	if s.robot.SupportsUndo() {
		r.Post("/undo_robot", s.UndoRobot)
		r.Get("/robot_history", s.RobotHistory)
	}
	if s.events != nil {
		r.Get("/events", s.SubscribeEvents)
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/api-docs/openapi.json", s.GetOpenAPIJSON)
	r.Get("/openapi.yaml", s.GetOpenAPIYAML)
	r.Get("/swagger-ui", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// MoveRobot handles POST /move_robot.
func (s *Server) MoveRobot(w http.ResponseWriter, r *http.Request) {
	var body MoveRequest
	if err := decodeBody(w, r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("MoveRobot: Invalid request body", "err", err)
		return
	}

	snap, err := s.robot.Move(r.Context(), body.Instructions)
	if err != nil {
		s.fail(w, "MoveRobot", err)
		return
	}
	s.logger.Debug("MoveRobot: Applied", "instructions", body.Instructions, "revision", snap.Revision)
	s.writeState(w, snap)
}

// RepositionRobot handles POST /reposition_robot.
func (s *Server) RepositionRobot(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("RepositionRobot: Unreadable body", "err", err)
		return
	}

	snap, err := s.robot.Reposition(r.Context(), body)
	if err != nil {
		s.fail(w, "RepositionRobot", err)
		return
	}
	s.writeState(w, snap)
}

// ResetRobot handles POST /reset_robot.
func (s *Server) ResetRobot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.robot.Reset(r.Context())
	if err != nil {
		s.fail(w, "ResetRobot", err)
		return
	}
	s.writeState(w, snap)
}

// RobotPosition handles GET /robot_position.
func (s *Server) RobotPosition(w http.ResponseWriter, r *http.Request) {
	snap, err := s.robot.Position(r.Context())
	if err != nil {
		s.fail(w, "RobotPosition", err)
		return
	}
	s.writeState(w, snap)
}

// UndoRobot handles POST /undo_robot. The X-Robot-Undone header is false
// when there was nothing to undo.
func (s *Server) UndoRobot(w http.ResponseWriter, r *http.Request) {
	snap, undone, err := s.robot.Undo(r.Context())
	if err != nil {
		s.fail(w, "UndoRobot", err)
		return
	}
	w.Header().Set("X-Robot-Undone", strconv.FormatBool(undone))
	s.writeState(w, snap)
}

// HistoryResponse is the body of GET /robot_history.
type HistoryResponse struct {
	History []string `json:"history"`
}

// RobotHistory handles GET /robot_history, listing the undoable commands oldest first.
func (s *Server) RobotHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.robot.History(r.Context())
	if err != nil {
		s.fail(w, "RobotHistory", err)
		return
	}
	if history == nil {
		history = []string{}
	}
	writeJSON(w, HistoryResponse{History: history})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"app":         "rover-http",
		"version":     s.version,
		"api_version": s.doc.Info.Version,
		"pattern":     s.robot.Pattern().Name(),
		"undo":        s.robot.SupportsUndo(),
	})
}

// GetOpenAPIJSON handles GET /api-docs/openapi.json.
func (s *Server) GetOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	data, err := s.doc.MarshalJSON()
	if err != nil {
		http.Error(w, "Failed to render OpenAPI document", http.StatusInternalServerError)
		s.logger.Error("Failed to render OpenAPI document", "err", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// GetOpenAPIYAML handles GET /openapi.yaml.
func (s *Server) GetOpenAPIYAML(w http.ResponseWriter, r *http.Request) {
	data, err := MarshalYAML(s.doc)
	if err != nil {
		http.Error(w, "Failed to render OpenAPI document", http.StatusInternalServerError)
		s.logger.Error("Failed to render OpenAPI document", "err", err)
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	_, _ = w.Write(data)
}

func (s *Server) writeState(w http.ResponseWriter, snap domain.Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Robot-Revision", strconv.FormatUint(snap.Revision, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(snap.State)
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidState):
		http.Error(w, fmt.Sprintf("Invalid robot state: %v", err), http.StatusBadRequest)
		s.logger.Warn(op+": Rejected state", "err", err)
	case errors.Is(err, domain.ErrUndoUnsupported):
		http.Error(w, err.Error(), http.StatusNotImplemented)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Rover API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/api-docs/openapi.json',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
