package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/rover/pkg/adapters/memory"
	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/observability"
	"github.com/aretw0/rover/pkg/ports"
	"github.com/aretw0/rover/pkg/session"
	"github.com/aretw0/rover/pkg/solutions/command"
	"github.com/aretw0/rover/pkg/solutions/nopattern"
	"github.com/aretw0/rover/pkg/solutions/state"
	"github.com/aretw0/rover/pkg/solutions/typestate"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var patterns = []ports.Pattern{
	nopattern.Pattern{},
	command.Pattern{},
	state.Pattern{},
	typestate.Pattern{},
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodePose(t *testing.T, p ports.Pattern, w *httptest.ResponseRecorder) domain.Pose {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	r, err := p.Decode(w.Body.Bytes())
	require.NoError(t, err, w.Body.String())
	return r.Pose()
}

// conforms checks a response body against the document's RobotState schema.
func conforms(t *testing.T, doc *openapi3.T, body []byte) {
	t.Helper()
	var value any
	require.NoError(t, json.Unmarshal(body, &value))
	schema := doc.Components.Schemas["RobotState"].Value
	assert.NoError(t, schema.VisitJSON(value), string(body))
}

func TestRobotRoutes(t *testing.T) {
	for _, p := range patterns {
		t.Run(p.Name(), func(t *testing.T) {
			srv := NewServer(session.NewManager(p))
			h := srv.Routes()

			start, err := json.Marshal(p.New(domain.NewPose(7, 3, domain.North)))
			require.NoError(t, err)

			w := do(t, h, http.MethodPost, "/reposition_robot", string(start))
			assert.Equal(t, domain.NewPose(7, 3, domain.North), decodePose(t, p, w))
			conforms(t, srv.Document(), w.Body.Bytes())

			w = do(t, h, http.MethodPost, "/move_robot", `{"instructions":"RAALA"}`)
			assert.Equal(t, domain.NewPose(9, 4, domain.North), decodePose(t, p, w))
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, "2", w.Header().Get("X-Robot-Revision"))
			conforms(t, srv.Document(), w.Body.Bytes())

			w = do(t, h, http.MethodGet, "/robot_position", "")
			assert.Equal(t, domain.NewPose(9, 4, domain.North), decodePose(t, p, w))

			w = do(t, h, http.MethodPost, "/reset_robot", "")
			assert.Equal(t, domain.Origin, decodePose(t, p, w))
			conforms(t, srv.Document(), w.Body.Bytes())
		})
	}
}

func TestMalformedBodies(t *testing.T) {
	for _, p := range patterns {
		t.Run(p.Name(), func(t *testing.T) {
			m := session.NewManager(p)
			h := NewHandler(m)

			assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/move_robot", `{"instructions":`).Code)
			assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/move_robot", `{"instructions":42}`).Code)
			assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/move_robot", `{}`).Code)
			assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/move_robot", `{"instrucions":"AAA"}`).Code)
			assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/move_robot", `{"instructions":"A"} trailing`).Code)
			assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/move_robot", `{"instructions":"A"}{"instructions":"A"}`).Code)
			assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/reposition_robot", `not json`).Code)
			assert.Equal(t, http.StatusBadRequest,
				do(t, h, http.MethodPost, "/reposition_robot", `{"x":1,"y":2,"facing":"Up"}`).Code)
			assert.Equal(t, http.StatusBadRequest,
				do(t, h, http.MethodPost, "/reposition_robot", `{"Up":{"position":{"x":1,"y":2}}}`).Code)

			snap, err := m.Position(context.Background())
			require.NoError(t, err)
			assert.Equal(t, domain.Origin, snap.Pose)
			assert.Equal(t, uint64(0), snap.Revision)
		})
	}
}

func TestMoveRoute_AcceptsEmptyInstructions(t *testing.T) {
	p := nopattern.Pattern{}
	h := NewHandler(session.NewManager(p))

	w := do(t, h, http.MethodPost, "/move_robot", "{\"instructions\":\"\"}\n")
	assert.Equal(t, domain.Origin, decodePose(t, p, w))
	assert.Equal(t, "1", w.Header().Get("X-Robot-Revision"))
}

func TestMoveRequest_RequiresInstructions(t *testing.T) {
	var req MoveRequest
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"steps":"A"}`), &req), domain.ErrMissingField)

	require.NoError(t, json.Unmarshal([]byte(`{"instructions":"RAALA"}`), &req))
	assert.Equal(t, "RAALA", req.Instructions)
}

func TestUndoRoute(t *testing.T) {
	p := command.Pattern{}
	h := NewHandler(session.NewManager(p))

	do(t, h, http.MethodPost, "/move_robot", `{"instructions":"AAR"}`)

	w := do(t, h, http.MethodPost, "/undo_robot", "")
	assert.Equal(t, domain.NewPose(0, 2, domain.North), decodePose(t, p, w))
	assert.Equal(t, "true", w.Header().Get("X-Robot-Undone"))

	do(t, h, http.MethodPost, "/undo_robot", "")
	do(t, h, http.MethodPost, "/undo_robot", "")
	w = do(t, h, http.MethodPost, "/undo_robot", "")
	assert.Equal(t, domain.Origin, decodePose(t, p, w))
	assert.Equal(t, "false", w.Header().Get("X-Robot-Undone"))
}

func TestUndoRoute_AbsentWithoutHistory(t *testing.T) {
	h := NewHandler(session.NewManager(state.Pattern{}))
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/undo_robot", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/robot_history", "").Code)
}

func TestHistoryRoute(t *testing.T) {
	h := NewHandler(session.NewManager(command.Pattern{}))

	w := do(t, h, http.MethodGet, "/robot_history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"history":[]}`, w.Body.String())

	do(t, h, http.MethodPost, "/move_robot", `{"instructions":"RA?L"}`)
	do(t, h, http.MethodPost, "/undo_robot", "")

	w = do(t, h, http.MethodGet, "/robot_history", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"turn_right", "advance"}, resp.History)

	doc := NewDocument(command.Pattern{}, DocumentOptions{Undo: true})
	require.NoError(t, doc.Validate(context.Background()))
	assert.NotNil(t, doc.Paths.Find("/robot_history"))
}

func TestGetHealth(t *testing.T) {
	h := NewHandler(session.NewManager(nopattern.Pattern{}))
	w := do(t, h, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetInfo(t *testing.T) {
	h := NewHandler(session.NewManager(command.Pattern{}), WithVersion("1.2.3"))
	w := do(t, h, http.MethodGet, "/info", "")

	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "rover-http", info["app"])
	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, APIVersion, info["api_version"])
	assert.Equal(t, "command", info["pattern"])
	assert.Equal(t, true, info["undo"])
}

func TestOpenAPIRoutes(t *testing.T) {
	h := NewHandler(session.NewManager(typestate.Pattern{}), WithEvents(memory.NewBroadcaster()))

	w := do(t, h, http.MethodGet, "/api-docs/openapi.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := openapi3.NewLoader().LoadFromData(w.Body.Bytes())
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	assert.NotNil(t, doc.Paths.Find("/events"))
	assert.Nil(t, doc.Paths.Find("/undo_robot"))
	assert.Nil(t, doc.Paths.Find("/robot_history"))

	w = do(t, h, http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
	assert.Contains(t, w.Body.String(), "/move_robot:")

	w = do(t, h, http.MethodGet, "/swagger-ui", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api-docs/openapi.json")
}

func TestCORSPreflight(t *testing.T) {
	h := NewHandler(session.NewManager(nopattern.Pattern{}))
	w := do(t, h, http.MethodOptions, "/move_robot", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsRoute(t *testing.T) {
	metrics := observability.NewMetrics()
	m := session.NewManager(nopattern.Pattern{}, session.WithSink(metrics))
	h := NewHandler(m, WithMetrics(metrics))

	do(t, h, http.MethodPost, "/move_robot", `{"instructions":"AAx"}`)
	do(t, h, http.MethodPost, "/move_robot", `{`)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `rover_http_requests_total{code="200",method="POST",route="/move_robot"} 1`)
	assert.Contains(t, body, `rover_http_requests_total{code="400",method="POST",route="/move_robot"} 1`)
	assert.Contains(t, body, `rover_instructions_total{instruction="advance",pattern="no_pattern"} 2`)
	assert.Contains(t, body, `rover_ignored_instructions_total{pattern="no_pattern"} 1`)
}

func TestMetricsRoute_DisabledByDefault(t *testing.T) {
	h := NewHandler(session.NewManager(nopattern.Pattern{}))
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/metrics", "").Code)
}

func TestSubscribeEvents(t *testing.T) {
	events := memory.NewBroadcaster()
	m := session.NewManager(state.Pattern{}, session.WithSink(events))
	ts := httptest.NewServer(NewHandler(m, WithEvents(events)))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	_, err = m.Move(ctx, "RA")
	require.NoError(t, err)

	var data string
	for lines.Scan() {
		if strings.HasPrefix(lines.Text(), "data: {") {
			data = strings.TrimPrefix(lines.Text(), "data: ")
			break
		}
	}
	require.NotEmpty(t, data)

	var event domain.PoseEvent
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	assert.Equal(t, domain.OpMove, event.Operation)
	assert.Equal(t, "state", event.Pattern)
	assert.Equal(t, domain.NewPose(1, 0, domain.East), event.Pose)
	assert.Equal(t, uint64(1), event.Revision)
}
