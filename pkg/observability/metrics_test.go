package observability_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moveEvent(rev uint64, pose domain.Pose, report domain.Report) domain.PoseEvent {
	return domain.PoseEvent{
		Timestamp: time.Now(),
		Revision:  rev,
		Pattern:   "state",
		Operation: domain.OpMove,
		Pose:      pose,
		Report:    &report,
	}
}

func TestMetrics_Publish(t *testing.T) {
	m := observability.NewMetrics()
	ctx := context.Background()

	report := domain.Report{
		Applied: 5,
		Ignored: 2,
		Counts: map[domain.Instruction]int{
			domain.TurnRight: 1,
			domain.Advance:   3,
			domain.TurnLeft:  1,
		},
	}
	require.NoError(t, m.Publish(ctx, moveEvent(1, domain.NewPose(9, 4, domain.North), report)))
	require.NoError(t, m.Publish(ctx, domain.PoseEvent{
		Revision:  2,
		Pattern:   "state",
		Operation: domain.OpReset,
		Pose:      domain.NewPose(0, 0, domain.West),
	}))

	expected := `
# HELP rover_instructions_total Instructions applied by pattern and instruction
# TYPE rover_instructions_total counter
rover_instructions_total{instruction="advance",pattern="state"} 3
rover_instructions_total{instruction="turn_left",pattern="state"} 1
rover_instructions_total{instruction="turn_right",pattern="state"} 1
# HELP rover_operations_total Operations applied to the shared robot by pattern and operation
# TYPE rover_operations_total counter
rover_operations_total{operation="move",pattern="state"} 1
rover_operations_total{operation="reset",pattern="state"} 1
# HELP rover_ignored_instructions_total Unknown instruction characters skipped
# TYPE rover_ignored_instructions_total counter
rover_ignored_instructions_total{pattern="state"} 2
# HELP rover_facing 1 for the direction the robot currently faces, 0 otherwise
# TYPE rover_facing gauge
rover_facing{direction="East"} 0
rover_facing{direction="North"} 0
rover_facing{direction="South"} 0
rover_facing{direction="West"} 1
# HELP rover_revision Revision of the latest published robot state
# TYPE rover_revision gauge
rover_revision 2
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"rover_instructions_total",
		"rover_operations_total",
		"rover_ignored_instructions_total",
		"rover_facing",
		"rover_revision",
	)
	assert.NoError(t, err)
}

func TestMetrics_PositionGauges(t *testing.T) {
	m := observability.NewMetrics()
	require.NoError(t, m.Publish(context.Background(),
		moveEvent(1, domain.NewPose(-3, 7, domain.South), domain.Report{})))

	expected := `
# HELP rover_position Latest robot coordinate by axis
# TYPE rover_position gauge
rover_position{axis="x"} -3
rover_position{axis="y"} 7
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "rover_position"))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.ObserveRequest(http.MethodPost, "/move_robot", http.StatusOK, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `rover_http_requests_total{code="200",method="POST",route="/move_robot"} 1`)
	assert.Contains(t, body, "rover_http_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
