package rover_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/aretw0/rover"
	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/interpreter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := rover.DefaultRegistry(nil)
	assert.Equal(t, []string{"command", "no_pattern", "state", "type_state"}, reg.Names())
}

func TestNew(t *testing.T) {
	m, err := rover.New("state", rover.WithOrigin(domain.NewPose(7, 3, domain.North)))
	require.NoError(t, err)
	assert.Equal(t, "state", m.Pattern().Name())

	snap, err := m.Move(context.Background(), "RAALA")
	require.NoError(t, err)
	assert.Equal(t, domain.NewPose(9, 4, domain.North), snap.Pose)

	_, err = rover.New("visitor")
	assert.ErrorIs(t, err, domain.ErrUnknownPattern)
}

func TestNew_RejectsInvalidOrigin(t *testing.T) {
	for _, name := range rover.DefaultRegistry(nil).Names() {
		_, err := rover.New(name, rover.WithOrigin(domain.Pose{X: 1, Y: 1, Facing: domain.Direction(9)}))
		assert.ErrorIs(t, err, domain.ErrUnknownDirection, name)
	}
}

// Every implementation must land on the same pose for the same input.
func TestImplementationsAgree(t *testing.T) {
	patterns := rover.DefaultRegistry(nil).All()
	require.Len(t, patterns, 4)

	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("LRAxLRA ?")

	for i := 0; i < 200; i++ {
		start := domain.NewPose(rng.Intn(41)-20, rng.Intn(41)-20, domain.Directions()[rng.Intn(4)])
		program := make([]rune, rng.Intn(64))
		for j := range program {
			program[j] = alphabet[rng.Intn(len(alphabet))]
		}

		var want domain.Pose
		var wantReport domain.Report
		for k, p := range patterns {
			r := p.New(start)
			report := interpreter.Run(r, string(program))
			if k == 0 {
				want, wantReport = r.Pose(), report
				continue
			}
			assert.Equal(t, want, r.Pose(), "%s diverged on %q from %s", p.Name(), string(program), start)
			assert.Equal(t, wantReport.Applied, report.Applied)
			assert.Equal(t, wantReport.Ignored, report.Ignored)
		}
	}
}

func TestImplementationsAgreeThroughJSON(t *testing.T) {
	ctx := context.Background()
	for _, name := range rover.DefaultRegistry(nil).Names() {
		m, err := rover.New(name)
		require.NoError(t, err)

		_, err = m.Move(ctx, "AARAL")
		require.NoError(t, err)
		snap, err := m.Position(ctx)
		require.NoError(t, err)

		// Feed the robot's own state back in: nothing may change.
		again, err := m.Reposition(ctx, snap.State)
		require.NoError(t, err, name)
		assert.Equal(t, domain.NewPose(1, 2, domain.North), again.Pose, name)
		assert.JSONEq(t, string(snap.State), string(again.State), name)
	}
}
