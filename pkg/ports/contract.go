package ports

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRobotContract runs a suite of tests to verify that a Pattern and the robots
// it builds behave like every other implementation.
func RunRobotContract(t *testing.T, pattern Pattern) {
	t.Helper()

	apply := func(r Robot, instructions string) {
		for _, c := range instructions {
			r.Execute(c)
		}
	}

	t.Run("Reference Scenario", func(t *testing.T) {
		r := pattern.New(domain.NewPose(7, 3, domain.North))

		r.Execute('R')
		assert.Equal(t, domain.East, r.Pose().Facing)
		r.Execute('A')
		assert.Equal(t, 8, r.Pose().X)
		r.Execute('A')
		assert.Equal(t, 9, r.Pose().X)
		r.Execute('L')
		assert.Equal(t, domain.North, r.Pose().Facing)
		r.Execute('A')
		assert.Equal(t, 4, r.Pose().Y)

		assert.Equal(t, domain.NewPose(9, 4, domain.North), r.Pose())
	})

	t.Run("New Keeps Pose", func(t *testing.T) {
		for _, d := range domain.Directions() {
			start := domain.NewPose(-2, 5, d)
			assert.Equal(t, start, pattern.New(start).Pose())
		}
	})

	t.Run("Turn Cycle Closure", func(t *testing.T) {
		for _, d := range domain.Directions() {
			start := domain.NewPose(1, -1, d)
			for _, seq := range []string{"RRRR", "LLLL"} {
				r := pattern.New(start)
				apply(r, seq)
				assert.Equal(t, start, r.Pose(), "%s from %s", seq, d)
			}
		}
	})

	t.Run("Turn Inverse", func(t *testing.T) {
		for _, d := range domain.Directions() {
			start := domain.NewPose(0, 0, d)
			for _, seq := range []string{"RL", "LR"} {
				r := pattern.New(start)
				apply(r, seq)
				assert.Equal(t, start, r.Pose(), "%s from %s", seq, d)
			}
		}
	})

	t.Run("Turn Table", func(t *testing.T) {
		right := map[domain.Direction]domain.Direction{
			domain.North: domain.East,
			domain.East:  domain.South,
			domain.South: domain.West,
			domain.West:  domain.North,
		}
		for from, to := range right {
			r := pattern.New(domain.NewPose(3, 3, from))
			r.TurnRight()
			assert.Equal(t, domain.NewPose(3, 3, to), r.Pose(), "right from %s", from)

			r = pattern.New(domain.NewPose(3, 3, to))
			r.TurnLeft()
			assert.Equal(t, domain.NewPose(3, 3, from), r.Pose(), "left from %s", to)
		}
	})

	t.Run("Advance Unit Displacement", func(t *testing.T) {
		cases := []struct {
			facing domain.Direction
			want   domain.Pose
		}{
			{domain.North, domain.NewPose(10, 11, domain.North)},
			{domain.East, domain.NewPose(11, 10, domain.East)},
			{domain.South, domain.NewPose(10, 9, domain.South)},
			{domain.West, domain.NewPose(9, 10, domain.West)},
		}
		for _, tc := range cases {
			r := pattern.New(domain.NewPose(10, 10, tc.facing))
			r.Advance()
			assert.Equal(t, tc.want, r.Pose(), "advance facing %s", tc.facing)

			r = pattern.New(domain.NewPose(10, 10, tc.facing))
			r.Execute('A')
			assert.Equal(t, tc.want, r.Pose(), "execute 'A' facing %s", tc.facing)
		}
	})

	t.Run("Unknown Instructions Are Ignored", func(t *testing.T) {
		start := domain.NewPose(7, 3, domain.North)

		clean := pattern.New(start)
		apply(clean, "RAALA")

		noisy := pattern.New(start)
		apply(noisy, "xR A?A\tlLa9A!")

		assert.Equal(t, clean.Pose(), noisy.Pose())

		idle := pattern.New(start)
		apply(idle, "lra xyz 123 ↑")
		assert.Equal(t, start, idle.Pose())
	})

	t.Run("Robots Are Independent", func(t *testing.T) {
		start := domain.NewPose(0, 0, domain.North)
		a := pattern.New(start)
		b := pattern.New(start)
		apply(a, "RAA")
		assert.Equal(t, start, b.Pose())
	})

	t.Run("JSON Round Trip", func(t *testing.T) {
		for _, d := range domain.Directions() {
			r := pattern.New(domain.NewPose(-4, 12, d))
			data, err := json.Marshal(r)
			require.NoError(t, err)

			decoded, err := pattern.Decode(data)
			require.NoError(t, err, "decode %s", data)
			assert.Equal(t, r.Pose(), decoded.Pose())
		}
	})

	t.Run("New Rejects Invalid Direction", func(t *testing.T) {
		for _, d := range []domain.Direction{-1, 4} {
			assert.Panics(t, func() {
				pattern.New(domain.Pose{X: 1, Y: 2, Facing: d})
			}, "direction %d", int(d))
		}
	})

	t.Run("Decode Rejects Unknown Direction", func(t *testing.T) {
		var body string
		switch pattern.Shape() {
		case ShapeTagged:
			body = `{"Up":{"position":{"x":1,"y":2}}}`
		default:
			body = `{"x":1,"y":2,"facing":"Up"}`
		}
		_, err := pattern.Decode([]byte(body))
		assert.ErrorIs(t, err, domain.ErrUnknownDirection)
	})
}
