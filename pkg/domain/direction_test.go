package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	for _, d := range Directions() {
		got, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	got, err := ParseDirection("south")
	require.NoError(t, err)
	assert.Equal(t, South, got)

	_, err = ParseDirection("Up")
	assert.ErrorIs(t, err, ErrUnknownDirection)
	assert.Contains(t, err.Error(), `"Up"`)
}

func TestDirection_Delta(t *testing.T) {
	total := Position{}
	for _, d := range Directions() {
		dx, dy := d.Delta()
		assert.Equal(t, 1, abs(dx)+abs(dy), "unit vector for %s", d)
		total.X += dx
		total.Y += dy
	}
	assert.Equal(t, Position{}, total)

	dx, dy := Direction(9).Delta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestDirection_Text(t *testing.T) {
	data, err := json.Marshal(map[string]Direction{"facing": West})
	require.NoError(t, err)
	assert.JSONEq(t, `{"facing":"West"}`, string(data))

	_, err = json.Marshal(Direction(7))
	assert.ErrorIs(t, err, ErrUnknownDirection)

	var d Direction
	assert.ErrorIs(t, json.Unmarshal([]byte(`"Sideways"`), &d), ErrUnknownDirection)
	assert.False(t, Direction(-1).IsValid())
	assert.Equal(t, "Direction(7)", Direction(7).String())
}

func TestParseInstruction(t *testing.T) {
	for _, ins := range Instructions() {
		got, ok := ParseInstruction(rune(ins))
		assert.True(t, ok)
		assert.Equal(t, ins, got)
	}
	for _, r := range "lra xX?" {
		_, ok := ParseInstruction(r)
		assert.False(t, ok, "rune %q", r)
	}
	assert.Equal(t, "advance", Advance.Name())
	assert.Equal(t, "L", TurnLeft.String())
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
