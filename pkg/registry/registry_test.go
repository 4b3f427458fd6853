package registry

import (
	"testing"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/solutions/nopattern"
	"github.com/aretw0/rover/pkg/solutions/typestate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry(nopattern.Pattern{}, typestate.Pattern{})

	p, err := r.Lookup("type_state")
	require.NoError(t, err)
	assert.Equal(t, "type_state", p.Name())

	_, err = r.Lookup("visitor")
	assert.ErrorIs(t, err, domain.ErrUnknownPattern)
	assert.Contains(t, err.Error(), "no_pattern")
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry(typestate.Pattern{}, nopattern.Pattern{})
	r.Register(nopattern.Pattern{})

	assert.Equal(t, []string{"no_pattern", "type_state"}, r.Names())
	require.Len(t, r.All(), 2)
	assert.Equal(t, "no_pattern", r.All()[0].Name())
}
