package main

import (
	"testing"

	"github.com/aretw0/rover/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyServerFlags(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	cmd := &cobra.Command{}
	addServerFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "9000", "--host", "127.0.0.1"}))

	require.NoError(t, applyServerFlags(cmd, cfg))
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
}

func TestApplyServerFlags_ValidatesPort(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	cmd := &cobra.Command{}
	addServerFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"-p", "70000"}))

	assert.ErrorIs(t, applyServerFlags(cmd, cfg), config.ErrInvalidConfig)
}
