package envdoctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaklabco/envdoctor/config"
	"github.com/yaklabco/envdoctor/pkg/envdoctor"
)

// execute runs the root command with the given CLI args and captures the
// RunParams the command would dispatch with.
func execute(t *testing.T, args ...string) envdoctor.RunParams {
	t.Helper()

	var captured envdoctor.RunParams
	rootCmd := NewRootCmd(context.Background(), withRunFunc(func(params envdoctor.RunParams) error {
		captured = params
		return nil
	}))
	rootCmd.SetArgs(args)

	require.NoError(t, rootCmd.Execute())
	return captured
}

func TestRootCmdDefaults(t *testing.T) {
	config.SetGlobal(config.DefaultConfig())
	t.Cleanup(config.ResetGlobal)

	params := execute(t)

	assert.Empty(t, params.Dir)
	assert.False(t, params.Debug)
	assert.False(t, params.Verbose)
	assert.Zero(t, params.Timeout)
	assert.False(t, params.Config || params.DB || params.Verify || params.Clean || params.Watch)
	assert.Empty(t, params.Args)
}

func TestRootCmdFlagDefaultsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Debug = true
	cfg.Verbose = true
	config.SetGlobal(cfg)
	t.Cleanup(config.ResetGlobal)

	params := execute(t)

	assert.True(t, params.Debug)
	assert.True(t, params.Verbose)
}

func TestRootCmdFlags(t *testing.T) {
	params := execute(t, "-C", "/tmp/project", "--debug", "-v", "-t", "30s")

	assert.Equal(t, "/tmp/project", params.Dir)
	assert.True(t, params.Debug)
	assert.True(t, params.Verbose)
	assert.Equal(t, "30s", params.Timeout.String())
}

func TestRootCmdPseudoFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want func(p envdoctor.RunParams) bool
	}{
		{"db", []string{"--db"}, func(p envdoctor.RunParams) bool { return p.DB }},
		{"verify", []string{"--verify"}, func(p envdoctor.RunParams) bool { return p.Verify }},
		{"clean", []string{"--clean"}, func(p envdoctor.RunParams) bool { return p.Clean }},
		{"config", []string{"--config"}, func(p envdoctor.RunParams) bool { return p.Config }},
		{"watch", []string{"--watch"}, func(p envdoctor.RunParams) bool { return p.Watch }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := execute(t, tt.args...)
			assert.True(t, tt.want(params))
		})
	}
}

func TestRootCmdPositionalArgsReachRunFunc(t *testing.T) {
	params := execute(t, "--db", "app.db")

	assert.True(t, params.DB)
	assert.Equal(t, []string{"app.db"}, params.Args)
}

func TestRootCmdHasVersion(t *testing.T) {
	rootCmd := NewRootCmd(context.Background())
	assert.NotEmpty(t, rootCmd.Version)
}
