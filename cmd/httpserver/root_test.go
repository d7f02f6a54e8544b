package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaitan80/minihttpd/internal/version"
)

func Test_Version_Flag(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), version.AppName+" version "+version.Version)
}

func Test_Resolve_Config_Flags_Override_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: 0.0.0.0:4221
files:
  directory: /srv/files
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	opts := &rootOptions{}
	cmd := newRootCmdWithOptions(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--directory", dir}))

	cfg, err := opts.resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:4221", cfg.Server.Address)
	assert.Equal(t, dir, cfg.Files.Directory)
}

func Test_Resolve_Config_Missing_File(t *testing.T) {
	opts := &rootOptions{}
	cmd := newRootCmdWithOptions(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}))

	_, err := opts.resolveConfig(cmd)
	assert.Error(t, err)
}

func Test_Run_Prints_Bound_Address(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--no-color", "--address", "127.0.0.1:0", "--directory", t.TempDir()})

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Regexp(t, `^Listening on 127\.0\.0\.1:\d+`, out.String())
}
