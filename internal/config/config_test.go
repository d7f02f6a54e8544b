package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func Test_Load_Config(t *testing.T) {
	path := writeConfig(t, `
server:
  address: 0.0.0.0:4221
  read_buffer_size: 8192
  read_timeout: 30
files:
  directory: /tmp/data
logging:
  debug: true
  log_to_file: true
  log_file_path: /var/log/minihttpd.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:4221", cfg.Server.Address)
	assert.Equal(t, 8192, cfg.Server.ReadBufferSize)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.Equal(t, "/tmp/data", cfg.Files.Directory)
	assert.True(t, cfg.Logging.Debug)
	assert.True(t, cfg.Logging.LogToFile)
	assert.Equal(t, "/var/log/minihttpd.log", cfg.Logging.LogFilePath)
	// Untouched values keep their defaults
	assert.Equal(t, 3, cfg.Logging.MaxBackups)
	assert.True(t, cfg.Logging.Compress)
}

func Test_Load_Minimal_Config_Keeps_Defaults(t *testing.T) {
	path := writeConfig(t, `
files:
  directory: files
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, LoadDefault().Server, cfg.Server)
	assert.Equal(t, "files", cfg.Files.Directory)
}

func Test_Load_Compress_False(t *testing.T) {
	path := writeConfig(t, `
logging:
  compress: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Logging.Compress)

	path = writeConfig(t, `
logging:
  compress: true
`)
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Logging.Compress)
}

func Test_Load_Invalid_YAML(t *testing.T) {
	path := writeConfig(t, "server: [not: a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func Test_Load_Rejects_Small_Buffer(t *testing.T) {
	path := writeConfig(t, `
server:
  read_buffer_size: 64
`)
	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func Test_Load_Missing_File(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func Test_Validate(t *testing.T) {
	cfg := LoadDefault()
	require.NoError(t, cfg.Validate())

	cfg.Server.Address = ""
	assert.Error(t, cfg.Validate())

	cfg = LoadDefault()
	cfg.Server.ReadTimeout = -1
	assert.Error(t, cfg.Validate())
}
