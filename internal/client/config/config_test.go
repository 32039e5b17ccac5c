package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"journal-cli"}, args...)
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:5000/api", c.ServerEndpointAddr)
	assert.Equal(t, "journal.db", c.StateDBPath)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_endpoint_addr": "https://journal.example/api",
		"state_db_path":        "/tmp/from-json.db",
		"request_timeout":      "3s",
	})
	withArgs(t, "-c", path, "-s", "/tmp/from-flag.db")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	want := &Config{
		ServerEndpointAddr: "https://journal.example/api",
		StateDBPath:        "/tmp/from-flag.db",
		RequestTimeout:     3 * time.Second,
		LogLevel:           "warn",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		withArgs(t, "-config", filepath.Join(t.TempDir(), "absent.json"))
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("bad timeout flag", func(t *testing.T) {
		withArgs(t, "-t", "soon")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		withArgs(t, "-a", "127.0.0.1:5000")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "http(s) URL")
	})
}

func TestParseFlags_TimeoutOnlyWhenGiven(t *testing.T) {
	withArgs(t, "-a", "http://h:1/api")
	cfg := &Config{RequestTimeout: 1500 * time.Millisecond}
	require.NoError(t, parseFlags(cfg))
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "http://h:1/api", cfg.ServerEndpointAddr)

	withArgs(t, "-t", "30")
	require.NoError(t, parseFlags(cfg))
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	c := base()
	c.StateDBPath = ""
	assert.Error(t, c.Validate())

	c = base()
	c.RequestTimeout = 0
	assert.Error(t, c.Validate())

	c = base()
	c.ServerEndpointAddr = "ftp://example.com"
	assert.Error(t, c.Validate())
}
