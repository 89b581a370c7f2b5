package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"cmd"}, args...)
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
	assert.Empty(t, c.AccessToken)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"-a", "127.0.0.1:9090", "-t", "tok", "-r", "10s"},
			expected: &Config{ServerEndpointAddr: "127.0.0.1:9090", AccessToken: "tok", RequestTimeout: 10 * time.Second}},
		{name: "incorrect timeout", args: []string{"-a", "127.0.0.1:9090", "-r", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setArgs(t, tt.args...)
			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(tt.expected, config))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token": "from-file", "request_timeout": "2s"}`), 0o600))

	setArgs(t, "-config", path)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "127.0.0.1:50051", cfg.ServerEndpointAddr)
	assert.Equal(t, "from-file", cfg.AccessToken)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))
	setArgs(t, "-c", bad)
	require.Panics(t, func() { parseJson(&Config{}) })
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_endpoint_addr": "file:1", "access_token": "file"}`), 0o600))

	t.Setenv("DUTYBADGE_TOKEN", "env")
	setArgs(t, "-c", path, "-a", "flag:2")

	cfg := LoadConfig()
	assert.Equal(t, "flag:2", cfg.ServerEndpointAddr)
	assert.Equal(t, "env", cfg.AccessToken)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}
