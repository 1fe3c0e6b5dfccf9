package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	return Config{
		AccountAPIURL:  "https://apis.mavicsoft.com/endpoints/ccc-hr-25-f",
		CommonAPIURL:   "https://apis.mavicsoft.com/endpoints/common",
		RequestTimeout: 15 * time.Second,
		DatabasePath:   "gophprofile.db",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	c := Config{LogLevel: "stale"}
	c.LoadDefaults()

	if diff := cmp.Diff(defaults(), c); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, c.Validate())
}

func TestLoad_Environment(t *testing.T) {
	env := envconfig.MapLookuper(map[string]string{
		"GPCLI_ACCOUNT_API_URL": "http://localhost:8080/account",
		"GPCLI_REQUEST_TIMEOUT": "2s",
		"GPCLI_LOG_FORMAT":      "json",
		"LOG_LEVEL":             "debug", // unprefixed, ignored
	})

	cfg, err := Load(context.Background(), env, "")
	require.NoError(t, err)

	want := defaults()
	want.AccountAPIURL = "http://localhost:8080/account"
	want.RequestTimeout = 2 * time.Second
	want.LogFormat = "json"
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_JSONOverridesEnvironment(t *testing.T) {
	path := writeFile(t, "cfg.json", `{
		"common_api_url": "http://localhost:9000/common",
		"request_timeout": 500000000,
		"database_path": ":memory:"
	}`)
	env := envconfig.MapLookuper(map[string]string{
		"GPCLI_DB_PATH":      "env.db",
		"GPCLI_LOG_LEVEL":    "warn",
		"GPCLI_METRICS_FILE": "m.prom",
	})

	cfg, err := Load(context.Background(), env, path)
	require.NoError(t, err)

	want := defaults()
	want.CommonAPIURL = "http://localhost:9000/common"
	want.RequestTimeout = 500 * time.Millisecond
	want.DatabasePath = MemoryDatabase
	want.LogLevel = "warn"
	want.MetricsFile = "m.prom"
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Load(ctx, envconfig.MapLookuper(map[string]string{"GPCLI_REQUEST_TIMEOUT": "soon"}), "")
	assert.Error(t, err)

	_, err = Load(ctx, envconfig.MapLookuper(nil), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(ctx, envconfig.MapLookuper(nil), writeFile(t, "bad.json", `{"request_timeout": "forever"}`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad url", func(c *Config) { c.AccountAPIURL = "not a url" }},
		{"empty common url", func(c *Config) { c.CommonAPIURL = "" }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"unknown format", func(c *Config) { c.LogFormat = "xml" }},
		{"unknown level", func(c *Config) { c.LogLevel = "trace" }},
		{"empty db", func(c *Config) { c.DatabasePath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := writeFile(t, ".env", "GPCLI_LOG_LEVEL=debug\nGPCLI_DB_PATH=from-file.db\n")
	t.Setenv("GPCLI_DB_PATH", "from-env.db")
	// registers cleanup for the variable the file sets
	t.Setenv("GPCLI_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("GPCLI_LOG_LEVEL"))

	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env"), path))

	cfg, err := Load(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "from-env.db", cfg.DatabasePath)
}
