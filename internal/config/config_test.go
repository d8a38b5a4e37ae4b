package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Loader{
		File:      writeFile(t, dir, "todo.toml", ""),
		EnvFile:   filepath.Join(dir, "missing.env"),
		LookupEnv: noEnv,
	}.Load()
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Backend)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, 5<<20, cfg.QuotaBytes)
}

func TestLayering(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "todo.toml", `
data_dir = "/from/toml"
backend = "sqlite"
theme = "neon"
timeout_ms = 1200
base_api = "https://toml.example"
`)
	env := writeFile(t, dir, ".env", "TODO_BASE_API=https://dotenv.example\nTODO_THEME=mono\n")

	cfg, err := Loader{
		File:    file,
		EnvFile: env,
		LookupEnv: envMap(map[string]string{
			"TODO_THEME":     "classic",
			"TODO_LOG_LEVEL": "debug",
		}),
	}.Load()
	require.NoError(t, err)

	assert.Equal(t, file, cfg.Source)
	assert.Equal(t, "/from/toml", cfg.DataDir)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, 1200*time.Millisecond, cfg.Timeout())
	assert.Equal(t, "https://dotenv.example", cfg.BaseAPI, ".env beats toml")
	assert.Equal(t, "classic", cfg.Theme, "environment beats .env")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvNumbers(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Loader{
		File:      writeFile(t, dir, "todo.toml", ""),
		EnvFile:   filepath.Join(dir, "none"),
		LookupEnv: envMap(map[string]string{"TODO_QUOTA_BYTES": "64", "TODO_TIMEOUT_MS": "10"}),
	}.Load()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.QuotaBytes)
	assert.Equal(t, 10, cfg.TimeoutMS)

	_, err = Loader{
		File:      writeFile(t, dir, "todo.toml", ""),
		EnvFile:   filepath.Join(dir, "none"),
		LookupEnv: envMap(map[string]string{"TODO_QUOTA_BYTES": "lots"}),
	}.Load()
	assert.ErrorContains(t, err, "TODO_QUOTA_BYTES")
}

func TestValidate(t *testing.T) {
	require.NoError(t, Defaults().Validate())

	for name, mutate := range map[string]func(*Config){
		"backend":   func(c *Config) { c.Backend = "redis" },
		"theme":     func(c *Config) { c.Theme = "sepia" },
		"log level": func(c *Config) { c.LogLevel = "loud" },
		"timeout":   func(c *Config) { c.TimeoutMS = -1 },
		"data dir":  func(c *Config) { c.DataDir = "" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Defaults()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Loader{
		File:      writeFile(t, dir, "todo.toml", `backend = "redis"`),
		EnvFile:   writeFile(t, dir, ".env", "TODO_THEME=sepia\nTODO_LOG_LEVEL=loud\n"),
		LookupEnv: noEnv,
	}.Load()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())

	// What a root flag override does before validation.
	cfg.Backend, cfg.Theme, cfg.LogLevel = BackendMemory, "mono", "debug"
	assert.NoError(t, cfg.Validate())
}

func TestSyntaxError(t *testing.T) {
	dir := t.TempDir()
	_, err := Loader{
		File:      writeFile(t, dir, "bad.toml", `backend = `),
		EnvFile:   filepath.Join(dir, "none"),
		LookupEnv: noEnv,
	}.Load()
	assert.Error(t, err)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Loader{File: filepath.Join(t.TempDir(), "nope.toml"), LookupEnv: noEnv}.Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}
