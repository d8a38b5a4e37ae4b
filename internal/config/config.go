// Package config resolves settings from defaults, a TOML file, a .env file
// and the environment, in that order of increasing priority. Root flags are
// applied on top by the caller, which then calls Validate.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/Makepad-fr/localtodo/internal/logging"
	"github.com/Makepad-fr/localtodo/internal/store"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	ConfigFileName = "todo.toml"
	EnvFileName    = ".env"
)

// Config is the resolved application configuration.
type Config struct {
	DataDir     string `toml:"data_dir"`
	Backend     string `toml:"backend"`
	QuotaBytes  int    `toml:"quota_bytes"`
	Theme       string `toml:"theme"`
	LogLevel    string `toml:"log_level"`
	BaseAPI     string `toml:"base_api"`
	TimeoutMS   int    `toml:"timeout_ms"`
	Token       string `toml:"token"`
	MetricsFile string `toml:"metrics_file"`

	// Source is the TOML file that was read, if any.
	Source string `toml:"-"`
}

// Timeout is TimeoutMS as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Defaults returns the built-in settings. Data lives in the working directory.
func Defaults() Config {
	return Config{
		DataDir:    ".",
		Backend:    BackendFile,
		QuotaBytes: store.DefaultQuota,
		Theme:      "classic",
		LogLevel:   "warn",
		TimeoutMS:  5000,
	}
}

// Loader finds configuration inputs. Zero values fall back to the process
// environment and the standard locations.
type Loader struct {
	// File is an explicit TOML path; when set it must exist.
	File string
	// EnvFile is the .env path; a missing file is ignored.
	EnvFile string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load resolves the configuration. It does not call Validate: root flags
// still apply on top, so the caller validates once they have.
func (l Loader) Load() (Config, error) {
	cfg := Defaults()

	path, err := l.configFile()
	if err != nil {
		return cfg, err
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.Source = path
	}

	dotenv, err := l.readEnvFile()
	if err != nil {
		return cfg, err
	}
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	// Real environment wins over .env.
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}
	if err := applyEnv(&cfg, get); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (l Loader) configFile() (string, error) {
	if l.File != "" {
		if _, err := os.Stat(l.File); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return l.File, nil
	}
	candidates := []string{ConfigFileName, "." + ConfigFileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "todo", ConfigFileName))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", nil
}

func (l Loader) readEnvFile() (map[string]string, error) {
	path := l.EnvFile
	if path == "" {
		path = EnvFileName
	}
	m, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return m, nil
}

func applyEnv(cfg *Config, get func(string) (string, bool)) error {
	setString := func(key string, dst *string) {
		if v, ok := get(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := get(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: not a number: %q", key, v)
		}
		*dst = n
		return nil
	}

	setString("TODO_DATA_DIR", &cfg.DataDir)
	setString("TODO_BACKEND", &cfg.Backend)
	setString("TODO_THEME", &cfg.Theme)
	setString("TODO_LOG_LEVEL", &cfg.LogLevel)
	setString("TODO_BASE_API", &cfg.BaseAPI)
	setString("TODO_API_TOKEN", &cfg.Token)
	setString("TODO_METRICS_FILE", &cfg.MetricsFile)
	if err := setInt("TODO_QUOTA_BYTES", &cfg.QuotaBytes); err != nil {
		return err
	}
	return setInt("TODO_TIMEOUT_MS", &cfg.TimeoutMS)
}

// Validate checks values that have a closed set of options.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("backend %q: want %s, %s or %s", c.Backend, BackendFile, BackendSQLite, BackendMemory)
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("theme %q: want classic, neon or mono", c.Theme)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.TimeoutMS < 0 {
		return fmt.Errorf("timeout_ms must not be negative")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}
