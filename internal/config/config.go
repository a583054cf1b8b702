package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const configFileName = "filemat"

// Backend names a blob store implementation.
type Backend string

const (
	BackendBbolt  Backend = "bbolt"
	BackendSQLite Backend = "sqlite"
)

// Config holds the configuration options for the application.
type Config struct {
	TempDir string       `yaml:"tempDir,omitempty"`
	DataDir string       `yaml:"dataDir,omitempty"`
	Backend Backend      `yaml:"backend,omitempty"`
	Eager   bool         `yaml:"eager,omitempty"`
	Sweep   *SweepConfig `yaml:"sweep,omitempty"`
	Http    *HttpConfig  `yaml:"http,omitempty"`
	Log     *LogConfig   `yaml:"log,omitempty"`
}

// SweepConfig controls reclamation of leaked temp files.
type SweepConfig struct {
	MaxAge time.Duration `yaml:"maxAge,omitempty"`
}

// HttpConfig holds configuration options for the HTTP resource backend.
type HttpConfig struct {
	ResponseHeaderTimeout time.Duration `yaml:"responseHeaderTimeout,omitempty"`
}

// LogConfig holds logging options.
type LogConfig struct {
	File  string `yaml:"file,omitempty"`
	Debug bool   `yaml:"debug,omitempty"`
}

// Path returns the location of the configuration file.
func Path() string {
	return filepath.Join(xdg.ConfigHome, configFileName)
}

// GetConfig reads the configuration file and returns a Config struct.
// If the configuration file does not exist, it returns the default configuration.
func GetConfig() (*Config, error) {
	return Load(Path())
}

// Load reads the configuration at path, filling unset fields from defaults.
func Load(path string) (*Config, error) {
	defaults := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &defaults, nil
		}

		return nil, err
	}

	if len(b) == 0 {
		return &defaults, nil
	}

	var cfg Config

	err = yaml.Unmarshal(b, &cfg)
	if err != nil {
		return nil, err
	}

	sweepCfg := zeroOr(cfg.Sweep, defaults.Sweep)
	httpCfg := zeroOr(cfg.Http, defaults.Http)
	logCfg := zeroOr(cfg.Log, defaults.Log)

	out := &Config{
		TempDir: zeroOr(cfg.TempDir, defaults.TempDir),
		DataDir: zeroOr(cfg.DataDir, defaults.DataDir),
		Backend: zeroOr(cfg.Backend, defaults.Backend),
		Eager:   zeroOr(cfg.Eager, defaults.Eager),
		Sweep: &SweepConfig{
			MaxAge: zeroOr(sweepCfg.MaxAge, defaults.Sweep.MaxAge),
		},
		Http: &HttpConfig{
			ResponseHeaderTimeout: zeroOr(httpCfg.ResponseHeaderTimeout, defaults.Http.ResponseHeaderTimeout),
		},
		Log: &LogConfig{
			File:  zeroOr(logCfg.File, defaults.Log.File),
			Debug: zeroOr(logCfg.Debug, defaults.Log.Debug),
		},
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}

// Validate reports settings that cannot be honoured.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendBbolt, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	if c.Sweep != nil && c.Sweep.MaxAge < 0 {
		return fmt.Errorf("sweep.maxAge must not be negative, got %s", c.Sweep.MaxAge)
	}

	return nil
}

// DatabasePath returns the blob store file for the configured backend.
func (c *Config) DatabasePath() string {
	if c.Backend == BackendSQLite {
		return filepath.Join(c.DataDir, "filemat.sqlite")
	}
	return filepath.Join(c.DataDir, "filemat.db")
}

func DefaultConfig() Config {
	return Config{
		TempDir: tempDir,
		DataDir: dataDir,
		Backend: defaultBackend,
		Eager:   eager,
		Sweep: &SweepConfig{
			MaxAge: sweepMaxAge,
		},
		Http: &HttpConfig{
			ResponseHeaderTimeout: responseHeaderTimeout,
		},
		Log: &LogConfig{
			File:  logFile,
			Debug: debug,
		},
	}
}

// zeroOr returns def if v is the zero value for its type.
func zeroOr[T any](v, def T) T {
	if reflect.ValueOf(v).IsZero() {
		return def
	}

	return v
}
