package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/cityscout/internal/domain"
)

// Session store drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
)

// Config holds the cityscout API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Session  SessionConfig  `yaml:"session"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port             int      `yaml:"port"`
	ReadTimeoutSec   int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec  int      `yaml:"write_timeout_sec"`
	ShutdownSec      int      `yaml:"shutdown_timeout_sec"`
	RateLimitPerMin  int      `yaml:"rate_limit_per_min"` // 0 = disabled
	CORSAllowOrigins []string `yaml:"cors_allow_origins"`
}

// DatasetConfig points at the city CSV.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// SessionConfig holds wizard session store settings.
type SessionConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis, valkey (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// TTL returns the session lifetime.
func (s SessionConfig) TTL() time.Duration { return time.Duration(s.TTLSec) * time.Second }

// AnalysisConfig holds clustering and ranking tunables.
type AnalysisConfig struct {
	Seed              uint64  `yaml:"seed"`
	Restarts          int     `yaml:"restarts"`
	MaxIterations     int     `yaml:"max_iterations"`
	Tolerance         float64 `yaml:"tolerance"`
	VarianceThreshold float64 `yaml:"variance_threshold"`
	DefaultTopN       int     `yaml:"default_top_n"`
	MaxTopN           int     `yaml:"max_top_n"`
	ElbowMaxK         int     `yaml:"elbow_max_k"`
}

// Domain converts the section into the analysis services' config.
func (a AnalysisConfig) Domain() domain.AnalysisConfig {
	return domain.AnalysisConfig{
		Seed:              a.Seed,
		Restarts:          a.Restarts,
		MaxIterations:     a.MaxIterations,
		Tolerance:         a.Tolerance,
		VarianceThreshold: a.VarianceThreshold,
		DefaultTopN:       a.DefaultTopN,
		MaxTopN:           a.MaxTopN,
		ElbowMaxK:         a.ElbowMaxK,
	}
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Session.Driver == "" {
		c.Session.Driver = DriverMemory
	}
	if c.Session.TTLSec <= 0 {
		c.Session.TTLSec = 1800
	}
	if c.Session.KeyPrefix == "" {
		c.Session.KeyPrefix = "cityscout:session:"
	}
	if c.Session.ReadinessTimeout <= 0 {
		c.Session.ReadinessTimeout = 10
	}

	def := domain.DefaultAnalysisConfig()
	a := &c.Analysis
	if a.Seed == 0 {
		a.Seed = def.Seed
	}
	if a.Restarts <= 0 {
		a.Restarts = def.Restarts
	}
	if a.MaxIterations <= 0 {
		a.MaxIterations = def.MaxIterations
	}
	if a.Tolerance <= 0 {
		a.Tolerance = def.Tolerance
	}
	if a.VarianceThreshold <= 0 {
		a.VarianceThreshold = def.VarianceThreshold
	}
	if a.DefaultTopN <= 0 {
		a.DefaultTopN = def.DefaultTopN
	}
	if a.MaxTopN <= 0 {
		a.MaxTopN = def.MaxTopN
	}
	if a.ElbowMaxK <= 0 {
		a.ElbowMaxK = def.ElbowMaxK
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimitPerMin < 0 {
		return fmt.Errorf("http.rate_limit_per_min must not be negative, got %d", c.HTTP.RateLimitPerMin)
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	switch c.Session.Driver {
	case DriverMemory:
	case DriverRedis, DriverValkey:
		if len(c.Session.Addrs) == 0 {
			return fmt.Errorf("session.addrs is required for driver %q", c.Session.Driver)
		}
	default:
		return fmt.Errorf("session.driver must be one of memory, redis, valkey, got %q", c.Session.Driver)
	}
	if v := c.Analysis.VarianceThreshold; v > 1 {
		return fmt.Errorf("analysis.variance_threshold must be in (0, 1], got %g", v)
	}
	if c.Analysis.DefaultTopN > c.Analysis.MaxTopN {
		return fmt.Errorf("analysis.default_top_n (%d) exceeds max_top_n (%d)",
			c.Analysis.DefaultTopN, c.Analysis.MaxTopN)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
