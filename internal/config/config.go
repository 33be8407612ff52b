package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the employees API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Index    IndexConfig    `yaml:"index"`
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
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Database drivers.
const (
	DriverElasticsearch = "elasticsearch"
	DriverRedis         = "redis"
)

// DatabaseConfig holds search engine connection settings.
type DatabaseConfig struct {
	Driver             string   `yaml:"driver"` // elasticsearch, redis (default: elasticsearch)
	Addrs              []string `yaml:"addrs"`
	Username           string   `yaml:"username"`
	Password           string   `yaml:"password"`
	ReadinessTimeout   int      `yaml:"readiness_timeout_sec"`
	Refresh            string   `yaml:"refresh"`              // elasticsearch: true, false, wait_for
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify"` // elasticsearch only
	KeyPrefix          string   `yaml:"key_prefix"`           // redis only
	DB                 int      `yaml:"db"`                   // redis only
}

// IndexConfig holds index naming and pagination settings.
type IndexConfig struct {
	Name            string `yaml:"name"`
	DefaultPageSize int    `yaml:"default_page_size"`
	MaxPageSize     int    `yaml:"max_page_size"`
	MaxResultWindow int    `yaml:"max_result_window"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod, test).
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverElasticsearch
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 30
	}
	if c.Database.Refresh == "" {
		c.Database.Refresh = "wait_for"
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "employees:"
	}
	if c.Index.Name == "" {
		c.Index.Name = "employees"
	}
	if c.Index.DefaultPageSize <= 0 {
		c.Index.DefaultPageSize = 10
	}
	if c.Index.MaxPageSize <= 0 {
		c.Index.MaxPageSize = 100
	}
	if c.Index.MaxResultWindow <= 0 {
		c.Index.MaxResultWindow = 10000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverElasticsearch, DriverRedis:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q",
			DriverElasticsearch, DriverRedis, c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Database.Refresh {
	case "true", "false", "wait_for":
	default:
		return fmt.Errorf("database.refresh must be true, false or wait_for, got %q", c.Database.Refresh)
	}
	if !indexNameRegex.MatchString(c.Index.Name) {
		return fmt.Errorf("index.name %q must be lowercase alphanumeric with _ or -", c.Index.Name)
	}
	if c.Index.DefaultPageSize > c.Index.MaxPageSize {
		return fmt.Errorf("index.default_page_size %d exceeds index.max_page_size %d",
			c.Index.DefaultPageSize, c.Index.MaxPageSize)
	}
	if c.Index.MaxPageSize > c.Index.MaxResultWindow {
		return fmt.Errorf("index.max_page_size %d exceeds index.max_result_window %d",
			c.Index.MaxPageSize, c.Index.MaxResultWindow)
	}
	return nil
}

// LoadDotEnv reads .env files into the process environment. Variables that
// are already set win; missing files are skipped.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if fileExists(p) {
			_ = godotenv.Load(p)
		}
	}
}

var indexNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

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
