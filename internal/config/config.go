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
)

// Database drivers.
const (
	DriverRedis  = "redis"
	DriverValkey = "valkey"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds the placebook API configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Storage     StorageConfig     `yaml:"storage"`
	AI          AIConfig          `yaml:"ai"`
	TagCache    TagCacheConfig    `yaml:"tag_cache"`
	Attachments AttachmentsConfig `yaml:"attachments"`
	CORS        CORSConfig        `yaml:"cors"`
	Auth        AuthConfig        `yaml:"auth"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: determined by env)
	Format string `yaml:"format"` // json or console (default: json in prod, console elsewhere)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig holds cross-origin settings. Empty origins disable CORS headers.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds document store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey, mongo, memory (default: redis)
	Addrs            []string `yaml:"addrs"`  // redis / valkey
	Password         string   `yaml:"password"`
	URI              string   `yaml:"uri"`  // mongo
	Name             string   `yaml:"name"` // mongo database name
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds key layout settings for Redis-like stores.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
	PageSize  int    `yaml:"page_size"` // FT.SEARCH page size for tag queries
}

// AIConfig holds tag generation provider settings. An empty api_key disables search.
type AIConfig struct {
	Provider    string       `yaml:"provider"`
	BaseURL     string       `yaml:"base_url"`
	APIKey      string       `yaml:"api_key"`
	Model       string       `yaml:"model"`
	Temperature float32      `yaml:"temperature"`
	MaxTags     int          `yaml:"max_tags"`
	TimeoutSec  int          `yaml:"timeout_sec"`
	Budget      BudgetConfig `yaml:"budget"`
}

// BudgetConfig caps tag generation tokens. Zero limits are unlimited.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"`
	Action            string `yaml:"action"` // warn (default) or reject
}

// Enabled reports whether any limit is set.
func (c BudgetConfig) Enabled() bool { return c.DailyTokenLimit > 0 || c.MonthlyTokenLimit > 0 }

// TagCacheConfig holds prompt-to-tags cache settings.
type TagCacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttl_sec"`
}

// AttachmentsConfig holds S3 upload settings.
type AttachmentsConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Bucket      string `yaml:"bucket"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	Prefix      string `yaml:"prefix"`
	PublicURL   string `yaml:"public_url"`
	AccessKey   string `yaml:"access_key"`
	SecretKey   string `yaml:"secret_key"`
	MaxMemoryMB int    `yaml:"max_memory_mb"`
}

// SearchEnabled reports whether a tag provider is configured.
func (c AIConfig) SearchEnabled() bool { return c.APIKey != "" }

// Timeout returns the provider request timeout.
func (c AIConfig) Timeout() time.Duration { return time.Duration(c.TimeoutSec) * time.Second }

// TTL returns the cache entry lifetime.
func (c TagCacheConfig) TTL() time.Duration { return time.Duration(c.TTLSec) * time.Second }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
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
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.Name == "" {
		c.Database.Name = "placebook"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "placebook:"
	}
	if c.Storage.PageSize <= 0 {
		c.Storage.PageSize = 200
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "openai"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gpt-4o-mini"
	}
	if c.AI.MaxTags <= 0 {
		c.AI.MaxTags = 8
	}
	if c.AI.TimeoutSec <= 0 {
		c.AI.TimeoutSec = 20
	}
	if c.AI.Budget.Action == "" {
		c.AI.Budget.Action = "warn"
	}
	if c.TagCache.TTLSec <= 0 {
		c.TagCache.TTLSec = 24 * 60 * 60
	}
	if c.Attachments.Region == "" {
		c.Attachments.Region = "us-east-1"
	}
	if c.Attachments.MaxMemoryMB <= 0 {
		c.Attachments.MaxMemoryMB = 32
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Database.Driver {
	case DriverRedis, DriverValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverMongo:
		if c.Database.URI == "" {
			return fmt.Errorf("database.uri is required for driver %q", c.Database.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver must be one of redis, valkey, mongo, memory, got %q", c.Database.Driver)
	}

	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2, got %g", c.AI.Temperature)
	}

	if c.AI.Budget.DailyTokenLimit < 0 || c.AI.Budget.MonthlyTokenLimit < 0 {
		return fmt.Errorf("ai.budget limits must not be negative")
	}
	switch c.AI.Budget.Action {
	case "", "warn", "reject":
	default:
		return fmt.Errorf("ai.budget.action must be warn or reject, got %q", c.AI.Budget.Action)
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Attachments.Enabled && c.Attachments.Bucket == "" {
		return fmt.Errorf("attachments.bucket is required when attachments are enabled")
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
