package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the patentsim configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Cache      CacheConfig      `yaml:"cache"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Scraper    ScraperConfig    `yaml:"scraper"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the SQLite corpus store settings.
type DatabaseConfig struct {
	Path          string `yaml:"path"` // file path or ":memory:"
	BusyTimeoutMs int    `yaml:"busy_timeout_ms"`
}

// EmbeddingConfig holds encoder settings.
type EmbeddingConfig struct {
	Provider     string `yaml:"provider"` // hashing (default), openai, ollama
	Model        string `yaml:"model"`
	Dimensions   int    `yaml:"dimensions"`
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"`
	MaxBatchSize int    `yaml:"max_batch_size"`
	TimeoutSec   int    `yaml:"timeout_sec"`
}

// CacheConfig holds embedding cache settings.
type CacheConfig struct {
	Backend string       `yaml:"backend"` // none (default), memory, redis, badger
	TTLSec  int          `yaml:"ttl_sec"` // 0 = no expiry
	Redis   RedisConfig  `yaml:"redis"`
	Badger  BadgerConfig `yaml:"badger"`
}

// RedisConfig holds Redis cache backend settings.
type RedisConfig struct {
	Addrs               []string `yaml:"addrs"`
	Password            string   `yaml:"password"`
	ReadinessTimeoutSec int      `yaml:"readiness_timeout_sec"`
}

// BadgerConfig holds embedded Badger cache backend settings.
type BadgerConfig struct {
	Path string `yaml:"path"` // empty = in-memory
}

// NormalizerConfig holds text normalization settings.
type NormalizerConfig struct {
	ExtraStopWords []string `yaml:"extra_stop_words"`
}

// ScraperConfig holds patent page fetcher settings.
type ScraperConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	UserAgent  string `yaml:"user_agent"`
}

// IngestConfig holds ingestion settings.
type IngestConfig struct {
	Workers           int      `yaml:"workers"`
	OnStartup         bool     `yaml:"on_startup"`
	PatentNumbers     []string `yaml:"patent_numbers"`
	PatentNumbersFile string   `yaml:"patent_numbers_file"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
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
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Path == "" {
		c.Database.Path = "patents.db"
	}
	if c.Database.BusyTimeoutMs <= 0 {
		c.Database.BusyTimeoutMs = 5000
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "hashing"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = defaultModel(c.Embedding.Provider)
	}
	if c.Embedding.MaxBatchSize <= 0 {
		c.Embedding.MaxBatchSize = 256
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 30
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "none"
	}
	if c.Cache.Redis.ReadinessTimeoutSec <= 0 {
		c.Cache.Redis.ReadinessTimeoutSec = 10
	}
	if c.Scraper.BaseURL == "" {
		c.Scraper.BaseURL = "https://patents.google.com"
	}
	if c.Scraper.TimeoutSec <= 0 {
		c.Scraper.TimeoutSec = 30
	}
	if c.Scraper.UserAgent == "" {
		c.Scraper.UserAgent = "patentsim/1.0"
	}
	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = 1
	}
}

// defaultModel returns the all-MiniLM-L6-v2 name under which each provider serves it.
func defaultModel(provider string) string {
	if provider == "ollama" {
		return "all-minilm"
	}
	return "all-MiniLM-L6-v2"
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Embedding.Provider {
	case "hashing":
	case "openai":
		if c.Embedding.BaseURL == "" {
			return errors.New("embedding.base_url is required for provider \"openai\"")
		}
	case "ollama":
	default:
		return fmt.Errorf("embedding.provider must be \"hashing\", \"openai\" or \"ollama\", got %q", c.Embedding.Provider)
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must be >= 0, got %d", c.Embedding.Dimensions)
	}
	switch c.Cache.Backend {
	case "none", "memory", "badger":
	case "redis":
		if len(c.Cache.Redis.Addrs) == 0 {
			return errors.New("cache.redis.addrs is required for backend \"redis\"")
		}
	default:
		return fmt.Errorf("cache.backend must be \"none\", \"memory\", \"redis\" or \"badger\", got %q", c.Cache.Backend)
	}
	if c.Cache.TTLSec < 0 {
		return fmt.Errorf("cache.ttl_sec must be >= 0, got %d", c.Cache.TTLSec)
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
