package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses YAML values like "10s" or "5m" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int      `yaml:"port"`
		ReadTimeout     Duration `yaml:"read_timeout"`
		WriteTimeout    Duration `yaml:"write_timeout"`
		ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Ephemeris struct {
		Provider      string   `yaml:"provider"` // builtin or sidecar
		SidecarURL    string   `yaml:"sidecar_url"`
		Timeout       Duration `yaml:"timeout"`
		CacheTTL      Duration `yaml:"cache_ttl"`
		MaxInFlight   int      `yaml:"max_in_flight"`
		RetryAttempts int      `yaml:"retry_attempts"`
	} `yaml:"ephemeris"`
	Cache struct {
		Backend       string   `yaml:"backend"` // memory, redis, layered
		ChartTTL      Duration `yaml:"chart_ttl"`
		MemoryMaxSize int      `yaml:"memory_max_size"`
		Redis         struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Search struct {
		Step          Duration `yaml:"step"`
		Tolerance     float64  `yaml:"tolerance"`
		MaxIterations int      `yaml:"max_iterations"`
		DedupWindow   Duration `yaml:"dedup_window"`
		Workers       int      `yaml:"workers"`
		Deadline      Duration `yaml:"deadline"`
	} `yaml:"search"`
	Events struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		Compression  string   `yaml:"compression"`
		RequiredAcks int      `yaml:"required_acks"`
	} `yaml:"events"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("EPHEMERIS_PROVIDER"); v != "" {
		c.Ephemeris.Provider = v
	}
	if v := os.Getenv("EPHEMERIS_SIDECAR_URL"); v != "" {
		c.Ephemeris.SidecarURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Events.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = Duration(60 * time.Second)
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Ephemeris.Provider == "" {
		c.Ephemeris.Provider = "builtin"
	}
	if c.Ephemeris.Timeout <= 0 {
		c.Ephemeris.Timeout = Duration(3 * time.Second)
	}
	if c.Ephemeris.CacheTTL <= 0 {
		c.Ephemeris.CacheTTL = Duration(time.Hour)
	}
	if c.Ephemeris.MaxInFlight <= 0 {
		c.Ephemeris.MaxInFlight = 8
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.ChartTTL <= 0 {
		c.Cache.ChartTTL = Duration(5 * time.Minute)
	}
	if c.Cache.MemoryMaxSize <= 0 {
		c.Cache.MemoryMaxSize = 2000
	}
	if c.Search.Step <= 0 {
		c.Search.Step = Duration(24 * time.Hour)
	}
	if c.Search.Tolerance <= 0 {
		c.Search.Tolerance = 0.0001
	}
	if c.Search.MaxIterations <= 0 {
		c.Search.MaxIterations = 100
	}
	if c.Search.DedupWindow <= 0 {
		c.Search.DedupWindow = Duration(10 * time.Minute)
	}
	if c.Search.Workers <= 0 {
		c.Search.Workers = 4
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Ephemeris.Provider {
	case "builtin", "sidecar":
	default:
		return fmt.Errorf("ephemeris.provider must be 'builtin' or 'sidecar', got '%s'", c.Ephemeris.Provider)
	}
	if c.Ephemeris.Provider == "sidecar" && c.Ephemeris.SidecarURL == "" {
		return fmt.Errorf("ephemeris.sidecar_url is required for sidecar provider")
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Backend != "memory" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for backend '%s'", c.Cache.Backend)
	}
	if c.Events.Enabled {
		if len(c.Events.Brokers) == 0 {
			return fmt.Errorf("events.brokers cannot be empty when events are enabled")
		}
		if c.Events.Topic == "" {
			return fmt.Errorf("events.topic is required when events are enabled")
		}
	}
	return nil
}
