// Package config loads the immutable run configuration: defaults in code,
// optional YAML file on top, environment variables last.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Region is one regional feed edition, e.g. {Lang: "en", Country: "US"}.
type Region struct {
	Lang    string `yaml:"lang"`
	Country string `yaml:"country"`
}

// Ceid returns the edition identifier used by search-feed endpoints ("US:en").
func (r Region) Ceid() string {
	return strings.ToUpper(r.Country) + ":" + strings.ToLower(r.Lang)
}

type Config struct {
	// Feed settings
	FeedTemplate  string   // endpoint template with {query}, {hl}, {gl}, {ceid} placeholders
	Topics        []string // topic phrases, one search feed per topic and region
	Regions       []Region
	FreshnessDays int // entries older than this are dropped before filtering

	// Pipeline settings
	MaxItems      int  // cap of the published list
	StrictContext bool // require a context-lexicon match in addition to inclusion

	// Fetcher settings
	Concurrency    int // requests in flight per batch
	RequestTimeout time.Duration

	// Output settings
	OutputPath string

	// Logging
	LogLevel string
	LogFile  string
}

// fileConfig is the YAML shape; only set fields override defaults.
type fileConfig struct {
	FeedTemplate   string   `yaml:"feed_template"`
	Topics         []string `yaml:"topics"`
	Regions        []Region `yaml:"regions"`
	FreshnessDays  int      `yaml:"freshness_days"`
	MaxItems       int      `yaml:"max_items"`
	StrictContext  *bool    `yaml:"strict_context"`
	Concurrency    int      `yaml:"concurrency"`
	RequestTimeout int      `yaml:"request_timeout_seconds"`
	OutputPath     string   `yaml:"output_path"`
	LogLevel       string   `yaml:"log_level"`
	LogFile        string   `yaml:"log_file"`
}

// Load builds the configuration. path may be empty or point to a missing
// file, in which case defaults plus environment overrides are used.
func Load(path string) (*Config, error) {
	cfg := &Config{
		// Default values
		FeedTemplate: "https://news.google.com/rss/search?q={query}&hl={hl}&gl={gl}&ceid={ceid}",
		Topics: []string{
			"custody transfer metering",
			"fiscal metering",
			"flow meter calibration",
			"meter proving",
			"ultrasonic flow meter",
		},
		Regions:        []Region{{Lang: "en", Country: "US"}, {Lang: "en", Country: "GB"}},
		FreshnessDays:  7,
		MaxItems:       30,
		Concurrency:    8,
		RequestTimeout: 15 * time.Second,
		OutputPath:     "data/news.json",
		LogLevel:       "info",
	}

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	return cfg, cfg.Validate()
}

func applyFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	var fc fileConfig
	if err := yaml.NewDecoder(f).Decode(&fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.FeedTemplate != "" {
		cfg.FeedTemplate = fc.FeedTemplate
	}
	if len(fc.Topics) > 0 {
		cfg.Topics = fc.Topics
	}
	if len(fc.Regions) > 0 {
		cfg.Regions = fc.Regions
	}
	if fc.FreshnessDays > 0 {
		cfg.FreshnessDays = fc.FreshnessDays
	}
	if fc.MaxItems > 0 {
		cfg.MaxItems = fc.MaxItems
	}
	if fc.StrictContext != nil {
		cfg.StrictContext = *fc.StrictContext
	}
	if fc.Concurrency > 0 {
		cfg.Concurrency = fc.Concurrency
	}
	if fc.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(fc.RequestTimeout) * time.Second
	}
	if fc.OutputPath != "" {
		cfg.OutputPath = fc.OutputPath
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FEED_TEMPLATE"); v != "" {
		cfg.FeedTemplate = v
	}
	cfg.OutputPath = getEnvOrDefault("OUTPUT_PATH", cfg.OutputPath)
	cfg.MaxItems = getEnvIntOrDefault("MAX_ITEMS", cfg.MaxItems)
	cfg.Concurrency = getEnvIntOrDefault("CONCURRENCY", cfg.Concurrency)
	cfg.FreshnessDays = getEnvIntOrDefault("FRESHNESS_DAYS", cfg.FreshnessDays)
	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RequestTimeout = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("STRICT_CONTEXT"); v != "" {
		cfg.StrictContext = v == "true" || v == "1"
	}
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnvOrDefault("LOG_FILE", cfg.LogFile)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if !strings.Contains(c.FeedTemplate, "{query}") {
		return fmt.Errorf("feed_template must contain a {query} placeholder")
	}
	if len(c.Topics) == 0 {
		return fmt.Errorf("at least one topic is required")
	}
	if len(c.Regions) == 0 {
		return fmt.Errorf("at least one region is required")
	}
	for _, r := range c.Regions {
		if r.Lang == "" || r.Country == "" {
			return fmt.Errorf("region needs both lang and country, got %+v", r)
		}
	}
	if c.MaxItems <= 0 {
		return fmt.Errorf("max_items must be positive")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output_path is required")
	}
	return nil
}
