// Package config loads the scraper's configuration. Everything has a
// compiled-in default matching the hub's production setup, so the YAML file
// and environment variables are both optional.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/norwich-event-hub/scraper/internal/extract"
	"github.com/norwich-event-hub/scraper/internal/fetch"
	"github.com/norwich-event-hub/scraper/internal/orchestrator"
)

// Config is the full runtime configuration.
type Config struct {
	Listen       string         `yaml:"listen"`
	LogLevel     string         `yaml:"log_level"`
	FetchTimeout time.Duration  `yaml:"fetch_timeout"`
	RunBudget    time.Duration  `yaml:"run_budget"`
	Store        StoreConfig    `yaml:"store"`
	Sources      []SourceConfig `yaml:"sources"`
}

// StoreConfig points at the external event store.
type StoreConfig struct {
	URL string `yaml:"url"`
}

// SourceConfig overrides the built-in source list when present.
type SourceConfig struct {
	Name     string         `yaml:"name"`
	URL      string         `yaml:"url"`
	MaxItems int            `yaml:"max_items"`
	Rules    RulesConfig    `yaml:"rules"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// RulesConfig mirrors extract.Rules in YAML form.
type RulesConfig struct {
	Item  string `yaml:"item"`
	Title string `yaml:"title"`
	Venue string `yaml:"venue"`
	Date  string `yaml:"date"`
	Time  string `yaml:"time"`
	Link  string `yaml:"link"`
	Price string `yaml:"price"`
}

// DefaultsConfig mirrors extract.Defaults in YAML form.
type DefaultsConfig struct {
	Time     string `yaml:"time"`
	Location string `yaml:"location"`
	Category string `yaml:"category"`
	Vibe     string `yaml:"vibe"`
	Crowd    string `yaml:"crowd"`
	BestFor  string `yaml:"best_for"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Listen:       ":8787",
		LogLevel:     "INFO",
		FetchTimeout: fetch.DefaultTimeout,
		RunBudget:    orchestrator.DefaultBudget,
	}
}

// Load reads an optional YAML file over the defaults and applies environment
// overrides. A missing file (or empty path) is not an error; a present but
// malformed file is. Environment variables are read after loading a .env
// file when one exists alongside the process.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	// .env is a convenience for local runs; absence is normal
	_ = godotenv.Load()

	if v := os.Getenv("SCRAPER_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("SCRAPER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("EVENT_STORE_URL"); v != "" {
		cfg.Store.URL = v
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = fetch.DefaultTimeout
	}
	if cfg.RunBudget <= 0 {
		cfg.RunBudget = orchestrator.DefaultBudget
	}

	return cfg, nil
}

// BuildSources turns the configured source list into extractors, falling
// back to the built-in Norwich sources when none are configured.
func (c *Config) BuildSources(client *fetch.Client) ([]*extract.Source, error) {
	if len(c.Sources) == 0 {
		return extract.DefaultSources(client), nil
	}

	sources := make([]*extract.Source, 0, len(c.Sources))
	for _, sc := range c.Sources {
		if sc.Name == "" || sc.URL == "" {
			return nil, fmt.Errorf("source needs both name and url: %+v", sc)
		}
		if sc.Rules.Item == "" {
			return nil, fmt.Errorf("source %s needs an item selector", sc.Name)
		}
		s := extract.NewSource(sc.Name, sc.URL, extract.Rules{
			Item:  sc.Rules.Item,
			Title: sc.Rules.Title,
			Venue: sc.Rules.Venue,
			Date:  sc.Rules.Date,
			Time:  sc.Rules.Time,
			Link:  sc.Rules.Link,
			Price: sc.Rules.Price,
		}, extract.Defaults{
			Time:     sc.Defaults.Time,
			Location: sc.Defaults.Location,
			Category: sc.Defaults.Category,
			Vibe:     sc.Defaults.Vibe,
			Crowd:    sc.Defaults.Crowd,
			BestFor:  sc.Defaults.BestFor,
		}, client)
		if sc.MaxItems > 0 {
			s.MaxItems = sc.MaxItems
		}
		sources = append(sources, s)
	}
	return sources, nil
}
