// Package config loads the daemon configuration from a YAML file, filling
// in defaults for anything the file leaves out.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full daemon configuration.
type Config struct {
	Search     SearchConfig     `yaml:"search"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Site       SiteConfig       `yaml:"site"`
	Feed       FeedConfig       `yaml:"feed"`
	Thumbnails ThumbnailsConfig `yaml:"thumbnails"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Schedule   string           `yaml:"schedule"`
}

// SearchConfig configures the public-notice search API client.
type SearchConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Keywords string        `yaml:"keywords"`
	Counties []string      `yaml:"counties"`
	Limit    int           `yaml:"limit"`
	Timeout  time.Duration `yaml:"timeout"`
}

// CalendarConfig configures the civic-meeting-calendar API client. An empty
// base URL disables the calendar entirely.
type CalendarConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SiteConfig configures where the static site and the archives live.
type SiteConfig struct {
	Dir     string `yaml:"dir"`
	DataDir string `yaml:"data_dir"`
}

// FeedConfig carries the RSS channel metadata.
type FeedConfig struct {
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Description string `yaml:"description"`
	GUIDPrefix  string `yaml:"guid_prefix"`
}

// ThumbnailsConfig configures PDF preview generation. An empty command
// disables thumbnails.
type ThumbnailsConfig struct {
	Command []string      `yaml:"command"`
	Dir     string        `yaml:"dir"`
	Timeout time.Duration `yaml:"timeout"`
}

// MetricsConfig configures the Prometheus endpoint. An empty listen address
// disables it.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Search: SearchConfig{
			BaseURL:  "https://www.floridapublicnotices.com",
			Keywords: "kissimmee",
			Counties: []string{"Osceola"},
			Limit:    50,
			Timeout:  30 * time.Second,
		},
		Calendar: CalendarConfig{
			BaseURL: "https://kissimmeefl.api.civicclerk.com/v1",
			Timeout: 30 * time.Second,
		},
		Site: SiteConfig{
			Dir:     "site",
			DataDir: "data",
		},
		Feed: FeedConfig{
			Title:       "Kissimmee Public Notices",
			Link:        "https://kissimmee.fyi",
			Description: "Legal notices published for Kissimmee, Florida",
			GUIDPrefix:  "kissimmee-notice",
		},
		Thumbnails: ThumbnailsConfig{
			Command: []string{"pdftoppm", "-jpeg", "-singlefile", "-r", "50", "-", "-"},
			Dir:     "site/thumbnails",
			Timeout: 30 * time.Second,
		},
		Metrics: MetricsConfig{
			Listen: "",
		},
		Schedule: "@every 6h",
	}
}

// Load reads a YAML config file over the defaults. path may be empty, in
// which case the defaults are returned as is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Search.BaseURL == "" {
		return fmt.Errorf("search.base_url must not be empty")
	}
	if c.Search.Limit <= 0 {
		return fmt.Errorf("search.limit must be positive, got %d", c.Search.Limit)
	}
	if c.Site.Dir == "" || c.Site.DataDir == "" {
		return fmt.Errorf("site.dir and site.data_dir must not be empty")
	}
	if c.Schedule == "" {
		return fmt.Errorf("schedule must not be empty")
	}
	return nil
}
