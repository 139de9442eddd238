package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type CollectorConfig struct {
	ID  string `yaml:"id"`
	Key string `yaml:"key"`
}

type APIConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

type UploadConfig struct {
	BatchSize   int `yaml:"batch_size"`
	Concurrency int `yaml:"concurrency"`
}

type ReportConfig struct {
	TopN int `yaml:"top_n"`
}

// Config is the top-level configuration for the shipper.
type Config struct {
	Collector CollectorConfig `yaml:"collector"`
	API       APIConfig       `yaml:"api"`
	Upload    UploadConfig    `yaml:"upload"`
	Report    ReportConfig    `yaml:"report"`
}

func Default() Config {
	return Config{
		API:    APIConfig{URL: "https://api.lumu.io", Timeout: "30s"},
		Upload: UploadConfig{BatchSize: 500, Concurrency: 5},
		Report: ReportConfig{TopN: 5},
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config YAML: %w", err)
	}
	return cfg, nil
}

// Validate checks everything needed to contact the collector. Call it
// before the pipeline runs so missing credentials fail at startup.
func (c Config) Validate() error {
	if c.Collector.ID == "" {
		return fmt.Errorf("collector id is required (flag --collector-id or env COLLECTOR_ID)")
	}
	if c.Collector.Key == "" {
		return fmt.Errorf("client key is required (flag --client-key or env LUMU_CLIENT_KEY)")
	}
	if c.API.URL == "" {
		return fmt.Errorf("api url is required")
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

func (c Config) RequestTimeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid api timeout %q: %w", c.API.Timeout, err)
	}
	return timeout, nil
}

// Endpoint builds the collector ingestion URL.
func (c Config) Endpoint() string {
	return fmt.Sprintf("%s/collectors/%s/dns/queries?key=%s",
		strings.TrimSuffix(c.API.URL, "/"),
		url.PathEscape(c.Collector.ID),
		url.QueryEscape(c.Collector.Key),
	)
}
