package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// routeList is the shape of the externally supplied route file.
type routeList struct {
	Routes []string `yaml:"routes"`
}

// Load reads the pipeline settings and the route list and assembles one
// Config. Both sources are required: a missing or malformed file is a fatal
// error, never a partially defaulted config — the pipeline must not run
// against an incomplete route set.
func Load(settingsPath, routesPath string) (*Config, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	routesData, err := os.ReadFile(routesPath)
	if err != nil {
		return nil, fmt.Errorf("reading route list: %w", err)
	}

	var routes routeList
	if err := yaml.Unmarshal(routesData, &routes); err != nil {
		return nil, fmt.Errorf("parsing route list YAML: %w", err)
	}
	cfg.Routes = routes.Routes

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills settings the YAML may omit. Route and locale/theme
// lists are never defaulted; Validate rejects configs without them.
func applyDefaults(cfg *Config) {
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = 4173
	}
	if len(cfg.Preview.Command) == 0 {
		cfg.Preview.Command = []string{
			"npm", "run", "preview", "--", "--port", strconv.Itoa(cfg.Preview.Port),
		}
	}
	if cfg.Preview.SettleSec == 0 {
		cfg.Preview.SettleSec = 3
	}
	if cfg.Preview.StopGraceSec == 0 {
		cfg.Preview.StopGraceSec = 5
	}

	if cfg.Browser.Concurrency == 0 {
		cfg.Browser.Concurrency = 4
	}

	if cfg.Render.MountSelector == "" {
		cfg.Render.MountSelector = "#root"
	}
	if cfg.Render.ReadinessThreshold == 0 {
		cfg.Render.ReadinessThreshold = 100
	}
	if cfg.Render.MinDocumentLength == 0 {
		cfg.Render.MinDocumentLength = 500
	}

	t := &cfg.Render.Timeouts
	if t.PageLoadSec == 0 {
		t.PageLoadSec = 30
	}
	if t.ReadinessSec == 0 {
		t.ReadinessSec = 15
	}
	if t.NetworkIdleSec == 0 {
		t.NetworkIdleSec = 10
	}
	if t.SettleSec == 0 {
		t.SettleSec = 2
	}

	if cfg.DistDir == "" {
		cfg.DistDir = "dist"
	}
	if cfg.OutDir == "" {
		cfg.OutDir = cfg.DistDir
	}
}
