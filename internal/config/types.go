package config

import (
	"fmt"
	"time"
)

// Config is the full pipeline configuration: the settings YAML merged with
// the externally supplied route list. It is assembled once by Load and not
// mutated afterwards.
type Config struct {
	SiteURL        string   `yaml:"site_url"`
	Preview        Preview  `yaml:"preview"`
	Browser        Browser  `yaml:"browser"`
	Render         Render   `yaml:"render"`
	Locales        []string `yaml:"locales"`
	DefaultLocale  string   `yaml:"default_locale"`
	Themes         []string `yaml:"themes"`
	DefaultTheme   string   `yaml:"default_theme"`
	DistDir        string   `yaml:"dist_dir"`
	OutDir         string   `yaml:"out_dir"`
	WorkerTemplate string   `yaml:"worker_template"`
	SitemapExclude []string `yaml:"sitemap_exclude"`

	// Routes comes from the separate route list file, not the settings YAML.
	Routes []string `yaml:"-"`
}

// Preview configures the local preview server subprocess.
type Preview struct {
	Port    int      `yaml:"port"`
	Command []string `yaml:"command"`
	// SettleSec is the fixed delay after spawn before the server is presumed
	// ready. This is not a health check: a server that is still booting when
	// the delay elapses shows up as render failures downstream.
	SettleSec    int `yaml:"settle"`
	StopGraceSec int `yaml:"stop_grace"`
}

// URL returns the local address the preview server listens on.
func (p Preview) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.Port)
}

// Settle returns the post-spawn settle delay as a duration.
func (p Preview) Settle() time.Duration { return seconds(p.SettleSec) }

// StopGrace returns how long Stop waits after SIGTERM before killing.
func (p Preview) StopGrace() time.Duration { return seconds(p.StopGraceSec) }

// Browser configures the headless browser fleet.
type Browser struct {
	// Headless defaults to true when omitted; set headless: false to watch
	// pages render while debugging.
	Headless    *bool `yaml:"headless"`
	Concurrency int   `yaml:"concurrency"`
}

// HeadlessEnabled reports whether the browser should run headless.
func (b Browser) HeadlessEnabled() bool {
	return b.Headless == nil || *b.Headless
}

// Render configures per-page readiness detection and capture limits.
type Render struct {
	MountSelector      string   `yaml:"mount_selector"`
	ReadinessThreshold int      `yaml:"readiness_threshold"`
	MinDocumentLength  int      `yaml:"min_document_length"`
	Timeouts           Timeouts `yaml:"timeouts"`
}

// Timeouts bounds each stage of a single page render, in seconds.
type Timeouts struct {
	PageLoadSec    int `yaml:"page_load"`
	ReadinessSec   int `yaml:"readiness"`
	NetworkIdleSec int `yaml:"network_idle"`
	SettleSec      int `yaml:"settle"`
}

func (t Timeouts) PageLoad() time.Duration    { return seconds(t.PageLoadSec) }
func (t Timeouts) Readiness() time.Duration   { return seconds(t.ReadinessSec) }
func (t Timeouts) NetworkIdle() time.Duration { return seconds(t.NetworkIdleSec) }
func (t Timeouts) Settle() time.Duration      { return seconds(t.SettleSec) }

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
