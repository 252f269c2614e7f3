package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/staticpress/prerender/internal/config"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func testConfig() *config.Config {
	return &config.Config{
		SiteURL:        "https://example.com",
		Locales:        []string{"tr", "en"},
		DefaultLocale:  "tr",
		Themes:         []string{"light", "dark"},
		DefaultTheme:   "light",
		Routes:         []string{"/", "/about", "/blog/posts", "/docs/guide/setup", "/404"},
		SitemapExclude: []string{"/404"},
	}
}

var fixedNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func TestSitemap_ExclusionAndInclusion(t *testing.T) {
	cfg := testConfig()

	body, err := Sitemap(cfg, fixedNow)
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	out := string(body)

	if strings.Contains(out, "https://example.com/404") {
		t.Error("excluded route /404 appears in sitemap")
	}
	for _, loc := range []string{
		"<loc>https://example.com/</loc>",
		"<loc>https://example.com/about</loc>",
		"<loc>https://example.com/blog/posts</loc>",
		"<loc>https://example.com/docs/guide/setup</loc>",
	} {
		if got := strings.Count(out, loc); got != 1 {
			t.Errorf("%s appears %d times, want exactly once", loc, got)
		}
	}
	if !strings.Contains(out, sitemapNamespace) {
		t.Error("sitemap missing namespace declaration")
	}
	if !strings.Contains(out, "<lastmod>2026-03-14</lastmod>") {
		t.Error("sitemap missing generation date")
	}
}

func TestDepthProfile(t *testing.T) {
	tests := []struct {
		route        string
		wantPriority string
		wantFreq     string
	}{
		{"/", "1.0", "weekly"},
		{"/about", "0.8", "monthly"},
		{"/blog/posts", "0.6", "monthly"},
		{"/docs/guide/setup", "0.4", "yearly"},
		{"/a/b/c/d", "0.4", "yearly"},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			priority, freq := depthProfile(tt.route)
			if priority != tt.wantPriority || freq != tt.wantFreq {
				t.Errorf("depthProfile(%q) = (%s, %s), want (%s, %s)",
					tt.route, priority, freq, tt.wantPriority, tt.wantFreq)
			}
		})
	}
}

func TestSitemap_Snapshot(t *testing.T) {
	body, err := Sitemap(testConfig(), fixedNow)
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	snaps.WithConfig(snaps.Ext(".xml")).MatchSnapshot(t, string(body))
}

func TestRobotsTxt(t *testing.T) {
	out := string(RobotsTxt(testConfig()))

	if !strings.Contains(out, "User-agent: *") || !strings.Contains(out, "Allow: /") {
		t.Errorf("robots.txt not permissive:\n%s", out)
	}
	if !strings.Contains(out, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("robots.txt missing sitemap reference:\n%s", out)
	}

	snaps.MatchSnapshot(t, out)
}

func TestInjectWorkerConfig(t *testing.T) {
	tmpl := `const LOCALES = __LOCALES__;
const DEFAULT_LOCALE = __DEFAULT_LOCALE__;
const THEMES = __THEMES__;
const DEFAULT_THEME = __DEFAULT_THEME__;`

	out := InjectWorkerConfig(tmpl, testConfig())

	for _, want := range []string{
		`const LOCALES = ["tr","en"];`,
		`const DEFAULT_LOCALE = "tr";`,
		`const THEMES = ["light","dark"];`,
		`const DEFAULT_THEME = "light";`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "__") {
		t.Errorf("unsubstituted placeholder remains:\n%s", out)
	}
}

func TestWriteAll(t *testing.T) {
	cfg := testConfig()
	cfg.OutDir = t.TempDir()

	tmplPath := filepath.Join(t.TempDir(), "router.js")
	if err := os.WriteFile(tmplPath, []byte("export default __LOCALES__;"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg.WorkerTemplate = tmplPath

	var buf strings.Builder
	WriteAll(cfg, fixedNow, &buf)

	for _, name := range []string{"sitemap.xml", "robots.txt", "_worker.js"} {
		if _, err := os.Stat(filepath.Join(cfg.OutDir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
}

// A missing worker template is a logged warning; the other artifacts are
// still produced.
func TestWriteAll_MissingWorkerTemplate(t *testing.T) {
	cfg := testConfig()
	cfg.OutDir = t.TempDir()
	cfg.WorkerTemplate = filepath.Join(t.TempDir(), "nope.js")

	var buf strings.Builder
	WriteAll(cfg, fixedNow, &buf)

	if !strings.Contains(buf.String(), "warning") {
		t.Errorf("expected a warning for the missing template, got:\n%s", buf.String())
	}
	if _, err := os.Stat(filepath.Join(cfg.OutDir, "sitemap.xml")); err != nil {
		t.Errorf("sitemap.xml should still be written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutDir, "_worker.js")); err == nil {
		t.Error("_worker.js should not exist when the template is missing")
	}
}
