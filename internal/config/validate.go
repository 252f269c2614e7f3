package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a Config for structural and semantic errors.
// It returns a slice of all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg.SiteURL == "" {
		errs = append(errs, ValidationError{Field: "site_url", Message: "is required"})
	} else if !strings.HasPrefix(cfg.SiteURL, "http://") && !strings.HasPrefix(cfg.SiteURL, "https://") {
		errs = append(errs, ValidationError{Field: "site_url", Message: "must be an absolute http(s) URL"})
	}

	if cfg.Preview.Port <= 0 || cfg.Preview.Port > 65535 {
		errs = append(errs, ValidationError{Field: "preview.port", Message: fmt.Sprintf("invalid port %d", cfg.Preview.Port)})
	}
	if len(cfg.Preview.Command) == 0 {
		errs = append(errs, ValidationError{Field: "preview.command", Message: "is required"})
	}

	if cfg.Browser.Concurrency < 1 {
		errs = append(errs, ValidationError{Field: "browser.concurrency", Message: "must be at least 1"})
	}

	errs = append(errs, validateVariants("locales", cfg.Locales, "default_locale", cfg.DefaultLocale)...)
	errs = append(errs, validateVariants("themes", cfg.Themes, "default_theme", cfg.DefaultTheme)...)

	if len(cfg.Routes) == 0 {
		errs = append(errs, ValidationError{Field: "routes", Message: "at least one route is required"})
	}
	seen := make(map[string]bool)
	for i, r := range cfg.Routes {
		field := fmt.Sprintf("routes[%d]", i)
		if !strings.HasPrefix(r, "/") {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("route %q must start with /", r)})
		}
		if seen[r] {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("duplicate route %q", r)})
		}
		seen[r] = true
	}

	for _, excl := range cfg.SitemapExclude {
		if !seen[excl] {
			errs = append(errs, ValidationError{
				Field:   "sitemap_exclude",
				Message: fmt.Sprintf("references unknown route %q", excl),
			})
		}
	}

	for _, tc := range []struct {
		field string
		sec   int
	}{
		{"render.timeouts.page_load", cfg.Render.Timeouts.PageLoadSec},
		{"render.timeouts.readiness", cfg.Render.Timeouts.ReadinessSec},
		{"render.timeouts.network_idle", cfg.Render.Timeouts.NetworkIdleSec},
		{"render.timeouts.settle", cfg.Render.Timeouts.SettleSec},
	} {
		if tc.sec <= 0 {
			errs = append(errs, ValidationError{Field: tc.field, Message: "must be positive"})
		}
	}

	return errs
}

// validateVariants checks a locale or theme list together with its default:
// the list must be non-empty, duplicate-free, and contain the default.
func validateVariants(listField string, values []string, defField, def string) []ValidationError {
	var errs []ValidationError

	if len(values) == 0 {
		errs = append(errs, ValidationError{Field: listField, Message: "at least one entry is required"})
	}

	seen := make(map[string]bool)
	for i, v := range values {
		if v == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("%s[%d]", listField, i), Message: "must not be empty"})
			continue
		}
		if seen[v] {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("%s[%d]", listField, i), Message: fmt.Sprintf("duplicate entry %q", v)})
		}
		seen[v] = true
	}

	if def == "" {
		errs = append(errs, ValidationError{Field: defField, Message: "is required"})
	} else if len(values) > 0 && !seen[def] {
		errs = append(errs, ValidationError{Field: defField, Message: fmt.Sprintf("%q is not in %s", def, listField)})
	}

	return errs
}
