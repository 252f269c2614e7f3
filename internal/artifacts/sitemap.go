// Package artifacts derives the crawlable site artifacts — sitemap, robots
// file, and edge-router configuration — from the pipeline config.
package artifacts

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/staticpress/prerender/internal/config"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName   xml.Name     `xml:"urlset"`
	Namespace string       `xml:"xmlns,attr"`
	URLs      []sitemapURL `xml:"url"`
}

// Sitemap renders sitemap.xml: one url entry per route not in the exclusion
// list, stamped with the generation date. Priority and change frequency are
// purely a function of path depth.
func Sitemap(cfg *config.Config, now time.Time) ([]byte, error) {
	excluded := make(map[string]bool, len(cfg.SitemapExclude))
	for _, r := range cfg.SitemapExclude {
		excluded[r] = true
	}

	base := strings.TrimRight(cfg.SiteURL, "/")
	set := urlSet{Namespace: sitemapNamespace}

	for _, route := range cfg.Routes {
		if excluded[route] {
			continue
		}
		priority, freq := depthProfile(route)
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + route,
			LastMod:    now.Format("2006-01-02"),
			ChangeFreq: freq,
			Priority:   priority,
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}

	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// depthProfile maps a route's path depth (non-empty segments) to its sitemap
// priority and change frequency:
//
//	root  → 1.0 weekly
//	1     → 0.8 monthly
//	2     → 0.6 monthly
//	≥3    → 0.4 yearly
func depthProfile(route string) (priority, changefreq string) {
	depth := 0
	for _, seg := range strings.Split(route, "/") {
		if seg != "" {
			depth++
		}
	}

	switch depth {
	case 0:
		return "1.0", "weekly"
	case 1:
		return "0.8", "monthly"
	case 2:
		return "0.6", "monthly"
	default:
		return "0.4", "yearly"
	}
}
