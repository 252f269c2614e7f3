package artifacts

import (
	"fmt"
	"strings"

	"github.com/staticpress/prerender/internal/config"
)

// RobotsTxt renders a permissive robots.txt with a sitemap reference derived
// from the production URL.
func RobotsTxt(cfg *config.Config) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", strings.TrimRight(cfg.SiteURL, "/"))
	return []byte(b.String())
}
