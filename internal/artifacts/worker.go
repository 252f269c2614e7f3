package artifacts

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/staticpress/prerender/internal/config"
)

// Placeholder tokens substituted into the edge-routing worker template.
const (
	tokenLocales       = "__LOCALES__"
	tokenDefaultLocale = "__DEFAULT_LOCALE__"
	tokenThemes        = "__THEMES__"
	tokenDefaultTheme  = "__DEFAULT_THEME__"
)

// InjectWorkerConfig substitutes the runtime locale/theme configuration into
// an edge-routing script template. Lists are JSON-encoded, defaults are
// quoted string literals.
func InjectWorkerConfig(template string, cfg *config.Config) string {
	locales, _ := json.Marshal(cfg.Locales)
	themes, _ := json.Marshal(cfg.Themes)

	return strings.NewReplacer(
		tokenLocales, string(locales),
		tokenDefaultLocale, strconv.Quote(cfg.DefaultLocale),
		tokenThemes, string(themes),
		tokenDefaultTheme, strconv.Quote(cfg.DefaultTheme),
	).Replace(template)
}
