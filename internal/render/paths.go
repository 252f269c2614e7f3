package render

import (
	"path/filepath"
	"strings"
)

// OutputPath derives the canonical output file for a task. The default
// locale/theme pair yields the unsuffixed path; every other combination is
// disambiguated by suffix, so the mapping is injective over the task space:
//
//	/            → index.html
//	/about       → about/index.html
//	/about dark  → about/index.dark.html
//	/about en    → about/index.en.html
//	/about dark en → about/index.dark.en.html
func OutputPath(root, route, locale, theme, defaultLocale, defaultTheme string) string {
	base := "index"
	if route != "/" {
		base = strings.TrimPrefix(route, "/") + "/index"
	}

	name := base
	if theme != defaultTheme {
		name += "." + theme
	}
	if locale != defaultLocale {
		name += "." + locale
	}

	return filepath.Join(root, name+".html")
}
