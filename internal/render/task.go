// Package render turns one (route, locale, theme) combination into a static
// HTML file by driving a headless browser page against the preview server.
package render

import "fmt"

// Task is one cell of the route × locale × theme cross-product.
type Task struct {
	Route  string
	Locale string
	Theme  string
}

func (t Task) String() string {
	return fmt.Sprintf("%s [%s/%s]", t.Route, t.Locale, t.Theme)
}

// Result records the outcome of one task. Results are aggregated into a
// count; no retry state is kept.
type Result struct {
	Task Task
	OK   bool
}

// Tasks expands the full cross-product in route-major order, then locale,
// then theme. Tasks are independent: no completion ordering is guaranteed.
func Tasks(routes, locales, themes []string) []Task {
	tasks := make([]Task, 0, len(routes)*len(locales)*len(themes))
	for _, route := range routes {
		for _, locale := range locales {
			for _, theme := range themes {
				tasks = append(tasks, Task{Route: route, Locale: locale, Theme: theme})
			}
		}
	}
	return tasks
}
