package render

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// assetsMarker identifies responses belonging to the built asset bundle.
const assetsMarker = "/assets/"

// entryChunkPattern matches the main entry script, which the document already
// references directly and must not be preloaded a second time.
var entryChunkPattern = regexp.MustCompile(`^index[-.][^/]*\.js$`)

// ResourceSet collects the asset paths one page loaded during a single
// render. It is scoped to one task and only used to synthesize preload
// hints. Observe is called from the browser event listener goroutine, so
// access is locked.
type ResourceSet struct {
	mu     sync.Mutex
	styles map[string]bool
	chunks map[string]bool
}

func NewResourceSet() *ResourceSet {
	return &ResourceSet{
		styles: make(map[string]bool),
		chunks: make(map[string]bool),
	}
}

// Observe classifies one successful response URL. Only URLs under the assets
// marker are recorded, keyed by their production-relative path.
func (s *ResourceSet) Observe(url string, status int64) {
	if status < 200 || status >= 400 {
		return
	}

	idx := strings.Index(url, assetsMarker)
	if idx < 0 {
		return
	}
	rel := url[idx:]

	// Strip any query string before classifying by extension.
	if q := strings.IndexByte(rel, '?'); q >= 0 {
		rel = rel[:q]
	}

	base := rel[strings.LastIndexByte(rel, '/')+1:]

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case strings.HasSuffix(rel, ".css"):
		s.styles[rel] = true
	case strings.HasSuffix(rel, ".js"):
		if entryChunkPattern.MatchString(base) {
			return
		}
		s.chunks[rel] = true
	}
}

// Styles returns the stylesheet paths in sorted order.
func (s *ResourceSet) Styles() []string { return s.sorted(s.styles) }

// Chunks returns the script chunk paths in sorted order.
func (s *ResourceSet) Chunks() []string { return s.sorted(s.chunks) }

func (s *ResourceSet) sorted(set map[string]bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
