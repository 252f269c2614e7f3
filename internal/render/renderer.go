package render

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// idleWindow is how long the network must stay quiet before the page counts
// as idle.
const idleWindow = 500 * time.Millisecond

// maxErrorLen bounds per-task error messages in the progress log.
const maxErrorLen = 200

// Options configures a Renderer. BaseURL is the address rendering runs
// against (the local preview server); OutDir is the output root.
type Options struct {
	BaseURL            string
	OutDir             string
	MountSelector      string
	ReadinessThreshold int
	MinDocumentLength  int
	DefaultLocale      string
	DefaultTheme       string
	PageLoadTimeout    time.Duration
	ReadinessTimeout   time.Duration
	NetworkIdleTimeout time.Duration
	SettleDelay        time.Duration
	Progress           io.Writer
}

// Renderer executes render tasks against a shared browser instance. It is
// safe for concurrent use: each task opens and owns its own tab.
type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render drives one browser page through navigation, readiness detection,
// resource capture, post-processing, and file write. Any failure is logged
// with a truncated message and returned; it never aborts sibling tasks.
// The tab is always closed, success or failure.
func (r *Renderer) Render(browserCtx context.Context, task Task) (err error) {
	defer func() {
		if err != nil {
			r.logf("render %s: %s", task, truncate(err.Error(), maxErrorLen))
		}
	}()

	tabCtx, closeTab := chromedp.NewContext(browserCtx)
	defer closeTab()

	resources := NewResourceSet()
	watcher := newNetworkWatcher()
	domReady := make(chan struct{}, 1)

	// The listener is scoped to the tab context and detaches when the tab
	// closes, so nothing leaks across tasks sharing the browser.
	chromedp.ListenTarget(tabCtx, func(ev any) {
		switch e := ev.(type) {
		case *network.EventResponseReceived:
			resources.Observe(e.Response.URL, e.Response.Status)
		case *network.EventRequestWillBeSent:
			watcher.started()
		case *network.EventLoadingFinished:
			watcher.finished()
		case *network.EventLoadingFailed:
			watcher.finished()
		case *page.EventDomContentEventFired:
			select {
			case domReady <- struct{}{}:
			default:
			}
		}
	})

	if err := chromedp.Run(tabCtx, network.Enable(), page.Enable()); err != nil {
		return fmt.Errorf("enable browser domains: %w", err)
	}

	if err := r.navigate(tabCtx, domReady, r.taskURL(task)); err != nil {
		return err
	}
	if err := r.awaitMountContent(tabCtx); err != nil {
		return err
	}
	if err := watcher.awaitIdle(tabCtx, r.opts.NetworkIdleTimeout); err != nil {
		return err
	}

	// Fixed settle delay to absorb lazily scheduled work the idle detector
	// cannot see.
	select {
	case <-time.After(r.opts.SettleDelay):
	case <-tabCtx.Done():
		return fmt.Errorf("settle delay: %w", tabCtx.Err())
	}

	doc, err := r.capture(tabCtx)
	if err != nil {
		return err
	}

	return r.finalize(task, doc, resources)
}

// finalize validates the captured document, injects preload hints, reformats,
// and writes the output file. A document below the minimum length is a
// failure and nothing is written: an empty shell must never be persisted.
func (r *Renderer) finalize(task Task, doc string, resources *ResourceSet) error {
	if len(doc) < r.opts.MinDocumentLength {
		return fmt.Errorf("captured document too short (%d bytes, minimum %d)", len(doc), r.opts.MinDocumentLength)
	}

	doc, err := InjectPreloads(doc, resources.Styles(), resources.Chunks())
	if err != nil {
		return err
	}
	doc = Format(doc)

	outPath := OutputPath(r.opts.OutDir, task.Route, task.Locale, task.Theme, r.opts.DefaultLocale, r.opts.DefaultTheme)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}

	return nil
}

// taskURL composes the navigation target: the base URL plus the route, with
// query parameters marking the request as a pre-render pass and carrying the
// requested locale and theme. The application reads these and renders
// accordingly.
func (r *Renderer) taskURL(task Task) string {
	q := url.Values{}
	q.Set("prerender", "true")
	q.Set("lang", task.Locale)
	q.Set("theme", task.Theme)
	return r.opts.BaseURL + task.Route + "?" + q.Encode()
}

// navigate fires navigation and waits only for initial DOM construction, not
// the full load event; hydration readiness is detected separately.
func (r *Renderer) navigate(tabCtx context.Context, domReady <-chan struct{}, target string) error {
	ctx, cancel := context.WithTimeout(tabCtx, r.opts.PageLoadTimeout)
	defer cancel()

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, errText, _, err := page.Navigate(target).Do(ctx)
		if err != nil {
			return err
		}
		if errText != "" {
			return fmt.Errorf("navigation failed: %s", errText)
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", target, err)
	}

	select {
	case <-domReady:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for DOM content of %s: %w", target, ctx.Err())
	}
}

// awaitMountContent polls until the root mount point reports non-trivial
// rendered content. The length threshold is an approximation of "hydration
// complete", not a guarantee; the application exposes no explicit signal.
func (r *Renderer) awaitMountContent(tabCtx context.Context) error {
	ctx, cancel := context.WithTimeout(tabCtx, r.opts.ReadinessTimeout)
	defer cancel()

	expr := fmt.Sprintf(
		`(document.querySelector(%q) || {innerHTML: ""}).innerHTML.length`,
		r.opts.MountSelector,
	)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		var length int
		if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &length)); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("waiting for %s content: %w", r.opts.MountSelector, ctx.Err())
			}
			return fmt.Errorf("evaluate mount content: %w", err)
		}
		if length > r.opts.ReadinessThreshold {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s content stayed below %d chars: %w", r.opts.MountSelector, r.opts.ReadinessThreshold, ctx.Err())
		case <-ticker.C:
		}
	}
}

// capture serializes the full document.
func (r *Renderer) capture(tabCtx context.Context) (string, error) {
	var doc string
	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		root, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return err
		}
		doc, err = dom.GetOuterHTML().WithNodeID(root.NodeID).Do(ctx)
		return err
	}))
	if err != nil {
		return "", fmt.Errorf("capture document: %w", err)
	}
	return doc, nil
}

func (r *Renderer) logf(format string, args ...any) {
	if r.opts.Progress != nil {
		fmt.Fprintf(r.opts.Progress, format+"\n", args...)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// networkWatcher tracks in-flight requests for one tab to detect the
// network-idle state: no activity for idleWindow with nothing in flight.
type networkWatcher struct {
	mu       sync.Mutex
	inflight int
	last     time.Time
}

func newNetworkWatcher() *networkWatcher {
	return &networkWatcher{last: time.Now()}
}

func (w *networkWatcher) started() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inflight++
	w.last = time.Now()
}

func (w *networkWatcher) finished() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inflight > 0 {
		w.inflight--
	}
	w.last = time.Now()
}

func (w *networkWatcher) idle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inflight == 0 && time.Since(w.last) >= idleWindow
}

// awaitIdle blocks until the network has been quiet for idleWindow, bounded
// by the given timeout.
func (w *networkWatcher) awaitIdle(ctx context.Context, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if w.idle() {
			return nil
		}
		select {
		case <-ticker.C:
		case <-deadline.C:
			return fmt.Errorf("network not idle after %s", timeout)
		case <-ctx.Done():
			return fmt.Errorf("waiting for network idle: %w", ctx.Err())
		}
	}
}
