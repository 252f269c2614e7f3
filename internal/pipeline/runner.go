// Package pipeline sequences the full pre-render run: preview server up,
// site artifacts, the render task set, preview server down, summary.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/staticpress/prerender/internal/artifacts"
	"github.com/staticpress/prerender/internal/config"
	"github.com/staticpress/prerender/internal/preview"
	"github.com/staticpress/prerender/internal/render"
	"github.com/staticpress/prerender/internal/scheduler"
)

// Summary aggregates a run's outcome.
type Summary struct {
	Succeeded int
	Total     int
	Duration  time.Duration
}

// Success reports whether every task in the full cross-product succeeded.
func (s Summary) Success() bool { return s.Succeeded == s.Total }

// stopper is the slice of preview.Server the runner needs for teardown.
type stopper interface {
	Stop() error
}

// Runner executes the pipeline. The function fields exist as seams for
// tests; New wires the real implementations.
type Runner struct {
	cfg      *config.Config
	progress io.Writer

	startPreview   func() (stopper, error)
	writeArtifacts func()
	renderAll      func(ctx context.Context) (succeeded int, err error)
}

func New(cfg *config.Config, progress io.Writer) *Runner {
	r := &Runner{cfg: cfg, progress: progress}

	r.startPreview = func() (stopper, error) {
		return preview.Start(preview.Options{
			Command:   cfg.Preview.Command,
			Settle:    cfg.Preview.Settle(),
			StopGrace: cfg.Preview.StopGrace(),
		}, progress)
	}
	r.writeArtifacts = func() {
		artifacts.WriteAll(cfg, time.Now(), progress)
	}
	r.renderAll = r.renderWithBrowser

	return r
}

// Run executes the pipeline end to end. The preview server is stopped on
// every exit path after a successful start; per-task render failures are
// reflected in the Summary, not in the error.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	total := len(r.cfg.Routes) * len(r.cfg.Locales) * len(r.cfg.Themes)

	if _, err := os.Stat(r.cfg.DistDir); err != nil {
		return Summary{}, fmt.Errorf("dist directory %q not found (run the production build first): %w", r.cfg.DistDir, err)
	}

	srv, err := r.startPreview()
	if err != nil {
		return Summary{}, fmt.Errorf("start preview server: %w", err)
	}
	defer func() {
		if err := srv.Stop(); err != nil {
			r.logf("warning: stop preview server: %v", err)
		}
	}()

	r.writeArtifacts()

	r.logf("rendering %d routes × %d locales × %d themes = %d pages (concurrency %d)",
		len(r.cfg.Routes), len(r.cfg.Locales), len(r.cfg.Themes), total, r.cfg.Browser.Concurrency)

	succeeded, err := r.renderAll(ctx)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Succeeded: succeeded,
		Total:     total,
		Duration:  time.Since(start),
	}, nil
}

// renderWithBrowser launches the shared browser and drives the task set
// through the scheduler.
func (r *Runner) renderWithBrowser(ctx context.Context) (int, error) {
	browserCtx, closeBrowser, err := render.NewBrowser(ctx, r.cfg.Browser.HeadlessEnabled())
	if err != nil {
		return 0, err
	}
	defer closeBrowser()

	renderer := render.New(render.Options{
		BaseURL:            r.cfg.Preview.URL(),
		OutDir:             r.cfg.OutDir,
		MountSelector:      r.cfg.Render.MountSelector,
		ReadinessThreshold: r.cfg.Render.ReadinessThreshold,
		MinDocumentLength:  r.cfg.Render.MinDocumentLength,
		DefaultLocale:      r.cfg.DefaultLocale,
		DefaultTheme:       r.cfg.DefaultTheme,
		PageLoadTimeout:    r.cfg.Render.Timeouts.PageLoad(),
		ReadinessTimeout:   r.cfg.Render.Timeouts.Readiness(),
		NetworkIdleTimeout: r.cfg.Render.Timeouts.NetworkIdle(),
		SettleDelay:        r.cfg.Render.Timeouts.Settle(),
		Progress:           r.progress,
	})

	tasks := render.Tasks(r.cfg.Routes, r.cfg.Locales, r.cfg.Themes)
	return scheduler.Run(browserCtx, tasks, r.cfg.Browser.Concurrency, renderer.Render, r.progress), nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.progress != nil {
		fmt.Fprintf(r.progress, format+"\n", args...)
	}
}
