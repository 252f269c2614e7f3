package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/staticpress/prerender/internal/config"
)

type fakeServer struct {
	stops atomic.Int64
}

func (f *fakeServer) Stop() error {
	f.stops.Add(1)
	return nil
}

func testRunner(t *testing.T) (*Runner, *fakeServer) {
	t.Helper()

	cfg := &config.Config{
		SiteURL:       "https://example.com",
		Locales:       []string{"tr", "en"},
		DefaultLocale: "tr",
		Themes:        []string{"light"},
		DefaultTheme:  "light",
		Routes:        []string{"/", "/about"},
		DistDir:       t.TempDir(),
	}
	cfg.Browser.Concurrency = 2

	srv := &fakeServer{}
	r := &Runner{cfg: cfg}
	r.startPreview = func() (stopper, error) { return srv, nil }
	r.writeArtifacts = func() {}
	r.renderAll = func(ctx context.Context) (int, error) { return 4, nil }

	return r, srv
}

func TestRun_FullSuccess(t *testing.T) {
	r, srv := testRunner(t)

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.Total != 4 {
		t.Errorf("Total = %d, want 4 (2 routes × 2 locales × 1 theme)", sum.Total)
	}
	if !sum.Success() {
		t.Errorf("expected success, got %d/%d", sum.Succeeded, sum.Total)
	}
	if srv.stops.Load() != 1 {
		t.Errorf("Stop called %d times, want exactly 1", srv.stops.Load())
	}
}

func TestRun_PartialFailureIsNotAnError(t *testing.T) {
	r, srv := testRunner(t)
	r.renderAll = func(ctx context.Context) (int, error) { return 3, nil }

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.Success() {
		t.Error("3/4 must not count as success")
	}
	if srv.stops.Load() != 1 {
		t.Errorf("Stop called %d times, want exactly 1", srv.stops.Load())
	}
}

// The preview server must be stopped exactly once even when rendering fails
// before any task completes.
func TestRun_StopCalledOnceOnRenderError(t *testing.T) {
	r, srv := testRunner(t)
	r.renderAll = func(ctx context.Context) (int, error) {
		return 0, errors.New("browser launch failed")
	}

	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected render error to propagate")
	}
	if srv.stops.Load() != 1 {
		t.Errorf("Stop called %d times, want exactly 1", srv.stops.Load())
	}
}

func TestRun_MissingDistDirIsFatal(t *testing.T) {
	r, srv := testRunner(t)
	r.cfg.DistDir = "/nonexistent/dist"

	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing dist directory")
	}
	if srv.stops.Load() != 0 {
		t.Error("preview server must not be started when the dist directory is missing")
	}
}

func TestRun_PreviewStartFailureIsFatal(t *testing.T) {
	r, srv := testRunner(t)
	r.startPreview = func() (stopper, error) { return nil, errors.New("exited during startup") }

	rendered := false
	r.renderAll = func(ctx context.Context) (int, error) {
		rendered = true
		return 0, nil
	}

	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error when preview server fails to start")
	}
	if rendered {
		t.Error("no rendering must be attempted after a failed server start")
	}
	if srv.stops.Load() != 0 {
		t.Error("Stop must not be called for a server that never started")
	}
}
