package artifacts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/staticpress/prerender/internal/config"
)

// workerFileName is where the substituted edge-routing script lands in the
// output root (Cloudflare Pages convention).
const workerFileName = "_worker.js"

// WriteAll persists sitemap.xml, robots.txt, and the worker script under the
// output root. Artifact failures are warnings, not errors: the pipeline
// proceeds without the affected artifact.
func WriteAll(cfg *config.Config, now time.Time, progress io.Writer) {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		logf(progress, "warning: create output root: %v", err)
		return
	}

	if body, err := Sitemap(cfg, now); err != nil {
		logf(progress, "warning: generate sitemap: %v", err)
	} else if err := os.WriteFile(filepath.Join(cfg.OutDir, "sitemap.xml"), body, 0o644); err != nil {
		logf(progress, "warning: write sitemap.xml: %v", err)
	} else {
		logf(progress, "wrote sitemap.xml (%d routes)", len(cfg.Routes)-len(cfg.SitemapExclude))
	}

	if err := os.WriteFile(filepath.Join(cfg.OutDir, "robots.txt"), RobotsTxt(cfg), 0o644); err != nil {
		logf(progress, "warning: write robots.txt: %v", err)
	} else {
		logf(progress, "wrote robots.txt")
	}

	writeWorker(cfg, progress)
}

func writeWorker(cfg *config.Config, progress io.Writer) {
	if cfg.WorkerTemplate == "" {
		return
	}

	tmpl, err := os.ReadFile(cfg.WorkerTemplate)
	if err != nil {
		logf(progress, "warning: read worker template: %v (continuing without %s)", err, workerFileName)
		return
	}

	out := InjectWorkerConfig(string(tmpl), cfg)
	if err := os.WriteFile(filepath.Join(cfg.OutDir, workerFileName), []byte(out), 0o644); err != nil {
		logf(progress, "warning: write %s: %v", workerFileName, err)
		return
	}
	logf(progress, "wrote %s", workerFileName)
}

func logf(w io.Writer, format string, args ...any) {
	if w != nil {
		fmt.Fprintf(w, format+"\n", args...)
	}
}
