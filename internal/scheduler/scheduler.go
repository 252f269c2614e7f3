// Package scheduler executes the render task set under a bounded-concurrency
// admission gate.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/staticpress/prerender/internal/render"
)

// RenderFunc executes one task. A non-nil error marks the task failed; it is
// counted, never propagated, and never aborts the remaining queue.
type RenderFunc func(ctx context.Context, task render.Task) error

// Run executes all tasks with at most concurrency in flight at once and
// returns the number that succeeded. Completion order is not guaranteed;
// tasks only block on the admission gate, never on each other.
func Run(ctx context.Context, tasks []render.Task, concurrency int, fn RenderFunc, progress io.Writer) int {
	if concurrency < 1 {
		concurrency = 1
	}

	var succeeded atomic.Int64
	var g errgroup.Group
	g.SetLimit(concurrency)

	for _, task := range tasks {
		g.Go(func() error {
			if err := fn(ctx, task); err != nil {
				logf(progress, "[FAIL] %s", task)
				return nil
			}
			succeeded.Add(1)
			logf(progress, "[OK]   %s", task)
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	return int(succeeded.Load())
}

func logf(w io.Writer, format string, args ...any) {
	if w != nil {
		fmt.Fprintf(w, format+"\n", args...)
	}
}
