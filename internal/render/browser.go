package render

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// NewBrowser launches a shared Chromium instance. The returned context is
// the parent for per-task tab contexts; the cancel func tears the browser
// down.
func NewBrowser(ctx context.Context, headless bool) (context.Context, context.CancelFunc, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Launch eagerly so allocation failures surface here instead of inside
	// the first render task.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, nil, fmt.Errorf("launch browser: %w", err)
	}

	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}
	return browserCtx, cancel, nil
}
