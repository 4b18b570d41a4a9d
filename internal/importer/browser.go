package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// Browser opens isolated pages. Every page returned must be closed by the
// caller; withPage does that on every exit path.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
}

// Page is a single rendered tab.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitFor(ctx context.Context, selector string) error
	HTML(ctx context.Context) (string, error)
	Close() error
}

// BrowserOptions configures ChromeBrowser.
type BrowserOptions struct {
	ExecPath   string
	NavTimeout time.Duration
	UserAgent  string
}

// ChromeBrowser starts a fresh Chrome process per page so that no cookies,
// storage or fingerprint state is shared between scrapes.
type ChromeBrowser struct {
	opts BrowserOptions
}

func NewChromeBrowser(opts BrowserOptions) *ChromeBrowser {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgents[0]
	}
	return &ChromeBrowser{opts: opts}
}

func (b *ChromeBrowser) NewPage(ctx context.Context) (Page, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(b.opts.UserAgent),
		chromedp.WindowSize(1366, 900),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)
	if b.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Starting the browser happens on the first Run.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &chromePage{
		ctx:         tabCtx,
		navTimeout:  b.opts.NavTimeout,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}, nil
}

type chromePage struct {
	ctx         context.Context
	navTimeout  time.Duration
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	once        sync.Once
}

// run executes actions on the tab, bounded by both the caller's context
// and the navigation timeout.
func (p *chromePage) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	return p.run(ctx, p.navTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (p *chromePage) WaitFor(ctx context.Context, selector string) error {
	return p.run(ctx, p.navTimeout/3, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (p *chromePage) HTML(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, p.navTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// Close shuts the tab and its browser process. Safe to call twice.
func (p *chromePage) Close() error {
	p.once.Do(func() {
		p.cancelTab()
		p.cancelAlloc()
	})
	return nil
}

// withPage acquires a page, runs fn and releases the page whether fn
// succeeds, fails, times out or panics.
func withPage(ctx context.Context, b Browser, fn func(Page) error) error {
	page, err := b.NewPage(ctx)
	if err != nil {
		return fmt.Errorf("open browser page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			slog.Warn("failed to close browser page", "error", err)
		}
	}()

	return fn(page)
}

// renderPage navigates to url, waits briefly for selector and returns the
// rendered document.
func renderPage(ctx context.Context, b Browser, url, selector string) (string, error) {
	var html string
	err := withPage(ctx, b, func(p Page) error {
		if err := p.Navigate(ctx, url); err != nil {
			return fmt.Errorf("navigate: %w", err)
		}
		if selector != "" {
			if err := p.WaitFor(ctx, selector); err != nil {
				slog.Debug("selector did not appear", "selector", selector, "url", url, "error", err)
			}
		}

		var err error
		html, err = p.HTML(ctx)
		if err != nil {
			return fmt.Errorf("read page html: %w", err)
		}
		return nil
	})
	return html, err
}
