package scraper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"daft-scraper/utils"
)

// BrowserOptions configures a BrowserFetcher.
type BrowserOptions struct {
	ChromeBin   string
	UserAgent   string
	PageTimeout time.Duration
	MaxRetries  int
}

// BrowserFetcher renders pages in headless Chrome and returns the
// resulting HTML. One browser process is shared; each Fetch opens a tab.
type BrowserFetcher struct {
	logger  *utils.Logger
	retry   *utils.RetryConfig
	timeout time.Duration

	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc

	startOnce sync.Once
	startErr  error
}

// NewBrowserFetcher starts the browser allocator. Close must be called to
// release the browser.
func NewBrowserFetcher(opts BrowserOptions, logger *utils.Logger) *BrowserFetcher {
	chromeBin := opts.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Info("[browser] Using browser binary: %s", chromeBin)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if chromeBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	timeout := opts.PageTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &BrowserFetcher{
		logger:  logger,
		timeout: timeout,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}
}

// Fetch navigates to url and returns the rendered document HTML.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.start(); err != nil {
		return nil, err
	}

	var doc string

	err := f.retry.Do(ctx, "fetch "+url, func() error {
		tabCtx, cancel := chromedp.NewContext(f.browserCtx)
		defer cancel()
		stop := context.AfterFunc(ctx, cancel)
		defer stop()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.timeout)
		defer cancelTimeout()

		if err := chromedp.Run(tabCtx,
			chromedp.Navigate(url),
			chromedp.OuterHTML("html", &doc, chromedp.ByQuery),
		); err != nil {
			return fmt.Errorf("chromedp navigate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.logger.Debug("[browser] Fetched %s (%d bytes)", url, len(doc))
	return []byte(doc), nil
}

// start launches the shared browser so that tabs opened concurrently
// attach to it instead of each allocating their own.
func (f *BrowserFetcher) start() error {
	f.startOnce.Do(func() {
		if err := chromedp.Run(f.browserCtx); err != nil {
			f.startErr = fmt.Errorf("chromedp start browser: %w", err)
		}
	})
	return f.startErr
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() error {
	f.cancelBrowser()
	f.cancelAlloc()
	return nil
}

func findChromeBinary() string {
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
