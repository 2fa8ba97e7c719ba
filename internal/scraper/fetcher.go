// internal/scraper/fetcher.go
package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/gocolly/colly/v2"
)

// Fetcher loads a page and hands its document root to parse.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string, parse func(doc *goquery.Selection)) error
}

// CollyFetcher fetches static HTML. A fresh collector per call keeps
// callbacks from piling up across requests.
type CollyFetcher struct {
	UserAgent      string
	Timeout        time.Duration
	AllowedDomains []string
}

func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string, parse func(doc *goquery.Selection)) error {
	c := colly.NewCollector(
		colly.UserAgent(f.UserAgent),
		colly.StdlibContext(ctx),
	)
	if len(f.AllowedDomains) > 0 {
		c.AllowedDomains = f.AllowedDomains
	}
	if f.Timeout > 0 {
		c.SetRequestTimeout(f.Timeout)
	}

	parsed := false
	c.OnHTML("html", func(e *colly.HTMLElement) {
		parsed = true
		parse(e.DOM)
	})

	if err := c.Visit(pageURL); err != nil {
		return fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	if !parsed {
		return fmt.Errorf("no HTML document at %s", pageURL)
	}
	return nil
}

// ChromeFetcher renders the page in headless Chrome first, for result
// lists that are built client-side.
type ChromeFetcher struct {
	UserAgent    string
	Timeout      time.Duration
	WaitSelector string
}

func (f *ChromeFetcher) Fetch(ctx context.Context, pageURL string, parse func(doc *goquery.Selection)) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(f.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	wait := f.WaitSelector
	if wait == "" {
		wait = "body"
	}

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(wait, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("chromedp run failed for %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse rendered page: %w", err)
	}
	parse(doc.Selection)
	return nil
}
