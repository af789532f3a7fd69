// Package pdfprint converts rendered HTML documents to PDF bytes using a
// headless browser. Requires Chrome/Chromium to be installed on the system.
package pdfprint

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Printer converts an HTML document into a PDF artifact.
type Printer interface {
	Print(ctx context.Context, html []byte) ([]byte, error)
}

// Chrome implements Printer on a headless Chrome via chromedp.
type Chrome struct {
	Timeout time.Duration
}

// NewChrome creates a printer with the given per-document timeout.
func NewChrome(timeout time.Duration) *Chrome {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Chrome{Timeout: timeout}
}

// Print renders the HTML in a fresh browser context and returns PDF bytes.
func (c *Chrome) Print(ctx context.Context, html []byte) ([]byte, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, c.Timeout)
	defer cancel()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString(html)

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return pdf, nil
}
