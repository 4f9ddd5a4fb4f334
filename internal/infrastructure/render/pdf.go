package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/turtacn/ContractPilot/pkg/errors"
)

const defaultNetworkIdleTimeout = 30 * time.Second

// PDFRenderer prints HTML to PDF in a tab of the shared browser.
type PDFRenderer struct {
	browser     *BrowserManager
	idleTimeout time.Duration
}

func NewPDFRenderer(browser *BrowserManager, networkIdleTimeout time.Duration) *PDFRenderer {
	if networkIdleTimeout <= 0 {
		networkIdleTimeout = defaultNetworkIdleTimeout
	}
	return &PDFRenderer{browser: browser, idleTimeout: networkIdleTimeout}
}

// RenderPDF loads html into a new page, waits for network idle and prints it.
// The page is closed before RenderPDF returns.
func (r *PDFRenderer) RenderPDF(ctx context.Context, html string, opts *RenderOptions) ([]byte, error) {
	o, err := opts.Normalize()
	if err != nil {
		return nil, err
	}

	var pdf []byte
	err = r.browser.WithPage(ctx, func(pageCtx context.Context) error {
		width, height := r.browser.Viewport()
		if err := chromedp.Run(pageCtx,
			emulation.SetDeviceMetricsOverride(int64(width), int64(height), 1, false),
			page.SetLifecycleEventsEnabled(true),
		); err != nil {
			return errors.Wrap(err, errors.ErrCodeRenderFailed, "failed to prepare page")
		}
		if err := r.load(pageCtx, html); err != nil {
			return err
		}
		return chromedp.Run(pageCtx, chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := printParams(o).Do(ctx)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeRenderFailed, "print to pdf failed")
			}
			pdf = data
			return nil
		}))
	})
	if err != nil {
		return nil, err
	}
	if !IsPDF(pdf) {
		return nil, errors.New(errors.ErrCodeRenderFailed, "browser returned a non-pdf payload")
	}
	return pdf, nil
}

// load navigates to html as a data URL and blocks until that navigation
// reports networkIdle or the idle timeout elapses. Lifecycle events are
// matched on the loader that emitted the latest "init", so idle signals from
// the blank start page are ignored.
func (r *PDFRenderer) load(ctx context.Context, html string) error {
	var (
		mu      sync.Mutex
		current cdp.LoaderID
		once    sync.Once
	)
	idle := make(chan struct{})
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch e.Name {
		case "init":
			current = e.LoaderID
		case "networkIdle":
			if current != "" && e.LoaderID == current {
				once.Do(func() { close(idle) })
			}
		}
	})

	if err := chromedp.Run(ctx, chromedp.Navigate(InlineHTMLURL(html))); err != nil {
		return errors.Wrap(err, errors.ErrCodeRenderFailed, "failed to load contract html")
	}

	timer := time.NewTimer(r.idleTimeout)
	defer timer.Stop()
	select {
	case <-idle:
		return nil
	case <-timer.C:
		return errors.New(errors.ErrCodeRenderFailed, "timed out waiting for network idle").
			WithDetail(r.idleTimeout.String())
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), errors.ErrCodeRenderFailed, "page load interrupted")
	}
}

func printParams(o *RenderOptions) *page.PrintToPDFParams {
	width, height := o.PaperSize()
	return page.PrintToPDF().
		WithPaperWidth(width).
		WithPaperHeight(height).
		WithMarginTop(o.Margins.Top).
		WithMarginBottom(o.Margins.Bottom).
		WithMarginLeft(o.Margins.Left).
		WithMarginRight(o.Margins.Right).
		WithPrintBackground(o.PrintBackground).
		WithDisplayHeaderFooter(true).
		WithHeaderTemplate(o.HeaderHTML).
		WithFooterTemplate(o.FooterHTML).
		WithPreferCSSPageSize(false)
}

// InlineHTMLURL encodes html as a self-contained data URL.
func InlineHTMLURL(html string) string {
	return inlineHTMLPrefix + base64.StdEncoding.EncodeToString([]byte(html))
}

const inlineHTMLPrefix = "data:text/html;charset=utf-8;base64,"

// IsInlineURL reports whether url was produced by InlineHTMLURL.
func IsInlineURL(url string) bool {
	return strings.HasPrefix(url, inlineHTMLPrefix)
}

// DecodeInlineHTML reverses InlineHTMLURL.
func DecodeInlineHTML(url string) (string, error) {
	if !IsInlineURL(url) {
		return "", fmt.Errorf("not an inline document url")
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, inlineHTMLPrefix))
	if err != nil {
		return "", fmt.Errorf("decode inline document: %w", err)
	}
	return string(b), nil
}

var pdfPageObject = regexp.MustCompile(`/Type\s*/Page[^s]`)

// IsPDF reports whether b starts with a PDF header.
func IsPDF(b []byte) bool {
	return bytes.HasPrefix(b, []byte("%PDF-"))
}

// CountPages counts page objects in an uncompressed-xref PDF. It is a
// sanity check, not a parser.
func CountPages(b []byte) int {
	return len(pdfPageObject.FindAllIndex(b, -1))
}

//Personal.AI order the ending
