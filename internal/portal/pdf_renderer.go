package portal

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/eastridge-analytics/disclosure-desk/internal/assess"
)

// ReportPDFRenderer turns a generated report into a downloadable PDF.
type ReportPDFRenderer interface {
	Render(ctx context.Context, fileName string, report assess.Report) ([]byte, error)
}

// ChromiumPDFRenderer renders the report through headless Chromium's print
// pipeline: sections → markdown → HTML → PDF.
type ChromiumPDFRenderer struct {
	webDir     string
	chromePath string
	styleOnce  sync.Once
	styleCSS   string
	styleErr   error
}

func NewChromiumPDFRenderer(webDir string) *ChromiumPDFRenderer {
	return &ChromiumPDFRenderer{
		webDir:     webDir,
		chromePath: detectChromePath(),
	}
}

func (r *ChromiumPDFRenderer) Render(ctx context.Context, fileName string, report assess.Report) ([]byte, error) {
	htmlDoc, err := r.buildHTML(fileName, report)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;padding-right:8px;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

func (r *ChromiumPDFRenderer) buildHTML(fileName string, report assess.Report) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body strings.Builder
	for _, key := range assess.SectionOrder {
		body.WriteString("<h2>" + html.EscapeString(key.Label()) + "</h2>")
		var section strings.Builder
		if err := md.Convert([]byte(report[key]), &section); err != nil {
			return "", fmt.Errorf("markdown convert: %w", err)
		}
		body.WriteString(section.String())
	}

	styleCSS, err := r.loadStyleCSS()
	if err != nil {
		return "", err
	}

	var meta strings.Builder
	if fileName != "" {
		meta.WriteString("<div><strong>Disclosure:</strong> " + html.EscapeString(fileName) + "</div>")
	}
	meta.WriteString("<div><strong>Date:</strong> " + html.EscapeString(time.Now().Format("January 2, 2006 at 3:04 PM MST")) + "</div>")

	return "<!doctype html><html><head><meta charset='utf-8'><title>Patent Assessment Report</title>" +
		"<style>" + styleCSS + "\n" +
		"html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;} " +
		"body{background:#fff !important;padding:0.6rem;} .pdf-wrap{max-width:1000px;margin:0 auto;} " +
		".report-html h2{break-after:avoid;page-break-after:avoid;} " +
		"@media print{ @page{size:auto;margin:12mm;} body{background:#fff !important;padding:0;} .pdf-wrap{max-width:none;} }" +
		"</style></head><body>" +
		"<div class='pdf-wrap'><section class='report-viewer'><div class='report-header'>" +
		"<h1>Patentability and Commercialization Assessment</h1>" +
		"<div class='report-meta'>" + meta.String() + "</div>" +
		"</div><div class='report-html'>" + body.String() + "</div></section></div>" +
		"</body></html>", nil
}

func (r *ChromiumPDFRenderer) loadStyleCSS() (string, error) {
	r.styleOnce.Do(func() {
		b, err := os.ReadFile(filepath.Join(r.webDir, "style.css"))
		if err != nil {
			r.styleErr = fmt.Errorf("read style.css: %w", err)
			return
		}
		r.styleCSS = string(b)
	})
	return r.styleCSS, r.styleErr
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
