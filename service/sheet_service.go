package service

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/saatgomi1/secondsense/models"
)

//go:embed templates/confirmation.html
var templatesFS embed.FS

var confirmationTemplate = template.Must(template.ParseFS(templatesFS, "templates/confirmation.html"))

// ConfirmationTitle heads the read-only confirmation view
const ConfirmationTitle = "Information for Take-Back Company"

// SheetService renders the confirmation view as HTML and PDF
type SheetService struct {
	baseURL    string // Base URL the headless browser loads the view from (e.g., "http://localhost:8080")
	chromePath string
}

// NewSheetService creates a new SheetService
// chromePath may be empty; common install paths are then probed
func NewSheetService(baseURL, chromePath string) *SheetService {
	return &SheetService{baseURL: strings.TrimRight(baseURL, "/"), chromePath: chromePath}
}

type confirmationData struct {
	Title    string
	Fields   []models.Column
	ImageSrc template.URL
}

// RenderHTML renders the confirmed record with the composite image inlined
func (s *SheetService) RenderHTML(session *models.Session) ([]byte, error) {
	if !session.Confirmed {
		return nil, ErrNotConfirmed
	}

	data := confirmationData{
		Title:  ConfirmationTitle,
		Fields: session.Record.DisplayRow(),
	}
	if len(session.Record.CompositeImage) > 0 {
		data.ImageSrc = template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(session.Record.CompositeImage))
	}

	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render confirmation view: %w", err)
	}
	return buf.Bytes(), nil
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func (s *SheetService) detectChromePath() string {
	if s.chromePath != "" {
		if _, err := os.Stat(s.chromePath); err == nil {
			return s.chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfirmationURL returns the address of a session's confirmation view
func (s *SheetService) ConfirmationURL(sessionID string) string {
	return fmt.Sprintf("%s/sessions/%s/confirmation", s.baseURL, sessionID)
}

// GeneratePDF prints the confirmation view of a session to an A4 PDF using chromedp
func (s *SheetService) GeneratePDF(ctx context.Context, sessionID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := s.detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123),
		chromedp.Navigate(s.ConfirmationURL(sessionID)),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm = 8.27" x 11.69"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfBuf, nil
}
