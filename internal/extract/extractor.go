package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/argusdocs/argus/constants"
	"github.com/argusdocs/argus/internal/common"
)

const (
	printedPrompt = "Extract only the machine-printed (typed or digital) text from this document as plain text. " +
		"Ignore handwriting, stamps, and signatures. Return only the text."
	handwrittenPrompt = "Extract only the handwritten text from this image as plain text. " +
		"Ignore machine-printed or typed text. Return only the text, or an empty response if there is no handwriting."
)

// Config for the extractor. Zero values get sensible defaults.
type Config struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // rasterization DPI for the handwritten pass, default 200
	MaxPages int    // 0 = no limit
}

// Extractor runs the printed and handwritten passes against the extraction
// service. Each call is a network request; results are not cached.
type Extractor struct {
	cfg    Config
	vision VisionCaller
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, vision VisionCaller, logger *slog.Logger) *Extractor {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, vision: vision, runner: execRunner{}, logger: logger}
}

// ExtractPrinted sends the raw document bytes to the extraction service in a
// single call. The service reports no page count for direct PDF submission,
// so Pages is always 1; the pipeline takes the max across both passes.
func (e *Extractor) ExtractPrinted(ctx context.Context, path string) (Result, error) {
	start := time.Now()

	mimeType, err := checkFormat(path)
	if err != nil {
		return Result{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read file: %w", err)
	}

	text, err := e.vision.GenerateFromFile(ctx, printedPrompt, data, mimeType)
	if err != nil {
		return Result{}, fmt.Errorf("printed pass: %w: %w", common.ErrExtractionService, err)
	}

	e.logger.Info("extract.printed.ok",
		"path", filepath.Base(path),
		"bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{Text: text, Pages: 1}, nil
}

// ExtractHandwritten surfaces handwriting only. PDFs are rasterized page by
// page and each page image goes through its own service call; per-page text
// blocks are joined by a blank line. Pages is the rasterized page count.
func (e *Extractor) ExtractHandwritten(ctx context.Context, path string) (Result, error) {
	start := time.Now()

	mimeType, err := checkFormat(path)
	if err != nil {
		return Result{}, err
	}

	if constants.MapExtToFormat(filepath.Ext(path)) != constants.PDF {
		data, err := os.ReadFile(path)
		if err != nil {
			return Result{}, fmt.Errorf("read file: %w", err)
		}
		text, err := e.vision.GenerateFromFile(ctx, handwrittenPrompt, data, mimeType)
		if err != nil {
			return Result{}, fmt.Errorf("handwritten pass: %w: %w", common.ErrExtractionService, err)
		}
		e.logger.Info("extract.handwritten.ok",
			"path", filepath.Base(path), "pages", 1,
			"bytes", len(text),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{Text: text, Pages: 1}, nil
	}

	pages, cleanup, err := e.rasterizePDF(ctx, path)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return Result{}, fmt.Errorf("handwritten pass: %w: %w", common.ErrExtractionService, err)
	}

	blocks := make([]string, 0, len(pages))
	for _, page := range pages {
		data, err := os.ReadFile(page)
		if err != nil {
			return Result{}, fmt.Errorf("read page image: %w", err)
		}
		text, err := e.vision.GenerateFromFile(ctx, handwrittenPrompt, data, "image/png")
		if err != nil {
			return Result{}, fmt.Errorf("handwritten pass: %w: %w", common.ErrExtractionService, err)
		}
		if text != "" {
			blocks = append(blocks, text)
		}
	}

	res := Result{Text: joinBlocks(blocks), Pages: len(pages)}
	e.logger.Info("extract.handwritten.ok",
		"path", filepath.Base(path), "pages", res.Pages,
		"bytes", len(res.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// checkFormat validates the extension and returns the mime type to submit.
func checkFormat(path string) (string, error) {
	ext := filepath.Ext(path)
	mimeType := constants.MimeForExt(ext)
	if mimeType == "" {
		return "", fmt.Errorf("%w: %q (must be PDF, JPEG, or PNG)", common.ErrUnsupportedFormat, ext)
	}
	return mimeType, nil
}

func joinBlocks(blocks []string) string {
	switch len(blocks) {
	case 0:
		return ""
	case 1:
		return blocks[0]
	}
	out := blocks[0]
	for _, b := range blocks[1:] {
		out += "\n\n" + b
	}
	return out
}
