// Package pipeline orchestrates the extraction-reconciliation flow: two
// parallel text-extraction passes, one generative reconciliation call,
// tolerant JSON recovery, record assembly, and persistence.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/argusdocs/argus/constants"
	"github.com/argusdocs/argus/internal/common"
	"github.com/argusdocs/argus/internal/entity"
	"github.com/argusdocs/argus/internal/extract"
	"github.com/argusdocs/argus/internal/llm"
	"github.com/argusdocs/argus/internal/repository"
	"github.com/argusdocs/argus/internal/schema"
)

// TextGenerator is the reconciliation-model dependency. Satisfied by
// *gemini.Client.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Config holds behavior flags for the processor.
type Config struct {
	// StrictEnvelope validates parsed model output against the envelope
	// schema and downgrades violations to a recorded parse error.
	StrictEnvelope bool
}

// Processor runs the full pipeline for one uploaded document. Concurrent
// uploads are independent; the only internal fan-out is the bounded
// extraction pair.
type Processor struct {
	cfg       Config
	extractor extract.TextExtractor
	generator TextGenerator
	store     repository.Store
	logger    *slog.Logger
}

func NewProcessor(cfg Config, ex extract.TextExtractor, gen TextGenerator, store repository.Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{cfg: cfg, extractor: ex, generator: gen, store: store, logger: logger}
}

// Process runs extraction, reconciliation, and persistence for the file at
// filePath. The caller guarantees the file exists and owns its deletion.
// Only malformed model output is recovered in-pipeline (the record persists
// with extracted_data.error set); every other failure aborts with no record.
func (p *Processor) Process(ctx context.Context, filePath, dataset, originalFilename string) (*entity.ProcessedRecord, error) {
	rid := uuid.New().String()
	requestTime := time.Now()

	if constants.MapExtToFormat(filepath.Ext(originalFilename)) == "" {
		return nil, common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("file %q must be PDF, JPEG, or PNG", originalFilename),
			common.ErrUnsupportedFormat)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}

	p.logger.Info("pipeline.process.start",
		"req_id", rid,
		"dataset", dataset,
		"filename", originalFilename,
		"bytes", info.Size(),
	)

	// Per-dataset defaults are fetched for parity with the configuration
	// surface; model_prompt/example_schema are not substituted into the
	// prompt (see DESIGN.md).
	if _, err := p.store.FetchConfiguration(ctx); err != nil {
		return nil, err
	}

	// The two passes own their own read-only view of the file and run as a
	// bounded pair; results are consumed only after both complete.
	var printed, handwritten extract.Result
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	g.Go(func() error {
		var err error
		printed, err = p.extractor.ExtractPrinted(gctx, filePath)
		return err
	})
	g.Go(func() error {
		var err error
		handwritten, err = p.extractor.ExtractHandwritten(gctx, filePath)
		return err
	})
	if err := g.Wait(); err != nil {
		p.logger.Error("pipeline.extract.failed", "req_id", rid, "error", err)
		return nil, err
	}

	numPages := printed.Pages
	if handwritten.Pages > numPages {
		numPages = handwritten.Pages
	}
	p.logger.Info("pipeline.extract.ok",
		"req_id", rid,
		"printed_bytes", len(printed.Text),
		"handwritten_bytes", len(handwritten.Text),
		"pages", numPages,
	)

	prompt := llm.BuildReconcilePrompt(schema.Template, printed.Text, handwritten.Text)

	start := time.Now()
	raw, err := p.generator.GenerateText(ctx, prompt)
	if err != nil {
		p.logger.Error("pipeline.generate.failed", "req_id", rid, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrGenerativeService, err)
	}

	output, parseErr := llm.ParseModelJSON(raw)
	if parseErr == "" && p.cfg.StrictEnvelope {
		if verr := llm.ValidateEnvelope(output); verr != nil {
			output = map[string]any{"raw": raw}
			parseErr = verr.Error()
		}
	}
	elapsed := time.Since(start)
	if parseErr != "" {
		p.logger.Warn("pipeline.parse.recovered", "req_id", rid, "parse_error", parseErr)
	}

	rec := entity.AssembleRecord(entity.AssembleInput{
		Dataset:          dataset,
		OriginalFilename: originalFilename,
		FilePath:         filePath,
		BlobSize:         info.Size(),
		RequestTime:      requestTime,
		NumPages:         numPages,
		Elapsed:          elapsed,
		HandwrittenText:  handwritten.Text,
		Extraction:       output,
		ParseErr:         parseErr,
	})

	if err := p.store.UpsertRecord(ctx, rec); err != nil {
		p.logger.Error("pipeline.persist.failed", "req_id", rid, "id", rec.ID, "error", err)
		return nil, err
	}

	p.logger.Info("pipeline.process.ok",
		"req_id", rid,
		"id", rec.ID,
		"pages", numPages,
		"ocr_completed", rec.State.OCRCompleted,
		"processing_completed", rec.State.ProcessingCompleted,
		"elapsed_ms", time.Since(requestTime).Milliseconds(),
	)
	return rec, nil
}
