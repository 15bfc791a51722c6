// Command argus-batch processes a directory of scanned documents through the
// extraction pipeline without running the HTTP server, then writes an XLSX
// summary of the dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/argusdocs/argus/constants"
	"github.com/argusdocs/argus/internal/common"
	"github.com/argusdocs/argus/internal/export"
	"github.com/argusdocs/argus/internal/extract"
	"github.com/argusdocs/argus/internal/gemini"
	"github.com/argusdocs/argus/internal/pipeline"
	"github.com/argusdocs/argus/internal/repository"
)

func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory of documents to process (required)")
		dataset = flag.String("dataset", "", "dataset name (defaults to the directory name)")
		inmem   = flag.Bool("inmem", false, "use an in-memory SQLite store")
		out     = flag.String("out", "", "output XLSX path (defaults to <dataset>.xlsx in the parent directory)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *dataset == "" {
		*dataset = filepath.Base(*dir)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), *dataset+".xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()
	if cfg.Gemini.APIKey == "" {
		printError("Error: GEMINI_API_KEY is required\n")
		os.Exit(1)
	}

	sqlitePath := cfg.Database.SQLitePath
	if *inmem {
		sqlitePath = ":memory:"
	}
	store, err := repository.OpenSQLite(sqlitePath, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to bootstrap schema", "error", err)
		os.Exit(1)
	}

	gc, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		TextModel:   cfg.Gemini.TextModel,
		VisionModel: cfg.Gemini.VisionModel,
		Temperature: cfg.Gemini.Temperature,
		Timeout:     cfg.Gemini.Timeout,
	}, logger)
	if err != nil {
		logger.Error("failed to create generative client", "error", err)
		os.Exit(1)
	}
	defer func() { _ = gc.Close() }()

	extractor := extract.NewExtractor(extract.Config{
		Pdftoppm: cfg.Extract.Pdftoppm,
		DPI:      cfg.Extract.DPI,
		MaxPages: cfg.Extract.MaxPages,
	}, gc, logger)

	processor := pipeline.NewProcessor(pipeline.Config{
		StrictEnvelope: cfg.Gemini.StrictEnvelope,
	}, extractor, gc, store, logger)

	var files []string
	err = filepath.WalkDir(*dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && constants.MapExtToFormat(filepath.Ext(path)) != "" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		logger.Error("failed to scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("starting batch", "dir", *dir, "dataset", *dataset, "files", len(files))

	processed := 0
	failures := 0
	for _, path := range files {
		if _, err := processor.Process(ctx, path, *dataset, filepath.Base(path)); err != nil {
			logger.Error("failed to process file", "path", path, "error", err)
			failures++
			continue
		}
		processed++
	}

	xlsxBytes, err := export.NewService(store, logger).ExportDatasetXLSX(ctx, *dataset)
	if err != nil {
		logger.Error("failed to export dataset", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete",
		"files_found", len(files),
		"files_processed", processed,
		"failures", failures,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files found: %d\n", len(files))
	fmt.Printf("- Files processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", *out)
}
