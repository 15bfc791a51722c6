package ingest

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/argusdocs/argus/internal/entity"
)

// FileProcessor is the pipeline dependency. Satisfied by *pipeline.Processor.
type FileProcessor interface {
	Process(ctx context.Context, filePath, dataset, originalFilename string) (*entity.ProcessedRecord, error)
}

// Worker consumes discovered paths and runs them through the pipeline one at
// a time. Drop-folder throughput is bounded by model latency anyway, so a
// single consumer keeps ordering simple.
type Worker struct {
	root      string
	processor FileProcessor
	logger    *slog.Logger
}

func NewWorker(root string, proc FileProcessor, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{root: root, processor: proc, logger: logger}
}

// Run drains paths until the channel closes or ctx is cancelled. Per-file
// failures are logged and skipped; the loop never aborts.
func (w *Worker) Run(ctx context.Context, paths <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-paths:
			if !ok {
				return
			}
			dataset := w.datasetFor(path)
			w.logger.Info("ingest.file.landed", "path", path, "dataset", dataset)
			if _, err := w.processor.Process(ctx, path, dataset, filepath.Base(path)); err != nil {
				w.logger.Error("ingest.file.failed", "path", path, "error", err)
			}
		}
	}
}

// datasetFor maps a landed file to its dataset: the path of its directory
// relative to the watch root, or the root directory's own name for files
// dropped at the top level.
func (w *Worker) datasetFor(path string) string {
	rel, err := filepath.Rel(w.root, filepath.Dir(path))
	if err != nil || rel == "." {
		return filepath.Base(w.root)
	}
	return filepath.ToSlash(rel)
}
