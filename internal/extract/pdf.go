package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// rasterizePDF renders every page of a PDF to a PNG at the configured DPI and
// returns the image paths in page order. Call cleanup() to remove temp files.
func (e *Extractor) rasterizePDF(ctx context.Context, path string) ([]string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "argus-pp-*")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return nil, cleanup, fmt.Errorf("pdftoppm: %w (stderr: %s)", err, truncate(string(errb), 2<<10))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, cleanup, fmt.Errorf("pdftoppm produced no images for %s", filepath.Base(path))
	}

	// Cross-check the rendered count against the document's page tree.
	if expected, err := api.PageCountFile(path); err == nil && expected != len(matches) && e.cfg.MaxPages == 0 {
		e.logger.Warn("extract.pagecount.mismatch",
			"path", filepath.Base(path),
			"rendered", len(matches),
			"expected", expected,
		)
	}

	return matches, cleanup, nil
}
