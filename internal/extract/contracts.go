package extract

import "context"

// Result is the outcome of one extraction pass over a document.
type Result struct {
	Text  string
	Pages int
}

// VisionCaller is the extraction-service dependency: prompt + raw bytes in,
// plain text out. Satisfied by *gemini.Client.
type VisionCaller interface {
	GenerateFromFile(ctx context.Context, prompt string, data []byte, mimeType string) (string, error)
}

// TextExtractor produces the two linguistic views of a document. The printed
// pass surfaces machine-printed characters only; the handwritten pass surfaces
// handwriting only.
type TextExtractor interface {
	ExtractPrinted(ctx context.Context, path string) (Result, error)
	ExtractHandwritten(ctx context.Context, path string) (Result, error)
}
