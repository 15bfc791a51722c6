// Package entity defines the persisted unit of the extraction pipeline.
package entity

import (
	"math"
	"path/filepath"
	"time"
)

// ProcessedRecord is written once per upload and upserted by ID
// (last-write-wins). ID is "{dataset}/{original filename}".
type ProcessedRecord struct {
	ID            string        `json:"id"`
	Properties    Properties    `json:"properties"`
	State         State         `json:"state"`
	ExtractedData ExtractedData `json:"extracted_data"`
}

// Properties carries file metadata and timing provenance.
type Properties struct {
	BlobName         string  `json:"blob_name"`
	RequestTimestamp string  `json:"request_timestamp"`
	BlobSize         int64   `json:"blob_size"`
	NumPages         int     `json:"num_pages"`
	TotalTimeSeconds float64 `json:"total_time_seconds"`
}

// State holds the four independent progress flags.
// Invariant: ProcessingCompleted ⇒ OCRCompleted ∧ GPTExtractionCompleted.
type State struct {
	FileLanded             bool `json:"file_landed"`
	OCRCompleted           bool `json:"ocr_completed"`
	GPTExtractionCompleted bool `json:"gpt_extraction_completed"`
	ProcessingCompleted    bool `json:"processing_completed"`
}

// ExtractedData holds the raw handwritten text, the parsed (or error-wrapped)
// model output, and the parse error when recovery kicked in.
type ExtractedData struct {
	OCROutput           string  `json:"ocr_output"`
	GPTExtractionOutput any     `json:"gpt_extraction_output"`
	Error               *string `json:"error"`
}

// AssembleInput collects everything the record assembler needs.
type AssembleInput struct {
	Dataset          string
	OriginalFilename string
	FilePath         string // temporary copy on disk
	BlobSize         int64
	RequestTime      time.Time
	NumPages         int
	Elapsed          time.Duration
	HandwrittenText  string
	Extraction       any    // parsed model output or raw-text envelope
	ParseErr         string // "" when the model output parsed cleanly
}

// AssembleRecord builds the ProcessedRecord. Pure; no side effects beyond
// allocation.
func AssembleRecord(in AssembleInput) *ProcessedRecord {
	var parseErr *string
	if in.ParseErr != "" {
		parseErr = &in.ParseErr
	}

	ocrDone := in.HandwrittenText != ""
	extractionDone := in.Extraction != nil

	return &ProcessedRecord{
		ID: in.Dataset + "/" + in.OriginalFilename,
		Properties: Properties{
			BlobName:         in.Dataset + "/" + filepath.Base(in.FilePath),
			RequestTimestamp: in.RequestTime.UTC().Format(time.RFC3339),
			BlobSize:         in.BlobSize,
			NumPages:         in.NumPages,
			TotalTimeSeconds: math.Round(in.Elapsed.Seconds()*100) / 100,
		},
		State: State{
			FileLanded:             true,
			OCRCompleted:           ocrDone,
			GPTExtractionCompleted: extractionDone,
			ProcessingCompleted:    ocrDone && extractionDone,
		},
		ExtractedData: ExtractedData{
			OCROutput:           in.HandwrittenText,
			GPTExtractionOutput: in.Extraction,
			Error:               parseErr,
		},
	}
}
