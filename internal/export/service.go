// Package export renders processed records as XLSX workbooks for review.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/argusdocs/argus/internal/entity"
	"github.com/argusdocs/argus/internal/repository"
)

// Service is a tiny façade over the store that produces XLSX bytes for a
// dataset's records.
type Service struct {
	store  repository.Store
	logger *slog.Logger
}

func NewService(store repository.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportDatasetXLSX returns a workbook with one row per processed record in
// the dataset. Headline shipment fields are pulled from the reconciled output
// when it parsed; rows with recovered raw text leave them blank.
func (s *Service) ExportDatasetXLSX(ctx context.Context, dataset string) ([]byte, error) {
	start := time.Now()

	recs, err := s.store.ListRecords(ctx, dataset)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{
		"Document ID",
		"Uploaded",
		"Pages",
		"Size (bytes)",
		"Processing Time (s)",
		"Completed",
		"Type",
		"Number",
		"Consignor",
		"Consignee",
		"Carrier",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.ID)
		write(2, r.Properties.RequestTimestamp)
		write(3, r.Properties.NumPages)
		write(4, r.Properties.BlobSize)
		write(5, r.Properties.TotalTimeSeconds)
		write(6, r.State.ProcessingCompleted)

		doc := correctedDocument(r)
		write(7, stringField(doc, "document_type"))
		write(8, stringField(doc, "document_number"))
		write(9, partyName(doc, "consignor_sender"))
		write(10, partyName(doc, "consignee_recipient"))
		write(11, partyName(doc, "carrier"))

		if r.ExtractedData.Error != nil {
			write(12, truncate(*r.ExtractedData.Error, 140))
		}

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 36) // id
	_ = f.SetColWidth(sheet, "B", "B", 22) // timestamp
	_ = f.SetColWidth(sheet, "C", "E", 14)
	_ = f.SetColWidth(sheet, "G", "H", 18) // type, number
	_ = f.SetColWidth(sheet, "I", "K", 28) // parties
	_ = f.SetColWidth(sheet, "L", "L", 48) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"dataset", dataset,
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// correctedDocument unwraps the reconciled output down to the shipment
// document fields. Returns nil for recovered raw text. Models usually keep
// the "shipment_document" wrapper from the template, but output without it
// is accepted too.
func correctedDocument(r *entity.ProcessedRecord) map[string]any {
	envelope, ok := r.ExtractedData.GPTExtractionOutput.(map[string]any)
	if !ok {
		return nil
	}
	corrected, ok := envelope["corrected_schema"].(map[string]any)
	if !ok {
		return nil
	}
	if inner, ok := corrected["shipment_document"].(map[string]any); ok {
		return inner
	}
	return corrected
}

func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

func partyName(doc map[string]any, section string) string {
	sec, ok := doc[section].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := sec["name"].(string)
	return name
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
