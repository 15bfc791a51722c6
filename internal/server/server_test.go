package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/argusdocs/argus/internal/entity"
	"github.com/argusdocs/argus/internal/export"
	"github.com/argusdocs/argus/internal/extract"
	"github.com/argusdocs/argus/internal/pipeline"
	"github.com/argusdocs/argus/internal/repository"
)

type stubExtractor struct{}

func (stubExtractor) ExtractPrinted(context.Context, string) (extract.Result, error) {
	return extract.Result{Text: "printed", Pages: 1}, nil
}

func (stubExtractor) ExtractHandwritten(context.Context, string) (extract.Result, error) {
	return extract.Result{Text: "handwritten", Pages: 2}, nil
}

type stubGenerator struct{}

func (stubGenerator) GenerateText(context.Context, string) (string, error) {
	return `{"initial_schema": {}, "corrected_schema": {}, "handwritten_extras": null}`, nil
}

func setupServer(t *testing.T) (http.Handler, repository.Store) {
	t.Helper()
	store, err := repository.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() failed: %v", err)
	}
	proc := pipeline.NewProcessor(pipeline.Config{}, stubExtractor{}, stubGenerator{}, store, nil)
	return New(proc, store, export.NewService(store, nil), nil).Routes(), store
}

func multipartUpload(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("%PDF-1.4 fake")); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func TestUploadProcessesDocument(t *testing.T) {
	handler, store := setupServer(t)

	body, contentType := multipartUpload(t, "scan.pdf", map[string]string{"dataset_name": "ds"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Message string                 `json:"message"`
		Data    entity.ProcessedRecord `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.ID != "ds/scan.pdf" {
		t.Errorf("record id = %q", resp.Data.ID)
	}
	if !resp.Data.State.ProcessingCompleted {
		t.Error("record must be fully processed")
	}

	if _, err := store.GetRecord(context.Background(), "ds/scan.pdf"); err != nil {
		t.Errorf("record not persisted: %v", err)
	}

	// Dataset defaults must be seeded on first upload.
	cfgs, err := store.FetchConfiguration(context.Background())
	if err != nil {
		t.Fatalf("FetchConfiguration() failed: %v", err)
	}
	if _, ok := cfgs["ds"]; !ok {
		t.Error("dataset config was not seeded")
	}
}

func TestUploadRejectsMissingDataset(t *testing.T) {
	handler, _ := setupServer(t)
	body, contentType := multipartUpload(t, "scan.pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestUploadRejectsBadExtension(t *testing.T) {
	handler, _ := setupServer(t)
	body, contentType := multipartUpload(t, "doc.txt", map[string]string{"dataset_name": "ds"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestUploadRejectsInvalidExampleSchema(t *testing.T) {
	handler, _ := setupServer(t)
	body, contentType := multipartUpload(t, "scan.pdf", map[string]string{
		"dataset_name":   "ds",
		"example_schema": "{not json",
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestGetRecordRoutes(t *testing.T) {
	handler, store := setupServer(t)
	rec := &entity.ProcessedRecord{ID: "ds/a.pdf", State: entity.State{FileLanded: true}}
	if err := store.UpsertRecord(context.Background(), rec); err != nil {
		t.Fatalf("UpsertRecord() failed: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/data/ds/a.pdf", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var got entity.ProcessedRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "ds/a.pdf" {
		t.Errorf("id = %q", got.ID)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/data/ds/missing.pdf", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing record status = %d, want 404", rr.Code)
	}
}

func TestListRecordsRequiresDataset(t *testing.T) {
	handler, _ := setupServer(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/data", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	handler, _ := setupServer(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	handler, store := setupServer(t)
	rec := &entity.ProcessedRecord{ID: "ds/a.pdf", State: entity.State{FileLanded: true}}
	if err := store.UpsertRecord(context.Background(), rec); err != nil {
		t.Fatalf("UpsertRecord() failed: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/export?dataset=ds", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("content type = %q", ct)
	}
	if rr.Body.Len() == 0 {
		t.Error("empty workbook body")
	}
}
