package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/argusdocs/argus/constants"
	"github.com/argusdocs/argus/internal/common"
	"github.com/argusdocs/argus/internal/repository"
)

const maxUploadMemory = 32 << 20 // 32MB before multipart spills to disk

// handleUpload accepts a multipart document upload, spools it to a temporary
// file, seeds per-dataset defaults, and runs the extraction pipeline. The
// temporary copy is always deleted afterward.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	dataset := r.FormValue("dataset_name")
	if dataset == "" {
		writeError(w, http.StatusBadRequest, "dataset_name is required")
		return
	}

	modelPrompt := r.FormValue("model_prompt")
	if modelPrompt == "" {
		modelPrompt = "Extract all data."
	}
	exampleSchema := r.FormValue("example_schema")
	if exampleSchema == "" {
		exampleSchema = "{}"
	}
	if !json.Valid([]byte(exampleSchema)) {
		writeError(w, http.StatusBadRequest, "Invalid JSON in example_schema.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			s.logger.Warn("upload body close failed", "error", cerr)
		}
	}()

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported file extension %q (must be PDF, JPEG, or PNG)", ext))
		return
	}

	tmpPath, err := spoolToTemp(file, ext)
	if err != nil {
		s.logger.Error("upload spool failed", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer func() {
		if rerr := os.Remove(tmpPath); rerr != nil {
			s.logger.Warn("temp file cleanup failed", "path", tmpPath, "error", rerr)
		}
	}()

	if _, err := s.store.SeedDatasetConfig(r.Context(), dataset, repository.DatasetConfig{
		ModelPrompt:   modelPrompt,
		ExampleSchema: json.RawMessage(exampleSchema),
	}); err != nil {
		s.logger.Error("seed dataset config failed", "dataset", dataset, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update configuration: %v", err))
		return
	}

	rec, err := s.processor.Process(r.Context(), tmpPath, dataset, header.Filename)
	if err != nil {
		s.logger.Error("upload processing failed",
			"dataset", dataset, "filename", header.Filename, "error", err)
		writeError(w, common.HTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("File %s processed", header.Filename),
		"data":    rec,
	})
}

// spoolToTemp writes the upload to a temp file, preserving the extension so
// downstream format routing works on the path.
func spoolToTemp(src io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "argus-upload-*."+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
