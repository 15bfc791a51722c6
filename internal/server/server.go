// Package server exposes the HTTP surface: document upload, record lookup,
// and health. Handlers are thin wrappers over the pipeline and the store.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/argusdocs/argus/internal/common"
	"github.com/argusdocs/argus/internal/export"
	"github.com/argusdocs/argus/internal/pipeline"
	"github.com/argusdocs/argus/internal/repository"
)

type Server struct {
	processor *pipeline.Processor
	store     repository.Store
	exporter  *export.Service
	logger    *slog.Logger
}

func New(proc *pipeline.Processor, store repository.Store, exporter *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{processor: proc, store: store, exporter: exporter, logger: logger}
}

// Routes builds the request mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /data", s.handleListRecords)
	mux.HandleFunc("GET /data/{id...}", s.handleGetRecord)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	dataset := r.URL.Query().Get("dataset")
	if dataset == "" {
		writeError(w, http.StatusBadRequest, "dataset query parameter is required")
		return
	}
	data, err := s.exporter.ExportDatasetXLSX(r.Context(), dataset)
	if err != nil {
		s.logger.Error("export failed", "dataset", dataset, "error", err)
		writeError(w, common.HTTPStatus(err), "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dataset+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "store unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	dataset := r.URL.Query().Get("dataset")
	if dataset == "" {
		writeError(w, http.StatusBadRequest, "dataset query parameter is required")
		return
	}
	recs, err := s.store.ListRecords(r.Context(), dataset)
	if err != nil {
		s.logger.Error("list records failed", "dataset", dataset, "error", err)
		writeError(w, common.HTTPStatus(err), "list records failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dataset": dataset, "records": recs})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "record id is required")
		return
	}
	rec, err := s.store.GetRecord(r.Context(), id)
	if err != nil {
		s.logger.Warn("get record failed", "id", id, "error", err)
		writeError(w, common.HTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
