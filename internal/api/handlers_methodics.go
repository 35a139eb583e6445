package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docforma/internal/docspec"
	"github.com/dgallion1/docforma/internal/normalize"
	"github.com/dgallion1/docforma/internal/pipeline"
	"github.com/dgallion1/docforma/internal/store"
)

// handleUploadMethodic normalizes an uploaded guide, extracts its spec and
// stores it. A guide the user already uploaded is returned as is.
func (s *Server) handleUploadMethodic(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	userID := r.FormValue("user_id")
	if userID == "" {
		jsonError(w, "user_id is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !normalize.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	text := s.normalizer.NormalizeReader(bytes.NewReader(data), normalize.FormatFromFilename(filename))
	if strings.TrimSpace(text) == "" {
		jsonError(w, "no text could be extracted from the file", http.StatusUnprocessableEntity)
		return
	}

	ctx := r.Context()
	hash := pipeline.ContentHashHex([]byte(text))
	existing, err := s.store.FindMethodicByHash(ctx, userID, hash)
	switch {
	case err == nil:
		s.log.Info("duplicate methodic", "user_id", userID, "methodic_id", existing.ID)
		writeJSON(w, http.StatusOK, methodicResponse(existing, true))
		return
	case !errors.Is(err, store.ErrNotFound):
		jsonError(w, "dedup check failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	spec, report := s.extractor.ExtractWithReport(text)
	m := &store.Methodic{
		UserID:      userID,
		Filename:    filename,
		ContentHash: hash,
		Spec:        spec,
		Report:      report,
	}
	if err := s.store.SaveMethodic(ctx, m); err != nil {
		jsonError(w, "failed to store methodic: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("methodic stored",
		"user_id", userID,
		"methodic_id", m.ID,
		"filename", filename,
		"chars", len([]rune(text)),
		"recovered", report.Count(docspec.Recovered))

	writeJSON(w, http.StatusCreated, methodicResponse(m, false))
}

func methodicResponse(m *store.Methodic, duplicate bool) map[string]any {
	return map[string]any{
		"methodic":  m,
		"duplicate": duplicate,
		"recovered": m.Report.Count(docspec.Recovered),
		"defaulted": m.Report.Count(docspec.Defaulted),
	}
}

func (s *Server) handleListMethodics(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		jsonError(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}
	list, err := s.store.ListMethodics(r.Context(), userID)
	if err != nil {
		jsonError(w, "failed to list methodics: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"methodics": list})
}

func (s *Server) handleGetMethodic(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMethodic(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "methodic not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" && userID != m.UserID {
		jsonError(w, "methodic not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMethodic(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		jsonError(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}
	err := s.store.DeleteMethodic(r.Context(), userID, chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "methodic not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
