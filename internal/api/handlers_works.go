package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docforma/internal/pipeline"
	"github.com/dgallion1/docforma/internal/render"
	"github.com/dgallion1/docforma/internal/store"
)

// maxWorkRequestBytes bounds the JSON body, which may carry finished content.
const maxWorkRequestBytes = 4 << 20

func (s *Server) handleCreateWork(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWorkRequestBytes)

	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		jsonError(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		jsonError(w, "topic is required", http.StatusBadRequest)
		return
	}
	if req.Year < 0 {
		jsonError(w, "year must not be negative", http.StatusBadRequest)
		return
	}

	if req.MethodicID != "" {
		m, err := s.store.GetMethodic(r.Context(), req.MethodicID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && m.UserID != req.UserID) {
			jsonError(w, "methodic not found", http.StatusNotFound)
			return
		}
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	job := pipeline.NewJob(req)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/works/%s/status", job.ID),
	})
}

func (s *Server) handleWorkStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	resp := map[string]any{"job": snap}
	if snap.Status == pipeline.StatusCompleted {
		resp["document_url"] = fmt.Sprintf("/api/works/%s/document", snap.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWorkDocument(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
		return
	}

	work, err := s.store.GetWork(r.Context(), snap.WorkID)
	if err != nil {
		jsonError(w, "failed to load work: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", render.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.docx"`, work.ID))
	w.Write(work.Document)
}
