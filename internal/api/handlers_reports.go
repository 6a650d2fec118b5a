package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/figtools/compdiff/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleGetReport serves a finished diff report as JSON, markdown or HTML.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, fmt.Sprintf("report not ready: job is %s", snap.Status), http.StatusConflict)
		return
	}
	rep := job.Report()
	if rep == nil {
		jsonError(w, "report unavailable", http.StatusNotFound)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rep)
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		fmt.Fprint(w, rep.Markdown())
	case "html":
		body, err := rep.HTML()
		if err != nil {
			jsonError(w, "render html: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	default:
		jsonError(w, "unsupported format (expected json, markdown or html)", http.StatusBadRequest)
	}
}
