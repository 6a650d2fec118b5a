package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/figtools/compdiff/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

type analyzeRequest struct {
	FileKey      string `json:"file_key"`
	NodeID       string `json:"node_id"`
	RegistryPath string `json:"registry_path"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.FileKey == "" {
		jsonError(w, "file_key is required", http.StatusBadRequest)
		return
	}

	registryPath := req.RegistryPath
	if registryPath == "" {
		registryPath = s.cfg.RegistryPath
	}

	job := pipeline.NewJob(req.FileKey, req.NodeID, registryPath)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/analyze/%s/status", job.ID),
	})
}

func (s *Server) handleAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":     snap.ID,
		"file_key":   snap.FileKey,
		"status":     snap.Status,
		"phase":      snap.Phase,
		"progress":   snap.Progress,
		"report_url": fmt.Sprintf("/api/reports/%s", snap.ID),
	})
}
