package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/figtools/compdiff/internal/classify"
	"github.com/figtools/compdiff/internal/codegen"
	"github.com/figtools/compdiff/internal/pipeline"
)

type generateRequest struct {
	JobID         string `json:"job_id"`
	ComponentName string `json:"component_name"`
	Commit        bool   `json:"commit"`
}

// handleGenerate asks the code-generation oracle for source for one of a
// report's new components, optionally committing it to a branch of the
// component repository.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.JobID == "" || req.ComponentName == "" {
		jsonError(w, "job_id and component_name are required", http.StatusBadRequest)
		return
	}

	job := s.orchestrator.GetJob(req.JobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	if job.Snapshot().Status != pipeline.StatusCompleted {
		jsonError(w, "report not ready", http.StatusConflict)
		return
	}
	rep := job.Report()
	if rep == nil {
		jsonError(w, "report unavailable", http.StatusNotFound)
		return
	}

	rec, ok := findNewComponent(rep.NewComponents, req.ComponentName)
	if !ok {
		jsonError(w, fmt.Sprintf("component %q is not in the report's new components", req.ComponentName), http.StatusNotFound)
		return
	}

	generated, err := s.generator.Generate(r.Context(), rec)
	if err != nil {
		s.log.Error("generation failed", "component", rec.Name, "error", err)
		jsonError(w, "generation failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	resp := map[string]any{
		"component": rec.Name,
		"file_name": generated.FileName,
		"source":    generated.Source,
		"committed": false,
	}

	if req.Commit {
		if s.sink == nil {
			jsonError(w, "commit requested but no repository is configured", http.StatusBadRequest)
			return
		}
		branch := "compdiff/add-" + strings.ToLower(codegen.PascalCase(rec.Name))
		filePath := path.Join(s.cfg.RegistryPath, generated.FileName)
		message := fmt.Sprintf("Add %s component generated from %s", codegen.PascalCase(rec.Name), rep.Source.Name)

		if err := s.sink.EnsureBranch(r.Context(), branch); err != nil {
			s.log.Error("branch creation failed", "branch", branch, "error", err)
			jsonError(w, "branch creation failed: "+err.Error(), http.StatusBadGateway)
			return
		}
		if err := s.sink.CommitFile(r.Context(), branch, filePath, generated.Source, message); err != nil {
			s.log.Error("commit failed", "branch", branch, "path", filePath, "error", err)
			jsonError(w, "commit failed: "+err.Error(), http.StatusBadGateway)
			return
		}
		resp["committed"] = true
		resp["branch"] = branch
		resp["path"] = filePath
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func findNewComponent(records []classify.ComponentRecord, name string) (classify.ComponentRecord, bool) {
	for _, rec := range records {
		if strings.EqualFold(rec.Name, name) {
			return rec, true
		}
	}
	return classify.ComponentRecord{}, false
}
