package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/figtools/compdiff/internal/analyze"
	"github.com/figtools/compdiff/internal/classify"
	"github.com/figtools/compdiff/internal/figma"
	"github.com/figtools/compdiff/internal/llm"
	"github.com/figtools/compdiff/internal/match"
	"github.com/figtools/compdiff/internal/report"
)

// DocumentSource fetches the node tree to analyze.
type DocumentSource interface {
	GetFile(ctx context.Context, fileKey string) (*figma.File, error)
	GetFileNode(ctx context.Context, fileKey, nodeID string) (*figma.File, error)
}

// RegistrySource resolves a registry path into matchable text. found=false
// means the path does not exist, which is a valid outcome.
type RegistrySource interface {
	Fetch(ctx context.Context, registryPath string) (text string, found bool, err error)
}

// Worker runs a single analysis job end to end.
type Worker struct {
	source     DocumentSource
	registry   RegistrySource
	matcher    *match.Matcher
	thresholds classify.Thresholds
	log        *slog.Logger

	// backoff is replaceable in tests.
	backoff func(attempt int) time.Duration
}

func NewWorker(source DocumentSource, registry RegistrySource, matcher *match.Matcher, thresholds classify.Thresholds, log *slog.Logger) *Worker {
	return &Worker{
		source:     source,
		registry:   registry,
		matcher:    matcher,
		thresholds: thresholds,
		log:        log,
		backoff:    llm.Backoff,
	}
}

// Process runs fetch, classify, match and report for a job. The job ends
// either completed with a full report attached or failed with no report.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "file_key", job.FileKey)

	// Phase 1: fetch the document tree. Source failures abort the job with
	// the upstream status preserved.
	job.SetStatus(StatusFetching, "fetching document")
	file, err := w.fetchDocument(ctx, job)
	if err != nil {
		log.Error("document fetch failed", "error", err)
		job.AddError(fmt.Sprintf("document source: %s", err))
		job.SetStatus(StatusFailed, "fetching")
		return
	}
	log.Info("document fetched", "name", file.Name, "version", file.Version)

	// Phase 1.5: fetch registry content. Absence and unreachability both
	// degrade to a no-registry-check analysis instead of failing the job.
	reg := w.fetchRegistry(ctx, job, log)

	// Phase 2: classify and diff.
	job.SetStatus(StatusAnalyzing, "classifying and matching")
	source := report.SourceMeta{
		FileKey:      job.FileKey,
		NodeID:       job.NodeID,
		Name:         file.Name,
		Version:      file.Version,
		LastModified: file.LastModified,
	}
	rep, stats, err := analyze.Run(ctx, file, source, reg, w.matcher, w.thresholds)
	if err != nil {
		log.Error("analysis failed", "error", err)
		job.AddError(fmt.Sprintf("analyze: %s", err))
		job.SetStatus(StatusFailed, "analyzing")
		return
	}

	job.SetCounts(stats.NodesVisited, stats.Components, stats.Screens,
		len(rep.ExistingComponents), len(rep.NewComponents))
	job.SetReport(rep)
	job.SetStatus(StatusCompleted, "done")
	log.Info("analysis complete",
		"nodes", stats.NodesVisited,
		"components", stats.Components,
		"screens", stats.Screens,
		"existing", len(rep.ExistingComponents),
		"new", len(rep.NewComponents),
		"registry_checked", rep.RegistryChecked,
	)
}

func (w *Worker) fetchDocument(ctx context.Context, job *Job) (*figma.File, error) {
	var file *figma.File
	var lastErr error
	for attempt := range llm.MaxRetries {
		if job.NodeID != "" {
			file, lastErr = w.source.GetFileNode(ctx, job.FileKey, job.NodeID)
		} else {
			file, lastErr = w.source.GetFile(ctx, job.FileKey)
		}
		if lastErr == nil || !isTransient(lastErr) || attempt == llm.MaxRetries-1 {
			break
		}
		w.log.Warn("transient document source error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return file, lastErr
}

func (w *Worker) fetchRegistry(ctx context.Context, job *Job, log *slog.Logger) analyze.RegistryContent {
	if w.registry == nil || job.RegistryPath == "" {
		return analyze.RegistryContent{}
	}
	text, found, err := w.registry.Fetch(ctx, job.RegistryPath)
	if err != nil {
		log.Warn("registry fetch failed, treating all components as new", "error", err)
		return analyze.RegistryContent{
			Path:    job.RegistryPath,
			Warning: fmt.Sprintf("registry unreachable: %s", err),
		}
	}
	if !found {
		log.Info("registry path not found", "path", job.RegistryPath)
		return analyze.RegistryContent{Path: job.RegistryPath}
	}
	return analyze.RegistryContent{Text: text, Path: job.RegistryPath, Found: true}
}

// isTransient reports whether a document source error is worth retrying.
func isTransient(err error) bool {
	var apiErr *figma.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}
