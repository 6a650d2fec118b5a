// Package report assembles the terminal diff artifact. It performs no
// classification of its own: it merges classifier and matcher output,
// enforces the partition invariant, and renders presentation formats.
package report

import (
	"fmt"
	"strings"

	"github.com/figtools/compdiff/internal/classify"
	"github.com/figtools/compdiff/internal/match"
)

// SourceMeta describes the analyzed document, passed through unmodified
// for traceability.
type SourceMeta struct {
	FileKey      string `json:"fileKey"`
	NodeID       string `json:"nodeId,omitempty"`
	Name         string `json:"name"`
	Version      string `json:"version"`
	LastModified string `json:"lastModified"`
}

// ExistingComponent is a catalogued component together with the registry
// identifier it matched.
type ExistingComponent struct {
	classify.ComponentRecord
	MatchedName string `json:"matchedName"`
}

// Report is the terminal artifact. Read-only once built.
type Report struct {
	Source             SourceMeta                 `json:"source"`
	ExistingComponents []ExistingComponent        `json:"existingComponents"`
	NewComponents      []classify.ComponentRecord `json:"newComponents"`
	Screens            []classify.ScreenRecord    `json:"screens"`
	RegistryChecked    bool                       `json:"registryChecked"`
	RegistryPath       string                     `json:"registryPath,omitempty"`
	Warnings           []string                   `json:"warnings"`
}

// Build merges the catalogue with the match result. Every component lands
// in exactly one bucket; any mismatch between the two inputs is a terminal
// error rather than a silently partial report.
func Build(source SourceMeta, components []classify.ComponentRecord, screens []classify.ScreenRecord, diff match.Result, registryPath string) (*Report, error) {
	matched := make(map[string]string, len(diff.Existing))
	for _, m := range diff.Existing {
		matched[strings.ToLower(m.Name)] = m.MatchedName
	}
	isNew := make(map[string]bool, len(diff.New))
	for _, name := range diff.New {
		isNew[strings.ToLower(name)] = true
	}

	r := &Report{
		Source:             source,
		ExistingComponents: []ExistingComponent{},
		NewComponents:      []classify.ComponentRecord{},
		Screens:            append([]classify.ScreenRecord{}, screens...),
		RegistryChecked:    diff.RegistryChecked,
		RegistryPath:       registryPath,
		Warnings:           append([]string{}, diff.Warnings...),
	}

	for _, rec := range components {
		key := strings.ToLower(rec.Name)
		if name, ok := matched[key]; ok {
			r.ExistingComponents = append(r.ExistingComponents, ExistingComponent{ComponentRecord: rec, MatchedName: name})
			continue
		}
		if !isNew[key] {
			return nil, fmt.Errorf("component %q missing from match result", rec.Name)
		}
		r.NewComponents = append(r.NewComponents, rec)
	}

	if got, want := len(r.ExistingComponents)+len(r.NewComponents), len(components); got != want {
		return nil, fmt.Errorf("diff partition covers %d of %d components", got, want)
	}
	return r, nil
}
