// Package analyze composes the classification-and-diff pipeline as a pure
// function: walk, classify, match, report. All I/O (fetching the document,
// fetching registry content, calling the oracle transport) happens before
// or inside collaborators handed in by the caller.
package analyze

import (
	"context"

	"github.com/figtools/compdiff/internal/classify"
	"github.com/figtools/compdiff/internal/figma"
	"github.com/figtools/compdiff/internal/match"
	"github.com/figtools/compdiff/internal/report"
	"github.com/figtools/compdiff/internal/walker"
)

// RegistryContent is the fetched registry state. Found=false means no
// registry check is possible and every component is reported new.
type RegistryContent struct {
	Text  string
	Path  string
	Found bool
	// Warning explains why the registry was unavailable, when it was
	// expected to be there (fetch failure rather than deliberate absence).
	Warning string
}

// Stats counts what the traversal and classification produced.
type Stats struct {
	NodesVisited int
	Components   int
	Screens      int
}

// Run executes the full pipeline over an already-fetched document.
func Run(ctx context.Context, file *figma.File, source report.SourceMeta, reg RegistryContent, matcher *match.Matcher, thresholds classify.Thresholds) (*report.Report, Stats, error) {
	classifier := classify.New(thresholds)

	var stats Stats
	var components []classify.ComponentRecord
	var screens []classify.ScreenRecord

	for visit := range walker.Walk(file.Document) {
		stats.NodesVisited++
		switch result := classifier.Classify(visit); result.Kind {
		case classify.KindComponent:
			components = append(components, *result.Component)
		case classify.KindScreen:
			screens = append(screens, *result.Screen)
		}
	}
	stats.Components = len(components)
	stats.Screens = len(screens)

	names := make([]string, len(components))
	for i, c := range components {
		names[i] = c.Name
	}

	diff := matcher.Match(ctx, names, reg.Text, reg.Found)
	if reg.Warning != "" {
		diff.Warnings = append(diff.Warnings, reg.Warning)
	}

	r, err := report.Build(source, components, screens, diff, reg.Path)
	if err != nil {
		return nil, stats, err
	}
	return r, stats, nil
}
