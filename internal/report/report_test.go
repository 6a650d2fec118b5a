package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/figtools/compdiff/internal/classify"
	"github.com/figtools/compdiff/internal/match"
)

func component(name string, category classify.Category) classify.ComponentRecord {
	return classify.ComponentRecord{
		Name:     name,
		ID:       "1:" + name,
		Path:     []string{"Document", name},
		Type:     "COMPONENT",
		Category: category,
	}
}

func sampleSource() SourceMeta {
	return SourceMeta{
		FileKey:      "abc123",
		Name:         "Design System",
		Version:      "42",
		LastModified: "2026-08-01T10:00:00Z",
	}
}

func TestBuild_PartitionsCatalogue(t *testing.T) {
	components := []classify.ComponentRecord{
		component("PrimaryButton", classify.CategoryButton),
		component("UserAvatar", classify.CategoryAvatar),
	}
	diff := match.Result{
		Existing:        []match.Match{{Name: "PrimaryButton", MatchedName: "PrimaryButton.tsx"}},
		New:             []string{"UserAvatar"},
		RegistryChecked: true,
	}

	r, err := Build(sampleSource(), components, nil, diff, "src/components")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(r.ExistingComponents) != 1 || r.ExistingComponents[0].Name != "PrimaryButton" {
		t.Errorf("unexpected existing bucket: %v", r.ExistingComponents)
	}
	if r.ExistingComponents[0].MatchedName != "PrimaryButton.tsx" {
		t.Errorf("expected matched registry identity, got %q", r.ExistingComponents[0].MatchedName)
	}
	if len(r.NewComponents) != 1 || r.NewComponents[0].Name != "UserAvatar" {
		t.Errorf("unexpected new bucket: %v", r.NewComponents)
	}
	if !r.RegistryChecked {
		t.Error("expected RegistryChecked=true")
	}
}

func TestBuild_RegistryAbsentScenario(t *testing.T) {
	var components []classify.ComponentRecord
	var names []string
	for _, n := range []string{"A", "B", "C", "D", "E"} {
		components = append(components, component(n, classify.CategoryOther))
		names = append(names, n)
	}
	diff := match.Result{New: names, RegistryChecked: false}

	r, err := Build(sampleSource(), components, nil, diff, "")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(r.ExistingComponents) != 0 {
		t.Errorf("expected empty existing bucket, got %v", r.ExistingComponents)
	}
	if len(r.NewComponents) != 5 {
		t.Errorf("expected all 5 components new, got %d", len(r.NewComponents))
	}
	if r.RegistryChecked {
		t.Error("expected the no-registry-check flag")
	}
}

func TestBuild_RejectsIncompletePartition(t *testing.T) {
	components := []classify.ComponentRecord{component("Orphan", classify.CategoryOther)}
	diff := match.Result{RegistryChecked: true}

	if _, err := Build(sampleSource(), components, nil, diff, ""); err == nil {
		t.Fatal("expected error for component missing from match result")
	}
}

func TestBuild_EmptyBucketsSerializeAsArrays(t *testing.T) {
	r, err := Build(sampleSource(), nil, nil, match.Result{RegistryChecked: true}, "")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %s", err)
	}
	s := string(b)
	for _, field := range []string{`"existingComponents":[]`, `"newComponents":[]`, `"screens":[]`, `"warnings":[]`} {
		if !strings.Contains(s, field) {
			t.Errorf("expected %s in JSON, got %s", field, s)
		}
	}
}

func TestMarkdown_Sections(t *testing.T) {
	components := []classify.ComponentRecord{component("UserAvatar", classify.CategoryAvatar)}
	screens := []classify.ScreenRecord{{Name: "HomeScreen", ID: "1:1", Type: "SCREEN", Width: 800, Height: 1200}}
	diff := match.Result{New: []string{"UserAvatar"}, RegistryChecked: false, Warnings: []string{"registry unreachable: timeout"}}

	r, err := Build(sampleSource(), components, screens, diff, "src/components")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	md := r.Markdown()
	for _, want := range []string{
		"# Component diff: Design System",
		"No registry check occurred",
		"## New components (1)",
		"UserAvatar",
		"## Screens (1)",
		"HomeScreen",
		"## Warnings",
		"registry unreachable: timeout",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q\n%s", want, md)
		}
	}
}

func TestHTML_RendersTable(t *testing.T) {
	components := []classify.ComponentRecord{component("PrimaryButton", classify.CategoryButton)}
	diff := match.Result{
		Existing:        []match.Match{{Name: "PrimaryButton", MatchedName: "PrimaryButton.tsx"}},
		RegistryChecked: true,
	}
	r, err := Build(sampleSource(), components, nil, diff, "src/components")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	html, err := r.HTML()
	if err != nil {
		t.Fatalf("render: %s", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Error("expected a rendered table")
	}
	if !strings.Contains(html, "PrimaryButton") {
		t.Error("expected component name in HTML")
	}
}
