package analyze

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/figtools/compdiff/internal/classify"
	"github.com/figtools/compdiff/internal/figma"
	"github.com/figtools/compdiff/internal/match"
	"github.com/figtools/compdiff/internal/report"
)

func homeScreenFile() *figma.File {
	return &figma.File{
		Name:         "App Designs",
		Version:      "7",
		LastModified: "2026-08-01T09:30:00Z",
		Document: &figma.Node{
			ID:   "1:1",
			Name: "HomeScreen",
			Type: figma.TypeFrame,
			AbsoluteBoundingBox: &figma.BoundingBox{Width: 800, Height: 1200},
			Children: []*figma.Node{
				{
					ID:   "2:1",
					Name: "PrimaryButton",
					Type: figma.TypeComponent,
					AbsoluteBoundingBox: &figma.BoundingBox{Width: 120, Height: 40},
				},
				{
					ID:   "2:2",
					Name: "UserAvatar",
					Type: figma.TypeComponent,
					AbsoluteBoundingBox: &figma.BoundingBox{Width: 48, Height: 48},
				},
			},
		},
	}
}

func sourceMeta() report.SourceMeta {
	return report.SourceMeta{FileKey: "key", Name: "App Designs", Version: "7", LastModified: "2026-08-01T09:30:00Z"}
}

func TestRun_EndToEnd(t *testing.T) {
	reg := RegistryContent{
		Text:  "export { PrimaryButton } from './primarybutton';",
		Path:  "src/components/index.ts",
		Found: true,
	}

	rep, stats, err := Run(context.Background(), homeScreenFile(), sourceMeta(), reg, match.NewMatcher(nil), classify.DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if stats.NodesVisited != 3 {
		t.Errorf("expected 3 nodes visited, got %d", stats.NodesVisited)
	}
	if len(rep.Screens) != 1 || rep.Screens[0].Name != "HomeScreen" {
		t.Fatalf("expected one HomeScreen record, got %v", rep.Screens)
	}
	if len(rep.ExistingComponents) != 1 || rep.ExistingComponents[0].Name != "PrimaryButton" {
		t.Fatalf("expected PrimaryButton existing, got %v", rep.ExistingComponents)
	}
	if rep.ExistingComponents[0].Category != classify.CategoryButton {
		t.Errorf("expected BUTTON, got %s", rep.ExistingComponents[0].Category)
	}
	if len(rep.NewComponents) != 1 || rep.NewComponents[0].Name != "UserAvatar" {
		t.Fatalf("expected UserAvatar new, got %v", rep.NewComponents)
	}
	if rep.NewComponents[0].Category != classify.CategoryAvatar {
		t.Errorf("expected AVATAR, got %s", rep.NewComponents[0].Category)
	}
	if !rep.RegistryChecked {
		t.Error("expected RegistryChecked=true")
	}
}

func TestRun_RegistryAbsent(t *testing.T) {
	rep, _, err := Run(context.Background(), homeScreenFile(), sourceMeta(), RegistryContent{}, match.NewMatcher(nil), classify.DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if rep.RegistryChecked {
		t.Error("expected the no-registry-check flag")
	}
	if len(rep.ExistingComponents) != 0 || len(rep.NewComponents) != 2 {
		t.Errorf("expected everything new, got existing=%d new=%d", len(rep.ExistingComponents), len(rep.NewComponents))
	}
}

func TestRun_RegistryWarningSurfacesOnReport(t *testing.T) {
	reg := RegistryContent{Path: "src/components", Warning: "registry unreachable: status 503"}
	rep, _, err := Run(context.Background(), homeScreenFile(), sourceMeta(), reg, match.NewMatcher(nil), classify.DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(rep.Warnings) != 1 || rep.Warnings[0] != "registry unreachable: status 503" {
		t.Errorf("expected the fetch warning on the report, got %v", rep.Warnings)
	}
}

func TestRun_Idempotent(t *testing.T) {
	reg := RegistryContent{Text: "primarybutton", Path: "docs/registry.txt", Found: true}

	run := func() []byte {
		rep, _, err := Run(context.Background(), homeScreenFile(), sourceMeta(), reg, match.NewMatcher(nil), classify.DefaultThresholds())
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		b, err := json.Marshal(rep)
		if err != nil {
			t.Fatalf("marshal: %s", err)
		}
		return b
	}

	first := run()
	second := run()
	if string(first) != string(second) {
		t.Error("expected byte-identical reports for identical input")
	}
}
