package walker

import (
	"slices"
	"testing"

	"github.com/figtools/compdiff/internal/figma"
)

func sampleTree() *figma.Node {
	return &figma.Node{
		ID: "0:0", Name: "Document", Type: "DOCUMENT",
		Children: []*figma.Node{
			{
				ID: "1:1", Name: "HomeScreen", Type: "FRAME",
				Children: []*figma.Node{
					{ID: "2:1", Name: "Header", Type: "COMPONENT"},
					{
						ID: "2:2", Name: "Body", Type: "FRAME",
						Children: []*figma.Node{
							{ID: "3:1", Name: "PrimaryButton", Type: "COMPONENT"},
						},
					},
				},
			},
			{ID: "1:2", Name: "Footer", Type: "COMPONENT"},
		},
	}
}

func collectIDs(root *figma.Node) []string {
	var ids []string
	for v := range Walk(root) {
		ids = append(ids, v.Node.ID)
	}
	return ids
}

func TestWalk_PreOrderVisitsEveryNodeOnce(t *testing.T) {
	ids := collectIDs(sampleTree())
	want := []string{"0:0", "1:1", "2:1", "2:2", "3:1", "1:2"}
	if !slices.Equal(ids, want) {
		t.Errorf("expected visit order %v, got %v", want, ids)
	}
}

func TestWalk_PathHoldsStrictAncestorsRootFirst(t *testing.T) {
	paths := map[string][]string{}
	for v := range Walk(sampleTree()) {
		paths[v.Node.ID] = v.Path
	}

	if len(paths["0:0"]) != 0 {
		t.Errorf("expected empty path for root, got %v", paths["0:0"])
	}
	want := []string{"Document", "HomeScreen", "Body"}
	if !slices.Equal(paths["3:1"], want) {
		t.Errorf("expected path %v for deep node, got %v", want, paths["3:1"])
	}
	// The node's own name must not be part of its path.
	if slices.Contains(paths["3:1"], "PrimaryButton") {
		t.Error("path must not include the node's own name")
	}
}

func TestWalk_PathsAreIndependentCopies(t *testing.T) {
	var visits []Visit
	for v := range Walk(sampleTree()) {
		visits = append(visits, v)
	}
	// Mutating one retained path must not leak into another.
	for _, v := range visits {
		if len(v.Path) > 0 {
			v.Path[0] = "mutated"
			break
		}
	}
	for _, v := range visits[2:] {
		for _, seg := range v.Path {
			if seg == "mutated" {
				t.Fatal("paths share backing storage across visits")
			}
		}
	}
}

func TestWalk_Restartable(t *testing.T) {
	seq := Walk(sampleTree())
	first := make([]string, 0)
	for v := range seq {
		first = append(first, v.Node.ID)
	}
	second := make([]string, 0)
	for v := range seq {
		second = append(second, v.Node.ID)
	}
	if !slices.Equal(first, second) {
		t.Errorf("expected identical visits on replay, got %v then %v", first, second)
	}
}

func TestWalk_EarlyBreakStops(t *testing.T) {
	n := 0
	for range Walk(sampleTree()) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("expected 2 visits after break, got %d", n)
	}
}

func TestWalk_NilRootYieldsNothing(t *testing.T) {
	for range Walk(nil) {
		t.Fatal("expected no visits for nil root")
	}
}

func TestWalk_MissingChildrenIsLeaf(t *testing.T) {
	root := &figma.Node{ID: "a", Name: "Solo", Type: "FRAME"}
	ids := collectIDs(root)
	if len(ids) != 1 || ids[0] != "a" {
		t.Errorf("expected single visit, got %v", ids)
	}
}

func TestWalk_SkipsNilChildren(t *testing.T) {
	root := &figma.Node{
		ID: "a", Name: "Root", Type: "FRAME",
		Children: []*figma.Node{nil, {ID: "b", Name: "Child", Type: "FRAME"}},
	}
	ids := collectIDs(root)
	want := []string{"a", "b"}
	if !slices.Equal(ids, want) {
		t.Errorf("expected %v, got %v", want, ids)
	}
}

func TestCount(t *testing.T) {
	if got := Count(sampleTree()); got != 6 {
		t.Errorf("expected 6 nodes, got %d", got)
	}
	if got := Count(nil); got != 0 {
		t.Errorf("expected 0 nodes for nil root, got %d", got)
	}
}
