// Package walker flattens a Figma node graph into a pre-order visit
// sequence. It makes no classification decisions.
package walker

import (
	"iter"
	"slices"

	"github.com/figtools/compdiff/internal/figma"
)

// Visit is a single traversed node together with the names of its strict
// ancestors, root first. The node's own name is not included; consumers
// that build records append it themselves.
type Visit struct {
	Node *figma.Node
	Path []string
}

// Walk returns a lazy pre-order traversal of the tree rooted at root.
// Every node is visited exactly once, parents before children, siblings in
// their original order. A nil or absent child list is an empty one. The
// sequence is restartable: ranging over it again replays the same visits.
func Walk(root *figma.Node) iter.Seq[Visit] {
	return func(yield func(Visit) bool) {
		if root == nil {
			return
		}
		path := make([]string, 0, 8)
		walk(root, path, yield)
	}
}

// walk recurses depth-first. path holds ancestor names and is reused as a
// stack; each yielded Visit gets its own copy since callers may retain it.
func walk(n *figma.Node, path []string, yield func(Visit) bool) bool {
	if !yield(Visit{Node: n, Path: slices.Clone(path)}) {
		return false
	}
	path = append(path, n.Name)
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		if !walk(child, path, yield) {
			return false
		}
	}
	return true
}

// Count walks the tree and returns the number of nodes. Used for progress
// reporting before classification starts.
func Count(root *figma.Node) int {
	n := 0
	for range Walk(root) {
		n++
	}
	return n
}
