// Package classify decides, for every visited node, whether it is an
// atomic component, a screen, or neither, and assigns atomic components a
// structural category. All decisions are pure functions over the node and
// the configured size thresholds.
package classify

import (
	"strings"

	"github.com/figtools/compdiff/internal/figma"
	"github.com/figtools/compdiff/internal/walker"
)

// Category is the structural bucket assigned to an atomic component.
type Category string

const (
	CategoryStatusBar Category = "STATUS_BAR"
	CategoryButton    Category = "BUTTON"
	CategoryInput     Category = "INPUT"
	CategoryText      Category = "TEXT"
	CategoryIcon      Category = "ICON"
	CategoryImage     Category = "IMAGE"
	CategoryAvatar    Category = "AVATAR"
	CategoryBadge     Category = "BADGE"
	CategoryCard      Category = "CARD"
	CategoryList      Category = "LIST"
	CategoryTab       Category = "TAB"
	CategoryModal     Category = "MODAL"
	CategoryOther     Category = "OTHER"
)

// Kind is the traversal-level outcome for a node.
type Kind int

const (
	KindNone Kind = iota
	KindComponent
	KindScreen
)

// atomicKeywords marks COMPONENT/INSTANCE nodes as atomic by name.
// Order is part of the contract and must not change.
var atomicKeywords = []string{
	"button", "input", "text", "icon", "image", "avatar", "badge",
	"statusbar", "header", "footer", "card", "list", "tab", "modal",
	"checkbox", "radio", "switch", "slider", "progress", "spinner",
}

// screenKeywords marks FRAME nodes as screens by name.
var screenKeywords = []string{
	"page", "screen", "view", "layout", "container", "section",
	"home", "dashboard", "profile", "settings",
}

// categoryTable maps name substrings to categories. First match wins, so a
// name containing both "text" and "icon" resolves to TEXT. Order is part of
// the contract and must not change.
var categoryTable = []struct {
	keyword  string
	category Category
}{
	{"statusbar", CategoryStatusBar},
	{"button", CategoryButton},
	{"input", CategoryInput},
	{"textfield", CategoryInput},
	{"text", CategoryText},
	{"icon", CategoryIcon},
	{"image", CategoryImage},
	{"avatar", CategoryAvatar},
	{"badge", CategoryBadge},
	{"card", CategoryCard},
	{"list", CategoryList},
	{"tab", CategoryTab},
	{"modal", CategoryModal},
}

// Thresholds are the size cutoffs for the two predicates. Units are
// whatever the document source uses, typically pixels.
type Thresholds struct {
	// AtomicMaxSize: a COMPONENT/INSTANCE with both dimensions strictly
	// below this is atomic regardless of name.
	AtomicMaxSize float64
	// ScreenMinSize: a FRAME with either dimension at or above this is a
	// screen regardless of name.
	ScreenMinSize float64
}

// DefaultThresholds carries the historical 500-unit cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{AtomicMaxSize: 500, ScreenMinSize: 500}
}

// Styles is the opaque style payload carried from node to record.
type Styles struct {
	BackgroundColor *figma.Color `json:"backgroundColor,omitempty"`
	Opacity         *float64     `json:"opacity,omitempty"`
	Effects         any          `json:"effects,omitempty"`
}

// ComponentRecord is one atomic component found in the tree.
type ComponentRecord struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Path        []string `json:"path"`
	Type        string   `json:"type"`
	Category    Category `json:"category"`
	Description string   `json:"description,omitempty"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	ChildCount  int      `json:"childCount"`
	Styles      Styles   `json:"styles"`
}

// ScreenRecord is one screen-level frame found in the tree.
type ScreenRecord struct {
	Name   string  `json:"name"`
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Result is the outcome for a single visit. Exactly one of Component and
// Screen is set when Kind is not KindNone.
type Result struct {
	Kind      Kind
	Component *ComponentRecord
	Screen    *ScreenRecord
}

// Classifier applies the predicates with a fixed set of thresholds.
type Classifier struct {
	thresholds Thresholds
}

func New(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Classify decides the outcome for one visited node. The atomic predicate
// is checked first: a COMPONENT/INSTANCE node is never reclassified as a
// screen even if it also satisfies the screen heuristics.
func (c *Classifier) Classify(v walker.Visit) Result {
	n := v.Node
	if c.isAtomic(n) {
		return Result{Kind: KindComponent, Component: buildComponent(v)}
	}
	if c.isScreen(n) {
		return Result{Kind: KindScreen, Screen: buildScreen(n)}
	}
	return Result{Kind: KindNone}
}

func (c *Classifier) isAtomic(n *figma.Node) bool {
	if n.Type != figma.TypeComponent && n.Type != figma.TypeInstance {
		return false
	}
	name := strings.ToLower(n.Name)
	for _, kw := range atomicKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	// Missing bounding box means the size condition is false, not an error.
	if bb := n.AbsoluteBoundingBox; bb != nil {
		return bb.Width < c.thresholds.AtomicMaxSize && bb.Height < c.thresholds.AtomicMaxSize
	}
	return false
}

func (c *Classifier) isScreen(n *figma.Node) bool {
	if n.Type != figma.TypeFrame {
		return false
	}
	name := strings.ToLower(n.Name)
	for _, kw := range screenKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	if bb := n.AbsoluteBoundingBox; bb != nil {
		return bb.Width >= c.thresholds.ScreenMinSize || bb.Height >= c.thresholds.ScreenMinSize
	}
	return false
}

// CategoryFor resolves a component name against the ordered category table.
func CategoryFor(name string) Category {
	lower := strings.ToLower(name)
	for _, entry := range categoryTable {
		if strings.Contains(lower, entry.keyword) {
			return entry.category
		}
	}
	return CategoryOther
}

func buildComponent(v walker.Visit) *ComponentRecord {
	n := v.Node
	rec := &ComponentRecord{
		Name:        n.Name,
		ID:          n.ID,
		Path:        append(append([]string{}, v.Path...), n.Name),
		Type:        n.Type,
		Category:    CategoryFor(n.Name),
		Description: n.Description,
		ChildCount:  len(n.Children),
		Styles: Styles{
			BackgroundColor: n.BackgroundColor,
			Opacity:         n.Opacity,
			Effects:         rawEffects(n),
		},
	}
	if bb := n.AbsoluteBoundingBox; bb != nil {
		rec.Width = bb.Width
		rec.Height = bb.Height
	}
	return rec
}

func buildScreen(n *figma.Node) *ScreenRecord {
	rec := &ScreenRecord{
		Name: n.Name,
		ID:   n.ID,
		Type: "SCREEN",
	}
	if bb := n.AbsoluteBoundingBox; bb != nil {
		rec.Width = bb.Width
		rec.Height = bb.Height
	}
	return rec
}

func rawEffects(n *figma.Node) any {
	if len(n.Effects) == 0 {
		return nil
	}
	return n.Effects
}
