package figma

import "encoding/json"

// Node types we make classification decisions on. The Figma API emits many
// more (VECTOR, GROUP, TEXT, ...); anything else is carried opaquely.
const (
	TypeComponent = "COMPONENT"
	TypeInstance  = "INSTANCE"
	TypeFrame     = "FRAME"
)

// Node is a single node in a Figma document graph.
type Node struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Children    []*Node `json:"children,omitempty"`

	AbsoluteBoundingBox *BoundingBox `json:"absoluteBoundingBox,omitempty"`

	// Style payload, passed through to component records unmodified.
	BackgroundColor *Color          `json:"backgroundColor,omitempty"`
	Opacity         *float64        `json:"opacity,omitempty"`
	Effects         json.RawMessage `json:"effects,omitempty"`
}

// BoundingBox is a node's absolute placement. Either dimension may be zero;
// the whole box may be absent on non-geometric nodes.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Color is an RGBA color with channels in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// File is the document-level response: the node tree plus the source
// metadata that travels through to the final report.
type File struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	LastModified string `json:"lastModified"`
	Document     *Node  `json:"document"`
}
