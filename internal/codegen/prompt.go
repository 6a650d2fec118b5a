package codegen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/figtools/compdiff/internal/classify"
)

const generationPrompt = `Write a React functional component in TypeScript for the UI element described below.

Rules:
- Export the component as the default export.
- Type all props explicitly; derive sensible props from the description and category (e.g. a BUTTON takes label and onClick).
- Style with a plain CSS-in-JS style object using the provided dimensions and background color where present.
- Keep the component self-contained: no imports beyond "react".
- Respond with ONLY the component source, no commentary.`

// buildPrompt renders the component record as context for generation.
func buildPrompt(rec classify.ComponentRecord) string {
	var sb strings.Builder
	sb.WriteString(generationPrompt)
	sb.WriteString("\n\n--- COMPONENT ---\n")
	fmt.Fprintf(&sb, "Name: %s\n", rec.Name)
	fmt.Fprintf(&sb, "Category: %s\n", rec.Category)
	if rec.Width > 0 || rec.Height > 0 {
		fmt.Fprintf(&sb, "Size: %g x %g\n", rec.Width, rec.Height)
	}
	if rec.ChildCount > 0 {
		fmt.Fprintf(&sb, "Child layers: %d\n", rec.ChildCount)
	}
	if rec.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", rec.Description)
	}
	if styles, err := json.Marshal(rec.Styles); err == nil && string(styles) != "{}" {
		fmt.Fprintf(&sb, "Styles: %s\n", styles)
	}
	return sb.String()
}
