package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders a human-readable summary of the report.
func (r *Report) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Component diff: %s\n\n", r.Source.Name)
	fmt.Fprintf(&sb, "Version %s, last modified %s\n\n", r.Source.Version, r.Source.LastModified)

	if !r.RegistryChecked {
		sb.WriteString("**No registry check occurred**: all components are reported as new.\n\n")
	} else if r.RegistryPath != "" {
		fmt.Fprintf(&sb, "Registry: `%s`\n\n", r.RegistryPath)
	}

	fmt.Fprintf(&sb, "## Existing components (%d)\n\n", len(r.ExistingComponents))
	if len(r.ExistingComponents) == 0 {
		sb.WriteString("None.\n\n")
	} else {
		sb.WriteString("| Component | Category | Size | Registry match |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, c := range r.ExistingComponents {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", c.Name, c.Category, sizeCell(c.Width, c.Height), c.MatchedName)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "## New components (%d)\n\n", len(r.NewComponents))
	if len(r.NewComponents) == 0 {
		sb.WriteString("None.\n\n")
	} else {
		sb.WriteString("| Component | Category | Size | Path |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, c := range r.NewComponents {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", c.Name, c.Category, sizeCell(c.Width, c.Height), strings.Join(c.Path, " / "))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "## Screens (%d)\n\n", len(r.Screens))
	for _, s := range r.Screens {
		fmt.Fprintf(&sb, "- %s (%s)\n", s.Name, sizeCell(s.Width, s.Height))
	}
	if len(r.Screens) > 0 {
		sb.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}

	return sb.String()
}

// HTML renders the markdown summary as HTML.
func (r *Report) HTML() (string, error) {
	var buf bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := md.Convert([]byte(r.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return buf.String(), nil
}

func sizeCell(w, h float64) string {
	if w == 0 && h == 0 {
		return "-"
	}
	return fmt.Sprintf("%g×%g", w, h)
}
