// Package codegen asks the model to synthesize source for a component the
// registry does not have yet.
package codegen

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/figtools/compdiff/internal/classify"
	"github.com/figtools/compdiff/internal/llm"
)

// Generated is one synthesized component file.
type Generated struct {
	FileName string `json:"fileName"`
	Source   string `json:"source"`
}

// Generator turns a catalogued component record into generated source.
type Generator struct {
	client *llm.Client
}

func NewGenerator(client *llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate produces a React component for the record. The model output is
// fence-stripped and returned verbatim; this service never executes or
// validates the generated code.
func (g *Generator) Generate(ctx context.Context, rec classify.ComponentRecord) (Generated, error) {
	source, err := g.client.Complete(ctx, buildPrompt(rec), 8192)
	if err != nil {
		return Generated{}, fmt.Errorf("generate %s: %w", rec.Name, err)
	}
	if strings.TrimSpace(source) == "" {
		return Generated{}, fmt.Errorf("generate %s: empty source from model", rec.Name)
	}
	return Generated{
		FileName: PascalCase(rec.Name) + ".tsx",
		Source:   source,
	}, nil
}

// PascalCase converts a design-layer name ("primary button", "user-avatar")
// into a component file stem ("PrimaryButton", "UserAvatar").
func PascalCase(name string) string {
	var sb strings.Builder
	upperNext := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if upperNext {
			sb.WriteRune(unicode.ToUpper(r))
			upperNext = false
		} else {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "Component"
	}
	return sb.String()
}
