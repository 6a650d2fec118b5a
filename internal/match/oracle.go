package match

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/figtools/compdiff/internal/llm"
)

const oraclePrompt = `You are comparing UI component names from a design file against a component registry. Decide, for each component name, whether the registry already contains it.

Rules:
- Treat naming variations as the same component: case differences, delimiters (camelCase, kebab-case, snake_case, spaces), and word order do not matter.
- Accept partial matches: a component name appearing inside a longer qualified registry identifier counts as existing.
- When uncertain, classify the component as new.

Respond with ONLY a JSON object of this exact shape, no other text:
{"existing": [{"originalName": "...", "matchedName": "..."}], "new": ["..."]}

Every input component name must appear in exactly one of the two lists. "matchedName" is the registry identifier the component matched.`

// oracleResponse mirrors the JSON contract with the model.
type oracleResponse struct {
	Existing []struct {
		OriginalName string `json:"originalName"`
		MatchedName  string `json:"matchedName"`
	} `json:"existing"`
	New []string `json:"new"`
}

// LLMOracle implements Oracle on top of the shared model client. A single
// blocking call covers the whole residue list.
type LLMOracle struct {
	client *llm.Client
}

func NewLLMOracle(client *llm.Client) *LLMOracle {
	return &LLMOracle{client: client}
}

// maxRegistryExcerpt bounds how much registry text goes into the prompt.
const maxRegistryExcerpt = 30000

func (o *LLMOracle) MatchNames(ctx context.Context, registryText string, names []string) (Partition, error) {
	prompt := buildOraclePrompt(registryText, names)

	var text string
	var err error
	for attempt := range llm.MaxRetries {
		text, err = o.client.Complete(ctx, prompt, 4096)
		if err == nil || !llm.IsRetryable(err) || attempt == llm.MaxRetries-1 {
			break
		}
		select {
		case <-time.After(llm.Backoff(attempt)):
		case <-ctx.Done():
			return Partition{}, ctx.Err()
		}
	}
	if err != nil {
		return Partition{}, err
	}

	var resp oracleResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return Partition{}, fmt.Errorf("parse oracle response: %w", err)
	}

	p := Partition{New: resp.New}
	for _, e := range resp.Existing {
		p.Existing = append(p.Existing, Match{Name: e.OriginalName, MatchedName: e.MatchedName})
	}
	return p, nil
}

func buildOraclePrompt(registryText string, names []string) string {
	if len(registryText) > maxRegistryExcerpt {
		registryText = registryText[:maxRegistryExcerpt]
	}

	var sb strings.Builder
	sb.WriteString(oraclePrompt)
	sb.WriteString("\n\n--- REGISTRY ---\n")
	sb.WriteString(registryText)
	sb.WriteString("\n--- COMPONENT NAMES ---\n")
	for _, name := range names {
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	return sb.String()
}
