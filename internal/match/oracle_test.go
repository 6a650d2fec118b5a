package match

import (
	"strings"
	"testing"
)

func TestBuildOraclePrompt_ContainsRegistryAndNames(t *testing.T) {
	prompt := buildOraclePrompt("src/components/Button.tsx", []string{"user-avatar", "nav bar"})

	if !strings.Contains(prompt, "src/components/Button.tsx") {
		t.Error("expected registry text in prompt")
	}
	if !strings.Contains(prompt, "- user-avatar\n") || !strings.Contains(prompt, "- nav bar\n") {
		t.Error("expected each component name on its own line")
	}
	if !strings.Contains(prompt, `"existing"`) || !strings.Contains(prompt, `"new"`) {
		t.Error("expected response-shape instructions in prompt")
	}
}

func TestBuildOraclePrompt_BoundsRegistryExcerpt(t *testing.T) {
	huge := strings.Repeat("x", maxRegistryExcerpt+1000)
	prompt := buildOraclePrompt(huge, []string{"a"})
	if len(prompt) > maxRegistryExcerpt+2000 {
		t.Errorf("expected registry excerpt to be truncated, prompt is %d bytes", len(prompt))
	}
}
