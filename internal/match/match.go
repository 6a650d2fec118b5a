// Package match partitions an atomic-component catalogue into components
// already present in a registry and components that are new. A
// case-insensitive substring scan is the authoritative first pass; an
// optional fuzzy-matching oracle handles only the names the scan leaves
// unmatched.
package match

import (
	"context"
	"fmt"
	"strings"
)

// Match pairs a component name with the registry identifier it matched.
type Match struct {
	Name        string `json:"name"`
	MatchedName string `json:"matchedName"`
}

// Partition is the oracle's answer: every input name in exactly one bucket.
type Partition struct {
	Existing []Match  `json:"existing"`
	New      []string `json:"new"`
}

// Oracle resolves naming-convention drift (camelCase vs kebab-case vs
// spaced words) between component names and registry identifiers. Its
// output is untrusted and validated by the caller.
type Oracle interface {
	MatchNames(ctx context.Context, registryText string, names []string) (Partition, error)
}

// Result is the full diff outcome for a catalogue.
type Result struct {
	Existing []Match
	New      []string
	// RegistryChecked is false when no registry content was available and
	// everything was classified new by default.
	RegistryChecked bool
	Warnings        []string
}

// Matcher runs the substring pass and delegates the residue to the oracle.
type Matcher struct {
	oracle Oracle
}

// NewMatcher creates a Matcher. A nil oracle disables fuzzy matching; the
// substring pass alone decides.
func NewMatcher(oracle Oracle) *Matcher {
	return &Matcher{oracle: oracle}
}

// Match classifies every name in catalogue order. The returned buckets are
// disjoint and cover the input exactly: len(Existing) + len(New) equals
// len(names) for any oracle behavior, including degenerate output.
func (m *Matcher) Match(ctx context.Context, names []string, registryText string, registryFound bool) Result {
	if !registryFound {
		return Result{
			New:             append([]string{}, names...),
			RegistryChecked: false,
		}
	}

	result := Result{RegistryChecked: true}
	lowerRegistry := strings.ToLower(registryText)

	// Pass 1: exact substring containment, one decision per distinct
	// lowercased name so duplicates in the catalogue resolve identically.
	decisions := make(map[string]*Match)
	var residue []string
	seen := make(map[string]bool)
	for _, name := range names {
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		if key != "" && strings.Contains(lowerRegistry, key) {
			decisions[key] = &Match{Name: name, MatchedName: registryToken(registryText, key)}
		} else {
			residue = append(residue, name)
		}
	}

	// Pass 2: fuzzy oracle over the unmatched residue only.
	if m.oracle != nil && len(residue) > 0 {
		partition, err := m.oracle.MatchNames(ctx, registryText, residue)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("fuzzy match skipped: %s", err))
		} else {
			matched, warnings := validatePartition(residue, partition)
			result.Warnings = append(result.Warnings, warnings...)
			for key, match := range matched {
				decisions[key] = match
			}
		}
	}

	// Rebuild in catalogue order so identical input yields identical output.
	for _, name := range names {
		if match := decisions[strings.ToLower(name)]; match != nil {
			result.Existing = append(result.Existing, Match{Name: name, MatchedName: match.MatchedName})
		} else {
			result.New = append(result.New, name)
		}
	}
	return result
}

// validatePartition checks the oracle's data contract: every input name in
// exactly one bucket. Names missing from both or present in both fall back
// to new, which errs toward over-generation rather than dropping a
// component. Returns matches keyed by lowercased input name.
func validatePartition(names []string, p Partition) (map[string]*Match, []string) {
	inputs := make(map[string]bool, len(names))
	for _, name := range names {
		inputs[strings.ToLower(name)] = true
	}

	existing := make(map[string]*Match)
	inNew := make(map[string]bool)
	var warnings []string

	for _, m := range p.Existing {
		key := strings.ToLower(m.Name)
		if !inputs[key] {
			warnings = append(warnings, fmt.Sprintf("oracle returned unknown name %q", m.Name))
			continue
		}
		if existing[key] != nil {
			warnings = append(warnings, fmt.Sprintf("oracle listed %q twice in existing", m.Name))
			continue
		}
		existing[key] = &Match{Name: m.Name, MatchedName: m.MatchedName}
	}
	for _, name := range p.New {
		key := strings.ToLower(name)
		if !inputs[key] {
			warnings = append(warnings, fmt.Sprintf("oracle returned unknown name %q", name))
			continue
		}
		inNew[key] = true
	}

	for _, name := range names {
		key := strings.ToLower(name)
		switch {
		case existing[key] != nil && inNew[key]:
			warnings = append(warnings, fmt.Sprintf("oracle placed %q in both buckets; treating as new", name))
			delete(existing, key)
		case existing[key] == nil && !inNew[key]:
			warnings = append(warnings, fmt.Sprintf("oracle omitted %q; treating as new", name))
		}
	}
	return existing, warnings
}

// registryToken expands a substring hit to the surrounding non-whitespace
// token of the registry text, to report the identifier that matched rather
// than the bare search string. The hit is located on an ASCII-lowered copy
// so byte offsets stay aligned with the original text; full Unicode
// lowering can change byte lengths. A name that only matches under Unicode
// folding is reported as the search key itself.
func registryToken(registry, key string) string {
	idx := strings.Index(asciiLower(registry), key)
	if idx < 0 {
		return key
	}
	start := idx
	for start > 0 && !isTokenBreak(registry[start-1]) {
		start--
	}
	end := min(idx+len(key), len(registry))
	for end < len(registry) && !isTokenBreak(registry[end]) {
		end++
	}
	return registry[start:end]
}

// asciiLower lowercases ASCII letters only, preserving byte length.
func asciiLower(s string) string {
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if 'A' <= b[i] && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

func isTokenBreak(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
