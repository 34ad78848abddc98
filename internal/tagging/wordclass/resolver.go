// Package wordclass resolves a token's surface form to its ds-words.
package wordclass

import "github.com/eberly-center/docuscope-tagger/internal/tagging/token"

// Map is a read-only mapping from lowercased surface string to an ordered
// list of ds-word identifiers. It is safe for concurrent use once built:
// nothing in the tagging pipeline mutates it after construction.
type Map map[string][]string

// NewMap builds a Map from a surface-to-ds-words table. When the same
// surface form would be added more than once, the later addition overwrites
// the earlier one — the list belonging to the closest-to-original surface
// wins, per this pipeline's resolved wordclass-overwrite convention.
func NewMap(entries map[string][]string) Map {
	m := make(Map, len(entries))
	for surface, words := range entries {
		m[surface] = words
	}
	return m
}

// Resolve returns the ds-words associated with t's normalised surface
// form. Missing keys yield an empty, non-nil slice; Resolve never fails.
func (m Map) Resolve(t token.Token) []string {
	words, ok := m[t.Normalised()]
	if !ok {
		return []string{}
	}
	return words
}

// Resolver is the narrow capability the rule engine depends on.
type Resolver interface {
	Resolve(t token.Token) []string
}
