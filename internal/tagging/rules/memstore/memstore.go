// Package memstore implements an in-memory, trie-shaped RuleStore loaded
// from the on-disk dictionary JSON format.
package memstore

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"os"
	"sort"

	tgerrors "github.com/eberly-center/docuscope-tagger/internal/tagging/errors"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/rules"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/wordclass"
)

// dictionary mirrors the on-disk JSON shape:
// {words, rules: {w0: {w1: {lat: [[suffix...], ...]}}}, shortRules}.
type dictionary struct {
	Words      map[string][]string                          `json:"words"`
	Rules      map[string]map[string]map[string][][]string   `json:"rules"`
	ShortRules map[string]string                             `json:"shortRules"`
}

// Store is a read-only, trie-shaped rule dictionary safe for concurrent
// use by many tagging sessions at once.
type Store struct {
	rules      map[string]map[string]map[string][][]string
	shortRules map[string]string
}

// Load reads a dictionary from path, transparently gzip-decompressing when
// the file begins with the gzip magic number. It returns the rule Store
// and the wordclass map together, since both are sourced from the same
// file.
func Load(path string) (*Store, wordclass.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &tgerrors.DictionaryFormatError{Path: path, Message: err.Error()}
	}
	defer f.Close()

	var r io.Reader = f
	br := make([]byte, 2)
	n, _ := f.Read(br)
	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		return nil, nil, &tgerrors.DictionaryFormatError{Path: path, Message: serr.Error()}
	}
	if n == 2 && br[0] == 0x1f && br[1] == 0x8b {
		gz, gerr := gzip.NewReader(f)
		if gerr != nil {
			return nil, nil, &tgerrors.DictionaryFormatError{Path: path, Message: gerr.Error()}
		}
		defer gz.Close()
		r = gz
	}

	var d dictionary
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, nil, &tgerrors.DictionaryFormatError{Path: path, Message: "invalid JSON: " + err.Error()}
	}

	if err := validate(path, d); err != nil {
		return nil, nil, err
	}
	if d.Rules == nil {
		d.Rules = map[string]map[string]map[string][][]string{}
	}
	if d.ShortRules == nil {
		d.ShortRules = map[string]string{}
	}
	if d.Words == nil {
		d.Words = map[string][]string{}
	}

	store := &Store{
		rules:      d.Rules,
		shortRules: d.ShortRules,
	}
	return store, wordclass.NewMap(d.Words), nil
}

// LoadWordclass reads only the wordclass table out of a dictionary file,
// for callers using the postgres RuleStore backend: the graph schema
// holds rule paths but not surface-to-ds-word mappings, so those still
// come from the on-disk dictionary.
func LoadWordclass(path string) (wordclass.Map, error) {
	_, words, err := Load(path)
	if err != nil {
		return nil, err
	}
	return words, nil
}

// validate rejects dictionaries containing a rule path shorter than two
// ds-words. Every rules[w0][w1] entry already fixes the first two path
// elements, so this only rejects an explicitly empty w0/w1 key, which would
// otherwise produce a length-1 path.
func validate(path string, d dictionary) error {
	if _, bad := d.Rules[""]; bad {
		return &tgerrors.DictionaryFormatError{Path: path, Message: "rule path of length < 2: empty w0 key"}
	}
	for w0, byW1 := range d.Rules {
		if _, bad := byW1[""]; bad {
			return &tgerrors.DictionaryFormatError{Path: path, Message: "rule path of length < 2: empty w1 key for w0=" + w0}
		}
	}
	return nil
}

// New constructs a Store directly from parsed tables, for tests and for
// callers that build dictionaries programmatically rather than loading
// them from disk.
func New(ruleTable map[string]map[string]map[string][][]string, shortRules map[string]string) *Store {
	return &Store{rules: ruleTable, shortRules: shortRules}
}

// LookupLong reconstructs full candidate paths by prepending [w0, w1] to
// every stored suffix whose first two elements match wordSets[0] and
// wordSets[1].
func (s *Store) LookupLong(_ context.Context, wordSets [][]string) ([]rules.LongRule, error) {
	if len(wordSets) < 2 || len(wordSets[0]) == 0 || len(wordSets[1]) == 0 {
		return nil, nil
	}

	var out []rules.LongRule
	for _, w0 := range wordSets[0] {
		byW1, ok := s.rules[w0]
		if !ok {
			continue
		}
		for _, w1 := range wordSets[1] {
			byLAT, ok := byW1[w1]
			if !ok {
				continue
			}
			for lat, suffixes := range byLAT {
				for _, suffix := range suffixes {
					path := make([]string, 0, 2+len(suffix))
					path = append(path, w0, w1)
					path = append(path, suffix...)
					out = append(out, rules.LongRule{LAT: lat, Path: path})
				}
			}
		}
	}

	// Deterministic store order: sort by descending path length, then by
	// LAT name, matching the engine's own tie-breaking expectations.
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Path) != len(out[j].Path) {
			return len(out[i].Path) > len(out[j].Path)
		}
		return out[i].LAT < out[j].LAT
	})
	return out, nil
}

// LongRuleCount returns the number of distinct first-word (w0) entries in
// the long-rule trie, for diagnostic reporting.
func (s *Store) LongRuleCount() int {
	return len(s.rules)
}

// ShortRuleCount returns the number of entries in the short-rule table.
func (s *Store) ShortRuleCount() int {
	return len(s.shortRules)
}

// LookupShort returns the first ds-word in dsWords present in the
// short-rule table.
func (s *Store) LookupShort(_ context.Context, dsWords []string) (rules.ShortMatch, bool, error) {
	for _, w := range dsWords {
		if lat, ok := s.shortRules[w]; ok {
			return rules.ShortMatch{LAT: lat, DSWord: w}, true, nil
		}
	}
	return rules.ShortMatch{}, false, nil
}

