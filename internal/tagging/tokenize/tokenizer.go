// Package tokenize scans UTF-8 text into a typed, byte-offset-preserving
// token stream.
package tokenize

import (
	"regexp"
	"strings"

	tgerrors "github.com/eberly-center/docuscope-tagger/internal/tagging/errors"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/token"
)

// Default set of excluded token types, matching the tagging engine's
// default configuration.
var DefaultExcluded = map[token.Type]bool{
	token.WHITESPACE: true,
	token.NEWLINE:    true,
}

var (
	newlineRun     = regexp.MustCompile(`^\n(?:[ \t\r\f\v]*\n)*`)
	whitespaceRun  = regexp.MustCompile(`^[ \t\r\f\v]+`)
	wordRun        = regexp.MustCompile(`^[\p{L}\p{N}](?:[\p{L}\p{N}]|['-][\p{L}\p{N}])*`)
	punctuationRun = regexp.MustCompile(`^[^\p{L}\p{N}\s]+`)
)

// Tokenizer scans text into Tokens using a single left-to-right pass with
// priority-ordered classifiers: newline run, whitespace run, word run,
// punctuation run.
type Tokenizer struct {
	excluded map[token.Type]bool
}

// New constructs a Tokenizer with the given excluded token types. A nil or
// empty set uses DefaultExcluded. Excluding all four token types is a
// configuration error.
func New(excluded map[token.Type]bool) (*Tokenizer, error) {
	if len(excluded) == 0 {
		excluded = DefaultExcluded
	}
	if excluded[token.WORD] && excluded[token.PUNCTUATION] && excluded[token.WHITESPACE] && excluded[token.NEWLINE] {
		return &Tokenizer{}, &tgerrors.ConfigurationError{
			Message: "cannot exclude all four token types",
		}
	}
	cp := make(map[token.Type]bool, len(excluded))
	for k, v := range excluded {
		cp[k] = v
	}
	return &Tokenizer{excluded: cp}, nil
}

// Excluded reports whether typ is in this tokenizer's excluded set.
func (t *Tokenizer) Excluded(typ token.Type) bool {
	return t.excluded[typ]
}

// Tokenize scans s into a finite, ordered slice of Tokens preserving byte
// offsets. Empty input yields zero tokens. Concatenating every returned
// token's original substring reproduces s exactly.
func (t *Tokenizer) Tokenize(s string) []token.Token {
	var tokens []token.Token
	pos := 0
	for pos < len(s) {
		rest := s[pos:]

		if m := newlineRun.FindString(rest); m != "" {
			tokens = append(tokens, token.New(m, m, pos, len(m), token.NEWLINE))
			pos += len(m)
			continue
		}
		if m := whitespaceRun.FindString(rest); m != "" {
			tokens = append(tokens, token.New(m, m, pos, len(m), token.WHITESPACE))
			pos += len(m)
			continue
		}
		if m := wordRun.FindString(rest); m != "" {
			norm := strings.ToLower(m)
			tokens = append(tokens, token.New(norm, m, pos, len(m), token.WORD))
			pos += len(m)
			continue
		}
		if m := punctuationRun.FindString(rest); m != "" {
			tokens = append(tokens, token.New(m, m, pos, len(m), token.PUNCTUATION))
			pos += len(m)
			continue
		}

		// No classifier matched (a stray combining rune, etc): consume one
		// rune as punctuation so the scan always makes progress.
		r := []rune(rest)[0]
		m := string(r)
		tokens = append(tokens, token.New(m, m, pos, len(m), token.PUNCTUATION))
		pos += len(m)
	}
	return tokens
}

