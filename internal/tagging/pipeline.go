// Package tagging wires the tokenizer, wordclass resolver, rule engine,
// and HTML formatter into a single entry point for tagging one document.
package tagging

import (
	"context"
	"strings"

	"github.com/eberly-center/docuscope-tagger/internal/tagging/engine"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/format"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/rules"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/token"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/tokenize"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/wordclass"
)

// Pipeline bundles one document's collaborators: a tokenizer, a wordclass
// resolver, a rule store, and an HTML formatter. The resolver and store
// are read-only and may be shared across many Pipeline.Tag calls; nothing
// else is shared.
type Pipeline struct {
	Tokenizer *tokenize.Tokenizer
	Resolver  wordclass.Resolver
	Store     rules.Store
	Formatter *format.Formatter
	Config    engine.Config
}

// Result is everything a caller needs after tagging one document.
type Result struct {
	Tokens []token.Token
	Spans  []engine.TagSpan
	Stats  map[string]engine.RuleStat
	HTML   string
}

// Tag scans text, runs the longest-match engine over it, and renders the
// tagged result to HTML.
func (p *Pipeline) Tag(ctx context.Context, text string) (Result, error) {
	tokens := p.Tokenizer.Tokenize(text)
	spans, stats, err := engine.Tag(ctx, p.Config, tokens, p.Resolver, p.Store)
	if err != nil {
		return Result{}, err
	}

	var buf strings.Builder
	if err := p.Formatter.Format(&buf, tokens, spans, text); err != nil {
		return Result{}, err
	}

	return Result{
		Tokens: tokens,
		Spans:  spans,
		Stats:  stats,
		HTML:   buf.String(),
	}, nil
}
