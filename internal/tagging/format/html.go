// Package format renders a tagged document to HTML using a pongo2
// template, in place of the Python original's Jinja2-based
// SimpleHTMLFormatter.
package format

import (
	"html"
	"io"
	"strings"

	"github.com/Flyclops/pongo2"

	"github.com/eberly-center/docuscope-tagger/internal/tagging/engine"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/token"
)

// spanTemplate renders one span's HTML. Non-trivial spans (an accepted
// long- or short-rule match) are wrapped in a data-key span; trivial spans
// (untagged/no_rules/excluded) are wrapped only when WrapTrivial is set.
// Token surfaces are escaped by the caller before reaching this template,
// so the body is marked |safe here — the same division of labour Jinja2's
// select_autoescape/|safe split expresses in the original.
const spanTemplateSource = `{% if wrap %}<span data-key="{{ lat }}">{{ body|safe }}</span>{% else %}{{ body|safe }}{% endif %}`

// Formatter renders (tokens, spans, text) into a single HTML string. It is
// streaming-safe: it reads spans and tokens once, in order, and writes
// output proportional to input size with no lookback beyond the span
// currently being rendered.
type Formatter struct {
	tpl         *pongo2.Template
	WrapTrivial bool
}

// New compiles the formatter's span template once for reuse across
// documents.
func New() (*Formatter, error) {
	tpl, err := pongo2.FromString(spanTemplateSource)
	if err != nil {
		return nil, err
	}
	return &Formatter{tpl: tpl}, nil
}

// Format writes the HTML rendering of tokens tagged by spans to w. text is
// the original source the tokens were scanned from, used to recover the
// exact byte ranges each token and span cover.
func (f *Formatter) Format(w io.Writer, tokens []token.Token, spans []engine.TagSpan, text string) error {
	for _, span := range spans {
		body := f.renderBody(tokens, span, text)
		wrap := isNonTrivial(span.Kind) || f.WrapTrivial

		out, err := f.tpl.Execute(&pongo2.Context{
			"wrap": wrap,
			"lat":  span.LAT,
			"body": body,
		})
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}
	return nil
}

// renderBody joins the original substrings of every token a span covers,
// HTML-escaping WORD and PUNCTUATION surfaces and passing WHITESPACE and
// NEWLINE surfaces through verbatim.
func (f *Formatter) renderBody(tokens []token.Token, span engine.TagSpan, text string) string {
	var b strings.Builder
	for i := span.IndexStart; i <= span.IndexEnd; i++ {
		tok := tokens[i]
		surface := text[tok.Position : tok.Position+tok.Length]
		switch tok.Type {
		case token.WHITESPACE, token.NEWLINE:
			b.WriteString(surface)
		default:
			b.WriteString(html.EscapeString(surface))
		}
	}
	return b.String()
}

func isNonTrivial(k engine.Kind) bool {
	return k == engine.KindLong || k == engine.KindShort
}
