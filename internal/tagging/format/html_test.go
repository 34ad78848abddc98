package format

import (
	"strings"
	"testing"

	"github.com/eberly-center/docuscope-tagger/internal/tagging/engine"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/token"
)

func TestFormatWrapsNonTrivialSpan(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatal(err)
	}

	text := "Hello<script>"
	tokens := []token.Token{
		token.New("hello", "Hello", 0, 5, token.WORD),
		token.New("<script>", "<script>", 5, 8, token.PUNCTUATION),
	}
	spans := []engine.TagSpan{
		{IndexStart: 0, IndexEnd: 0, LAT: "label.GREETING", Kind: engine.KindShort},
		{IndexStart: 1, IndexEnd: 1, LAT: "untagged", Kind: engine.KindUntagged},
	}

	var buf strings.Builder
	if err := f.Format(&buf, tokens, spans, text); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, `<span data-key="label.GREETING">Hello</span>`) {
		t.Fatalf("expected wrapped greeting span, got %q", out)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("expected punctuation to be HTML-escaped, got %q", out)
	}
	if strings.Contains(out, `data-key="untagged"`) {
		t.Fatalf("expected untagged span not to be wrapped by default, got %q", out)
	}
}

func TestFormatPreservesWhitespaceVerbatim(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatal(err)
	}
	text := "a\n\nb"
	tokens := []token.Token{
		token.New("a", "a", 0, 1, token.WORD),
		token.New("\n\n", "\n\n", 1, 2, token.NEWLINE),
		token.New("b", "b", 3, 1, token.WORD),
	}
	spans := []engine.TagSpan{
		{IndexStart: 0, IndexEnd: 0, LAT: "untagged", Kind: engine.KindUntagged},
		{IndexStart: 1, IndexEnd: 1, LAT: "excluded", Kind: engine.KindExcluded},
		{IndexStart: 2, IndexEnd: 2, LAT: "untagged", Kind: engine.KindUntagged},
	}
	var buf strings.Builder
	if err := f.Format(&buf, tokens, spans, text); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "a\n\nb" {
		t.Fatalf("expected verbatim whitespace passthrough, got %q", buf.String())
	}
}
