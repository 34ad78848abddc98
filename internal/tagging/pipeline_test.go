package tagging

import (
	"context"
	"strings"
	"testing"

	"github.com/eberly-center/docuscope-tagger/internal/tagging/engine"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/format"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/rules/memstore"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/tokenize"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/wordclass"
)

func TestPipelineTag(t *testing.T) {
	tz, err := tokenize.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	resolver := wordclass.NewMap(map[string][]string{"hello": {"hello"}})
	store := memstore.New(nil, map[string]string{"hello": "GREETING"})
	formatter, err := format.New()
	if err != nil {
		t.Fatal(err)
	}

	cfg := engine.DefaultConfig()
	cfg.ReturnIncludedTags = true
	cfg.Label = "docuscope"

	p := &Pipeline{
		Tokenizer: tz,
		Resolver:  resolver,
		Store:     store,
		Formatter: formatter,
		Config:    cfg,
	}

	result, err := p.Tag(context.Background(), "Hello.")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(result.Tokens))
	}
	if !strings.Contains(result.HTML, `data-key="docuscope.GREETING"`) {
		t.Fatalf("expected greeting span in HTML, got %q", result.HTML)
	}
	if _, ok := result.Stats["docuscope.GREETING"]; !ok {
		t.Fatalf("expected a GREETING stat, got %+v", result.Stats)
	}
}
