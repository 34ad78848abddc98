package wordclass

import (
	"testing"

	"github.com/eberly-center/docuscope-tagger/internal/tagging/token"
)

func TestResolveKnownAndUnknown(t *testing.T) {
	m := NewMap(map[string][]string{
		"we":  {"!WE", "!ROYALWE"},
		"the": {"the"},
	})

	tk := token.New("we", "We", 0, 2, token.WORD)
	words := m.Resolve(tk)
	if len(words) != 2 || words[0] != "!WE" {
		t.Fatalf("unexpected resolve result: %+v", words)
	}

	unknown := token.New("frobnicate", "Frobnicate", 0, 10, token.WORD)
	if got := m.Resolve(unknown); len(got) != 0 {
		t.Fatalf("expected empty result for unknown token, got %+v", got)
	}
}
