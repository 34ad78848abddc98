package cache_test

import (
	"context"
	"testing"

	"github.com/eberly-center/docuscope-tagger/internal/tagging/cache"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/rules"
)

// countingStore records how many times each method was invoked, so tests
// can assert shared-cache hits avoid the backend entirely, matching
// internal/tagging/lrucache's own counting-fake test pattern.
type countingStore struct {
	longCalls  int
	shortCalls int
}

func (c *countingStore) LookupLong(ctx context.Context, wordSets [][]string) ([]rules.LongRule, error) {
	c.longCalls++
	return []rules.LongRule{{LAT: "WE_THE_PEOPLE", Path: []string{"!we", "the", "people"}}}, nil
}

func (c *countingStore) LookupShort(ctx context.Context, dsWords []string) (rules.ShortMatch, bool, error) {
	c.shortCalls++
	return rules.ShortMatch{LAT: "PRONOUN", DSWord: dsWords[0]}, true, nil
}

func TestStoreLookupLongCaches(t *testing.T) {
	backend := &countingStore{}
	store := cache.NewStore(backend, cache.NewMemoryCache(), 0)

	ctx := context.Background()
	sets := [][]string{{"!we"}, {"the"}}

	if _, err := store.LookupLong(ctx, sets); err != nil {
		t.Fatal(err)
	}
	if _, err := store.LookupLong(ctx, sets); err != nil {
		t.Fatal(err)
	}
	if backend.longCalls != 1 {
		t.Fatalf("expected backend called once, got %d", backend.longCalls)
	}
}

func TestStoreLookupShortCaches(t *testing.T) {
	backend := &countingStore{}
	store := cache.NewStore(backend, cache.NewMemoryCache(), 0)

	ctx := context.Background()
	if _, _, err := store.LookupShort(ctx, []string{"we"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.LookupShort(ctx, []string{"we"}); err != nil {
		t.Fatal(err)
	}
	if backend.shortCalls != 1 {
		t.Fatalf("expected backend called once, got %d", backend.shortCalls)
	}
}
