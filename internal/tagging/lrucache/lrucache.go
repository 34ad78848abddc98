// Package lrucache wraps a rules.Store with a process-wide, strictly
// least-recently-used cache, keyed by a stable digest of each lookup's
// sorted ds-word sets.
package lrucache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/eberly-center/docuscope-tagger/internal/tagging/rules"
)

// longEntry and shortEntry hold a cached lookup result alongside the error
// it produced, so a cached failure is replayed identically rather than
// re-queried on every hit.
type longEntry struct {
	rules []rules.LongRule
	err   error
}

type shortEntry struct {
	match rules.ShortMatch
	ok    bool
	err   error
}

// Store wraps an underlying rules.Store with a bounded LRU cache.
// golang-lru/v2's Cache takes its internal lock on every Get and Add, so
// recency updates and evictions are serialised, satisfying this pipeline's
// "process-wide, strict eviction" cache requirement without a hand-rolled
// map+mutex.
type Store struct {
	backend rules.Store
	long    *lru.Cache[string, longEntry]
	short   *lru.Cache[string, shortEntry]
}

// New wraps backend with an LRU cache of the given capacity (applied
// independently to the long-rule and short-rule caches).
func New(backend rules.Store, capacity int) (*Store, error) {
	long, err := lru.New[string, longEntry](capacity)
	if err != nil {
		return nil, err
	}
	short, err := lru.New[string, shortEntry](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{backend: backend, long: long, short: short}, nil
}

// LookupLong serves from cache when the digest of wordSets has been seen
// before, otherwise delegates to the backend and caches the result.
func (s *Store) LookupLong(ctx context.Context, wordSets [][]string) ([]rules.LongRule, error) {
	key := rules.DigestSets(wordSets)
	if e, ok := s.long.Get(key); ok {
		return e.rules, e.err
	}
	got, err := s.backend.LookupLong(ctx, wordSets)
	s.long.Add(key, longEntry{rules: got, err: err})
	return got, err
}

// LookupShort serves from cache when the digest of dsWords has been seen
// before, otherwise delegates to the backend and caches the result.
func (s *Store) LookupShort(ctx context.Context, dsWords []string) (rules.ShortMatch, bool, error) {
	key := rules.Digest(dsWords)
	if e, ok := s.short.Get(key); ok {
		return e.match, e.ok, e.err
	}
	match, ok, err := s.backend.LookupShort(ctx, dsWords)
	s.short.Add(key, shortEntry{match: match, ok: ok, err: err})
	return match, ok, err
}

// Len reports the number of entries currently cached across both the
// long-rule and short-rule caches, for diagnostics.
func (s *Store) Len() int {
	return s.long.Len() + s.short.Len()
}
