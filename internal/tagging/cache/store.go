package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eberly-center/docuscope-tagger/internal/tagging/rules"
)

// Store wraps a rules.Store with a shared L2 Cache, for deployments where
// many docuscope-tag processes query the same Postgres-backed dictionary
// and want to share lookup results across process boundaries rather than
// each paying its own cache-miss cost against the database. It sits in
// front of the backend the same way internal/tagging/lrucache does, but
// keyed results round-trip through JSON so they can cross a network
// boundary (Redis) instead of living only in process memory.
type Store struct {
	backend rules.Store
	cache   Cache
	ttl     time.Duration
}

// NewStore wraps backend with cache, caching entries for ttl (or the
// cache's own DefaultTTL if ttl is zero).
func NewStore(backend rules.Store, cache Cache, ttl time.Duration) *Store {
	return &Store{backend: backend, cache: cache, ttl: ttl}
}

type longResult struct {
	Rules []rules.LongRule
}

// LookupLong serves from the shared cache when the digest of wordSets has
// been cached by any process sharing it, otherwise delegates to the
// backend and populates the cache for the next reader.
func (s *Store) LookupLong(ctx context.Context, wordSets [][]string) ([]rules.LongRule, error) {
	key := "long:" + rules.DigestSets(wordSets)

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached longResult
		if jerr := json.Unmarshal(raw, &cached); jerr == nil {
			return cached.Rules, nil
		}
	}

	got, err := s.backend.LookupLong(ctx, wordSets)
	if err != nil {
		return got, err
	}

	if raw, jerr := json.Marshal(longResult{Rules: got}); jerr == nil {
		_ = s.cache.Set(ctx, key, raw, s.ttl)
	}
	return got, nil
}

type shortResult struct {
	Match rules.ShortMatch
	OK    bool
}

// LookupShort serves from the shared cache when the digest of dsWords has
// been cached by any process sharing it, otherwise delegates to the
// backend and populates the cache for the next reader.
func (s *Store) LookupShort(ctx context.Context, dsWords []string) (rules.ShortMatch, bool, error) {
	key := "short:" + rules.Digest(dsWords)

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached shortResult
		if jerr := json.Unmarshal(raw, &cached); jerr == nil {
			return cached.Match, cached.OK, nil
		}
	}

	match, ok, err := s.backend.LookupShort(ctx, dsWords)
	if err != nil {
		return match, ok, err
	}

	if raw, jerr := json.Marshal(shortResult{Match: match, OK: ok}); jerr == nil {
		_ = s.cache.Set(ctx, key, raw, s.ttl)
	}
	return match, ok, nil
}
