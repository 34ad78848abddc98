// Package engine implements the longest-match tagging loop: a single
// engine parameterised by a rules.Store, identical whether that store is
// backed by an in-memory dictionary or a remote graph.
package engine

import (
	"context"
	"sort"

	"github.com/eberly-center/docuscope-tagger/internal/tagging/rules"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/token"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/wordclass"
)

// Session holds all per-document tagging state: cursor, accumulated spans,
// and stats. Nothing here is shared across documents; a driver may
// round-robin many Sessions over one read-only Store and Resolver.
type Session struct {
	cfg      Config
	tokens   []token.Token
	resolver wordclass.Resolver
	store    rules.Store

	cursor int
	done   bool
	spans  []TagSpan
	stats  map[string]*RuleStat
}

// NewSession constructs a tagging session over tokens, using resolver for
// ds-word lookups and store for rule lookups.
func NewSession(cfg Config, tokens []token.Token, resolver wordclass.Resolver, store rules.Store) *Session {
	return &Session{
		cfg:      cfg,
		tokens:   tokens,
		resolver: resolver,
		store:    store,
		stats:    make(map[string]*RuleStat),
	}
}

// Step advances the session by exactly one accepted span, returning the
// new cursor position and whether tagging is complete. Callers loop Step
// and check ctx between calls to support cancellation; on ctx cancellation
// Step returns the context's error and the session's state should be
// discarded.
func (s *Session) Step(ctx context.Context) (cursor int, done bool, err error) {
	if s.done {
		return s.cursor, true, nil
	}
	if s.cursor >= len(s.tokens) {
		s.done = true
		return s.cursor, true, nil
	}
	select {
	case <-ctx.Done():
		return s.cursor, false, ctx.Err()
	default:
	}

	span, err := s.tagAt(ctx, s.cursor)
	if err != nil {
		return s.cursor, false, err
	}
	s.spans = append(s.spans, span)
	s.record(span)

	if s.cfg.AllowOverlappingTags {
		s.cursor = span.IndexStart + 1
	} else {
		s.cursor = span.IndexEnd + 1
	}
	if s.cursor >= len(s.tokens) {
		s.done = true
	}
	return s.cursor, s.done, nil
}

// Tag runs Step to completion, honouring ctx cancellation between steps.
func Tag(ctx context.Context, cfg Config, tokens []token.Token, resolver wordclass.Resolver, store rules.Store) ([]TagSpan, map[string]RuleStat, error) {
	s := NewSession(cfg, tokens, resolver, store)
	for {
		_, done, err := s.Step(ctx)
		if err != nil {
			return nil, nil, err
		}
		if done {
			break
		}
	}
	return s.Spans(), s.Stats(), nil
}

// Spans returns every accepted span so far, in ascending IndexStart order.
func (s *Session) Spans() []TagSpan {
	out := make([]TagSpan, len(s.spans))
	copy(out, s.spans)
	return out
}

// Stats returns the RuleStat map filtered by this session's configured
// return_* options. Tags themselves always appear in Spans regardless of
// this filtering.
func (s *Session) Stats() map[string]RuleStat {
	out := make(map[string]RuleStat, len(s.stats))
	for lat, stat := range s.stats {
		out[lat] = *stat
	}
	return out
}

func (s *Session) record(span TagSpan) {
	switch span.Kind {
	case KindUntagged:
		if !s.cfg.ReturnUntaggedTags {
			return
		}
	case KindNoRules:
		if !s.cfg.ReturnNoRulesTags {
			return
		}
	case KindExcluded:
		if !s.cfg.ReturnExcludedTags {
			return
		}
	default:
		if !s.cfg.ReturnIncludedTags {
			return
		}
	}
	stat, ok := s.stats[span.LAT]
	if !ok {
		stat = &RuleStat{LAT: span.LAT}
		s.stats[span.LAT] = stat
	}
	stat.NumTags++
	stat.NumIncludedTokens += span.NumIncludedTokens
}

func (s *Session) tagAt(ctx context.Context, i int) (TagSpan, error) {
	tok := s.tokens[i]

	if !s.cfg.excluded(tok.Type) {
		if next := s.nextIncluded(i); next != -1 {
			if span, ok, err := s.tryLong(ctx, i, next); err != nil {
				return TagSpan{}, err
			} else if ok {
				return span, nil
			}
		}
	}

	return s.shortFallback(ctx, i)
}

// nextIncluded returns the smallest k > j with tokens[k] not excluded, or
// -1 if no such k exists.
func (s *Session) nextIncluded(j int) int {
	for k := j + 1; k < len(s.tokens); k++ {
		if !s.cfg.excluded(s.tokens[k].Type) {
			return k
		}
	}
	return -1
}

// nthIncluded returns the index of the offset-th included token counting
// from and including start (offset 0 is start itself), or -1 if fewer than
// offset+1 included tokens remain from start onward.
func (s *Session) nthIncluded(start, offset int) int {
	idx := start
	for n := 0; n < offset; n++ {
		idx = s.nextIncluded(idx)
		if idx == -1 {
			return -1
		}
	}
	return idx
}

// tryLong attempts the long-rule path at token index i, given that
// next = nextIncluded(i).
func (s *Session) tryLong(ctx context.Context, i, next int) (TagSpan, bool, error) {
	occurrences := []int{i, next}
	for o := 2; o < rules.MaxLookaheadTokens; o++ {
		k := s.nthIncluded(i, o)
		if k == -1 {
			break
		}
		occurrences = append(occurrences, k)
	}

	wordSets := make([][]string, len(occurrences))
	for idx, tokIdx := range occurrences {
		wordSets[idx] = s.resolver.Resolve(s.tokens[tokIdx])
	}

	candidates, err := s.store.LookupLong(ctx, wordSets)
	if err != nil {
		return TagSpan{}, false, err
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return len(candidates[a].Path) > len(candidates[b].Path)
	})

	for _, cand := range candidates {
		if s.appliesAt(i, cand.Path) {
			indexEnd := s.nthIncluded(i, len(cand.Path)-1)
			return TagSpan{
				IndexStart:        i,
				IndexEnd:          indexEnd,
				ByteStart:         s.tokens[i].Position,
				ByteEnd:           s.tokens[indexEnd].Position + s.tokens[indexEnd].Length,
				TokenCount:        indexEnd - i + 1,
				NumIncludedTokens: len(cand.Path),
				LAT:               s.cfg.qualify(cand.LAT),
				Path:              cand.Path,
				Kind:              KindLong,
			}, true, nil
		}
	}
	return TagSpan{}, false, nil
}

// appliesAt verifies that, for every path element beyond the first two
// (already guaranteed by the store's lookup contract), the corresponding
// successive included token's ds-words contain that element.
func (s *Session) appliesAt(i int, path []string) bool {
	for k := 2; k < len(path); k++ {
		idx := s.nthIncluded(i, k)
		if idx == -1 {
			return false
		}
		if !contains(s.resolver.Resolve(s.tokens[idx]), path[k]) {
			return false
		}
	}
	return true
}

func (s *Session) shortFallback(ctx context.Context, i int) (TagSpan, error) {
	tok := s.tokens[i]
	base := TagSpan{
		IndexStart: i,
		IndexEnd:   i,
		ByteStart:  tok.Position,
		ByteEnd:    tok.Position + tok.Length,
		TokenCount: 1,
	}

	if s.cfg.excluded(tok.Type) {
		base.LAT = s.cfg.excludedName()
		base.Kind = KindExcluded
		return base, nil
	}

	dsWords := s.resolver.Resolve(tok)
	if match, ok, err := s.store.LookupShort(ctx, dsWords); err != nil {
		return TagSpan{}, err
	} else if ok {
		base.LAT = s.cfg.qualify(match.LAT)
		base.Path = []string{match.DSWord}
		base.NumIncludedTokens = 1
		base.Kind = KindShort
		return base, nil
	}

	if len(dsWords) > 0 {
		base.LAT = s.cfg.noRulesName()
		base.NumIncludedTokens = 1
		base.Kind = KindNoRules
		return base, nil
	}

	base.LAT = s.cfg.untaggedName()
	base.NumIncludedTokens = 1
	base.Kind = KindUntagged
	return base, nil
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}
