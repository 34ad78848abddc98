// Package rules defines the RuleStore capability shared by the in-memory
// and Postgres-backed dictionary backends, and the LAT rule records they
// return.
package rules

import "context"

// MaxLookaheadTokens is the maximum number of next-included-token ds-word
// sets lookup_long considers, and therefore the maximum long-rule path
// length this pipeline matches. The Python original's graph query unions
// 4-prefix/3-prefix/2-prefix paths and hard-codes a 25-hop traversal bound
// that is never reached in practice; this implementation keeps the
// original's 4-token lookahead window rather than raising it.
const MaxLookaheadTokens = 4

// LongRule is one candidate long rule: an ordered path of ds-words of
// length at least two, and the LAT it resolves to.
type LongRule struct {
	LAT  string
	Path []string
}

// ShortMatch is the result of a short-rule lookup: the LAT a single
// ds-word resolves to, and the ds-word that matched.
type ShortMatch struct {
	LAT    string
	DSWord string
}

// Store is the capability the tagging engine depends on. Both the
// in-memory and Postgres-backed dictionaries implement it; the engine's
// tagging loop is identical for either.
type Store interface {
	// LookupLong returns every candidate long rule whose path begins with
	// some element of wordSets[0] followed by some element of
	// wordSets[1]. Path elements after the second are not matched against
	// the later sets: a candidate may carry a third or fourth element
	// outside wordSets[2] or wordSets[3], and the engine checks those
	// elements against the tokens before accepting the rule. wordSets holds
	// up to MaxLookaheadTokens ds-word sets, one per next included token.
	LookupLong(ctx context.Context, wordSets [][]string) ([]LongRule, error)

	// LookupShort returns the first short rule matching any of dsWords,
	// in the order given, or ok=false if none match.
	LookupShort(ctx context.Context, dsWords []string) (match ShortMatch, ok bool, err error)
}
