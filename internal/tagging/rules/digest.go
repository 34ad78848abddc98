package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Digest produces a stable digest of a set of ds-words: sort, join, and
// SHA-256 hash, matching the Python original's
// hashlib.sha256(str(sorted(...))) keying scheme.
func Digest(words []string) string {
	cp := append([]string(nil), words...)
	sort.Strings(cp)
	sum := sha256.Sum256([]byte(strings.Join(cp, "|")))
	return hex.EncodeToString(sum[:])
}

// DigestSets produces a stable digest of an ordered list of ds-word sets
// by digesting each set and joining the results with a separator that
// cannot appear inside a digest. Both internal/tagging/lrucache and
// internal/tagging/cache key their lookup caches with this scheme, so the
// in-process and shared cache tiers agree on what "the same lookup" means.
func DigestSets(wordSets [][]string) string {
	parts := make([]string, len(wordSets))
	for i, set := range wordSets {
		parts[i] = Digest(set)
	}
	return strings.Join(parts, "||")
}
