// Package count builds a sorted category/pattern report from a tagging
// session's RuleStats and a category rollup table.
package count

import (
	"sort"
	"strings"

	"github.com/eberly-center/docuscope-tagger/internal/tagging/engine"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/rollup"
)

// PatternCount is one LAT's aggregate occurrence, enriched with its
// rollup category labels where known.
type PatternCount struct {
	LAT               string
	Category          string
	Subcategory       string
	Cluster           string
	Count             int
	NumIncludedTokens int
	Uncategorised     bool
}

// FromStats builds a PatternCount per RuleStat, stripping label from each
// LAT before consulting table. Entries are sorted by descending Count,
// ties broken by LAT name. A LAT absent from table is reported with
// Uncategorised = true rather than silently dropped.
func FromStats(stats map[string]engine.RuleStat, table rollup.Table, label string) []PatternCount {
	out := make([]PatternCount, 0, len(stats))
	for lat, stat := range stats {
		bare := strings.TrimPrefix(lat, label+".")
		entry, ok := table.Lookup(bare)
		pc := PatternCount{
			LAT:               lat,
			Count:             stat.NumTags,
			NumIncludedTokens: stat.NumIncludedTokens,
			Uncategorised:     !ok,
		}
		if ok {
			pc.Category = entry.Category
			pc.Subcategory = entry.Subcategory
			pc.Cluster = entry.Cluster
		}
		out = append(out, pc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].LAT < out[j].LAT
	})
	return out
}
