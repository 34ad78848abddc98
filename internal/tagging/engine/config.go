package engine

import "github.com/eberly-center/docuscope-tagger/internal/tagging/token"

// Config holds the tagging engine's recognised options.
type Config struct {
	// ExcludedTokenTypes are skipped by next_included and receive
	// synthesised "excluded" spans. Defaults to {WHITESPACE, NEWLINE}.
	ExcludedTokenTypes map[token.Type]bool

	// AllowOverlappingTags advances the cursor by one after each span
	// instead of past the span's end.
	AllowOverlappingTags bool

	ReturnUntaggedTags bool
	ReturnNoRulesTags  bool
	ReturnExcludedTags bool
	ReturnIncludedTags bool

	// UntaggedRuleName, NoRulesRuleName, and ExcludedRuleName name the
	// synthetic rules emitted by the short-rule fallback. Empty strings
	// fall back to DefaultUntaggedRuleName etc.
	UntaggedRuleName string
	NoRulesRuleName  string
	ExcludedRuleName string

	// Label is prepended to every LAT full name as "label.lat".
	Label string
}

const (
	DefaultUntaggedRuleName = "untagged"
	DefaultNoRulesRuleName  = "no_rules"
	DefaultExcludedRuleName = "excluded"
)

func (c Config) untaggedName() string {
	if c.UntaggedRuleName != "" {
		return c.UntaggedRuleName
	}
	return DefaultUntaggedRuleName
}

func (c Config) noRulesName() string {
	if c.NoRulesRuleName != "" {
		return c.NoRulesRuleName
	}
	return DefaultNoRulesRuleName
}

func (c Config) excludedName() string {
	if c.ExcludedRuleName != "" {
		return c.ExcludedRuleName
	}
	return DefaultExcludedRuleName
}

func (c Config) qualify(name string) string {
	if c.Label == "" {
		return name
	}
	return c.Label + "." + name
}

func (c Config) excluded(t token.Type) bool {
	if c.ExcludedTokenTypes == nil {
		return t == token.WHITESPACE || t == token.NEWLINE
	}
	return c.ExcludedTokenTypes[t]
}

// DefaultConfig returns the engine's default configuration.
func DefaultConfig() Config {
	return Config{
		ExcludedTokenTypes: map[token.Type]bool{
			token.WHITESPACE: true,
			token.NEWLINE:    true,
		},
	}
}
