package commands

import (
	"context"
	"fmt"

	"github.com/eberly-center/docuscope-tagger/internal/cli/config"
	"github.com/eberly-center/docuscope-tagger/internal/tagging"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/cache"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/engine"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/format"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/lrucache"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/rules"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/rules/memstore"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/rules/pgstore"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/token"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/tokenize"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/wordclass"
)

// buildPipeline wires a tagging.Pipeline from a loaded configuration: the
// dictionary backend named by cfg.Dictionary.Backend, fronted by the
// in-process LRU cache, plus a tokenizer and formatter built from the
// same config. Every CLI command that tags documents (tag, watch) shares
// this construction.
func buildPipeline(ctx context.Context, cfg *config.Config) (*tagging.Pipeline, func(), error) {
	excluded, err := parseExcludedTypes(cfg.ExcludedTokenTypes)
	if err != nil {
		return nil, nil, err
	}

	tok, err := tokenize.New(excluded)
	if err != nil {
		return nil, nil, fmt.Errorf("building tokenizer: %w", err)
	}

	store, resolver, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	cached, err := lrucache.New(store, cfg.Cache.LRUSize)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("building lookup cache: %w", err)
	}

	formatter, err := format.New()
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("building formatter: %w", err)
	}

	pipeline := &tagging.Pipeline{
		Tokenizer: tok,
		Resolver:  resolver,
		Store:     cached,
		Formatter: formatter,
		Config: engine.Config{
			ExcludedTokenTypes: excluded,
			Label:              cfg.Label,
			ReturnIncludedTags: true,
		},
	}
	return pipeline, closeStore, nil
}

// buildStore constructs the configured rule store backend and its
// companion wordclass resolver, plus a cleanup function that releases any
// backend resources (a Postgres connection pool).
func buildStore(ctx context.Context, cfg *config.Config) (rules.Store, wordclass.Resolver, func(), error) {
	switch cfg.Dictionary.Backend {
	case "", "memory":
		store, words, err := memstore.Load(cfg.Dictionary.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, words, func() {}, nil

	case "postgres":
		url := config.GetDatabaseURL()
		if url == "" {
			return nil, nil, nil, fmt.Errorf("dictionary.backend is 'postgres' but no database URL is configured")
		}
		store, err := pgstore.Connect(ctx, url)
		if err != nil {
			return nil, nil, nil, err
		}
		words, err := memstore.LoadWordclass(cfg.Dictionary.Path)
		if err != nil {
			store.Close()
			return nil, nil, nil, err
		}

		if !cfg.Cache.Shared.Enabled {
			return store, words, store.Close, nil
		}

		shared, err := buildSharedCache(cfg)
		if err != nil {
			store.Close()
			return nil, nil, nil, err
		}
		wrapped := cache.NewStore(store, shared, 0)
		return wrapped, words, func() {
			shared.Close()
			store.Close()
		}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unrecognised dictionary backend: %s", cfg.Dictionary.Backend)
	}
}

// buildSharedCache connects the optional L2 Redis cache that fronts the
// postgres dictionary backend, for deployments running more than one
// docuscope-tag process against the same database.
func buildSharedCache(cfg *config.Config) (*cache.RedisCache, error) {
	redisCache, err := cache.NewRedisCacheWithConfig(cache.RedisConfig{
		Addr:        cfg.Cache.Shared.RedisAddr,
		CacheConfig: cache.DefaultCacheConfig(),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to shared cache at %s: %w", cfg.Cache.Shared.RedisAddr, err)
	}
	return redisCache, nil
}

var tokenTypeNames = map[string]token.Type{
	"WORD":        token.WORD,
	"PUNCTUATION": token.PUNCTUATION,
	"WHITESPACE":  token.WHITESPACE,
	"NEWLINE":     token.NEWLINE,
}

func parseExcludedTypes(names []string) (map[token.Type]bool, error) {
	excluded := make(map[token.Type]bool, len(names))
	for _, name := range names {
		typ, ok := tokenTypeNames[name]
		if !ok {
			return nil, fmt.Errorf("unrecognised excluded_token_types entry: %s", name)
		}
		excluded[typ] = true
	}
	return excluded, nil
}
