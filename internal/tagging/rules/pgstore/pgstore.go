// Package pgstore implements rules.Store over a Postgres-backed dictionary
// graph, substituting for the Neo4j Cypher backend in the original
// implementation: word nodes and NEXT/LAT edges become two flat tables
// and a recursive CTE, since the example dependency pack carries a
// Postgres driver (jackc/pgx/v5) and no graph-database driver.
//
// Schema:
//
//	CREATE TABLE ds_edges (word TEXT NOT NULL, next_word TEXT NOT NULL, depth INT NOT NULL);
//	CREATE TABLE ds_lats  (path_key TEXT NOT NULL, lat TEXT NOT NULL);
//
// ds_edges(depth) is the 1-based position of "word" within its rule's
// path; path_key is the pipe-joined full path ("w0|w1|...|wN"), the join
// key between a path's terminal word and its LAT.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	tgerrors "github.com/eberly-center/docuscope-tagger/internal/tagging/errors"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/rules"
)

// Store queries a Postgres-backed rule dictionary graph.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a new pool against connString, grounded on the teacher's
// database connection setup (internal/cli/config.GetDatabaseURL feeds the
// same DSN shape into pgxpool.New).
func Connect(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, &tgerrors.BackendUnavailableError{Message: "connecting to dictionary database", Cause: err}
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// longRuleQuery unions 4-prefix, 3-prefix, and 2-prefix path lookups,
// ordered so the longest available path is returned first — the same
// shape as the Cypher original's UNION ... ORDER BY size(path) DESC. Ties
// in path length break by ascending LAT name, matching memstore's
// deterministic tie-break, so tagging the same document doesn't depend on
// which backend is configured.
const longRuleQuery = `
WITH RECURSIVE four AS (
	SELECT e1.word AS w0, e2.word AS w1, e2.next_word AS w2, e3.next_word AS w3,
	       e1.word || '|' || e2.word || '|' || e2.next_word || '|' || e3.next_word AS path_key
	FROM ds_edges e1
	JOIN ds_edges e2 ON e2.word = e1.next_word AND e2.depth = 2
	JOIN ds_edges e3 ON e3.word = e2.next_word AND e3.depth = 3
	WHERE e1.depth = 1 AND e1.word = ANY($1) AND e2.word = ANY($2)
),
three AS (
	SELECT e1.word AS w0, e2.word AS w1, e2.next_word AS w2,
	       e1.word || '|' || e2.word || '|' || e2.next_word AS path_key
	FROM ds_edges e1
	JOIN ds_edges e2 ON e2.word = e1.next_word AND e2.depth = 2
	WHERE e1.depth = 1 AND e1.word = ANY($1) AND e2.word = ANY($2)
),
two AS (
	SELECT e1.word AS w0, e1.next_word AS w1,
	       e1.word || '|' || e1.next_word AS path_key
	FROM ds_edges e1
	WHERE e1.depth = 1 AND e1.word = ANY($1) AND e1.next_word = ANY($2)
)
SELECT l.path_key, l.lat, 4 AS path_len FROM ds_lats l JOIN four f ON f.path_key = l.path_key
UNION ALL
SELECT l.path_key, l.lat, 3 AS path_len FROM ds_lats l JOIN three t ON t.path_key = l.path_key
UNION ALL
SELECT l.path_key, l.lat, 2 AS path_len FROM ds_lats l JOIN two w ON w.path_key = l.path_key
ORDER BY path_len DESC, lat ASC
`

// LookupLong queries the longest available rule paths whose first two
// elements are drawn from wordSets[0] and wordSets[1]. Only the first two
// lookahead sets constrain the SQL join; §4.3's appliesAt check in the
// tagging engine verifies any further path elements against the actual
// token sequence, exactly as it does for the in-memory backend.
func (s *Store) LookupLong(ctx context.Context, wordSets [][]string) ([]rules.LongRule, error) {
	if len(wordSets) < 2 || len(wordSets[0]) == 0 || len(wordSets[1]) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, longRuleQuery, wordSets[0], wordSets[1])
	if err != nil {
		return nil, &tgerrors.BackendUnavailableError{Message: "long rule lookup", Cause: err}
	}
	defer rows.Close()

	var out []rules.LongRule
	for rows.Next() {
		var pathKey, lat string
		var pathLen int
		if err := rows.Scan(&pathKey, &lat, &pathLen); err != nil {
			return nil, &tgerrors.BackendUnavailableError{Message: "scanning long rule row", Cause: err}
		}
		out = append(out, rules.LongRule{LAT: lat, Path: strings.Split(pathKey, "|")})
	}
	if err := rows.Err(); err != nil {
		return nil, &tgerrors.BackendUnavailableError{Message: "iterating long rule rows", Cause: err}
	}
	return out, nil
}

// LookupShort looks up the first matching short rule among dsWords, in
// order.
func (s *Store) LookupShort(ctx context.Context, dsWords []string) (rules.ShortMatch, bool, error) {
	for _, w := range dsWords {
		var lat string
		err := s.pool.QueryRow(ctx,
			`SELECT lat FROM ds_lats WHERE path_key = $1`, w,
		).Scan(&lat)
		if err == nil {
			return rules.ShortMatch{LAT: lat, DSWord: w}, true, nil
		}
		if !isNoRows(err) {
			return rules.ShortMatch{}, false, &tgerrors.BackendUnavailableError{
				Message: fmt.Sprintf("short rule lookup for %q", w), Cause: err,
			}
		}
	}
	return rules.ShortMatch{}, false, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
