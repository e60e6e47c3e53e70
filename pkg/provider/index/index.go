// Package index defines the search store queried by the read model.
package index

import (
	"context"
	"encoding/json"
)

type MatchKind string

const (
	Match             MatchKind = "match"
	MatchPhrasePrefix MatchKind = "match_phrase_prefix"
)

// Clause is one boolean must clause.
type Clause struct {
	Kind  MatchKind
	Field string
	Value string
}

// Query is a boolean must query over a single index.
type Query struct {
	Index string
	Must  []Clause
	From  int
	Size  int
	// SortBy is a keyword field sorted ascending. Empty means relevance order.
	SortBy string
}

// Store runs queries. It returns an error wrapping domain.ErrIndexNotFound
// when the index does not exist yet.
type Store interface {
	Search(ctx context.Context, q Query) ([]json.RawMessage, error)
}
