// Package search implements the search store on Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/amirasaad/ledgersync/pkg/config"
	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/provider/index"
	"github.com/elastic/go-elasticsearch/v8"
)

type ElasticStore struct {
	client *elasticsearch.Client
	logger *slog.Logger
}

func NewElasticStore(cfg *config.Index, transport http.RoundTripper, logger *slog.Logger) (*ElasticStore, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ElasticStore{client: client, logger: logger.With("component", "index.Elastic")}, nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

func (s *ElasticStore) Search(ctx context.Context, q index.Query) ([]json.RawMessage, error) {
	body, err := json.Marshal(buildBody(q))
	if err != nil {
		return nil, err
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(q.Index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", q.Index, err)
	}
	defer res.Body.Close() //nolint:errcheck

	if res.IsError() {
		var e errorResponse
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return nil, fmt.Errorf("search %s: status %d", q.Index, res.StatusCode)
		}
		if e.Error.Type == "index_not_found_exception" {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, q.Index)
		}
		return nil, fmt.Errorf("search %s: %s: %s", q.Index, e.Error.Type, e.Error.Reason)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("search %s: decode response: %w", q.Index, err)
	}
	out := make([]json.RawMessage, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		out = append(out, h.Source)
	}
	s.logger.Debug("search done", "index", q.Index, "hits", len(out))
	return out, nil
}

func buildBody(q index.Query) map[string]any {
	must := make([]map[string]any, 0, len(q.Must))
	for _, c := range q.Must {
		must = append(must, map[string]any{
			string(c.Kind): map[string]any{c.Field: c.Value},
		})
	}
	body := map[string]any{
		"query": map[string]any{"bool": map[string]any{"must": must}},
		"from":  q.From,
	}
	if q.Size > 0 {
		body["size"] = q.Size
	}
	if q.SortBy != "" {
		body["sort"] = []map[string]any{{
			q.SortBy: map[string]any{"unmapped_type": "keyword", "order": "asc"},
		}}
	}
	return body
}

var _ index.Store = (*ElasticStore)(nil)
