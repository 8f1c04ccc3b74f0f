package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-ddd-campus/internal/application"
)

// usersMapping keeps email and role exact while display_name stays searchable.
const usersMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "email":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "display_name": {"type": "text"},
      "role":         {"type": "keyword"},
      "status":       {"type": "keyword"},
      "cohort":       {"type": "keyword"},
      "avatar_url":   {"type": "keyword", "index": false},
      "updated_at":   {"type": "date"}
    }
  }
}`

// UserIndex stores user documents in a single Elasticsearch index.
type UserIndex struct {
	ES    *elasticsearch.Client
	Index string
}

var _ application.UserIndexer = (*UserIndex)(nil)

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{ES: es, Index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{x.Index}}.Do(ctx, x.ES)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}
	res, err = esapi.IndicesCreateRequest{Index: x.Index, Body: strings.NewReader(usersMapping)}.Do(ctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", x.Index, res.Status())
	}
	return nil
}

func (x *UserIndex) IndexUser(ctx context.Context, doc application.UserDocument) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: doc.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(ctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index user %s: %s", doc.ID, res.Status())
	}
	return nil
}

// SearchUsers runs a multi_match over email and display name. Deleted users
// are filtered out.
func (x *UserIndex) SearchUsers(ctx context.Context, q string, size int) ([]application.UserDocument, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"email^2", "display_name"},
					},
				},
				"must_not": map[string]any{
					"term": map[string]any{"status": "deleted"},
				},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("search users: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string                   `json:"_id"`
				Source application.UserDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]application.UserDocument, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		if h.Source.ID == "" {
			h.Source.ID = h.ID
		}
		out = append(out, h.Source)
	}
	return out, nil
}
