package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"nagarik-sewa/internal/common/database"
	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/models"
)

// ApplicationIndexMapping keeps office and status fields exact so they can be filtered on.
const ApplicationIndexMapping = `{
  "mappings": {
    "properties": {
      "id":                  {"type": "keyword"},
      "user_id":             {"type": "keyword"},
      "full_name":           {"type": "text"},
      "email":               {"type": "keyword"},
      "citizenship_number":  {"type": "keyword"},
      "service_type":        {"type": "keyword"},
      "target_office_level": {"type": "keyword"},
      "target_office_name":  {"type": "keyword"},
      "status":              {"type": "keyword"},
      "description":         {"type": "text"},
      "address":             {"type": "text"},
      "submitted_date":      {"type": "date"},
      "completed_date":      {"type": "date"}
    }
  }
}`

const defaultSearchSize = 20

// SearchIndex mirrors application records into Elasticsearch for office search.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearchIndex(client *elasticsearch.Client, index string, log logger.Logger) *SearchIndex {
	return &SearchIndex{client: client, index: index, logger: logger.ForComponent(log, "search-index")}
}

// EnsureIndex creates the index with ApplicationIndexMapping when it does not exist yet.
// Without it the first Index call would map target_office_name as analyzed text.
func (s *SearchIndex) EnsureIndex(ctx context.Context) error {
	es := &database.ElasticsearchClient{Client: s.client}
	if err := es.EnsureIndex(ctx, s.index, ApplicationIndexMapping); err != nil {
		return errors.NewSearchError(err)
	}
	return nil
}

// Index upserts app under its id.
func (s *SearchIndex) Index(ctx context.Context, app *models.Application) error {
	body, err := json.Marshal(app)
	if err != nil {
		return errors.NewSearchError(fmt.Errorf("encode application: %w", err))
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: app.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewSearchError(fmt.Errorf("index %s: %s", app.ID, res.Status()))
	}
	return nil
}

// Delete removes the document; a missing document is not an error.
func (s *SearchIndex) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: s.index, DocumentID: id}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchError(err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return errors.NewSearchError(fmt.Errorf("delete %s: %s", id, res.Status()))
	}
	return nil
}

// Search runs a free-text query restricted to office's records.
func (s *SearchIndex) Search(ctx context.Context, office models.Office, query string, size int) ([]models.Application, error) {
	if size <= 0 {
		size = defaultSearchSize
	}

	body, err := json.Marshal(buildOfficeSearchQuery(office, query))
	if err != nil {
		return nil, errors.NewSearchError(err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, errors.NewSearchError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchError(fmt.Errorf("search %s: %s", s.index, res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.Application `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchError(fmt.Errorf("decode search response: %w", err))
	}

	out := make([]models.Application, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func buildOfficeSearchQuery(office models.Office, query string) map[string]interface{} {
	must := []interface{}{}
	if q := strings.TrimSpace(query); q != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": []string{"id^3", "citizenship_number^3", "full_name^2", "email", "description", "address", "service_type"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": must,
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"target_office_level": office.Level}},
					map[string]interface{}{"term": map[string]interface{}{"target_office_name": office.Name}},
				},
			},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"submitted_date": map[string]interface{}{"order": "desc"}},
		},
	}
}
