package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

// Config points the index at an Elasticsearch cluster.
type Config struct {
	Addresses []string
	Index     string
}

// ElasticIndex maintains the product search index. Documents are keyed by
// product id, so search results carry ids straight back to the catalog.
type ElasticIndex struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticIndex creates the client. It does not ping: the index is an
// optional dependency and callers degrade to repository search when a
// request fails.
func NewElasticIndex(cfg Config) (*ElasticIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ElasticIndex{client: client, index: cfg.Index}, nil
}

type productDoc struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

func (e *ElasticIndex) Index(ctx context.Context, p *domain.Product) error {
	doc, err := json.Marshal(productDoc{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
	})
	if err != nil {
		return fmt.Errorf("encode product doc: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: p.ID,
		Body:       bytes.NewReader(doc),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index product: %s", res.Status())
	}
	return nil
}

func (e *ElasticIndex) Remove(ctx context.Context, productID string) error {
	req := esapi.DeleteRequest{
		Index:      e.index,
		DocumentID: productID,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("remove product: %w", err)
	}
	defer res.Body.Close()

	// a product that was never indexed is already gone
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove product: %s", res.Status())
	}
	return nil
}

// Search returns matching product ids ranked by relevance.
func (e *ElasticIndex) Search(ctx context.Context, query string, limit int) ([]string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"size":    limit,
		"_source": false,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^2", "description"},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search products: %s", res.Status())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
