package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/shopchat/backend/config"
	"github.com/shopchat/backend/internal/domain"
)

// ElasticCatalog searches the product index
type ElasticCatalog struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticCatalog creates a catalog backed by a new Elasticsearch client
func NewElasticCatalog(cfg config.ElasticsearchConfig) (*ElasticCatalog, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return NewElasticCatalogFromClient(es, cfg.ProductIndex), nil
}

// NewElasticCatalogFromClient wraps an existing client
func NewElasticCatalogFromClient(client *elasticsearch.Client, index string) *ElasticCatalog {
	if index == "" {
		index = "products"
	}
	return &ElasticCatalog{client: client, index: index}
}

// Ping tests the Elasticsearch connection
func (c *ElasticCatalog) Ping(ctx context.Context) error {
	res, err := c.client.Ping(c.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: ping: %v", domain.ErrCatalogUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: ping: %s", domain.ErrCatalogUnavailable, res.Status())
	}
	return nil
}

// Find runs a single search against the product index
func (c *ElasticCatalog) Find(ctx context.Context, q domain.CatalogQuery) ([]domain.CatalogItem, error) {
	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		return nil, fmt.Errorf("failed to encode search body: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: search failed: %s", domain.ErrCatalogUnavailable, res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrCatalogUnavailable, err)
	}

	items := make([]domain.CatalogItem, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		items = append(items, toCatalogItem(hit.Source))
	}
	return items, nil
}
