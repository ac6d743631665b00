// Package search mirrors the catalog into Elasticsearch and serves fuzzy
// product queries. The mirror is optional: a nil Index no-ops and callers
// fall back to the products store's substring search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/sneakershub/storefront/internal/models"
)

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("search: create client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("search: ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search: ping: %s: %s", res.Status(), body)
	}
	return client, nil
}

type Index struct {
	es    *elasticsearch.Client
	index string
	log   *slog.Logger
}

func NewIndex(es *elasticsearch.Client, index string, log *slog.Logger) *Index {
	return &Index{es: es, index: index, log: log}
}

// IndexProduct upserts the product document. Failures are logged; the
// catalog store stays authoritative.
func (ix *Index) IndexProduct(ctx context.Context, p models.Product) {
	if ix == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		ix.log.Error("es_index_failed", "product_id", p.ID, "error", err)
		return
	}
	res, err := ix.es.Index(
		ix.index,
		bytes.NewReader(data),
		ix.es.Index.WithContext(ctx),
		ix.es.Index.WithDocumentID(strconv.Itoa(p.ID)),
	)
	if err != nil {
		ix.log.Error("es_index_failed", "product_id", p.ID, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		ix.log.Error("es_index_failed", "product_id", p.ID, "status", res.Status())
	}
}

func (ix *Index) DeleteProduct(ctx context.Context, id int) {
	if ix == nil {
		return
	}
	res, err := ix.es.Delete(
		ix.index,
		strconv.Itoa(id),
		ix.es.Delete.WithContext(ctx),
	)
	if err != nil {
		ix.log.Error("es_delete_failed", "product_id", id, "error", err)
		return
	}
	res.Body.Close()
}

// Search runs a fuzzy multi_match over name, description and category.
func (ix *Index) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := ix.es.Search(
		ix.es.Search.WithContext(ctx),
		ix.es.Search.WithIndex(ix.index),
		ix.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode response: %w", err)
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}
