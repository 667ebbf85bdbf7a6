// internal/advisory/catalog/elasticsearch.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"agri-advisory-workers/internal/models"
)

const (
	DefaultIndexPrefix = "advisory"
	// maxTableSize bounds a single search; catalog tables are small.
	maxTableSize = 1000
)

const (
	indexWeather        = "weather"
	indexCropAdvisories = "crop-advisories"
	indexMarketPrices   = "market-prices"
	indexSoilHealth     = "soil-health"
	indexSchemes        = "schemes"
)

// ElasticsearchSource reads one index per table, <prefix>-<table>, ordered by
// the seq field written by SeedElasticsearch.
type ElasticsearchSource struct {
	Client      *elasticsearch.Client
	IndexPrefix string
}

func (s ElasticsearchSource) index(table string) string {
	prefix := s.IndexPrefix
	if prefix == "" {
		prefix = DefaultIndexPrefix
	}
	return prefix + "-" + table
}

func (s ElasticsearchSource) Load(ctx context.Context) (*Catalog, error) {
	cat := &Catalog{}
	var err error

	if cat.Weather, err = searchAll[models.WeatherData](ctx, s.Client, s.index(indexWeather)); err != nil {
		return nil, err
	}
	if cat.CropAdvisories, err = searchAll[models.CropAdvisory](ctx, s.Client, s.index(indexCropAdvisories)); err != nil {
		return nil, err
	}
	if cat.MarketPrices, err = searchAll[models.MarketPrice](ctx, s.Client, s.index(indexMarketPrices)); err != nil {
		return nil, err
	}
	if cat.SoilHealth, err = searchAll[models.SoilHealth](ctx, s.Client, s.index(indexSoilHealth)); err != nil {
		return nil, err
	}
	if cat.Schemes, err = searchAll[models.GovernmentScheme](ctx, s.Client, s.index(indexSchemes)); err != nil {
		return nil, err
	}
	return cat, nil
}

type searchResponse[T any] struct {
	Hits struct {
		Hits []struct {
			Source T `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func searchAll[T any](ctx context.Context, es *elasticsearch.Client, index string) ([]T, error) {
	query := `{"query":{"match_all":{}},"sort":[{"seq":{"order":"asc"}}]}`

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(strings.NewReader(query)),
		es.Search.WithSize(maxTableSize),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: elasticsearch %s: %v", ErrCatalogLoadFailed, index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("%w: elasticsearch %s: %s: %s", ErrCatalogLoadFailed, index, res.Status(), body)
	}

	var sr searchResponse[T]
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: elasticsearch %s: decode: %v", ErrCatalogLoadFailed, index, err)
	}

	out := make([]T, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// SeedElasticsearch writes cat into the prefixed indices, one document per
// record, with ids and seq matching the table position.
func SeedElasticsearch(ctx context.Context, es *elasticsearch.Client, prefix string, cat *Catalog) error {
	src := ElasticsearchSource{Client: es, IndexPrefix: prefix}

	for i, w := range cat.Weather {
		if err := indexDoc(ctx, es, src.index(indexWeather), i, w); err != nil {
			return err
		}
	}
	for i, a := range cat.CropAdvisories {
		if err := indexDoc(ctx, es, src.index(indexCropAdvisories), i, a); err != nil {
			return err
		}
	}
	for i, p := range cat.MarketPrices {
		if err := indexDoc(ctx, es, src.index(indexMarketPrices), i, p); err != nil {
			return err
		}
	}
	for i, sh := range cat.SoilHealth {
		if err := indexDoc(ctx, es, src.index(indexSoilHealth), i, sh); err != nil {
			return err
		}
	}
	for i, g := range cat.Schemes {
		if err := indexDoc(ctx, es, src.index(indexSchemes), i, g); err != nil {
			return err
		}
	}
	return nil
}

func indexDoc(ctx context.Context, es *elasticsearch.Client, index string, seq int, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s/%d: %w", index, seq, err)
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("marshal %s/%d: %w", index, seq, err)
	}
	doc["seq"] = seq
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%d: %w", index, seq, err)
	}

	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: strconv.Itoa(seq),
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, es)
	if err != nil {
		return fmt.Errorf("index %s/%d: %w", index, seq, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index %s/%d: %s", index, seq, res.Status())
	}
	return nil
}
