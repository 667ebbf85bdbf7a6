// internal/bootstrap/catalog.go
package bootstrap

import (
	"context"
	"fmt"

	"agri-advisory-workers/internal/advisory/aggregator"
	"agri-advisory-workers/internal/advisory/catalog"
	"agri-advisory-workers/internal/advisory/providers"
	"agri-advisory-workers/internal/common/config"
	"agri-advisory-workers/internal/common/database"
	apperrors "agri-advisory-workers/internal/common/errors"
	"agri-advisory-workers/internal/common/logger"
	"agri-advisory-workers/internal/common/metrics"
)

// LoadCatalog reads the provider tables from the configured source. Backing
// connections are closed once the tables are in memory.
func LoadCatalog(ctx context.Context, cfg *config.Config, r Retry, log logger.Logger) (*catalog.Catalog, error) {
	source := cfg.Catalog.Source
	if source == "" {
		source = catalog.SourceStatic
	}

	var (
		cat *catalog.Catalog
		err error
	)
	switch source {
	case catalog.SourceStatic:
		cat, err = catalog.StaticSource{}.Load(ctx)

	case catalog.SourcePostgres:
		cat, err = loadFromPostgres(ctx, cfg.Database.Postgres, r, log)

	case catalog.SourceElasticsearch:
		cat, err = loadFromElasticsearch(ctx, cfg, r, log)

	default:
		return nil, apperrors.NewCatalogLoadFailedError(source, fmt.Errorf("unknown catalog source %q", source))
	}
	if err != nil {
		return nil, err
	}

	log.Info("catalog loaded", map[string]interface{}{
		"source": source,
		"counts": cat.Counts(),
	})
	return cat, nil
}

func loadFromPostgres(ctx context.Context, cfg config.PostgresConfig, r Retry, log logger.Logger) (*catalog.Catalog, error) {
	pg, err := database.NewPostgres(cfg)
	if err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	defer pg.Close()

	if err := RetryWithBackoff(ctx, r, log, "PostgreSQL connection", pg.Ping); err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}

	cat, err := catalog.PostgresSource{DB: pg.DB}.Load(ctx)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(catalog.SourcePostgres, err)
	}
	return cat, nil
}

func loadFromElasticsearch(ctx context.Context, cfg *config.Config, r Retry, log logger.Logger) (*catalog.Catalog, error) {
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return nil, apperrors.NewElasticsearchConnectionFailedError(err)
	}

	if err := RetryWithBackoff(ctx, r, log, "Elasticsearch connection", es.Ping); err != nil {
		return nil, apperrors.NewElasticsearchConnectionFailedError(err)
	}

	cat, err := catalog.ElasticsearchSource{Client: es.Client, IndexPrefix: cfg.Catalog.IndexPrefix}.Load(ctx)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(catalog.SourceElasticsearch, err)
	}
	return cat, nil
}

// NewAggregator wires the five catalog providers with metric and log
// observers.
func NewAggregator(cat *catalog.Catalog, simulateLatency bool, log logger.Logger) *aggregator.Aggregator {
	return aggregator.New(
		aggregator.FromSet(providers.NewSet(cat, simulateLatency)),
		aggregator.WithObserver(aggregator.MultiObserver{
			metrics.ProviderObserver{},
			aggregator.LogObserver{Logger: log},
		}),
	)
}
