// internal/cli/catalog.go
package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"agri-advisory-workers/internal/advisory/catalog"
	"agri-advisory-workers/internal/bootstrap"
	"agri-advisory-workers/internal/common/database"
)

func newCatalogCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and seed the provider catalog",
	}
	cmd.AddCommand(newCatalogShowCommand(opts), newCatalogSeedCommand(opts))
	return cmd
}

func newCatalogShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print table sizes of the configured catalog source",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			cat, err := bootstrap.LoadCatalog(cmd.Context(), cfg, bootstrap.Retry{Attempts: 1}, opts.logger())
			if err != nil {
				return err
			}

			counts := cat.Counts()
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"source": cfg.Catalog.Source,
					"counts": counts,
				})
			}

			w := cmd.OutOrStdout()
			heading.Fprintf(w, "Catalog (%s)\n", cfg.Catalog.Source)
			names := make([]string, 0, len(counts))
			for name := range counts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(w, "  %-15s %d\n", name, counts[name])
			}
			return nil
		},
	}
}

func newCatalogSeedCommand(opts *options) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in tables to Postgres or Elasticsearch",
		Long: `seed replaces the catalog tables in the target store with the built-in
tables. Connection settings come from --config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath == "" {
				return fmt.Errorf("--config is required to seed %s", target)
			}
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cat, err := catalog.StaticSource{}.Load(ctx)
			if err != nil {
				return err
			}

			switch target {
			case catalog.SourcePostgres:
				pg, err := database.NewPostgres(cfg.Database.Postgres)
				if err != nil {
					return err
				}
				defer pg.Close()
				if err := catalog.SeedPostgres(ctx, pg.DB, cat); err != nil {
					return err
				}

			case catalog.SourceElasticsearch:
				es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
				if err != nil {
					return err
				}
				if err := catalog.SeedElasticsearch(ctx, es.Client, cfg.Catalog.IndexPrefix, cat); err != nil {
					return err
				}

			default:
				return fmt.Errorf("--target must be postgres or elasticsearch, got %q", target)
			}

			good.Fprintf(cmd.OutOrStdout(), "seeded %s catalog\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", catalog.SourcePostgres, "store to seed: postgres or elasticsearch")
	return cmd
}
