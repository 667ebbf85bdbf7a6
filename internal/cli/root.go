// internal/cli/root.go
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"agri-advisory-workers/internal/advisory/aggregator"
	"agri-advisory-workers/internal/bootstrap"
	"agri-advisory-workers/internal/common/config"
	"agri-advisory-workers/internal/common/logger"
)

type options struct {
	configPath    string
	catalogSource string
	jsonOutput    bool
	noColor       bool
	verbose       bool
}

// NewRootCommand builds advisoryctl.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "advisoryctl",
		Short: "Run and operate the farm advisory workers",
		Long: `advisoryctl runs the query classifier and dataset aggregator in-process,
replays the demo scenarios, seeds catalog stores and checks the activity
registry. Commands that talk to Postgres, Elasticsearch or Zeebe read
connection settings from --config.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a config YAML file")
	root.PersistentFlags().StringVar(&opts.catalogSource, "catalog", "", "catalog source override: static, postgres or elasticsearch")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of text")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log provider calls to stderr")

	root.AddCommand(
		newClassifyCommand(opts),
		newAggregateCommand(opts),
		newDemoCommand(opts),
		newCatalogCommand(opts),
		newRegistryCommand(opts),
		newSubmitCommand(opts),
	)
	return root
}

// config returns the file config when --config is set and a static-catalog
// default otherwise.
func (o *options) config() (*config.Config, error) {
	cfg := &config.Config{
		Catalog: config.CatalogConfig{Source: "static"},
	}
	if o.configPath != "" {
		loaded, err := config.LoadFromFile(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.catalogSource != "" {
		cfg.Catalog.Source = o.catalogSource
	}
	return cfg, nil
}

func (o *options) logger() logger.Logger {
	if o.verbose {
		return logger.NewStructured("debug", "console")
	}
	return logger.NewNoOpLogger()
}

// aggregator loads the configured catalog once, without connection retries.
func (o *options) aggregator(ctx context.Context) (*aggregator.Aggregator, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	log := o.logger()
	cat, err := bootstrap.LoadCatalog(ctx, cfg, bootstrap.Retry{Attempts: 1}, log)
	if err != nil {
		return nil, err
	}
	return bootstrap.NewAggregator(cat, cfg.Catalog.SimulateLatency, log), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

var (
	heading = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	warn    = color.New(color.FgYellow)
)
