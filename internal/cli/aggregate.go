// internal/cli/aggregate.go
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"agri-advisory-workers/internal/advisory/classifier"
	"agri-advisory-workers/internal/models"
)

func newAggregateCommand(opts *options) *cobra.Command {
	var contextJSON string

	cmd := &cobra.Command{
		Use:   "aggregate [query...]",
		Short: "Classify a question and gather the matching provider datasets",
		Long: `aggregate runs the classifier on the query, or takes a ready query context
from --context, and prints the aggregated datasets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var qc models.QueryContext
			switch {
			case contextJSON != "":
				if err := json.Unmarshal([]byte(contextJSON), &qc); err != nil {
					return fmt.Errorf("parse --context: %w", err)
				}
				if !qc.QueryType.Valid() {
					return fmt.Errorf("--context: unknown queryType %q", qc.QueryType)
				}
			case len(args) > 0:
				qc = classifier.Classify(strings.Join(args, " "))
			default:
				return fmt.Errorf("a query or --context is required")
			}

			agg, err := opts.aggregator(cmd.Context())
			if err != nil {
				return err
			}
			resp := agg.Aggregate(cmd.Context(), qc)

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printContext(cmd, qc)
			printResponse(cmd, resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&contextJSON, "context", "", `query context as JSON, e.g. {"queryType":"soil","location":{"district":"Pune","state":"Maharashtra"}}`)
	return cmd
}

func printResponse(cmd *cobra.Command, resp models.AggregatedResponse) {
	w := cmd.OutOrStdout()
	heading.Fprintln(w, "Datasets")
	if len(resp.Sources) == 0 {
		warn.Fprintln(w, "  no provider returned data")
	}

	row := func(name string, present bool, n int) {
		if !present {
			return
		}
		fmt.Fprintf(w, "  %-15s %d\n", name, n)
	}
	row("weather", resp.Weather != nil, len(resp.Weather))
	row("cropAdvisories", resp.CropAdvisories != nil, len(resp.CropAdvisories))
	row("marketPrices", resp.MarketPrices != nil, len(resp.MarketPrices))
	row("soilHealth", resp.SoilHealth != nil, len(resp.SoilHealth))
	row("schemes", resp.Schemes != nil, len(resp.Schemes))

	for _, s := range resp.Sources {
		good.Fprintf(w, "  source: %s\n", s)
	}
	fmt.Fprintf(w, "  lastUpdated: %s\n", resp.LastUpdated.Format("2006-01-02T15:04:05Z07:00"))
}
