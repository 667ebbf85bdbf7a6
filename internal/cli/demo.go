// internal/cli/demo.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"agri-advisory-workers/internal/demo"
)

func newDemoCommand(opts *options) *cobra.Command {
	var (
		scenarioID string
		list       bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Replay the canned farmer questions and report data coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := demo.Scenarios()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if list {
				for _, s := range scenarios {
					fmt.Fprintf(w, "%-24s %-13s %s\n", s.ID, s.Category, s.Title)
				}
				return nil
			}

			if scenarioID != "" {
				s, ok := demo.Find(scenarios, scenarioID)
				if !ok {
					return fmt.Errorf("unknown scenario %q", scenarioID)
				}
				scenarios = []demo.Scenario{s}
			}

			agg, err := opts.aggregator(cmd.Context())
			if err != nil {
				return err
			}
			results := demo.RunAll(cmd.Context(), scenarios, demo.LocalSubmitter(agg), opts.logger())
			report := demo.BuildReport(results)

			if opts.jsonOutput {
				return writeJSON(w, report)
			}

			for i, r := range results {
				s := scenarios[i]
				heading.Fprintf(w, "%s\n", s.Title)
				fmt.Fprintf(w, "  query:    %s\n", s.Query)
				fmt.Fprintf(w, "  expected: %s\n", strings.Join(s.ExpectedDataSources, ", "))
				switch {
				case !r.Success:
					bad.Fprintf(w, "  failed:   %s\n", r.Error)
				case r.SourcesMatched:
					good.Fprintf(w, "  used:     %s\n", strings.Join(r.UsedSources, ", "))
				default:
					warn.Fprintf(w, "  used:     %s\n", strings.Join(r.UsedSources, ", "))
				}
			}

			heading.Fprintln(w, "Demo report")
			fmt.Fprintf(w, "  total scenarios:       %d\n", report.TotalScenarios)
			fmt.Fprintf(w, "  successful:            %d (%.1f%%)\n", report.SuccessfulScenarios, report.SuccessRate)
			fmt.Fprintf(w, "  with data integration: %d (%.1f%%)\n", report.ScenariosWithSources, report.DataIntegrationRate)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scenarioID, "scenario", "s", "", "run a single scenario by id")
	cmd.Flags().BoolVar(&list, "list", false, "list scenarios without running them")
	return cmd
}
