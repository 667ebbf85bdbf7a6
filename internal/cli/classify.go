// internal/cli/classify.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"agri-advisory-workers/internal/advisory/classifier"
	"agri-advisory-workers/internal/models"
)

func newClassifyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <query...>",
		Short: "Derive query type, location and crop from a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qc := classifier.Classify(strings.Join(args, " "))
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), qc)
			}
			printContext(cmd, qc)
			return nil
		},
	}
}

func printContext(cmd *cobra.Command, qc models.QueryContext) {
	w := cmd.OutOrStdout()
	heading.Fprintln(w, "Query context")
	fmt.Fprintf(w, "  type:     %s\n", qc.QueryType)
	if qc.Location != nil {
		fmt.Fprintf(w, "  location: %s, %s\n", qc.Location.District, qc.Location.State)
	} else {
		fmt.Fprintln(w, "  location: -")
	}
	if qc.Crop != "" {
		fmt.Fprintf(w, "  crop:     %s\n", qc.Crop)
	} else {
		fmt.Fprintln(w, "  crop:     -")
	}
}
