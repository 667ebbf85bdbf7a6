// internal/cli/submit.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"agri-advisory-workers/internal/common/camunda"
)

func newSubmitCommand(opts *options) *cobra.Command {
	var (
		processID string
		language  string
	)

	cmd := &cobra.Command{
		Use:   "submit <query...>",
		Short: "Start an advisory process instance on the Zeebe broker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath == "" {
				return fmt.Errorf("--config is required to reach the broker")
			}
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			client, err := camunda.NewClient(cfg.Camunda.BrokerAddress)
			if err != nil {
				return err
			}
			defer client.Close()

			key, err := client.StartProcess(cmd.Context(), processID, map[string]interface{}{
				"queryText": strings.Join(args, " "),
				"language":  language,
			})
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"processId":          processID,
					"processInstanceKey": key,
				})
			}
			good.Fprintf(cmd.OutOrStdout(), "started %s instance %d\n", processID, key)
			return nil
		},
	}

	cmd.Flags().StringVar(&processID, "process", "farm-advisory", "BPMN process id")
	cmd.Flags().StringVarP(&language, "language", "l", "en", "language tag passed to the process")
	return cmd
}
