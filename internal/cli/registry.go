// internal/cli/registry.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"agri-advisory-workers/internal/common/validation"
	"agri-advisory-workers/pkg/registry"
)

func newRegistryCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Work with the activity registry",
	}
	cmd.AddCommand(newRegistryValidateCommand(opts))
	return cmd
}

func newRegistryValidateCommand(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the activity registry and compile its input schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				reg *registry.ActivityRegistry
				err error
			)
			if file != "" {
				reg, err = registry.LoadRegistry(file)
			} else {
				reg, err = registry.Default()
			}
			if err != nil {
				return err
			}

			problems := reg.Check()
			if _, err := validation.NewValidator(reg); err != nil {
				problems = append(problems, err)
			}

			w := cmd.OutOrStdout()
			if len(problems) > 0 {
				for _, p := range problems {
					bad.Fprintf(w, "  %v\n", p)
				}
				return fmt.Errorf("registry has %d problem(s)", len(problems))
			}

			good.Fprintf(w, "registry v%s OK: %d activities\n", reg.Version, len(reg.Activities))
			for _, a := range reg.Activities {
				fmt.Fprintf(w, "  %-22s timeout=%s retries=%d errors=%v\n", a.TaskType, a.Timeout, a.Retries, a.ErrorCodes)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "registry JSON file (defaults to the built-in registry)")
	return cmd
}
