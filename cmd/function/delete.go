package function

import (
	"fmt"

	"github.com/ignitionstack/fnctl/internal/config"
	"github.com/ignitionstack/fnctl/internal/ui"
	"github.com/ignitionstack/fnctl/internal/ui/forms"
	"github.com/ignitionstack/fnctl/internal/ui/operations"
	"github.com/spf13/cobra"
)

func NewFunctionDeleteCommand(getContainer ContainerFunc) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Delete a function",
		Long: `Delete a function from the backend.

The function must be in the catalog. A confirmation is asked unless --yes or
--plain is given.`,
		Example: `  fnctl function delete 3
  fnctl function delete 3 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFunctionID(args[0])
			if err != nil {
				return err
			}

			c, err := getContainer()
			if err != nil {
				return err
			}
			registry, err := c.GetRegistryClient()
			if err != nil {
				return err
			}

			if err := loadCatalog(cmd.Context(), registry); err != nil {
				return err
			}

			if !yes && !config.Plain {
				fn, ok := registry.Lookup(id)
				if ok {
					confirmed, err := forms.Confirm(fmt.Sprintf("Delete function %d (%s)?", id, fn.Name))
					if err != nil {
						return err
					}
					if !confirmed {
						ui.PrintWarning("Deletion cancelled")
						return nil
					}
				}
			}

			err = operations.WithSpinner("Deleting function...", func() (interface{}, error) {
				return nil, registry.Delete(cmd.Context(), id)
			}, nil)
			if err != nil {
				return err
			}

			if !config.Plain {
				ui.PrintSuccess(fmt.Sprintf("Function %d deleted", id))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
