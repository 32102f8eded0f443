package function

import (
	"github.com/ignitionstack/fnctl/internal/config"
	"github.com/spf13/cobra"
)

func NewFunctionListCommand(getContainer ContainerFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all functions",
		Long: `List every function registered on the backend with its route, language,
timeout and source file.

When the backend cannot be reached the last catalog fetched by this machine
is shown instead, with a warning.`,
		Example: `  # List all functions
  fnctl function list

  # List in plain format (useful for scripting)
  fnctl function list --plain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			RenderFunctions(registry.Functions(), config.Plain)
			return nil
		},
	}

	return cmd
}
