package function

import (
	"errors"
	"fmt"

	"github.com/ignitionstack/fnctl/internal/config"
	"github.com/ignitionstack/fnctl/internal/ui"
	"github.com/ignitionstack/fnctl/internal/ui/forms"
	"github.com/ignitionstack/fnctl/internal/ui/operations"
	"github.com/ignitionstack/fnctl/pkg/manifest"
	"github.com/spf13/cobra"
)

func NewFunctionCreateCommand(getContainer ContainerFunc) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new function",
		Long: `Register a new function on the backend.

The definition starts from the defaults (language python, timeout 5 seconds),
is optionally loaded from a YAML or TOML manifest with --from, and is then
overridden by any field flags. Without flags or a manifest an interactive form
is shown. The definition is sent as is; the backend decides whether it is valid.`,
		Example: `  # Interactive form
  fnctl function create

  # From flags
  fnctl function create --name hello --route /hello --filename hello.py

  # From a manifest, overriding the timeout
  fnctl function create --from hello.toml --timeout 10`,
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

			if from != "" {
				m, err := manifest.Load(from)
				if err != nil {
					return err
				}
				registry.SetDraft(m.Draft())
			}

			fields := changedFields(cmd)
			for _, field := range fields {
				if err := registry.SetDraftField(field[0], field[1]); err != nil {
					return err
				}
			}

			if from == "" && len(fields) == 0 && !config.Plain {
				draft := registry.Draft()
				if err := forms.EditFunction("New function", &draft); err != nil {
					if errors.Is(err, forms.ErrAborted) {
						ui.PrintWarning("Creation cancelled")
						return nil
					}
					return err
				}
				registry.SetDraft(draft)
			}

			name := registry.Draft().Name
			err = operations.WithSpinner("Creating function...", func() (interface{}, error) {
				return nil, registry.Create(cmd.Context())
			}, nil)
			if err != nil {
				return err
			}

			if config.Plain {
				return nil
			}
			ui.PrintSuccess(fmt.Sprintf("Function %q created", name))
			RenderFunctions(registry.Functions(), false)
			return nil
		},
	}

	addFieldFlags(cmd)
	cmd.Flags().StringVarP(&from, "from", "f", "", "Read the definition from a YAML or TOML manifest")
	return cmd
}
