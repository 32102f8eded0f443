package function

import (
	"errors"
	"fmt"

	"github.com/ignitionstack/fnctl/internal/config"
	"github.com/ignitionstack/fnctl/internal/ui"
	"github.com/ignitionstack/fnctl/internal/ui/forms"
	"github.com/ignitionstack/fnctl/internal/ui/operations"
	"github.com/spf13/cobra"
)

func NewFunctionEditCommand(getContainer ContainerFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit an existing function",
		Long: `Edit the definition of an existing function.

Fields given as flags are changed and everything else is kept. Without field
flags an interactive form prefilled with the current definition is shown;
leaving the form discards the changes without contacting the backend.`,
		Example: `  # Interactive form
  fnctl function edit 3

  # Change only the timeout
  fnctl function edit 3 --timeout 30`,
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
			if err := registry.BeginEdit(id); err != nil {
				return err
			}

			fields := changedFields(cmd)
			if len(fields) == 0 && !config.Plain {
				session, _ := registry.EditSession()
				draft := session.Draft
				if err := forms.EditFunction(fmt.Sprintf("Edit function %d", id), &draft); err != nil {
					registry.CancelEdit()
					if errors.Is(err, forms.ErrAborted) {
						ui.PrintWarning("Edit cancelled")
						return nil
					}
					return err
				}
				fields = draftFields(draft)
			}

			for _, field := range fields {
				if err := registry.UpdateEditField(field[0], field[1]); err != nil {
					registry.CancelEdit()
					return err
				}
			}

			err = operations.WithSpinner("Saving function...", func() (interface{}, error) {
				return nil, registry.SaveEdit(cmd.Context())
			}, nil)
			if err != nil {
				return err
			}

			if !config.Plain {
				ui.PrintSuccess(fmt.Sprintf("Function %d updated", id))
			}
			return nil
		},
	}

	addFieldFlags(cmd)
	return cmd
}
