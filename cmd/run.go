package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ignitionstack/fnctl/internal/config"
	"github.com/ignitionstack/fnctl/internal/ui"
	"github.com/spf13/cobra"
)

func NewRunCommand() *cobra.Command {
	var copyOutput bool

	cmd := &cobra.Command{
		Use:   "run [id]",
		Short: "Run a function",
		Long: `Ask the backend to execute a function once and show its output.

The function ID is sent as given; it does not have to be in the local catalog.
Execution limits are enforced by the backend, so the command waits for as long
as the backend takes. On failure the backend's error detail is shown and the
exit status is non-zero.`,
		Example: `  # Run function 3
  fnctl run 3

  # Run and copy the output to the clipboard
  fnctl run 3 --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid function id %q: expected an integer", args[0])
			}

			c, err := getContainer()
			if err != nil {
				return err
			}
			trigger, err := c.GetExecutionTrigger()
			if err != nil {
				return err
			}

			if !config.Plain {
				fmt.Fprintln(ui.Output, ui.DimStyle.Render(fmt.Sprintf("Running function %d...", id)))
			}

			outcome := trigger.Run(cmd.Context(), id)
			if !outcome.Success {
				return errReported
			}

			if copyOutput {
				if err := ui.CopyToClipboard(outcome.Output); err != nil {
					ui.PrintWarning(err.Error())
				} else if !config.Plain {
					ui.PrintSuccess("Output copied to clipboard")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyOutput, "copy", false, "Copy the output to the clipboard")
	return cmd
}
