package function

import (
	"fmt"
	"os"

	"github.com/ignitionstack/fnctl/internal/config"
	"github.com/ignitionstack/fnctl/internal/ui"
	fnerrors "github.com/ignitionstack/fnctl/pkg/errors"
	"github.com/ignitionstack/fnctl/pkg/manifest"
	"github.com/spf13/cobra"
)

func NewFunctionExportCommand(getContainer ContainerFunc) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a function as a manifest",
		Long: `Write the definition of a function as a YAML or TOML manifest that
'fnctl function create --from' can read back.

The format follows the extension of --output when given, otherwise --format.`,
		Example: `  fnctl function export 3
  fnctl function export 3 --format toml
  fnctl function export 3 -o hello.yaml`,
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

			fn, ok := registry.Lookup(id)
			if !ok {
				return fnerrors.AsOperationError(fnerrors.ErrFunctionNotInCatalog, "export", id)
			}

			if output != "" && !cmd.Flags().Changed("format") {
				if f := manifest.FormatFromPath(output); f != "" {
					format = f
				}
			}

			m := manifest.FromFunction(fn)
			data, err := m.Marshal(format)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = ui.Output.Write(data)
				return err
			}

			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write manifest: %w", err)
			}
			if !config.Plain {
				ui.PrintSuccess(fmt.Sprintf("Function %d exported to %s", id, output))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", manifest.FormatYAML, "Manifest format (yaml or toml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
