package function

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ignitionstack/fnctl/internal/di"
	"github.com/ignitionstack/fnctl/internal/services"
	"github.com/ignitionstack/fnctl/internal/ui"
	"github.com/ignitionstack/fnctl/internal/ui/operations"
	"github.com/ignitionstack/fnctl/pkg/types"
	"github.com/spf13/cobra"
)

// ContainerFunc returns the service container built by the root command
type ContainerFunc func() (*di.Container, error)

func parseFunctionID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid function id %q: expected a positive integer", arg)
	}
	return id, nil
}

// addFieldFlags registers one flag per editable function field
func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String(services.FieldName, "", "Function name")
	cmd.Flags().String(services.FieldRoute, "", "Route the function is served on, e.g. /hello")
	cmd.Flags().String(services.FieldLanguage, "", "Runtime language, e.g. python")
	cmd.Flags().Int(services.FieldTimeout, 0, "Execution timeout in seconds")
	cmd.Flags().String(services.FieldFilename, "", "Source file name")
}

// changedFields returns the field flags set on the command line, in
// services.EditableFields order
func changedFields(cmd *cobra.Command) [][2]string {
	var fields [][2]string
	for _, field := range services.EditableFields {
		flag := cmd.Flags().Lookup(field)
		if flag == nil || !flag.Changed {
			continue
		}
		fields = append(fields, [2]string{field, flag.Value.String()})
	}
	return fields
}

// draftFields lists every field of a draft by name
func draftFields(draft types.FunctionDraft) [][2]string {
	return [][2]string{
		{services.FieldName, draft.Name},
		{services.FieldRoute, draft.Route},
		{services.FieldLanguage, draft.Language},
		{services.FieldTimeout, strconv.Itoa(draft.Timeout)},
		{services.FieldFilename, draft.Filename},
	}
}

// loadCatalog refreshes the catalog, falling back to the cached snapshot
// when the backend cannot be reached
func loadCatalog(ctx context.Context, registry *services.RegistryClient) error {
	err := operations.WithSpinner("Loading functions...", func() (interface{}, error) {
		return nil, registry.Load(ctx)
	}, nil)
	if err == nil {
		return nil
	}

	if registry.Restore() {
		ui.PrintWarning(fmt.Sprintf("Could not reach the backend, showing cached catalog (%v)", err))
		return nil
	}
	return err
}

func functionTable(functions []types.Function) *ui.Table {
	table := ui.NewTable([]string{"ID", "NAME", "ROUTE", "LANGUAGE", "TIMEOUT", "FILENAME"})
	for _, fn := range functions {
		table.AddRow(
			strconv.Itoa(fn.ID),
			fn.Name,
			fn.Route,
			fn.Language,
			fmt.Sprintf("%ds", fn.Timeout),
			fn.Filename,
		)
	}
	return table
}

// RenderFunctions prints the catalog as a table
func RenderFunctions(functions []types.Function, plain bool) {
	if len(functions) == 0 {
		if !plain {
			ui.PrintEmptyState("No functions registered yet. Create one with 'fnctl function create'.")
		}
		return
	}

	table := functionTable(functions)
	if plain {
		fmt.Fprint(ui.Output, ui.RenderPlainTable(table))
		return
	}
	fmt.Fprint(ui.Output, ui.RenderTable(table))
}
