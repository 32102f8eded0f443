package cmd

import (
	"github.com/ignitionstack/fnctl/cmd/function"
	"github.com/spf13/cobra"
)

var functionCmd = &cobra.Command{
	Use:     "function",
	Aliases: []string{"fn"},
	Short:   "Manage function definitions",
	Long: `Commands for working with the function catalog of the backend.

A function is a named route bound to a runtime language, a timeout in seconds
and an optional source file. This command group lists, creates, edits, deletes
and exports function definitions.`,
}

func init() {
	functionCmd.AddCommand(function.NewFunctionListCommand(getContainer))
	functionCmd.AddCommand(function.NewFunctionCreateCommand(getContainer))
	functionCmd.AddCommand(function.NewFunctionEditCommand(getContainer))
	functionCmd.AddCommand(function.NewFunctionDeleteCommand(getContainer))
	functionCmd.AddCommand(function.NewFunctionExportCommand(getContainer))
}
