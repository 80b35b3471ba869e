// Package cli wires the stackdoc commands: generate, check and scaffold.
package cli

import "github.com/spf13/cobra"

// NewRootCommand builds the stackdoc command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "stackdoc",
		Short: "Generate markdown documentation for PolicyStack elements",
		Long: `stackdoc parses the values.yaml of every element under the stack
directory, extracts @description/@desc comment annotations at any nesting
level, and renders cross-referenced markdown documentation per element plus
an index.`,
		SilenceUsage: true,
	}

	root.AddCommand(newGenerateCommand())
	root.AddCommand(newCheckCommand())
	root.AddCommand(newScaffoldCommand())
	return root
}
