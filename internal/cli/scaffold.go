package cli

import (
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/policystack/stackdoc/internal/scaffold"
)

var elementNameRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func newScaffoldCommand() *cobra.Command {
	var templateDir, stackDir string

	cmd := &cobra.Command{
		Use:   "scaffold <name>",
		Short: "Create a new stack element from the template",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]
			if !elementNameRe.MatchString(name) {
				return fmt.Errorf("element name %q must be lowercase hyphen-separated ([a-z0-9-])", name)
			}
			if err := scaffold.Instantiate(templateDir, stackDir, name); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Created element %s under %s\n", name, stackDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&templateDir, "template-dir", "template", "Directory holding the element template")
	cmd.Flags().StringVar(&stackDir, "stack-dir", "stack", "Directory containing stack elements")
	return cmd
}
