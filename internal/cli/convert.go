package cli

import (
	"github.com/spf13/cobra"

	stepio "github.com/matzehuels/stepflow/pkg/io"
)

// convertCommand creates the convert command, which rewrites a record in
// another serialization format.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a process record between JSON, YAML and TOML",
		Long: `Convert a process record between JSON, YAML and TOML. Formats are taken
from the file extensions. Schema problems in the input are reported but do
not stop the conversion.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, diags, err := stepio.ImportFile(args[0])
			if err != nil {
				return err
			}
			if err := stepio.ExportFile(rec, args[1]); err != nil {
				return err
			}
			printSuccess("Converted %s", args[0])
			printFile(args[1])
			printDiagnostics(diags)
			return nil
		},
	}
}
