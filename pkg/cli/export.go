package cli

import (
	"fmt"
	"os"

	"github.com/dshills/carering/pkg/profile"
	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	var (
		outputPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "export <user-id>",
		Short: "Export a layout to YAML or backend JSON",
		Long: `Export a user's layout.

The default YAML format can be read back with import. The json format is
the customization payload the backend stores:
{"backgroundUrl": ..., "widgets": [...]}.

Examples:
  # Export to stdout
  carering export user-42

  # Export backend JSON to a file
  carering export user-42 --format json -o layout.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCustomization(args[0])
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "yaml", "":
				data, err = profile.Export(c)
			case "json":
				data, err = c.EncodeJSON()
				data = append(data, '\n')
			default:
				return fmt.Errorf("unknown format %q (expected yaml or json)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to export layout: %w", err)
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Layout exported successfully to: %s\n", outputPath)
			} else {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (yaml, json)")

	return cmd
}
