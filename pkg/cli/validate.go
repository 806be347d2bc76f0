package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/carering/pkg/geometry"
	"github.com/dshills/carering/pkg/layout"
	"github.com/dshills/carering/pkg/profile"
	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a layout file",
		Long: `Validate a layout file for correctness.

This checks:
- File syntax (and the customization JSON schema for .json files)
- Widget IDs, sizes and configuration
- Widgets inside the canvas width
- No overlapping widgets

Examples:
  carering validate layout.yaml
  carering validate payload.json --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			c, _, err := readLayoutFile(path)
			if err != nil {
				_, _ = fmt.Fprintln(cmd.OutOrStderr(), "✗ Failed to parse layout file")
				if verbose {
					_, _ = fmt.Fprintf(cmd.OutOrStderr(), "  Error: %v\n", err)
				}
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Layout parsed successfully")

			if strings.EqualFold(filepath.Ext(path), ".json") {
				// The schema describes the customization route; check the
				// normalized form so every payload shape is covered
				data, err := c.EncodeJSON()
				if err != nil {
					return err
				}
				if err := profile.ValidateAgainstSchema(data); err != nil {
					_, _ = fmt.Fprintln(cmd.OutOrStderr(), "✗ Schema validation failed")
					if verbose {
						_, _ = fmt.Fprintf(cmd.OutOrStderr(), "  Error: %v\n", err)
					}
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Matches customization schema")
			}

			if err := c.Validate(); err != nil {
				_, _ = fmt.Fprintln(cmd.OutOrStderr(), "✗ Widget validation failed")
				if verbose {
					_, _ = fmt.Fprintf(cmd.OutOrStderr(), "  Error: %v\n", err)
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %d widgets valid\n", len(c.Widgets))

			unknown := 0
			for _, w := range c.Widgets {
				if !w.Type.Known() {
					unknown++
					if verbose {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Unknown widget type: %s (%s)\n", w.Type, w.ID)
					}
				}
			}
			if unknown > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "⚠ %d widget(s) of unknown type (kept as is)\n", unknown)
			}

			bounds := geometry.Bounds{MaxWidth: settings.Canvas.Width, MaxHeight: maxBottom(c.Widgets, settings.Canvas.Height)}
			outside := 0
			for _, w := range c.Widgets {
				if !w.Rect().Within(bounds) {
					outside++
					if verbose {
						_, _ = fmt.Fprintf(cmd.OutOrStderr(), "  Outside canvas: %s at (%d, %d)\n", w.ID, w.Position.X, w.Position.Y)
					}
				}
			}
			if outside > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStderr(), "✗ %d widget(s) outside the %d unit canvas width\n", outside, settings.Canvas.Width)
				return fmt.Errorf("layout has widgets outside the canvas")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ All widgets inside the canvas")

			overlaps := layout.FindOverlaps(c.Widgets)
			if len(overlaps) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStderr(), "✗ %d overlapping widget pair(s)\n", len(overlaps))
				if verbose {
					for _, o := range overlaps {
						_, _ = fmt.Fprintf(cmd.OutOrStderr(), "  %s overlaps %s\n", o.A, o.B)
					}
				}
				return fmt.Errorf("layout has overlapping widgets")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ No overlapping widgets")

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "\n✓ Layout validation passed")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed validation information")

	return cmd
}

// maxBottom returns the lowest widget edge, at least floor. Layouts grow
// downward past the canvas height when full, so only the width is fixed.
func maxBottom(widgets []profile.Widget, floor int) int {
	bottom := floor
	for _, w := range widgets {
		if b := w.Rect().Bottom(); b > bottom {
			bottom = b
		}
	}
	return bottom
}
