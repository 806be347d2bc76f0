package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dshills/carering/pkg/filter"
	"github.com/dshills/carering/pkg/layout"
	"github.com/dshills/carering/pkg/preview"
	"github.com/dshills/carering/pkg/profile"
	"github.com/spf13/cobra"
)

// NewWidgetsCommand creates the widgets command
func NewWidgetsCommand() *cobra.Command {
	var (
		where      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "widgets <user-id>",
		Short: "List the widgets of a layout",
		Long: `List the widgets of a user's layout.

Use --where to filter with an expression over the variables id, type, x,
y, width, height, right, bottom and deletable.

Examples:
  carering widgets user-42
  carering widgets user-42 --where 'type == "image" && y > 300'
  carering widgets user-42 --where 'deletable' --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCustomization(args[0])
			if err != nil {
				return err
			}

			widgets := c.Widgets
			if where != "" {
				widgets, err = filter.New().Select(where, widgets)
				if err != nil {
					return err
				}
			}

			if jsonOutput {
				output, err := json.MarshalIndent(widgets, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}

			if len(widgets) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No widgets found")
				return nil
			}
			return printWidgets(cmd.OutOrStdout(), widgets)
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "Filter expression")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	var scale int

	cmd := &cobra.Command{
		Use:   "show <user-id>",
		Short: "Draw a text preview of a layout",
		Long: `Draw a scaled-down preview of a user's layout. Each column covers
--scale layout units and each row twice that. Overlapping areas are
drawn with '#'.

Examples:
  carering show user-42
  carering show user-42 --scale 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCustomization(args[0])
			if err != nil {
				return err
			}

			lines, err := preview.Render(c.Widgets, settings.Canvas.Bounds(), scale)
			if err != nil {
				return err
			}
			for _, line := range lines {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}

			if overlaps := layout.FindOverlaps(c.Widgets); len(overlaps) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n⚠ %d overlapping pair(s); run 'carering arrange %s' to fix\n", len(overlaps), c.UserID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&scale, "scale", preview.DefaultScale, "Layout units per column")

	return cmd
}

// printWidgets writes a widget table
func printWidgets(out io.Writer, widgets []profile.Widget) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTYPE\tX\tY\tWIDTH\tHEIGHT")
	_, _ = fmt.Fprintln(w, "──\t────\t─\t─\t─────\t──────")

	for _, widget := range widgets {
		r := widget.Rect()
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
			widget.ID, widget.Type, r.X, r.Y, r.Width, r.Height)
	}
	return w.Flush()
}
