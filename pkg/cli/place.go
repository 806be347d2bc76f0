package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/carering/pkg/geometry"
	"github.com/dshills/carering/pkg/layout"
	"github.com/dshills/carering/pkg/profile"
	"github.com/spf13/cobra"
)

// placeResult is the JSON printed by the place command
type placeResult struct {
	Position geometry.Position `json:"position"`
	Fallback bool              `json:"fallback"`
}

// NewPlaceCommand creates the place command
func NewPlaceCommand() *cobra.Command {
	var (
		existingPath string
		width        int
		height       int
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Find a free position for a widget of a given size",
		Long: `Print the first free grid position for a new widget without changing
any stored layout. Existing widgets are read from --existing (YAML or any
backend JSON payload); without it the canvas is empty.

Output is JSON: {"position": {"x": .., "y": ..}, "fallback": false}.
fallback is true when no slot fits and the widget goes below the layout.

Examples:
  carering place --existing layout.yaml --width 150 --height 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var existing []profile.Widget
			if existingPath != "" {
				c, _, err := readLayoutFile(existingPath)
				if err != nil {
					return err
				}
				if err := c.Validate(); err != nil {
					return fmt.Errorf("invalid layout in %s: %w", existingPath, err)
				}
				existing = c.Widgets
			}

			size := geometry.NewSize(width, height)
			if !size.Valid() {
				return fmt.Errorf("size must be positive, got %dx%d", width, height)
			}

			p := layout.FindPlacement(existing, size, settings.Canvas.Width, settings.Canvas.Height, settings.Canvas.GridSize)

			output, err := json.Marshal(placeResult{Position: p.Position, Fallback: p.Fallback})
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		},
	}

	cmd.Flags().StringVar(&existingPath, "existing", "", "Layout file with the widgets already placed")
	cmd.Flags().IntVar(&width, "width", 150, "Widget width")
	cmd.Flags().IntVar(&height, "height", 100, "Widget height")

	return cmd
}
