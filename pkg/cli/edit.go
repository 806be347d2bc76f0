package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/carering/pkg/geometry"
	"github.com/dshills/carering/pkg/layout"
	"github.com/dshills/carering/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// NewAddCommand creates the add command
func NewAddCommand() *cobra.Command {
	var (
		width  int
		height int
		sets   []string
	)

	cmd := &cobra.Command{
		Use:   "add <user-id> <widget-type>",
		Short: "Add a widget at the first free slot",
		Long: `Add a widget to a user's layout.

The widget is placed at the first grid position, scanning rows top to
bottom, where it does not overlap any other widget. When the canvas is
full it is placed below the lowest widget.

Widget types: ` + joinTypes() + `

Examples:
  carering add user-42 image --set imageUrl=https://cdn.example.com/a.png
  carering add user-42 divider --width 340 --height 20 --set color=#cccccc
  carering add user-42 customText --set text="Hello there"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			widgetType := profile.WidgetType(args[1])
			if !widgetType.Known() {
				return fmt.Errorf("unknown widget type: %s\n\nKnown types: %s", widgetType, joinTypes())
			}

			patch, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			var cfg profile.Config
			if len(patch) > 0 {
				cfg, err = profile.MergeConfig(widgetType, profile.NewConfig(widgetType), patch)
				if err != nil {
					return fmt.Errorf("invalid config: %w", err)
				}
			}

			size := requestedSize(width, height)

			var added profile.Widget
			_, err = editLayout(userID, func(canvas *layout.Canvas) error {
				added, err = canvas.AddWidget(widgetType, cfg, size)
				return err
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s widget %s at (%d, %d)\n",
				added.Type, added.ID, added.Position.X, added.Position.Y)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Widget width (default: from config.yaml)")
	cmd.Flags().IntVar(&height, "height", 0, "Widget height (default: from config.yaml)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Config value as key=value (repeatable)")

	return cmd
}

// NewMoveCommand creates the move command
func NewMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <user-id> <widget-id> <x> <y>",
		Short: "Drag a widget to a new position",
		Long: `Move a widget as if it had been dragged and dropped at (x, y).

The position is clamped to the canvas. If the widget would overlap
another one it is moved to the first free slot instead. The final
position is snapped to the grid.

Examples:
  carering move user-42 about 0 300`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, widgetID := args[0], profile.WidgetID(args[1])
			x, y, err := parsePair(args[2], args[3], "position")
			if err != nil {
				return err
			}

			var landed geometry.Position
			_, err = editLayout(userID, func(canvas *layout.Canvas) error {
				landed, err = canvas.MoveWidget(widgetID, geometry.NewPosition(x, y))
				return err
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Moved %s to (%d, %d)\n", widgetID, landed.X, landed.Y)
			return nil
		},
	}
}

// NewResizeCommand creates the resize command
func NewResizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <user-id> <widget-id> <width> <height>",
		Short: "Resize a widget",
		Long: `Resize a widget. The size is raised to the configured minimum, limited
to the canvas edge, and snapped to the grid. A widget that then overlaps
another one is moved to the first free slot.

Examples:
  carering resize user-42 posts 340 400`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, widgetID := args[0], profile.WidgetID(args[1])
			w, h, err := parsePair(args[2], args[3], "size")
			if err != nil {
				return err
			}

			var resized profile.Widget
			_, err = editLayout(userID, func(canvas *layout.Canvas) error {
				resized, err = canvas.ResizeWidget(widgetID, geometry.NewSize(w, h))
				return err
			})
			if err != nil {
				return err
			}

			size := resized.EffectiveSize()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Resized %s to %dx%d at (%d, %d)\n",
				widgetID, size.Width, size.Height, resized.Position.X, resized.Position.Y)
			return nil
		},
	}
}

// NewArrangeCommand creates the arrange command
func NewArrangeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "arrange <user-id>",
		Short: "Re-pack all widgets without overlaps",
		Long: `Place every widget again, in layout order, at the first free slot.
This removes all overlaps left by imports or manual edits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arranged []profile.Widget
			_, err := editLayout(args[0], func(canvas *layout.Canvas) error {
				arranged = canvas.AutoArrange()
				return nil
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Arranged %d widgets\n", len(arranged))
			return nil
		},
	}
}

// NewRemoveCommand creates the remove command
func NewRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <user-id> <widget-id>",
		Short: "Remove a widget",
		Long: `Remove a widget from the layout. The core sections (profileCard, about,
healthSummary, posts) cannot be removed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			widgetID := profile.WidgetID(args[1])
			_, err := editLayout(args[0], func(canvas *layout.Canvas) error {
				return canvas.RemoveWidget(widgetID)
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", widgetID)
			return nil
		},
	}
}

// NewSetCommand creates the set command
func NewSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <user-id> <widget-id> <key=value>...",
		Short: "Update widget configuration",
		Long: `Merge key=value pairs into a widget's configuration. Values that parse as
JSON (numbers, true/false, arrays, objects, null) keep their type; other
values are strings. A null value removes the key.

Examples:
  carering set user-42 about text="Runner, reader"
  carering set user-42 profileCard followerCount=120`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			widgetID := profile.WidgetID(args[1])
			patch, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}

			_, err = editLayout(args[0], func(canvas *layout.Canvas) error {
				_, err := canvas.UpdateConfig(widgetID, patch)
				return err
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %d config value(s) on %s\n", len(patch), widgetID)
			return nil
		},
	}
}

// NewBackgroundCommand creates the background command
func NewBackgroundCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "background <user-id> <url>",
		Short: "Set the layout background image",
		Long: `Set the background image URL of a layout. Pass an empty string to
remove it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := editLayout(args[0], func(canvas *layout.Canvas) error {
				return canvas.SetBackground(args[1])
			})
			if err != nil {
				return err
			}

			if args[1] == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Background removed")
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Background set to %s\n", args[1])
			}
			return nil
		},
	}
}

// NewResetCommand creates the reset command
func NewResetCommand() *cobra.Command {
	var toDefault bool

	cmd := &cobra.Command{
		Use:   "reset <user-id>",
		Short: "Restore the previously saved layout",
		Long: `Restore the layout saved before the most recent change. With --default
the layout is replaced by the starting layout created by init.

Examples:
  carering reset user-42
  carering reset user-42 --default`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			current, err := repo.Load(userID)
			if err != nil {
				return err
			}

			var restored *profile.Customization
			if toDefault {
				restored = current.Clone()
				restored.Widgets = profile.DefaultLayout(settings.Canvas.Width)
			} else {
				history, err := repo.History(userID, 2)
				if err != nil {
					return fmt.Errorf("failed to read layout history: %w", err)
				}
				if len(history) < 2 {
					return fmt.Errorf("no previous layout saved for %s", userID)
				}
				restored = history[1]
				restored.UserID = userID
			}

			if err := repo.Save(restored); err != nil {
				return fmt.Errorf("failed to save layout: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Restored layout for %s (%d widgets)\n", userID, len(restored.Widgets))
			return nil
		},
	}

	cmd.Flags().BoolVar(&toDefault, "default", false, "Restore the starting layout instead of the previous one")

	return cmd
}

// parseAssignments turns key=value arguments into a config patch
func parseAssignments(pairs []string) (map[string]interface{}, error) {
	patch := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected key=value", pair)
		}
		patch[strings.TrimSpace(key)] = parseValue(raw)
	}
	return patch, nil
}

// parseValue keeps JSON scalars and containers typed and treats anything
// else as a plain string
func parseValue(raw string) interface{} {
	if raw != "" && gjson.Valid(raw) {
		return gjson.Parse(raw).Value()
	}
	return raw
}

// parsePair parses two integer arguments
func parsePair(a, b, what string) (int, int, error) {
	first, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid %s %q: %w", what, a, err)
	}
	second, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid %s %q: %w", what, b, err)
	}
	return first, second, nil
}

// requestedSize resolves the --width/--height flags against the configured
// default widget size. Nil means profile.DefaultSize.
func requestedSize(width, height int) *geometry.Size {
	def := settings.Canvas.DefaultWidgetSize
	if width == 0 && height == 0 && def == profile.DefaultSize {
		return nil
	}
	if width == 0 {
		width = def.Width
	}
	if height == 0 {
		height = def.Height
	}
	size := geometry.NewSize(width, height)
	return &size
}

func joinTypes() string {
	types := profile.KnownTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
