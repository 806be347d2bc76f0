package cli

import (
	"errors"
	"fmt"

	"github.com/dshills/carering/pkg/profile"
	"github.com/dshills/carering/pkg/storage"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	var (
		background string
		empty      bool
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init <user-id>",
		Short: "Create the starting layout for a user",
		Long: `Create a new profile layout for a user.

The layout starts with the four core sections (profile card, about,
health summary, posts) stacked in one column across the canvas.

Examples:
  carering init user-42
  carering init user-42 --background https://cdn.example.com/bg.png
  carering init user-42 --empty --force  # Replace with an empty layout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			// Check if a layout already exists
			_, err = repo.Load(userID)
			switch {
			case err == nil && !force:
				return fmt.Errorf("layout already exists for %s (use --force to replace it)", userID)
			case err != nil && !errors.Is(err, storage.ErrNotFound):
				return err
			}

			c := profile.NewCustomization(userID)
			c.BackgroundURL = background
			if !empty {
				c.Widgets = profile.DefaultLayout(settings.Canvas.Width)
			}

			if err := c.Validate(); err != nil {
				return fmt.Errorf("invalid layout: %w", err)
			}
			if err := repo.Save(c); err != nil {
				return fmt.Errorf("failed to save layout: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Created layout for %s with %d widgets\n", userID, len(c.Widgets))
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  1. Add a widget: carering add %s customText --set text=hello\n", userID)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  2. Preview: carering show %s\n", userID)

			return nil
		},
	}

	cmd.Flags().StringVar(&background, "background", "", "Background image URL")
	cmd.Flags().BoolVar(&empty, "empty", false, "Start without the core sections")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing layout")

	return cmd
}
