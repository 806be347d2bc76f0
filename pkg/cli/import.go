package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/carering/pkg/layout"
	"github.com/dshills/carering/pkg/profile"
	"github.com/dshills/carering/pkg/storage"
	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	var (
		userID  string
		force   bool
		arrange bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a layout from YAML or a backend JSON payload",
		Long: `Import a layout file into the store.

YAML files are read in the format written by export. JSON files may be
any of the backend's layout payloads:
  - customization: {"backgroundUrl": ..., "widgets": [...]}
  - layout:        {"layout": [...]}
  - save request:  {"user_id": ..., "layout": [...]}
  - a bare widget array

Fractional coordinates are rounded and widgets without an ID get one.

Examples:
  carering import layout.yaml
  carering import response.json --user user-42 --arrange`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, shape, err := readLayoutFile(args[0])
			if err != nil {
				return err
			}

			if userID != "" {
				c.UserID = userID
			}
			if c.UserID == "" {
				return fmt.Errorf("%s does not name a user; pass --user", args[0])
			}

			if err := c.Validate(); err != nil {
				return fmt.Errorf("invalid layout: %w", err)
			}

			if arrange {
				canvas, err := newCanvas(c)
				if err != nil {
					return err
				}
				canvas.AutoArrange()
				c = canvas.Customization()
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			if _, err := repo.Load(c.UserID); err == nil && !force {
				return fmt.Errorf("layout already exists for %s (use --force to replace it)", c.UserID)
			} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}

			if err := repo.Save(c); err != nil {
				return fmt.Errorf("failed to save layout: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d widgets for %s (%s)\n", len(c.Widgets), c.UserID, shape)
			if overlaps := layout.FindOverlaps(c.Widgets); len(overlaps) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "⚠ %d overlapping pair(s); run 'carering arrange %s' to fix\n", len(overlaps), c.UserID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (default: from the file)")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing layout")
	cmd.Flags().BoolVar(&arrange, "arrange", false, "Re-pack widgets after import")

	return cmd
}

// readLayoutFile loads a customization from YAML or any backend JSON
// payload, choosing by file extension
func readLayoutFile(path string) (*profile.Customization, profile.PayloadShape, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, "", fmt.Errorf("file not found: %s", path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		c, err := profile.ParseYAML(data)
		if err != nil {
			return nil, "", err
		}
		return c, "yaml", nil
	default:
		return profile.ImportPayload(data)
	}
}
