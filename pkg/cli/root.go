package cli

import (
	"errors"
	"fmt"

	"github.com/dshills/carering/pkg/config"
	lerrors "github.com/dshills/carering/pkg/errors"
	"github.com/dshills/carering/pkg/layout"
	"github.com/dshills/carering/pkg/profile"
	"github.com/dshills/carering/pkg/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// Version is the current version of carering
	Version = "1.0.0"
)

// Config holds the global flags of the carering CLI
type Config struct {
	ConfigDir string
	Debug     bool
	Store     string
}

// GlobalConfig is the shared configuration instance
var GlobalConfig = &Config{}

var (
	// settings is the parsed config.yaml, loaded before every command
	settings = config.Default()
	logger   = zap.NewNop()
)

// NewRootCommand creates the root cobra command for carering
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carering",
		Short: "carering - profile layout editor",
		Long: `carering edits free-form profile layouts: widgets placed on a fixed-width
canvas, snapped to a grid, and kept from overlapping. Layouts are stored
per user in a local SQLite database or as YAML files.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			if err := initLogger(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	// Persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVar(&GlobalConfig.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&GlobalConfig.ConfigDir, "config-dir", "", "Configuration directory (default: ~/.carering)")
	cmd.PersistentFlags().StringVar(&GlobalConfig.Store, "store", "", "Layout store: sqlite or file (default: from config.yaml)")

	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewAddCommand())
	cmd.AddCommand(NewMoveCommand())
	cmd.AddCommand(NewResizeCommand())
	cmd.AddCommand(NewArrangeCommand())
	cmd.AddCommand(NewRemoveCommand())
	cmd.AddCommand(NewSetCommand())
	cmd.AddCommand(NewBackgroundCommand())
	cmd.AddCommand(NewResetCommand())
	cmd.AddCommand(NewWidgetsCommand())
	cmd.AddCommand(NewShowCommand())
	cmd.AddCommand(NewImportCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewPlaceCommand())

	return cmd
}

// initConfig resolves the configuration directory and loads config.yaml,
// creating it on first run
func initConfig() error {
	dir, err := config.ResolveDir(GlobalConfig.ConfigDir)
	if err != nil {
		return err
	}
	GlobalConfig.ConfigDir = dir

	cfg, err := config.LoadOrCreate(dir)
	if err != nil {
		return err
	}
	settings = cfg
	return nil
}

// initLogger builds the zap logger; warnings and errors only unless --debug
func initLogger() error {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if GlobalConfig.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := zcfg.Build()
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// storeKind returns the --store flag, falling back to config.yaml
func storeKind() string {
	if GlobalConfig.Store != "" {
		return GlobalConfig.Store
	}
	return settings.Store
}

// openRepository opens the configured layout store
func openRepository() (storage.Repository, error) {
	repo, err := storage.Open(storeKind(), GlobalConfig.ConfigDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout store: %w", err)
	}
	return repo, nil
}

// newCanvas wraps a customization in a canvas using the configured geometry
func newCanvas(c *profile.Customization) (*layout.Canvas, error) {
	return layout.NewCanvas(c, layout.Options{
		Bounds:   settings.Canvas.Bounds(),
		GridSize: settings.Canvas.GridSize,
		MinSize:  settings.Canvas.MinWidgetSize,
		Logger:   logger,
	})
}

// loadCustomization reads a user's layout from the store
func loadCustomization(userID string) (*profile.Customization, error) {
	repo, err := openRepository()
	if err != nil {
		return nil, err
	}
	defer func() { _ = repo.Close() }()

	return repo.Load(userID)
}

// editLayout loads a user's layout, applies edit to a canvas over it and
// saves the result
func editLayout(userID string, edit func(*layout.Canvas) error) (*profile.Customization, error) {
	repo, err := openRepository()
	if err != nil {
		return nil, err
	}
	defer func() { _ = repo.Close() }()

	c, err := repo.Load(userID)
	if err != nil {
		return nil, err
	}

	canvas, err := newCanvas(c)
	if err != nil {
		return nil, err
	}
	if err := edit(canvas); err != nil {
		return nil, err
	}

	updated := canvas.Customization()
	if err := repo.Save(updated); err != nil {
		return nil, lerrors.NewOperationalErrorWithAttrs("saving layout", userID, "", err,
			map[string]interface{}{"store": storeKind(), "widgets": len(updated.Widgets)})
	}
	return updated, nil
}

// Execute runs the root command, logging the context of failed layout
// operations at debug level
func Execute() error {
	err := NewRootCommand().Execute()
	var opErr *lerrors.OperationalError
	if errors.As(err, &opErr) {
		logger.Debug("command failed", opErr.Fields()...)
		_ = logger.Sync()
	}
	return err
}
