package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dshills/carering/pkg/profile"
	"github.com/dshills/carering/pkg/validation"
	"go.uber.org/zap"
)

// Sentinel errors returned by repositories
var (
	ErrNotFound         = errors.New("customization not found")
	ErrInvalidUserID    = errors.New("invalid user ID")
	ErrNilCustomization = errors.New("cannot save nil customization")
)

// Store kinds accepted by Open
const (
	KindSQLite = "sqlite"
	KindFile   = "file"
)

// Repository persists one customization per user plus the history of
// previously saved versions.
type Repository interface {
	// Save stores the customization, replacing any previous one for the
	// same user, and appends a history snapshot.
	Save(c *profile.Customization) error
	Load(userID string) (*profile.Customization, error)
	Delete(userID string) error
	List() ([]*profile.Customization, error)
	// History returns saved snapshots, newest first. A limit <= 0
	// returns all of them.
	History(userID string, limit int) ([]*profile.Customization, error)
	Close() error
}

// Open creates the repository of the given kind rooted at configDir
func Open(kind, configDir string, logger *zap.Logger) (Repository, error) {
	switch kind {
	case KindSQLite, "":
		return NewSQLiteCustomizationRepositoryWithPath(filepath.Join(configDir, "carering.db"), logger)
	case KindFile:
		return NewFilesystemCustomizationRepositoryWithPath(configDir, logger)
	default:
		return nil, fmt.Errorf("unknown store kind %q (expected %s or %s)", kind, KindSQLite, KindFile)
	}
}

// validateUserID rejects IDs that are empty or cannot be used as a file name
func validateUserID(userID string) error {
	if err := validation.FileName(userID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUserID, err)
	}
	return nil
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
