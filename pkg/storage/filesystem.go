package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/carering/pkg/profile"
	"go.uber.org/zap"
)

// FilesystemCustomizationRepository implements Repository using YAML files.
// The current layout lives in <base>/layouts/<user>.yaml and every save is
// also copied to <base>/layouts/history/<user>/<unix-nanos>.yaml.
type FilesystemCustomizationRepository struct {
	baseDir string
	logger  *zap.Logger
}

// NewFilesystemCustomizationRepositoryWithPath creates a repository rooted
// at baseDir. It ensures the layouts directory exists.
func NewFilesystemCustomizationRepositoryWithPath(baseDir string, logger *zap.Logger) (*FilesystemCustomizationRepository, error) {
	layoutsDir := filepath.Join(baseDir, "layouts")

	if err := os.MkdirAll(layoutsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create layouts directory: %w", err)
	}

	return &FilesystemCustomizationRepository{
		baseDir: layoutsDir,
		logger:  nopIfNil(logger),
	}, nil
}

// Close is a no-op for the filesystem store.
func (r *FilesystemCustomizationRepository) Close() error {
	return nil
}

// Save writes the customization as YAML and appends a history copy.
// UpdatedAt is stamped on c.
func (r *FilesystemCustomizationRepository) Save(c *profile.Customization) error {
	if c == nil {
		return ErrNilCustomization
	}
	if err := validateUserID(c.UserID); err != nil {
		return err
	}

	now := time.Now().UTC()
	record := *c
	record.UpdatedAt = now

	data, err := profile.Export(&record)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(r.layoutPath(c.UserID), data); err != nil {
		return fmt.Errorf("failed to save customization file: %w", err)
	}

	historyDir := r.historyDir(c.UserID)
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	stamp := now.UnixNano()
	snapshot := filepath.Join(historyDir, strconv.FormatInt(stamp, 10)+".yaml")
	for fileExists(snapshot) {
		stamp++
		snapshot = filepath.Join(historyDir, strconv.FormatInt(stamp, 10)+".yaml")
	}
	if err := writeFileAtomic(snapshot, data); err != nil {
		return fmt.Errorf("failed to record layout history: %w", err)
	}

	c.UpdatedAt = now
	r.logger.Debug("saved customization",
		zap.String("user_id", c.UserID),
		zap.String("path", r.layoutPath(c.UserID)))
	return nil
}

// Load reads the customization for a user.
func (r *FilesystemCustomizationRepository) Load(userID string) (*profile.Customization, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return readCustomization(r.layoutPath(userID), userID)
}

// Delete removes a user's layout file and history.
func (r *FilesystemCustomizationRepository) Delete(userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	filePath := r.layoutPath(userID)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, userID)
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete customization file: %w", err)
	}
	if err := os.RemoveAll(r.historyDir(userID)); err != nil {
		return fmt.Errorf("failed to delete layout history: %w", err)
	}
	return nil
}

// List returns all stored customizations ordered by user ID. Files that
// fail to parse are logged and skipped.
func (r *FilesystemCustomizationRepository) List() ([]*profile.Customization, error) {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read layouts directory: %w", err)
	}

	out := make([]*profile.Customization, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		userID := strings.TrimSuffix(entry.Name(), ".yaml")
		c, err := r.Load(userID)
		if err != nil {
			r.logger.Warn("skipping unreadable layout",
				zap.String("file", entry.Name()),
				zap.Error(err))
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// History returns saved snapshots for a user, newest first.
func (r *FilesystemCustomizationRepository) History(userID string, limit int) ([]*profile.Customization, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.historyDir(userID))
	if os.IsNotExist(err) {
		return []*profile.Customization{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			names = append(names, entry.Name())
		}
	}
	// Names are nanosecond timestamps of equal width until 2262
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	out := make([]*profile.Customization, 0, len(names))
	for _, name := range names {
		c, err := readCustomization(filepath.Join(r.historyDir(userID), name), userID)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *FilesystemCustomizationRepository) layoutPath(userID string) string {
	return filepath.Join(r.baseDir, userID+".yaml")
}

func (r *FilesystemCustomizationRepository) historyDir(userID string) string {
	return filepath.Join(r.baseDir, "history", userID)
}

func readCustomization(path, userID string) (*profile.Customization, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read customization file: %w", err)
	}

	c, err := profile.ParseYAML(data)
	if err != nil {
		return nil, err
	}
	if c.UserID == "" {
		c.UserID = userID
	}
	return c, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeFileAtomic writes to a temp file and renames it into place
func writeFileAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return nil
}
