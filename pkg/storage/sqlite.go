package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/carering/pkg/profile"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteCustomizationRepository implements Repository using SQLite storage.
// Widgets are stored as the backend's JSON wire format in a single column.
type SQLiteCustomizationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteCustomizationRepositoryWithPath opens (or creates) the database
// at dbPath and applies pending migrations.
func NewSQLiteCustomizationRepositoryWithPath(dbPath string, logger *zap.Logger) (*SQLiteCustomizationRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := InitializeDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logger = nopIfNil(logger)
	logger.Debug("opened sqlite store", zap.String("path", dbPath))

	return &SQLiteCustomizationRepository{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (r *SQLiteCustomizationRepository) Close() error {
	return r.db.Close()
}

// Save upserts the customization and records a history snapshot in the
// same transaction. UpdatedAt is stamped on c.
func (r *SQLiteCustomizationRepository) Save(c *profile.Customization) error {
	if c == nil {
		return ErrNilCustomization
	}
	if err := validateUserID(c.UserID); err != nil {
		return err
	}

	widgetsJSON, err := encodeWidgets(c.Widgets)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	query := `
		INSERT INTO profile_customizations (user_id, background_url, widgets_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			background_url = excluded.background_url,
			widgets_json = excluded.widgets_json,
			updated_at = excluded.updated_at
	`
	if _, err := tx.Exec(query, c.UserID, c.BackgroundURL, widgetsJSON, now); err != nil {
		return fmt.Errorf("failed to save customization: %w", err)
	}

	historyQuery := `
		INSERT INTO layout_history (user_id, background_url, widgets_json, saved_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := tx.Exec(historyQuery, c.UserID, c.BackgroundURL, widgetsJSON, now); err != nil {
		return fmt.Errorf("failed to record layout history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.UpdatedAt = now
	r.logger.Debug("saved customization",
		zap.String("user_id", c.UserID),
		zap.Int("widgets", len(c.Widgets)))
	return nil
}

// Load retrieves the customization for a user.
func (r *SQLiteCustomizationRepository) Load(userID string) (*profile.Customization, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	query := `
		SELECT user_id, background_url, widgets_json, updated_at
		FROM profile_customizations
		WHERE user_id = ?
	`
	c, err := scanCustomization(r.db.QueryRow(query, userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a user's customization and its history.
func (r *SQLiteCustomizationRepository) Delete(userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec("DELETE FROM profile_customizations WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to delete customization: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, userID)
	}

	if _, err := tx.Exec("DELETE FROM layout_history WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete layout history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List returns every stored customization ordered by user ID.
func (r *SQLiteCustomizationRepository) List() ([]*profile.Customization, error) {
	query := `
		SELECT user_id, background_url, widgets_json, updated_at
		FROM profile_customizations
		ORDER BY user_id
	`
	return r.queryCustomizations(query)
}

// History returns previously saved snapshots for a user, newest first.
func (r *SQLiteCustomizationRepository) History(userID string, limit int) ([]*profile.Customization, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	query := `
		SELECT user_id, background_url, widgets_json, saved_at
		FROM layout_history
		WHERE user_id = ?
		ORDER BY id DESC
	`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.queryCustomizations(query, args...)
}

func (r *SQLiteCustomizationRepository) queryCustomizations(query string, args ...interface{}) ([]*profile.Customization, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customizations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*profile.Customization, 0)
	for rows.Next() {
		c, err := scanCustomization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customizations: %w", err)
	}
	return out, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomization(row rowScanner) (*profile.Customization, error) {
	var (
		c           profile.Customization
		widgetsJSON string
	)
	if err := row.Scan(&c.UserID, &c.BackgroundURL, &widgetsJSON, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan customization: %w", err)
	}

	if err := json.Unmarshal([]byte(widgetsJSON), &c.Widgets); err != nil {
		return nil, fmt.Errorf("failed to decode widgets for %s: %w", c.UserID, err)
	}
	if c.Widgets == nil {
		c.Widgets = []profile.Widget{}
	}
	return &c, nil
}

func encodeWidgets(widgets []profile.Widget) (string, error) {
	if widgets == nil {
		widgets = []profile.Widget{}
	}
	data, err := json.Marshal(widgets)
	if err != nil {
		return "", fmt.Errorf("failed to encode widgets: %w", err)
	}
	return string(data), nil
}
