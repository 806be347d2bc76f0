package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/carering/pkg/geometry"
	"github.com/dshills/carering/pkg/profile"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repositories returns a fresh instance of every Repository implementation
func repositories(t *testing.T) map[string]Repository {
	t.Helper()

	sqliteRepo, err := NewSQLiteCustomizationRepositoryWithPath(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	fileRepo, err := NewFilesystemCustomizationRepositoryWithPath(t.TempDir(), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = sqliteRepo.Close()
		_ = fileRepo.Close()
	})

	return map[string]Repository{
		KindSQLite: sqliteRepo,
		KindFile:   fileRepo,
	}
}

func sampleCustomization(userID string) *profile.Customization {
	c := profile.NewCustomization(userID)
	c.BackgroundURL = "https://cdn.example.com/bg.png"

	size := geometry.NewSize(300, 120)
	c.Widgets = append(c.Widgets,
		profile.NewWidget(profile.TypeProfileCard, geometry.NewPosition(0, 0), &profile.ProfileCardConfig{Nickname: "mina", FollowerCount: 12}),
		profile.NewWidget(profile.TypeCustomText, geometry.NewPosition(150, 0), &profile.TextConfig{Text: "hello"}),
		profile.Widget{
			ID:       "divider-1",
			Type:     profile.TypeDivider,
			Position: geometry.NewPosition(0, 100),
			Size:     &size,
			Config:   &profile.DividerConfig{Color: "#ff8800"},
		},
	)
	return c
}

var ignoreUpdatedAt = cmpopts.IgnoreFields(profile.Customization{}, "UpdatedAt")

func TestRepository_SaveAndLoad(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleCustomization("user-1")
			require.NoError(t, repo.Save(want))
			assert.False(t, want.UpdatedAt.IsZero())

			got, err := repo.Load("user-1")
			require.NoError(t, err)

			if diff := cmp.Diff(want, got, ignoreUpdatedAt); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
			assert.False(t, got.UpdatedAt.IsZero())
		})
	}
}

func TestRepository_SaveReplaces(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			c := sampleCustomization("user-1")
			require.NoError(t, repo.Save(c))

			c.Widgets = c.Widgets[:1]
			c.BackgroundURL = ""
			require.NoError(t, repo.Save(c))

			got, err := repo.Load("user-1")
			require.NoError(t, err)
			assert.Len(t, got.Widgets, 1)
			assert.Empty(t, got.BackgroundURL)

			all, err := repo.List()
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestRepository_NotFound(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Load("nobody")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.ErrorIs(t, repo.Delete("nobody"), ErrNotFound)

			history, err := repo.History("nobody", 0)
			require.NoError(t, err)
			assert.Empty(t, history)
		})
	}
}

func TestRepository_InvalidInput(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, repo.Save(nil), ErrNilCustomization)
			assert.ErrorIs(t, repo.Save(profile.NewCustomization("")), ErrInvalidUserID)
			assert.ErrorIs(t, repo.Save(profile.NewCustomization("../escape")), ErrInvalidUserID)

			_, err := repo.Load(" ")
			assert.ErrorIs(t, err, ErrInvalidUserID)
		})
	}
}

func TestRepository_ListAndDelete(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"carol", "alice", "bob"} {
				require.NoError(t, repo.Save(sampleCustomization(id)))
			}

			all, err := repo.List()
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "alice", all[0].UserID)
			assert.Equal(t, "bob", all[1].UserID)
			assert.Equal(t, "carol", all[2].UserID)

			require.NoError(t, repo.Delete("bob"))
			all, err = repo.List()
			require.NoError(t, err)
			assert.Len(t, all, 2)

			history, err := repo.History("bob", 0)
			require.NoError(t, err)
			assert.Empty(t, history)
		})
	}
}

func TestRepository_History(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			c := sampleCustomization("user-1")
			for i := 0; i < 3; i++ {
				c.Widgets[1].Position = geometry.NewPosition(150, i*10)
				require.NoError(t, repo.Save(c))
			}

			history, err := repo.History("user-1", 0)
			require.NoError(t, err)
			require.Len(t, history, 3)
			assert.Equal(t, 20, history[0].Widgets[1].Position.Y)
			assert.Equal(t, 10, history[1].Widgets[1].Position.Y)
			assert.Equal(t, 0, history[2].Widgets[1].Position.Y)

			limited, err := repo.History("user-1", 2)
			require.NoError(t, err)
			assert.Len(t, limited, 2)
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	repo, err := Open(KindSQLite, dir, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	_, err = os.Stat(filepath.Join(dir, "carering.db"))
	assert.NoError(t, err)

	repo, err = Open(KindFile, dir, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	info, err := os.Stat(filepath.Join(dir, "layouts"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = Open("redis", dir, nil)
	assert.Error(t, err)
}

func TestFilesystemRepository_SkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFilesystemCustomizationRepositoryWithPath(dir, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Save(sampleCustomization("good")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layouts", "bad.yaml"), []byte("user_id: [unterminated"), 0644))

	all, err := repo.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "good", all[0].UserID)
}

func TestInitializeDatabase_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	repo, err := NewSQLiteCustomizationRepositoryWithPath(dbPath, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(sampleCustomization("user-1")))
	require.NoError(t, repo.Close())

	repo, err = NewSQLiteCustomizationRepositoryWithPath(dbPath, nil)
	require.NoError(t, err)
	defer func() { _ = repo.Close() }()

	var version int
	require.NoError(t, repo.db.QueryRow("SELECT MAX(version) FROM migrations").Scan(&version))
	assert.Equal(t, MigrationVersion, version)

	_, err = repo.Load("user-1")
	assert.NoError(t, err)
}
