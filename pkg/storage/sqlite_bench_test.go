package storage

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dshills/carering/pkg/geometry"
	"github.com/dshills/carering/pkg/profile"
	"github.com/stretchr/testify/require"
)

// BenchmarkLoadCustomization_Small benchmarks loading a layout with 10 widgets
func BenchmarkLoadCustomization_Small(b *testing.B) {
	benchmarkLoadCustomization(b, 10)
}

// BenchmarkLoadCustomization_Typical benchmarks loading a layout with 30 widgets
func BenchmarkLoadCustomization_Typical(b *testing.B) {
	benchmarkLoadCustomization(b, 30)
}

// BenchmarkLoadCustomization_Large benchmarks loading a layout with 200 widgets
func BenchmarkLoadCustomization_Large(b *testing.B) {
	benchmarkLoadCustomization(b, 200)
}

// BenchmarkSaveCustomization benchmarks the upsert plus history insert
func BenchmarkSaveCustomization(b *testing.B) {
	repo := newBenchRepository(b)
	c := benchCustomization(30)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := repo.Save(c); err != nil {
			b.Fatalf("Save failed: %v", err)
		}
	}
}

func benchmarkLoadCustomization(b *testing.B, widgetCount int) {
	repo := newBenchRepository(b)
	require.NoError(b, repo.Save(benchCustomization(widgetCount)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c, err := repo.Load("bench-user")
		if err != nil {
			b.Fatalf("Load failed: %v", err)
		}
		if len(c.Widgets) != widgetCount {
			b.Fatalf("expected %d widgets, got %d", widgetCount, len(c.Widgets))
		}
	}
}

func newBenchRepository(b *testing.B) *SQLiteCustomizationRepository {
	b.Helper()
	repo, err := NewSQLiteCustomizationRepositoryWithPath(filepath.Join(b.TempDir(), "bench.db"), nil)
	require.NoError(b, err)
	b.Cleanup(func() { _ = repo.Close() })
	return repo
}

// benchCustomization builds a two-column layout with mixed widget types
func benchCustomization(widgetCount int) *profile.Customization {
	c := profile.NewCustomization("bench-user")
	for i := 0; i < widgetCount; i++ {
		pos := geometry.NewPosition((i%2)*150, (i/2)*100)
		var w profile.Widget
		switch i % 3 {
		case 0:
			w = profile.NewWidget(profile.TypeCustomText, pos, &profile.TextConfig{Text: fmt.Sprintf("note %d", i)})
		case 1:
			w = profile.NewWidget(profile.TypeImage, pos, &profile.ImageConfig{ImageURL: "https://cdn.example.com/img.png"})
		default:
			w = profile.NewWidget(profile.TypeLink, pos, &profile.LinkConfig{URL: "https://example.com", Label: "site"})
		}
		c.Widgets = append(c.Widgets, w)
	}
	return c
}
