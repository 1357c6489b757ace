package backends_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/wcasa/internal/cache"
	"github.com/sinclairtarget/wcasa/internal/cache/backends"
	"github.com/sinclairtarget/wcasa/internal/tally"
)

func newBackends(t *testing.T) map[string]cache.Backend {
	dir := t.TempDir()
	return map[string]cache.Backend{
		"json":   &backends.JSONBackend{Path: filepath.Join(dir, "reports.ndjson")},
		"gob":    &backends.GobBackend{Path: filepath.Join(dir, "reports.gobs")},
		"sqlite": &backends.SQLiteBackend{Path: filepath.Join(dir, "reports.db")},
	}
}

var report = tally.Report{
	FilesAnalyzed: 1,
	TotalLines:    4,
	CodeLines:     2,
	BlankLines:    1,
	CommentLines:  1,
	Authors:       map[string]int{"alice": 2},
}

func TestAddGetClear(t *testing.T) {
	for name, b := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			// -- Add --
			require.NoError(t, b.Open())
			_, ok, err := b.Get("abc")
			require.NoError(t, err)
			require.False(t, ok, "empty cache should miss")

			require.NoError(t, b.Add("abc", report))

			got, ok, err := b.Get("abc")
			require.NoError(t, err)
			require.True(t, ok)
			if diff := cmp.Diff(report, got); diff != "" {
				t.Errorf("report is wrong before reopen:\n%s", diff)
			}
			require.NoError(t, b.Close())

			// -- Get after reopen --
			require.NoError(t, b.Open())
			got, ok, err = b.Get("abc")
			require.NoError(t, err)
			require.True(t, ok, "entry should survive close")
			if diff := cmp.Diff(report, got); diff != "" {
				t.Errorf("report is wrong after reopen:\n%s", diff)
			}

			// -- Clear --
			require.NoError(t, b.Clear())
			_, ok, err = b.Get("abc")
			require.NoError(t, err)
			require.False(t, ok, "cleared cache should miss")
			require.NoError(t, b.Close())
		})
	}
}

func TestLaterEntryWins(t *testing.T) {
	for name, b := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			updated := tally.Report{
				FilesAnalyzed: 1,
				TotalLines:    1,
				CodeLines:     1,
				Authors:       map[string]int{"bob": 1},
			}

			require.NoError(t, b.Open())
			require.NoError(t, b.Add("abc", report))
			require.NoError(t, b.Add("abc", updated))
			require.NoError(t, b.Close())

			require.NoError(t, b.Open())
			defer b.Close()

			got, ok, err := b.Get("abc")
			require.NoError(t, err)
			require.True(t, ok)
			if diff := cmp.Diff(updated, got); diff != "" {
				t.Errorf("report is wrong:\n%s", diff)
			}
		})
	}
}

func TestCacheStats(t *testing.T) {
	c := cache.NewCache(&backends.JSONBackend{
		Path: filepath.Join(t.TempDir(), "reports.ndjson"),
	})
	require.NoError(t, c.Open())
	defer c.Close()

	_, _, err := c.Get("missing")
	require.NoError(t, err)
	require.NoError(t, c.Add("present", report))
	_, ok, err := c.Get("present")
	require.NoError(t, err)
	require.True(t, ok)

	hits, misses := c.Stats()
	require.Equal(t, 1, hits)
	require.Equal(t, 1, misses)
}

func TestNoopBackend(t *testing.T) {
	c := cache.NewCache(backends.NoopBackend{})
	require.NoError(t, c.Open())
	require.NoError(t, c.Add("abc", report))

	_, ok, err := c.Get("abc")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, c.Close())
}
