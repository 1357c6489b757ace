// Helpers for building working-copy fixtures in tests.
package repotest

import (
	"os"
	"path/filepath"
	"testing"
)

// Creates the given files (slash-separated paths relative to the returned
// root) with the given contents under a temporary directory.
func MakeTree(t testing.TB, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, contents := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("could not create fixture directory: %v", err)
		}

		if err := os.WriteFile(p, []byte(contents), 0o644); err != nil {
			t.Fatalf("could not write fixture file: %v", err)
		}
	}

	return root
}

// Relative slash-separated form of p, for comparing paths in tests.
func Rel(t testing.TB, root string, p string) string {
	t.Helper()

	rel, err := filepath.Rel(root, p)
	if err != nil {
		t.Fatalf("could not make path relative: %v", err)
	}

	return filepath.ToSlash(rel)
}
