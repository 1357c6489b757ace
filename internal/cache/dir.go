package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDirName = "wcasa"

// Directory under the user cache dir where a backend keeps its files.
func StorageDir(backendName string) (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("could not find user cache dir: %w", err)
	}

	dir := filepath.Join(base, appDirName, backendName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("could not create cache dir: %w", err)
	}

	return dir, nil
}
