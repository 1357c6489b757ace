package cache

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/zeebo/blake3"
)

// Cache key for the blame result of a single file.
//
// The key covers the file's path, its contents and the revision floor. Blame
// history is not part of the key: a file whose contents are unchanged after an
// update is assumed to blame the same way.
func FileKey(path string, fromRev int) (_ string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error computing cache key: %w", err)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	writeField(h, filepath.ToSlash(path))
	writeField(h, strconv.Itoa(fromRev))

	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Short stable name for the cache file belonging to a working copy root.
func RootName(root string) string {
	sum := blake3.Sum256([]byte(filepath.ToSlash(root)))
	return hex.EncodeToString(sum[:8])
}

func writeField(w io.Writer, s string) {
	// Writes to a hash never fail
	_, _ = io.WriteString(w, s)
	_, _ = w.Write([]byte{0})
}
