package backends

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sinclairtarget/wcasa/internal/tally"
)

const JSONBackendName string = "json"

// Stores per-file reports on disk at a particular filepath.
//
// Entries are stored as newline-delimited JSON and appended as they are
// added. The whole file is loaded into memory on Open(); later entries for
// the same key win.
type JSONBackend struct {
	Path    string
	entries map[string]tally.Report
}

func (b *JSONBackend) Name() string {
	return JSONBackendName
}

func (b *JSONBackend) Open() error {
	b.entries = map[string]tally.Report{}

	f, err := os.Open(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		// If file doesn't exist, don't treat as an error
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close() // Don't care about error closing when reading

	dec := json.NewDecoder(f)
	for {
		var e entry

		err = dec.Decode(&e)
		if err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("corrupt json cache %s: %w", b.Path, err)
		}

		b.entries[e.Key] = e.Report
	}

	return nil
}

func (b *JSONBackend) Close() error {
	b.entries = nil
	return nil
}

func (b *JSONBackend) Get(key string) (tally.Report, bool, error) {
	if b.entries == nil {
		panic("cache not yet open. Did you forget to call Open()?")
	}

	r, ok := b.entries[key]
	return r, ok, nil
}

func (b *JSONBackend) Add(key string, r tally.Report) (err error) {
	if b.entries == nil {
		panic("cache not yet open. Did you forget to call Open()?")
	}

	f, err := os.OpenFile(
		b.Path,
		os.O_WRONLY|os.O_APPEND|os.O_CREATE,
		0644,
	)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
	}()

	enc := json.NewEncoder(f)
	err = enc.Encode(entry{Key: key, Report: r})
	if err != nil {
		return err
	}

	b.entries[key] = r
	return nil
}

func (b *JSONBackend) Clear() error {
	b.entries = map[string]tally.Report{}

	err := os.Remove(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}
