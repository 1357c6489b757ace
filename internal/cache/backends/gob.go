package backends

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ulikunitz/xz"

	"github.com/sinclairtarget/wcasa/internal/tally"
)

const GobBackendName string = "gob"

// Stores per-file reports on disk at a particular filepath.
//
// While open, the cache lives in an uncompressed file that is a series of
// Gob-encoded entries, each prefixed with a four-byte value indicating the
// number of bytes in the entry. The framing lets us append new entries
// instead of rewriting the whole file.
//
// When the cache is closed the file is xz-compressed and the uncompressed
// copy removed.
type GobBackend struct {
	Path    string
	entries map[string]tally.Report
	isDirty bool
}

func (b *GobBackend) Name() string {
	return GobBackendName
}

func (b *GobBackend) compressedPath() string {
	return b.Path + ".xz"
}

func (b *GobBackend) Open() error {
	b.entries = map[string]tally.Report{}

	err := uncompress(b.compressedPath(), b.Path)
	if err != nil {
		return err
	}

	f, err := os.Open(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		// -- Find length of next gob in bytes --
		var size uint32
		err := binary.Read(r, binary.LittleEndian, &size)
		if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("corrupt gob cache %s: %w", b.Path, err)
		}

		// -- Decode next gob --
		data := make([]byte, size)
		_, err = io.ReadFull(r, data)
		if err != nil {
			return fmt.Errorf("corrupt gob cache %s: %w", b.Path, err)
		}

		var e entry
		dec := gob.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&e)
		if err != nil {
			return fmt.Errorf("corrupt gob cache %s: %w", b.Path, err)
		}

		b.entries[e.Key] = e.Report
	}
}

func (b *GobBackend) Close() error {
	b.entries = nil

	if b.isDirty {
		err := compress(b.Path, b.compressedPath())
		if err != nil {
			return err
		}
		b.isDirty = false
	}

	// Remove uncompressed file
	return os.RemoveAll(b.Path)
}

func (b *GobBackend) Get(key string) (tally.Report, bool, error) {
	if b.entries == nil {
		panic("cache not yet open. Did you forget to call Open()?")
	}

	r, ok := b.entries[key]
	return r, ok, nil
}

func (b *GobBackend) Add(key string, r tally.Report) (err error) {
	if b.entries == nil {
		panic("cache not yet open. Did you forget to call Open()?")
	}

	b.isDirty = true

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

	var data bytes.Buffer

	enc := gob.NewEncoder(&data)
	err = enc.Encode(entry{Key: key, Report: r})
	if err != nil {
		return err
	}

	err = binary.Write(f, binary.LittleEndian, uint32(data.Len()))
	if err != nil {
		return err
	}

	_, err = f.Write(data.Bytes())
	if err != nil {
		return err
	}

	b.entries[key] = r
	return nil
}

func (b *GobBackend) Clear() error {
	b.entries = map[string]tally.Report{}
	b.isDirty = false

	for _, p := range []string{b.Path, b.compressedPath()} {
		err := os.Remove(p)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

// Uncompress xz file to regular location if it exists
func uncompress(sourcePath string, targetPath string) error {
	f, err := os.Open(sourcePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close()

	fout, err := os.OpenFile(
		targetPath,
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		0644,
	)
	if err != nil {
		return err
	}
	defer fout.Close()

	zr, err := xz.NewReader(bufio.NewReader(f))
	if err != nil {
		return err
	}

	w := bufio.NewWriter(fout)
	_, err = io.Copy(w, zr)
	if err != nil {
		return err
	}

	return w.Flush()
}

// Compress file and save to xz location
func compress(sourcePath string, targetPath string) (err error) {
	f, err := os.Open(sourcePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close()

	fout, err := os.OpenFile(
		targetPath,
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		0644,
	)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := fout.Close()
		if err == nil {
			err = closeErr
		}
	}()

	zw, err := xz.NewWriter(fout)
	if err != nil {
		return err
	}

	_, err = io.Copy(zw, bufio.NewReader(f))
	if err != nil {
		return err
	}

	return zw.Close()
}
