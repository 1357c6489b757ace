package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sinclairtarget/wcasa/internal/format"
	"github.com/sinclairtarget/wcasa/internal/pretty"
)

const progressWidth = 80

// Shows which file was just blamed on a single line, redrawn in place. Does
// nothing unless f is a terminal.
type progress struct {
	f       *os.File
	root    string
	enabled bool
	drawn   bool
}

func newProgress(f *os.File, root string) *progress {
	return &progress{f: f, root: root, enabled: pretty.AllowDynamic(f)}
}

func (p *progress) update(nDone int, path string) {
	if !p.enabled {
		return
	}

	rel, err := filepath.Rel(p.root, path)
	if err != nil {
		rel = path
	}

	prefix := fmt.Sprintf("blamed %s files: ", format.Number(nDone))
	fmt.Fprintf(
		p.f,
		"\r%s%s%s%s",
		pretty.EraseLine,
		pretty.Dim(),
		prefix+format.Abbrev(rel, progressWidth-len(prefix)),
		pretty.Reset(),
	)
	p.drawn = true
}

func (p *progress) clear() {
	if p.drawn {
		fmt.Fprintf(p.f, "\r%s", pretty.EraseLine)
		p.drawn = false
	}
}
