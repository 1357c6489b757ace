package pretty

import (
	"os"

	"golang.org/x/term"
)

// Whether we can redraw lines in place on f.
func AllowDynamic(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
