// ANSI escape codes
package pretty

var colorEnabled = true

// SetColorEnabled controls whether ANSI color codes are output
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

const resetCode string = "\x1b[0m"
const redCode string = "\x1b[31m"
const dimCode string = "\x1b[2m"

func code(c string) string {
	if colorEnabled {
		return c
	}
	return ""
}

// Reset returns the reset ANSI code if colors are enabled, empty string otherwise
func Reset() string {
	return code(resetCode)
}

// Red returns the red ANSI code if colors are enabled, empty string otherwise
func Red() string {
	return code(redCode)
}

// Dim returns the dim ANSI code if colors are enabled, empty string otherwise
func Dim() string {
	return code(dimCode)
}

// EraseLine always returns the erase line code as it's used for progress indicators
const EraseLine string = "\x1b[2K"
