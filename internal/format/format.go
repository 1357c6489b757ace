/*
* Utility functions for formatting output.
 */
package format

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Print string with max length, truncating with ellipsis.
func Abbrev(s string, max int) string {
	if max < 1 || len(s) <= max {
		return s
	}

	return s[:max-1] + "…"
}

// Integer with thousands separators.
func Number(n int) string {
	return humanize.Comma(int64(n))
}

// Two-decimal percentage, e.g. "42.50%".
func Percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}
