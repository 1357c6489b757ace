package tally

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/sinclairtarget/wcasa/internal/format"
)

const ToolName = "Working Copy Authorship Static Analysis (wcasa)"

const authorColWidth = 24

func (r Report) Render() string {
	return r.RenderN(0)
}

// Renders the summary and the author ranking, showing at most limit authors.
// A limit of zero shows every author.
func (r Report) RenderN(limit int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", ToolName)
	fmt.Fprintln(&b, "Authorship Resume:")
	fmt.Fprintln(&b, "==================")

	summary := [][2]string{
		{"analysed files", format.Number(r.FilesAnalyzed)},
		{"lines", format.Number(r.TotalLines)},
		{"lines of code", format.Number(r.CodeLines)},
		{"empty", format.Number(r.BlankLines)},
		{"comments", format.Number(r.CommentLines)},
	}
	if r.FilesFailed > 0 {
		summary = append(
			summary,
			[2]string{"failed files", format.Number(r.FilesFailed)},
		)
	}
	for _, row := range summary {
		fmt.Fprintf(&b, "%-15s %10s\n", row[0], row[1])
	}

	fmt.Fprintln(&b)

	ranked := r.Rank()
	numFilteredOut := 0
	if limit > 0 && limit < len(ranked) {
		numFilteredOut = len(ranked) - limit
		ranked = ranked[:limit]
	}

	table := tablewriter.NewWriter(&b)
	table.SetHeader([]string{"Author", "LOC", "Percent"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, t := range ranked {
		table.Append([]string{
			format.Abbrev(t.Author, authorColWidth),
			format.Number(t.Lines),
			format.Percent(t.Percent),
		})
	}

	if numFilteredOut > 0 {
		msg := fmt.Sprintf("...%s more...", format.Number(numFilteredOut))
		table.Append([]string{msg, "", ""})
	}

	table.Render()
	return b.String()
}
