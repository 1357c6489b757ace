// Accumulates line counts and authorship over blame output.
package tally

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/sinclairtarget/wcasa/internal/blame"
)

// Running totals for one or more blamed files.
//
// Invariants: TotalLines == CodeLines + BlankLines + CommentLines, and the
// values of Authors sum to CodeLines. Ignored lines touch no counter.
type Report struct {
	FilesAnalyzed int            `json:"files_analyzed"`
	FilesFailed   int            `json:"files_failed"`
	TotalLines    int            `json:"total_lines"`
	CodeLines     int            `json:"code_lines"`
	BlankLines    int            `json:"blank_lines"`
	CommentLines  int            `json:"comment_lines"`
	Authors       map[string]int `json:"authors"` // Author to code lines
}

func NewReport() *Report {
	return &Report{Authors: map[string]int{}}
}

// Code lines attributed to a single author.
type AuthorTally struct {
	Author  string  `json:"author"`
	Lines   int     `json:"lines"`
	Percent float64 `json:"percent"` // Share of all code lines, 0-100
}

func (r *Report) RecordFileSeen() {
	r.FilesAnalyzed += 1
}

func (r *Report) RecordFileFailed() {
	r.FilesFailed += 1
}

// Applies a single classified line to the counters.
func (r *Report) Add(line blame.Line) {
	switch line.Kind {
	case blame.Ignored:
		return
	case blame.Blank:
		r.BlankLines += 1
	case blame.Comment:
		r.CommentLines += 1
	case blame.Code:
		r.CodeLines += 1
		if r.Authors == nil {
			r.Authors = map[string]int{}
		}
		r.Authors[line.Author] += 1
	default:
		panic("unrecognized line kind in switch statement")
	}

	r.TotalLines += 1
}

// Folds in every line of the blame output for a single file.
func (r *Report) Ingest(text string, fromRev int) {
	r.IngestLines(strings.Lines(text), fromRev)
}

func (r *Report) IngestLines(lines iter.Seq[string], fromRev int) {
	for line := range blame.ClassifyLines(lines, fromRev) {
		r.Add(line)
	}
}

// Adds the counts of other into r. Merging is commutative and associative, so
// per-file reports can be combined in any order.
func (r *Report) Merge(other Report) {
	r.FilesAnalyzed += other.FilesAnalyzed
	r.FilesFailed += other.FilesFailed
	r.TotalLines += other.TotalLines
	r.CodeLines += other.CodeLines
	r.BlankLines += other.BlankLines
	r.CommentLines += other.CommentLines

	if len(other.Authors) > 0 && r.Authors == nil {
		r.Authors = map[string]int{}
	}
	for author, n := range other.Authors {
		r.Authors[author] += n
	}
}

// Authors ordered by descending code lines. Ties are broken by author name so
// that output is reproducible.
func (r Report) Rank() []AuthorTally {
	ranked := make([]AuthorTally, 0, len(r.Authors))
	for _, author := range slices.Sorted(maps.Keys(r.Authors)) {
		n := r.Authors[author]
		ranked = append(ranked, AuthorTally{
			Author:  author,
			Lines:   n,
			Percent: r.percent(n),
		})
	}

	slices.SortStableFunc(ranked, func(a, b AuthorTally) int {
		return b.Lines - a.Lines
	})
	return ranked
}

func (r Report) percent(n int) float64 {
	if r.CodeLines == 0 {
		return 0
	}

	return float64(n) / float64(r.CodeLines) * 100
}

// Returns an error if the counters are inconsistent.
func (r Report) Check() error {
	sum := r.CodeLines + r.BlankLines + r.CommentLines
	if r.TotalLines != sum {
		return fmt.Errorf(
			"total lines %d != code + blank + comment lines %d",
			r.TotalLines,
			sum,
		)
	}

	attributed := 0
	for _, n := range r.Authors {
		attributed += n
	}
	if attributed != r.CodeLines {
		return fmt.Errorf(
			"lines attributed to authors %d != code lines %d",
			attributed,
			r.CodeLines,
		)
	}

	return nil
}
