// Classifies the lines of a blame report.
//
// A content line of `svn blame` output looks like:
//
//	<revision> <author> <source text...>
//
// Classification is a prefix heuristic on a single line. We do not track block
// comment state, so a line inside a multi-line block comment that does not
// itself start with a comment marker is counted as code.
package blame

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"unicode"
)

type Kind int

const (
	Ignored Kind = iota
	Blank
	Comment
	Code
)

func (k Kind) String() string {
	switch k {
	case Ignored:
		return "ignored"
	case Blank:
		return "blank"
	case Comment:
		return "comment"
	case Code:
		return "code"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// One parsed line of blame output.
type Line struct {
	Revision int
	Author   string
	Content  string // Source text after the author token, trimmed
	Kind     Kind
}

func (l Line) String() string {
	return fmt.Sprintf(
		"{ rev:%d author:%s kind:%s content:\"%s\" }",
		l.Revision,
		l.Author,
		l.Kind,
		l.Content,
	)
}

var commentPrefixes = []string{"/*", "//"}

// Classify parses a single raw line of blame output.
//
// Lines last touched before fromRev are Ignored when fromRev > 0, as are empty
// lines and lines whose revision token is not a non-negative integer (e.g.
// the "-" svn prints for locally modified lines).
func Classify(raw string, fromRev int) Line {
	revToken, rest := cutField(raw)
	if revToken == "" {
		return Line{Kind: Ignored}
	}

	author, rest := cutField(rest)
	if author == "" {
		return Line{Kind: Ignored}
	}

	rev, err := strconv.Atoi(revToken)
	if err != nil || rev < 0 {
		return Line{Kind: Ignored}
	}

	line := Line{
		Revision: rev,
		Author:   author,
		Content:  strings.TrimSpace(rest),
	}

	if fromRev > 0 && rev < fromRev {
		line.Kind = Ignored
		return line
	}

	switch {
	case line.Content == "":
		line.Kind = Blank
	case hasCommentPrefix(line.Content):
		line.Kind = Comment
	default:
		line.Kind = Code
	}

	return line
}

// Classifies each line of the sequence in turn.
func ClassifyLines(lines iter.Seq[string], fromRev int) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for raw := range lines {
			if !yield(Classify(raw, fromRev)) {
				return
			}
		}
	}
}

func hasCommentPrefix(s string) bool {
	for _, prefix := range commentPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

// Returns the first whitespace-delimited field of s and whatever follows it.
func cutField(s string) (field string, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}

	return s[:end], s[end:]
}
