package blame_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sinclairtarget/wcasa/internal/blame"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		fromRev int
		want    blame.Line
	}{
		{
			name: "code",
			raw:  "    12      alice int x = 1;",
			want: blame.Line{
				Revision: 12,
				Author:   "alice",
				Content:  "int x = 1;",
				Kind:     blame.Code,
			},
		},
		{
			name: "line comment",
			raw:  "7 bob   // comment",
			want: blame.Line{
				Revision: 7,
				Author:   "bob",
				Content:  "// comment",
				Kind:     blame.Comment,
			},
		},
		{
			name: "block comment start",
			raw:  "7 bob /* start",
			want: blame.Line{
				Revision: 7,
				Author:   "bob",
				Content:  "/* start",
				Kind:     blame.Comment,
			},
		},
		{
			name: "inside block comment counts as code",
			raw:  "7 bob  * still a comment",
			want: blame.Line{
				Revision: 7,
				Author:   "bob",
				Content:  "* still a comment",
				Kind:     blame.Code,
			},
		},
		{
			name: "blank with trailing space",
			raw:  "12 alice ",
			want: blame.Line{Revision: 12, Author: "alice", Kind: blame.Blank},
		},
		{
			name: "blank two tokens",
			raw:  "12 alice",
			want: blame.Line{Revision: 12, Author: "alice", Kind: blame.Blank},
		},
		{
			name: "empty",
			raw:  "",
			want: blame.Line{Kind: blame.Ignored},
		},
		{
			name: "whitespace only",
			raw:  " \t\r",
			want: blame.Line{Kind: blame.Ignored},
		},
		{
			name: "single token",
			raw:  "12",
			want: blame.Line{Kind: blame.Ignored},
		},
		{
			name: "locally modified",
			raw:  "     -          - int y;",
			want: blame.Line{Kind: blame.Ignored},
		},
		{
			name: "negative revision",
			raw:  "-3 alice int y;",
			want: blame.Line{Kind: blame.Ignored},
		},
		{
			name:    "below floor",
			raw:     "9 alice printf(\"hi\");",
			fromRev: 10,
			want: blame.Line{
				Revision: 9,
				Author:   "alice",
				Content:  "printf(\"hi\");",
				Kind:     blame.Ignored,
			},
		},
		{
			name:    "blank below floor",
			raw:     "9 alice",
			fromRev: 10,
			want:    blame.Line{Revision: 9, Author: "alice", Kind: blame.Ignored},
		},
		{
			name:    "at floor",
			raw:     "10 alice return 0;",
			fromRev: 10,
			want: blame.Line{
				Revision: 10,
				Author:   "alice",
				Content:  "return 0;",
				Kind:     blame.Code,
			},
		},
		{
			name: "crlf line ending",
			raw:  "3 carol x++;\r",
			want: blame.Line{
				Revision: 3,
				Author:   "carol",
				Content:  "x++;",
				Kind:     blame.Code,
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := blame.Classify(c.raw, c.fromRev)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("Classify(%q, %d) is wrong:\n%s", c.raw, c.fromRev, diff)
			}
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	raws := []string{
		"12 alice int x = 1;",
		"7 bob   // comment",
		"12 alice ",
		"",
		"garbage",
	}

	for _, raw := range raws {
		first := blame.Classify(raw, 5)
		second := blame.Classify(raw, 5)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("classifying %q twice gave different results:\n%s", raw, diff)
		}
	}
}

func TestClassifyLinesSkipsEmptyLines(t *testing.T) {
	text := "1 alice a();\n\n2 bob b();\n"
	lines := slices.Values(strings.Split(text, "\n"))

	var kinds []blame.Kind
	for line := range blame.ClassifyLines(lines, 0) {
		kinds = append(kinds, line.Kind)
	}

	expected := []blame.Kind{
		blame.Code,
		blame.Ignored,
		blame.Code,
		blame.Ignored,
	}
	if diff := cmp.Diff(expected, kinds); diff != "" {
		t.Errorf("wrong kinds:\n%s", diff)
	}
}

func TestKindString(t *testing.T) {
	if blame.Comment.String() != "comment" {
		t.Errorf("expected \"comment\", got \"%s\"", blame.Comment)
	}

	if blame.Kind(42).String() != "Kind(42)" {
		t.Errorf("expected \"Kind(42)\", got \"%s\"", blame.Kind(42))
	}
}
