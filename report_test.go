package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/wcasa/internal/repotest"
	"github.com/sinclairtarget/wcasa/internal/tally"
	"github.com/sinclairtarget/wcasa/internal/walk"
)

// Fake svn client that prints <path>.blame, or fails if there is none.
const fakeSvnScript = `#!/bin/sh
if [ -f "$4.blame" ]; then
	cat "$4.blame"
else
	echo "svn: E155007: '$4' is not a working copy" >&2
	exit 1
fi
`

func fakeSvn(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake svn client is a shell script")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	p := filepath.Join(t.TempDir(), "svn")
	err := os.WriteFile(p, []byte(fakeSvnScript), 0o755)
	require.NoError(t, err)
	return p
}

func workingCopy(t *testing.T) string {
	t.Helper()

	return repotest.MakeTree(t, map[string]string{
		"main.c": "",
		"main.c.blame": "     1      alice int main() {\n" +
			"     2      alice \n" +
			"     3        bob // entry point\n" +
			"    12      alice     return 0;\n" +
			"    12      alice }\n",
		"lib/util.h":       "",
		"lib/util.h.blame": "     9        bob int util(void);\n",
		"test/skip.c":      "",
		"notes.txt":        "",
	})
}

func newReportCmd(root string, svnBin string) reportCmd {
	return reportCmd{
		Root:    root,
		Include: walk.DefaultInclude,
		Exclude: walk.DefaultExclude,
		Depth:   -1,
		Jobs:    2,
		Format:  "json",
		Svn:     svnBin,
		Cache:   "none",
	}
}

func runReport(t *testing.T, c reportCmd) jsonReport {
	t.Helper()

	var b bytes.Buffer
	err := c.run(context.Background(), &b, false)
	require.NoError(t, err)

	var got jsonReport
	require.NoError(t, json.Unmarshal(b.Bytes(), &got))
	return got
}

func TestReportRun(t *testing.T) {
	root := workingCopy(t)
	c := newReportCmd(root, fakeSvn(t))

	got := runReport(t, c)

	expected := jsonReport{
		Tool:          tally.ToolName,
		Version:       Version,
		FilesAnalyzed: 2,
		TotalLines:    6,
		CodeLines:     4,
		BlankLines:    1,
		CommentLines:  1,
		Authors: []tally.AuthorTally{
			{Author: "alice", Lines: 3, Percent: 75},
			{Author: "bob", Lines: 1, Percent: 25},
		},
	}
	if diff := cmp.Diff(expected, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("report is wrong:\n%s", diff)
	}
}

func TestReportRunFromRevision(t *testing.T) {
	root := workingCopy(t)
	c := newReportCmd(root, fakeSvn(t))
	c.Revision = 10

	got := runReport(t, c)

	if got.TotalLines != 2 || got.CodeLines != 2 {
		t.Errorf(
			"expected 2 total and 2 code lines, got %d and %d",
			got.TotalLines,
			got.CodeLines,
		)
	}

	expected := []tally.AuthorTally{{Author: "alice", Lines: 2, Percent: 100}}
	if diff := cmp.Diff(expected, got.Authors, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("authors are wrong:\n%s", diff)
	}
}

func TestReportRunFailedFile(t *testing.T) {
	root := workingCopy(t)

	// No .blame file, so the fake client fails for it.
	err := os.WriteFile(filepath.Join(root, "broken.c"), nil, 0o644)
	require.NoError(t, err)

	c := newReportCmd(root, fakeSvn(t))
	got := runReport(t, c)

	if got.FilesAnalyzed != 3 {
		t.Errorf("expected 3 files analyzed, got %d", got.FilesAnalyzed)
	}
	if got.FilesFailed != 1 {
		t.Errorf("expected 1 failed file, got %d", got.FilesFailed)
	}
	if got.TotalLines != 6 {
		t.Errorf("expected 6 total lines, got %d", got.TotalLines)
	}
}

func TestReportRunDepth(t *testing.T) {
	root := workingCopy(t)
	c := newReportCmd(root, fakeSvn(t))
	c.Depth = 0

	got := runReport(t, c)

	if got.FilesAnalyzed != 1 {
		t.Errorf("expected 1 file analyzed, got %d", got.FilesAnalyzed)
	}
	if got.CodeLines != 3 {
		t.Errorf("expected 3 code lines, got %d", got.CodeLines)
	}
}

func TestReportRunFilesFrom(t *testing.T) {
	root := workingCopy(t)

	list := filepath.Join(t.TempDir(), "files.txt")
	err := os.WriteFile(list, []byte("lib/util.h\n"), 0o644)
	require.NoError(t, err)

	c := newReportCmd(root, fakeSvn(t))
	c.FilesFrom = list

	got := runReport(t, c)

	expected := []tally.AuthorTally{{Author: "bob", Lines: 1, Percent: 100}}
	if diff := cmp.Diff(expected, got.Authors, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("authors are wrong:\n%s", diff)
	}
}

func TestReportValidate(t *testing.T) {
	c := newReportCmd(t.TempDir(), "svn")
	require.NoError(t, c.Validate())

	c.Revision = -1
	require.Error(t, c.Validate())

	c = newReportCmd(t.TempDir(), "svn")
	c.Limit = -2
	require.Error(t, c.Validate())

	c = newReportCmd(t.TempDir(), "svn")
	c.Include = []string{"[bad"}
	require.Error(t, c.Validate())
}
