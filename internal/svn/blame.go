/*
* Runs `svn blame` as a subprocess.
*
* We invoke the svn client directly and stream its output rather than linking
* against a Subversion library.
 */
package svn

import (
	"context"
	"fmt"
	"iter"
	"slices"
)

// Produces the blame report for a single file, line by line.
//
// The returned finish() function must be called once the sequence has been
// consumed. It reports scanning errors and the exit status of the blame tool.
type Blamer interface {
	Blame(ctx context.Context, path string) (
		lines iter.Seq[string],
		finish func() error,
		err error,
	)
}

// Blames files with the svn command-line client.
type Client struct {
	Bin       string   // Defaults to "svn" on $PATH
	ExtraArgs []string // Passed to svn blame before the path
}

func (c Client) bin() string {
	if c.Bin == "" {
		return "svn"
	}

	return c.Bin
}

func (c Client) Blame(ctx context.Context, path string) (
	iter.Seq[string],
	func() error,
	error,
) {
	subprocess, err := RunBlame(ctx, c.bin(), path, c.ExtraArgs)
	if err != nil {
		return nil, nil, err
	}

	lines, finishScan := subprocess.StdoutLines()
	finish := func() error {
		scanErr := finishScan()
		waitErr := subprocess.Wait()
		if waitErr != nil {
			return fmt.Errorf("svn blame %s failed: %w", path, waitErr)
		}

		return scanErr
	}

	return lines, finish, nil
}

// Runs svn blame
func RunBlame(
	ctx context.Context,
	bin string,
	path string,
	extraArgs []string,
) (*Subprocess, error) {
	baseArgs := []string{
		"blame",
		"--non-interactive",
	}

	args := slices.Concat(baseArgs, extraArgs, []string{"--", path})

	subprocess, err := run(ctx, bin, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run svn blame: %w", err)
	}

	return subprocess, nil
}
