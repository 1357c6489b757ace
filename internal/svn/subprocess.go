package svn

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"os/exec"
	"strings"
)

type SubprocessErr struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (err SubprocessErr) Error() string {
	if err.Stderr != "" {
		return fmt.Sprintf(
			"svn subprocess exited with code %d. Error output:\n%s",
			err.ExitCode,
			err.Stderr,
		)
	}

	return fmt.Sprintf("svn subprocess exited with code %d", err.ExitCode)
}

func (err SubprocessErr) Unwrap() error {
	return err.Err
}

type Subprocess struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// Returns a single-use iterator over the output of the command, line by line.
func (s Subprocess) StdoutLines() (iter.Seq[string], func() error) {
	var iterErr error

	seq := func(yield func(string) bool) {
		scanner := bufio.NewScanner(s.stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}

		iterErr = scanner.Err()
	}

	finish := func() error {
		if iterErr != nil {
			iterErr = fmt.Errorf("error while scanning: %w", iterErr)
		}

		return iterErr
	}

	return seq, finish
}

func (s Subprocess) Wait() error {
	logger().Debug("waiting for subprocess...")

	// Drain whatever the caller did not read so the process can exit
	_, _ = io.Copy(io.Discard, s.stdout)

	stderr, err := io.ReadAll(s.stderr)
	if err != nil {
		return fmt.Errorf("could not read stderr: %w", err)
	}

	err = s.cmd.Wait()
	logger().Debug(
		"subprocess exited",
		"code",
		s.cmd.ProcessState.ExitCode(),
	)

	if err != nil {
		return SubprocessErr{
			ExitCode: s.cmd.ProcessState.ExitCode(),
			Stderr:   strings.TrimSpace(string(stderr)),
			Err:      err,
		}
	}

	return nil
}

// Source lines longer than this make the scanner fail.
const maxLineLength = 1024 * 1024

func run(ctx context.Context, bin string, args []string) (*Subprocess, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	logger().Debug("running subprocess", "cmd", cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("failed to start subprocess: %w", err)
	}

	return &Subprocess{
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
	}, nil
}
