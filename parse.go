package main

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/sinclairtarget/wcasa/internal/blame"
	"github.com/sinclairtarget/wcasa/internal/tally"
)

type parseCmd struct {
	File     string `arg:"" optional:"" type:"existingfile" help:"Saved blame output (reads stdin when omitted)"`
	Revision int    `short:"r" default:"0" help:"Only count lines last changed at or after this revision"`
	Tally    bool   `short:"t" help:"Print the authorship report for the input instead of each line"`
}

func (c *parseCmd) Validate() error {
	if c.Revision < 0 {
		return fmt.Errorf("revision must be a non-negative integer")
	}

	return nil
}

// Prints out how each line of a saved blame report is classified, for
// debugging. With --tally, prints the report that input would produce.
func (c *parseCmd) Run(globals *Globals) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"parse\": %w", err)
		}
	}()

	logger().Debug(
		"called parse()",
		"file",
		c.File,
		"revision",
		c.Revision,
		"tally",
		c.Tally,
	)

	var in io.Reader = os.Stdin
	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return err
		}
		defer f.Close()

		in = f
	}

	lines, finish := scanLines(in)

	if c.Tally {
		r := tally.NewReport()
		r.RecordFileSeen()
		r.IngestLines(lines, c.Revision)
		if err := finish(); err != nil {
			return err
		}

		_, err = io.WriteString(os.Stdout, r.Render())
		return err
	}

	for line := range blame.ClassifyLines(lines, c.Revision) {
		fmt.Printf("%s\n", line)
	}

	return finish()
}

// Returns a single-use iterator over the lines of r.
func scanLines(r io.Reader) (iter.Seq[string], func() error) {
	var iterErr error

	seq := func(yield func(string) bool) {
		scanner := bufio.NewScanner(r)
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
