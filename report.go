package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	cacheBackends "github.com/sinclairtarget/wcasa/internal/cache/backends"
	"github.com/sinclairtarget/wcasa/internal/concurrent"
	"github.com/sinclairtarget/wcasa/internal/format"
	"github.com/sinclairtarget/wcasa/internal/iterutils"
	"github.com/sinclairtarget/wcasa/internal/pretty"
	"github.com/sinclairtarget/wcasa/internal/svn"
	"github.com/sinclairtarget/wcasa/internal/walk"
)

type reportCmd struct {
	Root     string `arg:"" type:"existingdir" help:"Root folder of the working copy"`
	Revision int    `arg:"" optional:"" default:"0" help:"Only count lines last changed at or after this revision (0 counts everything)"`

	Include    []string `short:"i" default:"*.c,*.h" env:"WCASA_INCLUDE" help:"File name globs to blame"`
	Exclude    []string `short:"x" default:"[.]svn,test" env:"WCASA_EXCLUDE" help:"Patterns for directory names to skip, matched from the start of the name"`
	Depth      int      `short:"d" default:"-1" help:"Limit on how many levels below root to descend (negative for no limit)"`
	Jobs       int      `short:"j" default:"0" env:"WCASA_JOBS" help:"Number of files to blame at once (0 for one per CPU)"`
	Format     string   `short:"f" enum:"table,csv,json" default:"table" help:"Output format (table, csv, json)"`
	Limit      int      `short:"n" default:"0" help:"Limit rows in author table (0 for no limit)"`
	Svn        string   `default:"svn" env:"WCASA_SVN" help:"Path to the svn client"`
	Cache      string   `enum:"none,json,gob,sqlite" default:"none" env:"WCASA_CACHE" help:"Cache blame results between runs (none, json, gob, sqlite)"`
	ClearCache bool     `help:"Wipe the cache for this working copy before running"`
	FilesFrom  string   `type:"existingfile" help:"Blame only the files listed in this file, one per line, relative to root"`
}

func (c *reportCmd) Validate() error {
	if c.Revision < 0 {
		return errors.New("revision must be a non-negative integer")
	}

	if c.Limit < 0 {
		return errors.New("-n flag must be a positive integer")
	}

	return walk.ValidateIncludes(c.Include)
}

// The "report" command blames every qualifying file under the root folder and
// prints the authorship summary to stdout.
func (c *reportCmd) Run(globals *Globals) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	return c.run(ctx, os.Stdout, globals.Verbose)
}

func (c *reportCmd) run(
	ctx context.Context,
	stdout io.Writer,
	verbose bool,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"report\": %w", err)
		}
	}()

	logger().Debug(
		"called report()",
		"root",
		c.Root,
		"revision",
		c.Revision,
		"include",
		c.Include,
		"exclude",
		c.Exclude,
		"depth",
		c.Depth,
		"jobs",
		c.Jobs,
		"format",
		c.Format,
		"cache",
		c.Cache,
	)

	root, err := filepath.Abs(c.Root)
	if err != nil {
		return fmt.Errorf("could not resolve root folder: %w", err)
	}
	root = filepath.Clean(root)

	fmt.Fprintf(os.Stderr, "Base folder: %s\n", root)
	if c.Revision > 0 {
		fmt.Fprintf(os.Stderr, "Base revision: r%d\n", c.Revision)
	}

	excludes, err := walk.CompileExcludes(c.Exclude)
	if err != nil {
		return err
	}

	blameCache := getCache(c.Cache, root)
	if c.ClearCache {
		if err := blameCache.Clear(); err != nil {
			logger().Warn(fmt.Sprintf("failed to clear cache: %v", err))
		}
	}
	defer func() {
		if closeErr := blameCache.Close(); closeErr != nil {
			logger().Warn(fmt.Sprintf("failed to close cache: %v", closeErr))
		}
	}()

	walker := walk.Walker{
		Root:    root,
		Include: c.Include,
		Exclude: excludes,
		Depth:   c.Depth,
	}

	prog := newProgress(os.Stderr, root)
	opts := concurrent.Options{
		FromRev:  c.Revision,
		Jobs:     c.Jobs,
		Blamer:   svn.Client{Bin: c.Svn},
		Progress: prog.update,
	}
	if blameCache.Name() != cacheBackends.NoopBackendName {
		opts.Cache = blameCache
	}

	files := walker.Files(ctx)
	if c.FilesFrom != "" {
		listed, err := readFileList(c.FilesFrom, root)
		if err != nil {
			return err
		}

		files = iterutils.WithoutErrors(slices.Values(listed))
	}

	result, err := concurrent.BlameFiles(ctx, files, opts)
	prog.clear()
	if err != nil {
		return err
	}

	if err := result.Report.Check(); err != nil {
		return fmt.Errorf("inconsistent report: %w", err)
	}

	if errs := result.Errs.ErrorOrNil(); errs != nil {
		fmt.Fprintf(
			os.Stderr,
			"%swarning: could not blame %s file(s); their lines were not counted%s\n",
			pretty.Red(),
			format.Number(len(result.Errs.Errors)),
			pretty.Reset(),
		)
		if verbose {
			fmt.Fprintln(os.Stderr, strings.TrimSpace(errs.Error()))
		}
	}

	return writeReport(stdout, result.Report, c.Format, c.Limit)
}

// Reads a list of paths, one per line. Relative paths are taken relative to
// root. Blank lines are skipped.
func readFileList(listPath string, root string) ([]string, error) {
	f, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("could not read file list: %w", err)
	}
	defer f.Close()

	lines, finish := scanLines(f)

	var paths []string
	for line := range lines {
		p := strings.TrimSpace(line)
		if p == "" {
			continue
		}

		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		paths = append(paths, p)
	}

	if err := finish(); err != nil {
		return nil, fmt.Errorf("could not read file list: %w", err)
	}

	return paths, nil
}
