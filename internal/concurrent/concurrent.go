// Blames files in parallel and folds the per-file results into one report.
//
// Each worker blames one file at a time into its own tally.Report. A single
// collector goroutine merges those reports, so the shared report is never
// mutated concurrently. Merging is order-independent.
package concurrent

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/sinclairtarget/wcasa/internal/cache"
	"github.com/sinclairtarget/wcasa/internal/svn"
	"github.com/sinclairtarget/wcasa/internal/tally"
)

type Options struct {
	FromRev int
	Jobs    int // Max concurrent blames. Zero or less uses all CPUs
	Blamer  svn.Blamer
	Cache   *cache.Cache // Nil disables caching

	// Called by the collector after each file is folded in
	Progress func(nDone int, path string)
}

type Result struct {
	Report tally.Report
	Errs   *multierror.Error // One entry per file that could not be blamed
}

type fileResult struct {
	path   string
	report tally.Report
	err    error
}

func numWorkers(nCPU int, requested int) int {
	if requested > 0 {
		return requested
	}

	return max(1, nCPU)
}

// Blames every file yielded by files.
//
// A file whose blame fails is counted as analyzed and failed, and its error
// is recorded in Result.Errs; the run carries on. An error yielded by files,
// or a cancelled context, aborts the run.
func BlameFiles(
	ctx context.Context,
	files iter.Seq2[string, error],
	opts Options,
) (_ Result, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running concurrent blame: %w", err)
		}
	}()

	if opts.Blamer == nil {
		return Result{}, errors.New("no blamer configured")
	}

	nWorkers := numWorkers(runtime.GOMAXPROCS(0), opts.Jobs)
	logger().Debug("decided to use n workers", "value", nWorkers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(nWorkers)

	results := make(chan fileResult, nWorkers)
	collected := make(chan Result, 1)
	go runCollector(results, collected, opts.Progress)

	var walkErr error
	for path, err := range files {
		if err != nil {
			walkErr = err
			break
		}

		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			r, err := blameFile(gctx, path, opts)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}

			results <- fileResult{path: path, report: r, err: err}
			return nil
		})
	}

	groupErr := g.Wait()
	close(results)
	result := <-collected

	if walkErr != nil {
		return Result{}, walkErr
	}
	if groupErr != nil {
		return Result{}, groupErr
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	return result, nil
}

// Merges per-file results as they arrive.
func runCollector(
	results <-chan fileResult,
	collected chan<- Result,
	progress func(int, string),
) {
	logger().Debug("collector started")
	defer logger().Debug("collector exited")

	result := Result{Report: *tally.NewReport()}

	nDone := 0
	for fr := range results {
		if fr.err != nil {
			logger().Warn("could not blame file", "path", fr.path, "err", fr.err)
			result.Errs = multierror.Append(result.Errs, fr.err)
		}

		result.Report.Merge(fr.report)

		nDone += 1
		if progress != nil {
			progress(nDone, fr.path)
		}
	}

	collected <- result
}

// Blames a single file into its own report, consulting the cache first.
func blameFile(
	ctx context.Context,
	path string,
	opts Options,
) (tally.Report, error) {
	var key string
	if opts.Cache != nil {
		var err error
		key, err = cache.FileKey(path, opts.FromRev)
		if err != nil {
			logger().Debug("not caching file", "path", path, "err", err)
		} else {
			cached, ok, err := opts.Cache.Get(key)
			if err != nil {
				logger().Warn("cache lookup failed", "path", path, "err", err)
			} else if ok {
				return cached, nil
			}
		}
	}

	failed := tally.Report{FilesAnalyzed: 1, FilesFailed: 1}

	lines, finish, err := opts.Blamer.Blame(ctx, path)
	if err != nil {
		return failed, err
	}

	r := tally.NewReport()
	r.RecordFileSeen()
	r.IngestLines(lines, opts.FromRev)

	err = finish()
	if err != nil {
		return failed, err
	}

	if key != "" {
		err = opts.Cache.Add(key, *r)
		if err != nil {
			logger().Warn("could not cache file", "path", path, "err", err)
		}
	}

	return *r, nil
}
