// Finds the files under a working copy that should be blamed.
package walk

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	DefaultInclude = []string{"*.c", "*.h"}
	DefaultExclude = []string{"[.]svn", "test"}
)

type Walker struct {
	Root    string
	Include []string         // Globs matched against the file name
	Exclude []*regexp.Regexp // Matched against each directory name
	Depth   int              // Negative for no limit, 0 for root only
}

// Compiles exclusion patterns. Like a Python re.match, each pattern only has
// to match at the start of a directory name, so "test" also excludes "tests".
func CompileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`^(?:` + p + `)`)
		if err != nil {
			return nil, fmt.Errorf("bad exclude pattern \"%s\": %w", p, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

// Checks include globs are well formed.
func ValidateIncludes(globs []string) error {
	for _, g := range globs {
		if _, err := path.Match(g, ""); err != nil {
			return fmt.Errorf("bad include pattern \"%s\": %w", g, err)
		}
	}

	return nil
}

func (w Walker) isExcluded(dirname string) bool {
	for _, re := range w.Exclude {
		if re.MatchString(dirname) {
			return true
		}
	}

	return false
}

func (w Walker) isIncluded(filename string) bool {
	for _, g := range w.Include {
		matched, _ := path.Match(g, filename)
		if matched {
			return true
		}
	}

	return false
}

// Returns the depth of a directory below root, where root itself is 0.
func depthOf(rel string) int {
	if rel == "." {
		return 0
	}

	return strings.Count(filepath.ToSlash(rel), "/") + 1
}

// Returns an iterator over the paths of qualifying files under Root, in
// lexical order.
//
// Entries that cannot be read are logged and skipped. The only error yielded
// is a failure to read Root itself or a cancelled context.
func (w Walker) Files(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		info, err := os.Stat(w.Root)
		if err != nil {
			yield("", fmt.Errorf("cannot read root folder: %w", err))
			return
		}
		if !info.IsDir() {
			yield("", fmt.Errorf("root %s is not a directory", w.Root))
			return
		}

		stopped := false
		walkErr := filepath.WalkDir(
			w.Root,
			func(p string, d fs.DirEntry, err error) error {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}

				if err != nil {
					if p == w.Root {
						return err
					}

					logger().Warn("skipping unreadable entry", "path", p, "err", err)
					if d != nil && d.IsDir() {
						return fs.SkipDir
					}
					return nil
				}

				rel, err := filepath.Rel(w.Root, p)
				if err != nil {
					return err
				}

				if d.IsDir() {
					if rel == "." {
						return nil
					}

					if w.isExcluded(d.Name()) {
						logger().Debug("excluding directory", "path", rel)
						return fs.SkipDir
					}

					// Depth counts how many levels below root we may descend
					if w.Depth >= 0 && depthOf(rel) > w.Depth {
						return fs.SkipDir
					}

					return nil
				}

				if !w.isIncluded(d.Name()) {
					return nil
				}

				if !isRegularFile(p, d) {
					return nil
				}

				if !yield(p, nil) {
					stopped = true
					return fs.SkipAll
				}

				return nil
			},
		)

		if walkErr != nil && !stopped {
			yield("", fmt.Errorf("error walking %s: %w", w.Root, walkErr))
		}
	}
}

// Symlinks count if they point at a regular file.
func isRegularFile(p string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}

	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(p)
	if err != nil {
		logger().Warn("skipping broken symlink", "path", p, "err", err)
		return false
	}

	return info.Mode().IsRegular()
}
