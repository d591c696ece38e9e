package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// SearchPattern matches a node_modules directory at any depth below a
// top-level entry of the search root. Paths are slash separated and
// relative to the root.
const SearchPattern = "[!.]*/**/node_modules"

// ErrBadPattern is returned by Find when the search pattern cannot be parsed.
var ErrBadPattern = errors.New("malformed search pattern")

// Finder locates node_modules directories below a root filesystem.
type Finder struct {
	Pattern string
	Log     *zap.Logger
}

// NewFinder returns a Finder using SearchPattern.
func NewFinder(log *zap.Logger) *Finder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Finder{Pattern: SearchPattern, Log: log}
}

// Excluded reports whether a top-level entry is skipped entirely.
func Excluded(name string) bool {
	return strings.HasPrefix(name, ".") || name == "Library"
}

// Find walks fsys in lexical order and returns every directory matching the
// pattern. Unreadable entries are skipped; only a malformed pattern is fatal.
func (f *Finder) Find(ctx context.Context, fsys fs.FS) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}
	pattern := f.Pattern
	if pattern == "" {
		pattern = SearchPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	var matches []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug("skipping unreadable entry", zap.String("path", p), zap.Error(err))
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p == "." || !d.IsDir() {
			return nil
		}
		if !strings.Contains(p, "/") && Excluded(p) {
			return fs.SkipDir
		}
		if d.Name() != "node_modules" {
			return nil
		}
		ok, mErr := doublestar.Match(pattern, p)
		if mErr != nil {
			return fmt.Errorf("%w: %v", ErrBadPattern, mErr)
		}
		if ok {
			log.Debug("matched", zap.String("path", p))
			matches = append(matches, p)
		}
		return nil
	})
	return matches, err
}

// Collapse drops nested matches using only the most recently accepted path
// as reference: a path containing it as a substring is skipped. A path that
// contains an earlier, non-adjacent accepted path is kept.
func Collapse(paths []string) []string {
	var out []string
	last := ""
	for _, p := range paths {
		if last != "" && strings.Contains(p, last) {
			continue
		}
		last = p
		out = append(out, p)
	}
	return out
}

// DirSize computes total size in bytes of a directory tree. Symlinks are
// counted by their own size and never followed. The walk continues past
// unreadable entries and the first such error is returned with the partial
// total.
func DirSize(ctx context.Context, root string) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	info, err := os.Lstat(root)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}
	return SizeFS(ctx, os.DirFS(root))
}

// SizeFS is DirSize over an fs.FS rooted at the directory to measure.
func SizeFS(ctx context.Context, fsys fs.FS) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var total int64
	var firstErr error
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return nil // continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			return nil
		}
		info, e := d.Info()
		if e != nil {
			if firstErr == nil {
				firstErr = e
			}
			return nil
		}
		total += info.Size()
		return nil
	})
	if err != nil && firstErr == nil {
		firstErr = err
	}
	return total, firstErr
}
