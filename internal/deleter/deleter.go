package deleter

import (
	"context"
	"os"

	"go.uber.org/zap"

	"node-killer/internal/scanner"
)

// Result is the outcome of a single delete attempt.
type Result struct {
	Path    string
	Size    int64
	SizeErr error
	Err     error
}

// Freed is the number of bytes the attempt reclaimed.
func (r Result) Freed() uint64 {
	if r.Err != nil || r.SizeErr != nil || r.Size < 0 {
		return 0
	}
	return uint64(r.Size)
}

type Failure struct {
	Path string
	Err  error
}

type Summary struct {
	Attempted int
	Failures  []Failure
	Freed     uint64
}

// Add folds one result into the summary.
func (s *Summary) Add(r Result) {
	s.Attempted++
	if r.Err != nil {
		s.Failures = append(s.Failures, Failure{Path: r.Path, Err: r.Err})
		return
	}
	s.Freed += r.Freed()
}

// Deleter measures and removes directories one at a time.
type Deleter struct {
	DryRun bool
	Log    *zap.Logger

	// Overridable for tests.
	Remove func(path string) error
	Size   func(ctx context.Context, path string) (int64, error)
}

func New(dryRun bool, log *zap.Logger) *Deleter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Deleter{DryRun: dryRun, Log: log, Remove: os.RemoveAll, Size: scanner.DirSize}
}

// Delete measures path, then makes exactly one attempt to remove it. A
// failed measurement does not prevent removal; it only zeroes the
// contribution to the freed total.
func (d *Deleter) Delete(ctx context.Context, path string) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	sizeFn := d.Size
	if sizeFn == nil {
		sizeFn = scanner.DirSize
	}
	removeFn := d.Remove
	if removeFn == nil {
		removeFn = os.RemoveAll
	}

	res := Result{Path: path}
	res.Size, res.SizeErr = sizeFn(ctx, path)
	if res.SizeErr != nil {
		log.Debug("size measurement failed", zap.String("path", path), zap.Error(res.SizeErr))
	}
	if d.DryRun {
		log.Debug("dry-run: skipping removal", zap.String("path", path))
		return res
	}
	if err := removeFn(path); err != nil {
		res.Err = err
		log.Warn("delete failed", zap.String("path", path), zap.Error(err))
		return res
	}
	log.Debug("deleted", zap.String("path", path), zap.Int64("bytes", res.Size))
	return res
}
