package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"node-killer/internal/deleter"
	"node-killer/internal/scanner"
	"node-killer/internal/tui"
	"node-killer/pkg/utils"
)

const (
	NoneFound    = "Could not find any node_modules!"
	SelectFailed = "Could not process what to delete!"
)

// App wires discovery, selection and deletion for one run.
type App struct {
	Out  io.Writer
	FS   fs.FS  // search root
	Root string // same root on disk, used to resolve selected paths

	Finder  *scanner.Finder
	Deleter *deleter.Deleter
	Log     *zap.Logger

	Interactive bool
	ClearScreen bool
	Strict      bool

	Select      func(options []string) ([]string, error)
	RunDeletion func(paths []string, del tui.DeleteFunc) (deleter.Summary, error)
}

// PartialFailureError is returned in strict mode when some deletions failed.
type PartialFailureError struct {
	Failed    int
	Attempted int
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%d of %d folder(s) could not be deleted", e.Failed, e.Attempted)
}

// Run executes the pipeline once. Only a malformed search pattern, or a
// partial failure in strict mode, produces an error.
func (a *App) Run(ctx context.Context) error {
	log := a.Log
	if log == nil {
		log = zap.NewNop()
	}
	if a.ClearScreen {
		termenv.NewOutput(a.Out).ClearScreen()
	}
	fmt.Fprintln(a.Out, tui.Banner())
	fmt.Fprintf(a.Out, "Searching %s\n\n", tui.AccentStyle.Render(a.Finder.Pattern))

	matches, err := a.Finder.Find(ctx, a.FS)
	if err != nil {
		fmt.Fprintln(a.Out, tui.BadStyle.Render(NoneFound))
		return fmt.Errorf("discover node_modules: %w", err)
	}
	selectable := scanner.Collapse(matches)
	log.Debug("discovery finished", zap.Int("matches", len(matches)), zap.Int("selectable", len(selectable)))
	if len(selectable) == 0 {
		fmt.Fprintln(a.Out, NoneFound)
		return nil
	}

	if !a.Interactive {
		log.Debug("stdin/stdout is not a terminal, prompt skipped")
		fmt.Fprintln(a.Out, SelectFailed)
		return nil
	}
	chosen, err := a.Select(selectable)
	if err != nil {
		log.Debug("selection failed", zap.Error(err))
		fmt.Fprintln(a.Out, SelectFailed)
		return nil
	}

	sum, err := a.RunDeletion(chosen, func(p string) deleter.Result {
		r := a.Deleter.Delete(ctx, filepath.Join(a.Root, filepath.FromSlash(p)))
		r.Path = p
		return r
	})
	if err != nil {
		log.Warn("progress display ended early", zap.Error(err))
	}
	fmt.Fprintf(a.Out, "Saved %s by deleting the heaviest known things to man!\n", tui.GoodStyle.Render(utils.HumanizeBytes(sum.Freed)))
	if a.Deleter.DryRun {
		fmt.Fprintln(a.Out, "(dry run, nothing was removed)")
	}
	for _, f := range sum.Failures {
		log.Debug("failure", zap.String("path", f.Path), zap.Error(f.Err))
	}

	if a.Strict && len(sum.Failures) > 0 {
		return &PartialFailureError{Failed: len(sum.Failures), Attempted: sum.Attempted}
	}
	return nil
}
