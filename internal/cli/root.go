package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"node-killer/internal/deleter"
	"node-killer/internal/logging"
	"node-killer/internal/scanner"
	"node-killer/internal/tui"
)

type options struct {
	dryRun  bool
	strict  bool
	debug   bool
	noClear bool
}

// NewRootCmd builds the node-killer command.
func NewRootCmd(version string) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "node-killer",
		Short: "Find and delete node_modules folders below the current directory",
		Long: `node-killer searches the current directory for node_modules folders,
lets you pick which ones to delete, and reports how much space was saved.

Top-level entries starting with "." and a top-level "Library" folder are skipped.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Go through selection and progress without deleting anything")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with status 1 when any folder could not be deleted")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Write debug logs to "+logging.DefaultFile)
	cmd.Flags().BoolVar(&opts.noClear, "no-clear", false, "Do not clear the screen on start")
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute(version string, stderr io.Writer) int {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(stderr, "node-killer: %v\n", err)
		return 1
	}
	return 0
}

func run(cmd *cobra.Command, opts options) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	log, err := logging.New(opts.debug, "")
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	out := cmd.OutOrStdout()
	app := &App{
		Out:         out,
		FS:          os.DirFS(wd),
		Root:        wd,
		Finder:      scanner.NewFinder(log),
		Deleter:     deleter.New(opts.dryRun, log),
		Log:         log,
		Interactive: isTerminal(os.Stdin) && isTerminal(os.Stdout),
		ClearScreen: !opts.noClear,
		Strict:      opts.strict,
		Select: func(options []string) ([]string, error) {
			return tui.Select(options, tui.SelectOptions{})
		},
		RunDeletion: func(paths []string, del tui.DeleteFunc) (deleter.Summary, error) {
			return tui.RunDeletion(paths, del, nil)
		},
	}
	return app.Run(cmd.Context())
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
