package cmd

import (
	"fmt"
	"github.com/cottand/tcore/internal/log"
	"github.com/cottand/tcore/scenario"
	"github.com/cottand/tcore/tyerr"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"io"
	"os"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:          "check FILE...",
		Short:        "Answer the queries of scenario files and check their expectations",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}
}

func runCheck(cmd *cobra.Command, opts *options, paths []string) error {
	en, err := opts.newEngine(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	decorate := isTerminal(out)

	total := 0
	var failures *tyerr.Errors
	for _, path := range paths {
		sc, err := scenario.Load(path)
		if err != nil {
			return err
		}
		results, err := sc.Run(cmd.Context(), en)
		if err != nil {
			return errors.Wrap(err, path)
		}
		if len(paths) > 1 {
			_, _ = fmt.Fprintf(out, "# %s\n", path)
		}
		for _, r := range results {
			_, _ = fmt.Fprintln(out, line(r, decorate))
		}
		total += len(results)
		failures = failures.Merge(scenario.Failures(results))
	}
	if failures.HasError() {
		log.NewLogger(cmd.ErrOrStderr()).Warn("unmet expectations", "section", "scenario", "failures", failures)
		return errors.Errorf("%d of %d queries did not meet their expectation", len(failures.Errors()), total)
	}
	return nil
}

func line(r scenario.Result, decorate bool) string {
	if !decorate {
		return r.String()
	}
	if r.Passed {
		return "\033[32m✓\033[0m " + r.String()
	}
	return "\033[31m✗\033[0m " + r.String()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
