package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/fmtconform/internal/harness"
	"github.com/roach88/fmtconform/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Fixture  string   // fixture file; empty runs the built-in table
	Capacity int      // bounded-buffer capacity
	Filter   string   // case name glob
	Variants []string // variant names; empty runs all
	DBPath   string   // run history database; empty disables history
	NoEcho   bool     // do not copy captured stream output to the terminal
}

// RunReport is the JSON payload of the run command.
type RunReport struct {
	Fixture     string               `json:"fixture"`
	FixtureHash string               `json:"fixture_hash"`
	RunID       string               `json:"run_id,omitempty"`
	Pass        bool                 `json:"pass"`
	Cases       []harness.CaseResult `json:"cases"`
	Failure     *harness.Failure     `json:"failure,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the conformance cases",
		Long: `Run every case through each output function in order:

  console         fmt.Printf
  error-stream    fmt.Fprintf(os.Stderr, ...)
  fixed-buffer    fmt.Appendf into a [1024]byte array
  bounded-buffer  fmt.Fprintf into a --capacity byte buffer

Each passing case prints "<variant> <case> - ok". The run stops at the
first case whose return value or output differs, after printing a FAIL!
line.

Exit codes:
  0 - All cases passed
  1 - A case failed, or the fixture is invalid
  2 - Command error (bad flags, unreadable files, database errors)

Examples:
  fmtconform run
  fmtconform run --fixture cases.yaml --filter "float*"
  fmtconform run --variant fixed-buffer --capacity 16
  fmtconform run --db history.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConformance(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "fixture file (.yaml, .yml or .cue); default is the built-in table")
	cmd.Flags().IntVar(&opts.Capacity, "capacity", harness.FixedSize, "bounded-buffer capacity in bytes")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "run only cases whose name matches this glob")
	cmd.Flags().StringSliceVar(&opts.Variants, "variant", nil, "run only these variants (comma separated)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record the run in this SQLite history database")
	cmd.Flags().BoolVar(&opts.NoEcho, "no-echo", false, "do not copy captured console and stderr output to the terminal")

	return cmd
}

func runConformance(ctx context.Context, opts *RunOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	fx, err := loadFixture(opts.Fixture, opts.Filter)
	if err != nil {
		return reportError(formatter, err)
	}
	if len(fx.Table.Cases) == 0 {
		err := NewExitError(ExitCommandError, fmt.Sprintf("no cases match filter %q", opts.Filter))
		formatter.Error(ErrCodeNoCases, err.Error(), nil)
		return err
	}

	variants, err := harness.DefaultVariants(opts.Capacity)
	if err != nil {
		err := WrapExitError(ExitCommandError, "invalid --capacity", err)
		formatter.Error(ErrCodeUsage, err.Error(), nil)
		return err
	}
	variants, err = harness.SelectVariants(variants, opts.Variants)
	if err != nil {
		err := WrapExitError(ExitCommandError, "invalid --variant", err)
		formatter.Error(ErrCodeUsage, err.Error(), nil)
		return err
	}
	// Echoed console output would corrupt JSON on stdout.
	if opts.NoEcho || formatter.JSON() {
		for _, v := range variants {
			if s, ok := v.Target.(*harness.StreamTarget); ok {
				s.Echo = false
			}
		}
	}

	diag := cmd.OutOrStdout()
	if formatter.JSON() {
		diag = io.Discard
		if opts.Verbose {
			diag = cmd.ErrOrStderr()
		}
	}
	runner := harness.NewRunner(diag, logger)

	report := &RunReport{Fixture: fx.Source, FixtureHash: fx.Hash}

	var history *runHistory
	if opts.DBPath != "" {
		history, err = openHistory(ctx, opts.DBPath, fx, logger)
		if err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return err
		}
		defer history.Close()
		report.RunID = history.runID
		runner.OnCase = history.record
	}

	logger.Debug("starting run",
		"fixture", fx.Source,
		"fixture_hash", fx.Hash,
		"cases", len(fx.Table.Cases),
		"variants", len(variants))

	result, err := runner.RunAll(variants, fx.Table.Cases)
	if err != nil {
		err := WrapExitError(ExitCommandError, "run aborted", err)
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return err
	}
	report.Pass = result.Pass
	report.Cases = result.Cases
	report.Failure = result.Failure

	if history != nil {
		if err := history.finish(result); err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return err
		}
	}

	if result.Pass {
		if formatter.JSON() {
			return formatter.Success(report)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PASS: %d cases, %d variants (%s %s)\n",
			len(fx.Table.Cases), len(variants), fx.Source, shortHash(fx.Hash))
		return nil
	}

	f := result.Failure
	if formatter.JSON() {
		if err := formatter.Failure(ErrCodeRunFailed, f.Error(), report); err != nil {
			return err
		}
	} else if diff := f.Diff(); diff != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "diff (-want +got):\n%s", diff)
	}
	return WrapExitError(ExitFailure, "conformance run failed", f)
}

// reportError prints err through the formatter and returns it unchanged.
func reportError(formatter *OutputFormatter, err error) error {
	msg := err.Error()
	formatter.Error(errorCode(err), msg, nil)
	return err
}

// runHistory records one run in the history store as it executes.
type runHistory struct {
	ctx    context.Context
	store  *store.Store
	runID  string
	logger *slog.Logger
	err    error
}

func openHistory(ctx context.Context, path string, fx *loadedFixture, logger *slog.Logger) (*runHistory, error) {
	s, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open history database", err)
	}
	id, err := s.BeginRun(ctx, fx.Source, fx.Hash)
	if err != nil {
		s.Close()
		return nil, WrapExitError(ExitCommandError, "record run", err)
	}
	logger.Debug("recording run", "db", path, "run_id", id)
	return &runHistory{ctx: ctx, store: s, runID: id, logger: logger}, nil
}

// record stores one case. The first write error is kept and reported by
// finish; later cases are still attempted.
func (h *runHistory) record(c harness.CaseResult) {
	if err := h.store.RecordCase(h.ctx, h.runID, c); err != nil {
		h.logger.Warn("failed to record case", "variant", c.Variant, "case", c.Case, "error", err)
		if h.err == nil {
			h.err = err
		}
	}
}

func (h *runHistory) finish(result *harness.Result) error {
	err := errors.Join(h.err, h.store.FinishRun(h.ctx, h.runID, result))
	if err != nil {
		return WrapExitError(ExitCommandError, "record run", err)
	}
	return nil
}

func (h *runHistory) Close() error {
	return h.store.Close()
}
