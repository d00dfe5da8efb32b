package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/fmtconform/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath string
	RunID  string
	Limit  int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Long: `Show runs recorded with "run --db". Without --run the most recent
runs are listed; with --run the cases of that run are listed in the order
they executed.

Examples:
  fmtconform history --db history.db
  fmtconform history --db history.db --run 0192f1c2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryCommand(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite history database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the cases of this run")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "number of runs to list (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistoryCommand(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	// Open would create an empty database; a typo in --db should not.
	if _, err := os.Stat(opts.DBPath); err != nil {
		err := WrapExitError(ExitCommandError, "history database not found", err)
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return err
	}

	s, err := store.Open(opts.DBPath)
	if err != nil {
		err := WrapExitError(ExitCommandError, "open history database", err)
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return err
	}
	defer s.Close()

	if opts.RunID != "" {
		return showRun(ctx, s, opts.RunID, formatter, cmd)
	}
	return listRuns(ctx, s, opts.Limit, formatter, cmd)
}

func listRuns(ctx context.Context, s *store.Store, limit int, formatter *OutputFormatter, cmd *cobra.Command) error {
	runs, err := s.ListRuns(ctx, limit)
	if err != nil {
		err := WrapExitError(ExitCommandError, "list runs", err)
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return err
	}

	if formatter.JSON() {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		failed := ""
		if r.Status == store.StatusFail {
			failed = fmt.Sprintf("%s %s (%s)", r.FailedVariant, r.FailedCase, r.Reason)
		}
		rows[i] = []string{r.ID, r.Status, strconv.Itoa(r.CaseCount), r.Fixture, shortHash(r.FixtureHash), failed}
	}
	return writeTable(cmd.OutOrStdout(), []string{"RUN", "STATUS", "CASES", "FIXTURE", "HASH", "FAILED"}, rows)
}

func showRun(ctx context.Context, s *store.Store, id string, formatter *OutputFormatter, cmd *cobra.Command) error {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return runLookupError(formatter, err)
	}
	cases, err := s.ReadCases(ctx, id)
	if err != nil {
		return runLookupError(formatter, err)
	}

	if formatter.JSON() {
		return formatter.Success(map[string]any{"run": run, "cases": cases})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run %s: %s, fixture %s %s\n\n", run.ID, run.Status, run.Fixture, shortHash(run.FixtureHash))
	rows := make([][]string, len(cases))
	for i, c := range cases {
		rows[i] = []string{strconv.FormatInt(c.Seq, 10), c.Variant, c.Case, strconv.Itoa(c.Reported), c.Status}
	}
	return writeTable(w, []string{"SEQ", "VARIANT", "CASE", "REPORTED", "STATUS"}, rows)
}

func runLookupError(formatter *OutputFormatter, err error) error {
	code := ErrCodeStore
	if errors.Is(err, store.ErrRunNotFound) {
		code = ErrCodeRunMissing
	}
	exitErr := WrapExitError(ExitCommandError, "show run", err)
	formatter.Error(code, exitErr.Error(), nil)
	return exitErr
}
