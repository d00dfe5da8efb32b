package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/fmtconform/internal/harness"
)

// Run is one row of the run history.
type Run struct {
	Seq            int64  `json:"seq"`
	ID             string `json:"id"`
	Fixture        string `json:"fixture"`
	FixtureHash    string `json:"fixture_hash"`
	Status         string `json:"status"`
	FailedVariant  string `json:"failed_variant,omitempty"`
	FailedCase     string `json:"failed_case,omitempty"`
	Reason         string `json:"reason,omitempty"`
	CaseCount      int    `json:"case_count"`
	TranscriptHash string `json:"transcript_hash,omitempty"`
}

const runColumns = `seq, id, fixture, fixture_hash, status, failed_variant, failed_case, reason, case_count, transcript_hash`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	err := row.Scan(&r.Seq, &r.ID, &r.Fixture, &r.FixtureHash, &r.Status,
		&r.FailedVariant, &r.FailedCase, &r.Reason, &r.CaseCount, &r.TranscriptHash)
	return r, err
}

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

// ListRuns returns the most recent runs, oldest first. limit <= 0 returns
// every run.
//
// Returns an empty slice (not nil) if there are no runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM (
		SELECT * FROM runs ORDER BY seq DESC LIMIT ?
	) ORDER BY seq ASC`
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadCases returns the case results of a run ordered by seq.
// Returns ErrRunNotFound if the run does not exist.
func (s *Store) ReadCases(ctx context.Context, runID string) ([]harness.CaseResult, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, variant, case_name, reported, status
		FROM case_results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	cases := []harness.CaseResult{}
	for rows.Next() {
		var c harness.CaseResult
		if err := rows.Scan(&c.Seq, &c.Variant, &c.Case, &c.Reported, &c.Status); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return cases, nil
}
