package store

import (
	"context"
	"fmt"

	"github.com/roach88/fmtconform/internal/harness"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusPass    = "pass"
	StatusFail    = "fail"
)

// BeginRun inserts a run in the running state and returns its ID.
func (s *Store) BeginRun(ctx context.Context, fixture, fixtureHash string) (string, error) {
	id := s.ids.Generate()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, fixture, fixture_hash, status)
		VALUES (?, ?, ?, ?)
	`, id, fixture, fixtureHash, StatusRunning)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// RecordCase appends one case result to a run. Writing the same seq twice
// is a no-op, so a retried write cannot duplicate a case.
func (s *Store) RecordCase(ctx context.Context, runID string, c harness.CaseResult) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO case_results (run_id, seq, variant, case_name, reported, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, seq) DO NOTHING
	`, runID, c.Seq, c.Variant, c.Case, c.Reported, c.Status)
	if err != nil {
		return fmt.Errorf("record case %s/%s: %w", c.Variant, c.Case, err)
	}
	return nil
}

// FinishRun stores the verdict of a run together with its case count and
// transcript hash.
func (s *Store) FinishRun(ctx context.Context, runID string, result *harness.Result) error {
	hash, err := harness.TranscriptHash(result)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	status := StatusPass
	var variant, caseName, reason string
	if f := result.Failure; f != nil {
		status = StatusFail
		variant, caseName, reason = f.Variant, f.Case, string(f.Reason)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, failed_variant = ?, failed_case = ?, reason = ?,
		    case_count = ?, transcript_hash = ?
		WHERE id = ?
	`, status, variant, caseName, reason, len(result.Cases), hash, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}
