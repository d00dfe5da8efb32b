// Package store keeps a SQLite history of conformance runs.
//
// Each run gets a row in runs (fixture, fixture hash, verdict) and one row
// per executed case in case_results. A run is opened with BeginRun, cases
// are appended with RecordCase as they execute, and FinishRun stores the
// verdict and transcript hash. A run that never finishes stays "running",
// which marks a process that died mid-run.
//
// # Ordering
//
// Runs are ordered by their insertion seq and cases by the seq the runner
// stamped on them. Timestamps are not stored, so two histories of the same
// runs compare equal.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - foreign_keys=ON: case_results must reference an existing run
//   - One open connection, so ":memory:" databases work for tests
//
// # Usage
//
//	s, err := store.Open("history.db")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	id, err := s.BeginRun(ctx, fixtureName, fixtureHash)
//	runner.OnCase = func(c harness.CaseResult) { s.RecordCase(ctx, id, c) }
//	result, err := runner.RunAll(variants, cases)
//	err = s.FinishRun(ctx, id, result)
package store
