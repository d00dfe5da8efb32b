package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fmtconform/internal/harness"
	"github.com/roach88/fmtconform/internal/testutil"
)

// createTestStore opens an in-memory store with counting run IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", WithRunIDGenerator(testutil.NewFixedRunIDGenerator()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func passingResult() *harness.Result {
	return &harness.Result{
		Pass: true,
		Cases: []harness.CaseResult{
			{Seq: 1, Variant: harness.VariantFixedBuffer, Case: "answer", Reported: 2, Status: harness.StatusOK},
			{Seq: 2, Variant: harness.VariantBoundedBuffer, Case: "answer", Reported: 2, Status: harness.StatusOK},
		},
	}
}

func failingResult() *harness.Result {
	f := &harness.Failure{
		Variant:  harness.VariantFixedBuffer,
		Case:     "wrong",
		Reason:   harness.ReasonContentMismatch,
		Reported: 2,
		Want:     2,
		WantText: "43",
		GotText:  "42",
	}
	return &harness.Result{
		Pass: false,
		Cases: []harness.CaseResult{
			{Seq: 1, Variant: harness.VariantFixedBuffer, Case: "wrong", Reported: 2, Status: string(f.Reason)},
		},
		Failure: f,
	}
}

func TestRun_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	id, err := s.BeginRun(ctx, "builtin:printf", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "run-1", id)

	run, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, run.Status)
	assert.Equal(t, "builtin:printf", run.Fixture)
	assert.Equal(t, "abc123", run.FixtureHash)

	result := passingResult()
	for _, c := range result.Cases {
		require.NoError(t, s.RecordCase(ctx, id, c))
	}
	require.NoError(t, s.FinishRun(ctx, id, result))

	run, err = s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusPass, run.Status)
	assert.Equal(t, 2, run.CaseCount)
	assert.Empty(t, run.FailedVariant)

	wantHash, err := harness.TranscriptHash(result)
	require.NoError(t, err)
	assert.Equal(t, wantHash, run.TranscriptHash)

	cases, err := s.ReadCases(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, result.Cases, cases)
}

func TestFinishRun_Failure(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	id, err := s.BeginRun(ctx, "cases.yaml", "h")
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(ctx, id, failingResult()))

	run, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusFail, run.Status)
	assert.Equal(t, harness.VariantFixedBuffer, run.FailedVariant)
	assert.Equal(t, "wrong", run.FailedCase)
	assert.Equal(t, string(harness.ReasonContentMismatch), run.Reason)
}

func TestFinishRun_UnknownRun(t *testing.T) {
	s := createTestStore(t)
	err := s.FinishRun(context.Background(), "missing", passingResult())
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRecordCase_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	id, err := s.BeginRun(ctx, "f", "h")
	require.NoError(t, err)

	c := passingResult().Cases[0]
	require.NoError(t, s.RecordCase(ctx, id, c))
	require.NoError(t, s.RecordCase(ctx, id, c))

	cases, err := s.ReadCases(ctx, id)
	require.NoError(t, err)
	assert.Len(t, cases, 1)
}

func TestRecordCase_RequiresRun(t *testing.T) {
	s := createTestStore(t)
	err := s.RecordCase(context.Background(), "missing", passingResult().Cases[0])
	assert.Error(t, err, "foreign key rejects cases of unknown runs")
}

func TestReadCases_Errors(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.ReadCases(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	id, err := s.BeginRun(ctx, "f", "h")
	require.NoError(t, err)
	cases, err := s.ReadCases(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, cases)
	assert.Empty(t, cases)
}

func TestReadCases_OrderedBySeq(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	id, err := s.BeginRun(ctx, "f", "h")
	require.NoError(t, err)
	for _, seq := range []int64{3, 1, 2} {
		require.NoError(t, s.RecordCase(ctx, id, harness.CaseResult{
			Seq: seq, Variant: "v", Case: "c", Status: harness.StatusOK,
		}))
	}

	cases, err := s.ReadCases(ctx, id)
	require.NoError(t, err)
	require.Len(t, cases, 3)
	for i, c := range cases {
		assert.Equal(t, int64(i+1), c.Seq)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)

	for range 3 {
		_, err := s.BeginRun(ctx, "f", "h")
		require.NoError(t, err)
	}

	runs, err = s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "run-3", runs[2].ID)

	runs, err = s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID, "limit keeps the most recent runs")
	assert.Equal(t, "run-3", runs[1].ID)
}

func TestOpen_DefaultRunIDs(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	id, err := s.BeginRun(context.Background(), "f", "h")
	require.NoError(t, err)

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
