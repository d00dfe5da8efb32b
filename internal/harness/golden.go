package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/fmtconform/internal/canon"
)

// Transcript returns the canonical JSON form of a result: every executed
// case in order plus the failure, if any. Identical runs produce identical
// bytes.
func Transcript(r *Result) ([]byte, error) {
	return canon.Marshal(r.canonicalMap())
}

// TranscriptHash returns the content hash of the result transcript.
func TranscriptHash(r *Result) (string, error) {
	return canon.HashValue(canon.DomainTranscript, r.canonicalMap())
}

func (r *Result) canonicalMap() map[string]any {
	cases := make([]any, len(r.Cases))
	for i, c := range r.Cases {
		cases[i] = map[string]any{
			"seq":      c.Seq,
			"variant":  c.Variant,
			"case":     c.Case,
			"reported": c.Reported,
			"status":   c.Status,
		}
	}
	m := map[string]any{
		"pass":  r.Pass,
		"cases": cases,
	}
	if r.Failure != nil {
		m["failure"] = r.Failure.canonicalMap()
	}
	return m
}

// AssertTranscript compares the transcript of result against the golden
// file testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertTranscript(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Transcript(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
