package harness

import (
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// ErrNoCases is returned when a run is given an empty case table.
var ErrNoCases = errors.New("no cases to run")

// Reason classifies a failed case.
type Reason string

const (
	ReasonNegativeReturn  Reason = "negative-return"
	ReasonLengthMismatch  Reason = "length-mismatch"
	ReasonContentMismatch Reason = "content-mismatch"
)

// StatusOK is the CaseResult status of a passing case. Failing cases carry
// their Reason as status.
const StatusOK = "ok"

// Failure describes the first failed case of a run. It is terminal: no case
// runs after it.
type Failure struct {
	Variant string `json:"variant"`
	Case    string `json:"case"`
	Reason  Reason `json:"reason"`

	// Reported is the count the output function returned.
	Reported int `json:"reported"`

	// Want is the count the case expects.
	Want int `json:"want"`

	// WantText and GotText are the expected and captured texts. GotText is
	// empty unless Reason is content-mismatch.
	WantText string `json:"want_text"`
	GotText  string `json:"got_text,omitempty"`

	// Err is the error the output function returned, if any.
	Err error `json:"-"`
}

func (f *Failure) Error() string {
	switch f.Reason {
	case ReasonNegativeReturn:
		if f.Err != nil {
			return fmt.Sprintf("%s %s return %d: %v", f.Variant, f.Case, f.Reported, f.Err)
		}
		return fmt.Sprintf("%s %s return %d", f.Variant, f.Case, f.Reported)
	case ReasonLengthMismatch:
		return fmt.Sprintf("%s %s return %d, but %q is %d-byte long", f.Variant, f.Case, f.Reported, f.WantText, f.Want)
	default:
		return fmt.Sprintf("%s %s wrote %q, but expected %q", f.Variant, f.Case, f.GotText, f.WantText)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Diff renders the expected and captured texts as a cmp diff (-want +got).
// It is empty unless Reason is content-mismatch.
func (f *Failure) Diff() string {
	if f.Reason != ReasonContentMismatch {
		return ""
	}
	return cmp.Diff(f.WantText, f.GotText)
}

// canonicalMap converts a Failure for canonical JSON serialization.
func (f *Failure) canonicalMap() map[string]any {
	m := map[string]any{
		"variant":   f.Variant,
		"case":      f.Case,
		"reason":    string(f.Reason),
		"reported":  f.Reported,
		"want":      f.Want,
		"want_text": f.WantText,
	}
	if f.Reason == ReasonContentMismatch {
		m["got_text"] = f.GotText
	}
	if f.Err != nil {
		m["error"] = f.Err.Error()
	}
	return m
}

// CaseResult records one executed case.
type CaseResult struct {
	Seq      int64  `json:"seq"`
	Variant  string `json:"variant"`
	Case     string `json:"case"`
	Reported int    `json:"reported"`
	Status   string `json:"status"`
}

// OK reports whether the case passed.
func (c CaseResult) OK() bool {
	return c.Status == StatusOK
}

// Result is the outcome of RunAll.
type Result struct {
	// Pass is true when every case of every variant passed.
	Pass bool `json:"pass"`

	// Cases lists executed cases in run order. Cases after a failure are
	// not executed and do not appear.
	Cases []CaseResult `json:"cases"`

	// Failure is the first failing case, nil when Pass is true.
	Failure *Failure `json:"failure,omitempty"`
}

// NewResult creates a passing result with no cases.
func NewResult() *Result {
	return &Result{Pass: true, Cases: []CaseResult{}}
}

// Err returns the Failure as an error, or nil when the run passed.
func (r *Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

func (r *Result) add(c CaseResult) {
	r.Cases = append(r.Cases, c)
}

func (r *Result) fail(f *Failure) {
	r.Pass = false
	r.Failure = f
}
