package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/fmtconform/internal/fixture"
)

// Variant names in run order.
const (
	VariantConsole       = "console"
	VariantErrorStream   = "error-stream"
	VariantFixedBuffer   = "fixed-buffer"
	VariantBoundedBuffer = "bounded-buffer"
)

// VariantNames lists the default variants in run order.
var VariantNames = []string{VariantConsole, VariantErrorStream, VariantFixedBuffer, VariantBoundedBuffer}

// Variant is one output function under test together with its parameters.
type Variant struct {
	// Name labels the variant in diagnostics.
	Name string

	// Target invokes the function and captures its output.
	Target Target

	// Suffix is appended to each format template before the call.
	Suffix string

	// LenAdjustment is added to len(expect) to get the expected count.
	// Stream variants count the appended newline.
	LenAdjustment int
}

// DefaultVariants builds the four variants in run order. capacity sizes the
// bounded-buffer target.
func DefaultVariants(capacity int) ([]Variant, error) {
	bounded, err := NewBoundedBuffer(capacity)
	if err != nil {
		return nil, err
	}
	return []Variant{
		{Name: VariantConsole, Target: NewStdoutTarget(), Suffix: "\n", LenAdjustment: 1},
		{Name: VariantErrorStream, Target: NewStderrTarget(), Suffix: "\n", LenAdjustment: 1},
		{Name: VariantFixedBuffer, Target: NewFixedBuffer()},
		{Name: VariantBoundedBuffer, Target: bounded},
	}, nil
}

// SelectVariants keeps the variants named in names, preserving the order
// of variants. Unknown names are an error. An empty names list keeps all.
func SelectVariants(variants []Variant, names []string) ([]Variant, error) {
	if len(names) == 0 {
		return variants, nil
	}
	for _, name := range names {
		if !slices.ContainsFunc(variants, func(v Variant) bool { return v.Name == name }) {
			return nil, fmt.Errorf("unknown variant %q (available: %s)", name, strings.Join(variantNames(variants), ", "))
		}
	}
	var out []Variant
	for _, v := range variants {
		if slices.Contains(names, v.Name) {
			out = append(out, v)
		}
	}
	return out, nil
}

func variantNames(variants []Variant) []string {
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.Name
	}
	return names
}

// Runner executes cases against variants, writing one diagnostic line per
// case to Out.
type Runner struct {
	// Out receives the per-case diagnostic lines.
	Out io.Writer

	// Logger receives structured debug records. Nil discards them.
	Logger *slog.Logger

	// Clock stamps case results. Nil uses a fresh Clock per Runner.
	Clock Sequencer

	// OnCase is called after every executed case, passing or not.
	OnCase func(CaseResult)
}

// NewRunner creates a runner writing diagnostics to out.
func NewRunner(out io.Writer, logger *slog.Logger) *Runner {
	return &Runner{Out: out, Logger: logger, Clock: NewClock()}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		r.Logger = slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func (r *Runner) clock() Sequencer {
	if r.Clock == nil {
		r.Clock = NewClock()
	}
	return r.Clock
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return io.Discard
	}
	return r.Out
}

// Run executes cases in order against one variant. It returns nil when all
// cases pass, a *Failure for the first failing case, ErrNoCases, or an
// error wrapping a *CaptureError when the target could not capture output.
func (r *Runner) Run(v Variant, cases []fixture.Case) error {
	return r.run(v, cases, nil)
}

// RunAll runs every variant in order and stops at the first failure.
// A failing case is reported through Result.Failure, not the error; the
// error is reserved for runs that could not start or could not capture.
func (r *Runner) RunAll(variants []Variant, cases []fixture.Case) (*Result, error) {
	if len(cases) == 0 {
		return nil, ErrNoCases
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("no variants to run")
	}

	result := NewResult()
	for _, v := range variants {
		err := r.run(v, cases, result)
		if err == nil {
			continue
		}
		var f *Failure
		if !errors.As(err, &f) {
			return nil, err
		}
		result.fail(f)
		r.logger().Info("run failed", "variant", f.Variant, "case", f.Case, "reason", f.Reason)
		return result, nil
	}
	r.logger().Info("run passed", "variants", len(variants), "cases", len(result.Cases))
	return result, nil
}

func (r *Runner) run(v Variant, cases []fixture.Case, result *Result) error {
	if len(cases) == 0 {
		return ErrNoCases
	}
	log := r.logger().With("variant", v.Name)
	log.Debug("variant started", "cases", len(cases))

	for _, c := range cases {
		n, f, err := runCase(v, c)
		if err != nil {
			log.Error("capture failed", "case", c.Name, "error", err)
			return fmt.Errorf("%s %s: %w", v.Name, c.Name, err)
		}
		status := StatusOK
		if f != nil {
			status = string(f.Reason)
		}
		r.record(result, CaseResult{
			Seq:      r.clock().Next(),
			Variant:  v.Name,
			Case:     c.Name,
			Reported: n,
			Status:   status,
		})

		if f != nil {
			fmt.Fprintf(r.out(), "FAIL! %s\n", f.Error())
			log.Debug("case failed", "case", c.Name, "reason", f.Reason, "reported", n, "want", f.Want)
			return f
		}
		fmt.Fprintf(r.out(), "%s %s - ok\n", v.Name, c.Name)
		log.Debug("case passed", "case", c.Name, "reported", n)
	}

	log.Debug("variant passed")
	return nil
}

func (r *Runner) record(result *Result, c CaseResult) {
	if result != nil {
		result.add(c)
	}
	if r.OnCase != nil {
		r.OnCase(c)
	}
}

// runCase performs reset, invoke and the three checks for one case. A
// CaptureError is returned as err; anything else the function returns is
// judged.
func runCase(v Variant, c fixture.Case) (int, *Failure, error) {
	v.Target.Reset()
	n, err := v.Target.Invoke(c.Format+v.Suffix, c.Values())
	var capErr *CaptureError
	if errors.As(err, &capErr) {
		return n, nil, err
	}

	wantText := c.Expect + v.Suffix
	f := &Failure{
		Variant:  v.Name,
		Case:     c.Name,
		Reported: n,
		Want:     len(c.Expect) + v.LenAdjustment,
		WantText: wantText,
	}

	if err != nil || n < 0 {
		f.Reason = ReasonNegativeReturn
		f.Err = err
		return n, f, nil
	}
	if n != f.Want {
		f.Reason = ReasonLengthMismatch
		return n, f, nil
	}

	if l, ok := v.Target.(Limiter); ok && len(wantText) > l.Visible() {
		wantText = wantText[:l.Visible()]
	}
	got := v.Target.Bytes()
	if string(got) != wantText {
		f.Reason = ReasonContentMismatch
		f.WantText = wantText
		f.GotText = string(got)
		return n, f, nil
	}
	return n, nil, nil
}
