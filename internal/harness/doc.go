// Package harness runs a fixture table through the fmt print family and
// checks every call against the table.
//
// # Variants
//
// A Variant binds one output function to the target that captures what it
// writes, together with the two parameters that differ between functions:
//
//   - Suffix is appended to every format template before the call
//   - LenAdjustment is added to len(expect) to get the expected return value
//
// DefaultVariants returns the four variants in run order:
//
//	console         fmt.Printf(format+"\n", ...)            stdout redirected per case
//	error-stream    fmt.Fprintf(os.Stderr, format+"\n", ...) stderr redirected per case
//	fixed-buffer    fmt.Appendf(buf[:0], format, ...)        [1024]byte array
//	bounded-buffer  fmt.Fprintf(w, format, ...)              writer keeping capacity-1 bytes
//
// # Checks
//
// Each case is checked in three steps, and the first failing step ends the
// whole run:
//
//  1. negative-return: the function returned an error or a negative count
//  2. length-mismatch: the count differs from len(expect)+LenAdjustment
//  3. content-mismatch: the captured bytes differ from expect+Suffix
//
// Buffer targets are read back up to the first NUL byte. For targets that
// implement Limiter the expected text is cut to the visible capacity, while
// the expected count stays the untruncated length.
//
// A target that cannot capture at all returns a *CaptureError. That is not
// judged as negative-return: the run stops with the error and no Failure.
//
// # Diagnostics
//
// A passing case writes one line to Runner.Out:
//
//	fixed-buffer int_width - ok
//
// A failing case writes one FAIL! line and the run stops:
//
//	FAIL! fixed-buffer int_width return 4, but "   42" is 5-byte long
//
// # Usage
//
//	variants, err := harness.DefaultVariants(1024)
//	if err != nil {
//	    return err
//	}
//	r := harness.NewRunner(os.Stdout, slog.Default())
//	result, err := r.RunAll(variants, table.Cases)
//	if err != nil {
//	    return err
//	}
//	if !result.Pass {
//	    fmt.Println(result.Failure.Diff())
//	}
package harness
