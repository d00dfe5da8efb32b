package harness

import "bytes"

// Target captures the output of one formatted-output function.
type Target interface {
	// Reset clears whatever the previous invocation captured.
	Reset()

	// Invoke calls the output function with format and args and returns
	// its reported count and error unchanged.
	Invoke(format string, args []any) (int, error)

	// Bytes returns the text captured by the last Invoke.
	Bytes() []byte
}

// CaptureError reports that a target could not capture output, as opposed
// to the output function failing. A run stops on it without a Failure.
type CaptureError struct {
	Op  string
	Err error
}

func (e *CaptureError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// Limiter is implemented by targets that keep only a prefix of the output.
type Limiter interface {
	// Visible returns how many bytes of output can be read back.
	Visible() int
}

// cstring returns b up to, not including, its first NUL byte.
func cstring(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}
