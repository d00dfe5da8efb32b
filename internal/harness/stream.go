package harness

import (
	"fmt"
	"os"
)

// PrintFunc is a formatted-output function writing to a process stream.
type PrintFunc func(format string, args ...any) (int, error)

// StreamTarget captures a process stream (os.Stdout or os.Stderr).
//
// For the duration of one Invoke the stream variable is pointed at a temp
// file. The file is read back once the call returns and the stream is
// restored before Invoke returns, even if the print function panics.
// Captured bytes are echoed to the real stream unless Echo is false.
type StreamTarget struct {
	stream **os.File
	printf PrintFunc

	// Echo copies captured output to the restored stream.
	Echo bool

	captured []byte
}

// NewStdoutTarget captures fmt.Printf.
func NewStdoutTarget() *StreamTarget {
	return NewStreamTarget(&os.Stdout, fmt.Printf)
}

// NewStderrTarget captures fmt.Fprintf(os.Stderr, ...).
func NewStderrTarget() *StreamTarget {
	return NewStreamTarget(&os.Stderr, func(format string, args ...any) (int, error) {
		return fmt.Fprintf(os.Stderr, format, args...)
	})
}

// NewStreamTarget captures printf while it writes to *stream. printf must
// resolve the stream at call time (fmt.Printf does).
func NewStreamTarget(stream **os.File, printf PrintFunc) *StreamTarget {
	return &StreamTarget{stream: stream, printf: printf, Echo: true}
}

func (s *StreamTarget) Reset() {
	s.captured = nil
}

func (s *StreamTarget) Invoke(format string, args []any) (int, error) {
	f, err := os.CreateTemp("", "fmtconform-capture-*")
	if err != nil {
		return 0, &CaptureError{Op: "create capture file", Err: err}
	}
	defer os.Remove(f.Name())
	defer f.Close()

	orig := *s.stream
	n, printErr := s.redirect(f, orig, format, args)

	captured, err := os.ReadFile(f.Name())
	if err != nil {
		return n, &CaptureError{Op: "read capture file", Err: err}
	}
	s.captured = captured

	if s.Echo && len(captured) > 0 {
		orig.Write(captured)
	}
	return n, printErr
}

func (s *StreamTarget) redirect(f, orig *os.File, format string, args []any) (int, error) {
	*s.stream = f
	defer func() { *s.stream = orig }()
	return s.printf(format, args...)
}

func (s *StreamTarget) Bytes() []byte {
	return s.captured
}
