package stream

import (
	"errors"
	"fmt"
)

// ErrStreamEnded means the stream's queue is closed and drained; no more
// data can ever arrive. Distinct from ErrWaitTimeout, where data might
// still arrive later.
var ErrStreamEnded = errors.New("stream ended")

// ErrWaitTimeout is returned by WaitFor when the deadline elapses before a
// matching record arrives.
var ErrWaitTimeout = errors.New("wait deadline elapsed")

// ParseError wraps a line that could not be decoded. Recoverable: the relay
// reports it and keeps going, and a consumer seeing one from Next may keep
// pulling.
type ParseError struct {
	Line string
	Err  error
}

func NewParseError(line string, err error) *ParseError {
	return &ParseError{Line: line, Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decoding line %q: %v", truncate(e.Line, 120), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExitError reports that the underlying process exited abnormally. Fatal:
// it is the last item a consumer receives before end-of-stream.
type ExitError struct {
	Code   int
	Stderr string
}

func NewExitError(code int, stderr string) *ExitError {
	return &ExitError{Code: code, Stderr: stderr}
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("process exited with code %d", e.Code)
	}
	return fmt.Sprintf("process exited with code %d: %s", e.Code, truncate(e.Stderr, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
