// Package runner spawns the daemon CLI in continuous-output mode and exposes
// a line cursor over its stdout plus a termination handle. It knows nothing
// about the wire format; callers get raw lines.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"
)

const (
	// Lines longer than this abort the cursor with bufio.ErrTooLong. Stats
	// snapshots for hosts with many cores are the largest lines we see and
	// stay well under this.
	maxLineBytes = 1 << 20

	maxStderrBytes = 8 << 10

	waitDelay = 5 * time.Second
)

// Handle owns one spawned process. The line cursor (Scan/Text/Err) is
// non-restartable and must be driven from a single goroutine; Terminate and
// Wait are safe to call from anywhere, any number of times.
type Handle struct {
	cmd     *exec.Cmd
	scanner *bufio.Scanner
	stderr  *cappedBuffer
	cancel  context.CancelFunc

	termOnce sync.Once
	waitOnce sync.Once
	waitErr  error
}

// Start spawns binary with args. A spawn failure (binary missing, permission
// denied) is returned here, before any handle exists. The process is killed
// when ctx is cancelled or Terminate is called, whichever comes first.
func Start(ctx context.Context, binary string, args ...string) (*Handle, error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.WaitDelay = waitDelay

	stderr := &cappedBuffer{limit: maxStderrBytes}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("starting %s: %w", binary, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	return &Handle{
		cmd:     cmd,
		scanner: scanner,
		stderr:  stderr,
		cancel:  cancel,
	}, nil
}

// Scan advances the cursor to the next line, blocking until one is available
// or the process's stdout closes.
func (h *Handle) Scan() bool {
	return h.scanner.Scan()
}

// Text returns the line the last successful Scan advanced to.
func (h *Handle) Text() string {
	return h.scanner.Text()
}

// Err returns the I/O error that ended the cursor, nil on clean EOF.
func (h *Handle) Err() error {
	return h.scanner.Err()
}

// Terminate kills the process. Idempotent; terminating a process that has
// already exited is a no-op.
func (h *Handle) Terminate() {
	h.termOnce.Do(h.cancel)
}

// Wait reaps the process and returns its exit code. Call only after the
// cursor has ended. Idempotent; err is non-nil when the process exited
// nonzero or was killed.
func (h *Handle) Wait() (code int, err error) {
	h.waitOnce.Do(func() {
		h.waitErr = h.cmd.Wait()
	})
	return h.cmd.ProcessState.ExitCode(), h.waitErr
}

// Stderr returns what the process wrote to stderr, capped at a few KiB.
// Only meaningful after Wait.
func (h *Handle) Stderr() string {
	return h.stderr.String()
}

// Exited reports whether the process has been reaped. Used by tests to check
// for leaks.
func (h *Handle) Exited() bool {
	return h.cmd.ProcessState != nil
}

// cappedBuffer keeps the first limit bytes written and drops the rest. The
// interesting part of a failing CLI's stderr is the leading error line.
type cappedBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.limit - len(b.buf); room > 0 {
		if len(p) > room {
			b.buf = append(b.buf, p[:room]...)
		} else {
			b.buf = append(b.buf, p...)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
