// Package stream turns the daemon CLI's continuous line-oriented JSON output
// into typed, cancellable record streams. Each stream spawns one process and
// one relay goroutine; the relay owns the process and guarantees it is
// terminated when the stream ends, whichever side ends it.
package stream

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dockwatch/dockwatch/internal/domain"
	"github.com/dockwatch/dockwatch/internal/filter"
	"github.com/dockwatch/dockwatch/internal/runner"
)

const (
	DefaultBinary     = "docker"
	DefaultBufferSize = 256
)

// Options configures how a stream's process is spawned and buffered.
// The zero value is usable.
type Options struct {
	// Binary is the CLI to spawn, DefaultBinary when empty.
	Binary string
	// BufferSize is the relay queue capacity. A full queue suspends the
	// relay rather than dropping records; slow consumers throttle the
	// producer.
	BufferSize int
	// Logger receives per-line decode failures at Debug level. Nil
	// discards them.
	Logger *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Binary == "" {
		o.Binary = DefaultBinary
	}
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}

// Item is one queue element: a decoded record or the error that stands in
// for it.
type Item[T any] struct {
	Record T
	Err    error
}

// Stream is the consumer's handle on one spawned process. Next and Items are
// two views of the same queue, not independent consumers. Closing the stream
// is the only supported teardown path; it terminates the owned process.
type Stream[T any] struct {
	items     <-chan Item[T]
	cancel    context.CancelFunc
	closeOnce sync.Once
}

type (
	EventStream = Stream[domain.Event]
	StatsStream = Stream[domain.StatsSample]
)

// Events spawns the lifecycle-event watcher restricted by f (nil means
// unfiltered) and returns its stream. Spawn failures are returned here;
// everything after that arrives through the stream.
func Events(ctx context.Context, f *filter.Filter, opts Options) (*EventStream, error) {
	if f == nil {
		f = filter.New()
	}
	return open(ctx, append([]string{"events"}, f.Args()...), decodeEvent, opts)
}

// Stats spawns the continuous resource-usage watcher. An empty subjectID
// watches all running containers.
func Stats(ctx context.Context, subjectID string, opts Options) (*StatsStream, error) {
	args := []string{"stats", "--format", "json"}
	if subjectID != "" {
		args = append(args, subjectID)
	}
	return open(ctx, args, decodeStats, opts)
}

func open[T any](ctx context.Context, args []string, decode func(string) (T, error), opts Options) (*Stream[T], error) {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(ctx)

	src, err := runner.Start(ctx, opts.Binary, args...)
	if err != nil {
		cancel()
		return nil, err
	}

	items := make(chan Item[T], opts.BufferSize)
	r := &relay[T]{
		ctx:    ctx,
		cancel: cancel,
		src:    src,
		decode: decode,
		items:  items,
		logger: *opts.Logger,
	}
	go r.run()

	return &Stream[T]{items: items, cancel: cancel}, nil
}

// Next returns the next record, blocking until one is available, ctx is
// done, or the stream ends. A *ParseError return is recoverable: keep
// calling Next. A *ExitError is the stream's final word before
// ErrStreamEnded.
func (s *Stream[T]) Next(ctx context.Context) (T, error) {
	var zero T
	select {
	case item, ok := <-s.items:
		if !ok {
			return zero, ErrStreamEnded
		}
		if item.Err != nil {
			return zero, item.Err
		}
		return item.Record, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Items exposes the queue for select loops. The channel closes at
// end-of-stream, after anything already buffered has been delivered.
func (s *Stream[T]) Items() <-chan Item[T] {
	return s.items
}

// Close cancels the relay, which terminates the owned process. Idempotent.
// Cancellation is not instantaneous; the relay notices on its next read or
// push attempt.
func (s *Stream[T]) Close() {
	s.closeOnce.Do(s.cancel)
}
