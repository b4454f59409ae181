package stream

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// relay is the single goroutine bridging one process to one queue. It is the
// only component allowed to terminate the process, and every exit path does.
type relay[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	src    lineSource
	decode func(string) (T, error)
	items  chan<- Item[T]
	logger zerolog.Logger
}

func (r *relay[T]) run() {
	defer close(r.items)
	defer r.src.Terminate()
	defer r.cancel()

	// The cursor blocks in Scan while the process is idle; killing the
	// process is what unblocks it when the consumer closes the stream.
	go func() {
		<-r.ctx.Done()
		r.src.Terminate()
	}()

	for r.src.Scan() {
		line := strings.TrimSpace(r.src.Text())
		if line == "" {
			continue
		}

		var item Item[T]
		record, err := r.decode(line)
		if err != nil {
			perr := NewParseError(line, err)
			r.logger.Debug().Err(perr).Msg("Skipping undecodable line")
			item = Item[T]{Err: perr}
		} else {
			item = Item[T]{Record: record}
		}

		if !r.send(item) {
			return
		}
	}

	// The cursor ended: the process exited, the consumer had it killed, or
	// reading stdout failed. Always reap before deciding which.
	readErr := r.src.Err()
	code, waitErr := r.src.Wait()

	if r.ctx.Err() != nil {
		// Consumer closed the stream; it is not listening anymore.
		return
	}
	if readErr != nil {
		r.send(Item[T]{Err: fmt.Errorf("reading process output: %w", readErr)})
		return
	}
	if waitErr != nil {
		r.send(Item[T]{Err: NewExitError(code, r.src.Stderr())})
	}
}

// send blocks until the consumer takes the item or closes the stream. The
// cancelled context is the wake signal for a consumer that went away; there
// is no polling.
func (r *relay[T]) send(item Item[T]) bool {
	select {
	case r.items <- item:
		return true
	case <-r.ctx.Done():
		return false
	}
}
