package stream

import (
	"errors"
	"time"

	"github.com/dockwatch/dockwatch/internal/domain"
)

// WaitFor pulls records from s until pred matches one, the stream ends, or
// timeout elapses, racing the queue against a timer rather than polling.
// Parse errors are skipped; an ExitError is returned as-is. ErrWaitTimeout
// means a match may still arrive later; ErrStreamEnded means it cannot.
func WaitFor[T any](s *Stream[T], pred func(T) bool, timeout time.Duration) (T, error) {
	var zero T
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case item, ok := <-s.Items():
			if !ok {
				return zero, ErrStreamEnded
			}
			if item.Err != nil {
				var perr *ParseError
				if errors.As(item.Err, &perr) {
					continue
				}
				return zero, item.Err
			}
			if pred(item.Record) {
				return item.Record, nil
			}
		case <-timer.C:
			return zero, ErrWaitTimeout
		}
	}
}

// WaitForContainer blocks until the container identified by id (ID or name)
// reports action, e.g. waiting for a freshly run container to reach "start".
func WaitForContainer(s *EventStream, id, action string, timeout time.Duration) (domain.ContainerEvent, error) {
	ev, err := WaitFor(s, func(e domain.Event) bool {
		c, ok := e.(domain.ContainerEvent)
		return ok && c.Action == action && (c.ActorID == id || c.Name() == id)
	}, timeout)
	if err != nil {
		return domain.ContainerEvent{}, err
	}
	return ev.(domain.ContainerEvent), nil
}
