package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockwatch/dockwatch/internal/domain"
)

func isAction(action string) func(domain.Event) bool {
	return func(e domain.Event) bool { return e.Base().Action == action }
}

func TestWaitForMatch(t *testing.T) {
	// Earlier non-matching records are consumed and skipped.
	src := newFakeSource(
		eventLine("c1", "create"),
		eventLine("c1", "attach"),
		eventLine("c1", "start"),
	)
	src.hang = true
	s := newTestStream(src, 16)
	defer s.Close()

	ev, err := WaitFor(s, isAction("start"), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "start", ev.Base().Action)
}

func TestWaitForTimeout(t *testing.T) {
	src := newFakeSource(eventLine("c1", "create"))
	src.hang = true
	s := newTestStream(src, 16)
	defer s.Close()

	start := time.Now()
	_, err := WaitFor(s, isAction("start"), 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.Less(t, time.Since(start), time.Second, "must race the timer, not poll out the stream")
}

func TestWaitForStreamEnded(t *testing.T) {
	// The stream ends without a match: distinct from a timeout, because no
	// more data can ever arrive.
	src := newFakeSource(eventLine("c1", "create"))
	s := newTestStream(src, 16)
	defer s.Close()

	_, err := WaitFor(s, isAction("start"), time.Second)
	assert.ErrorIs(t, err, ErrStreamEnded)
}

func TestWaitForSkipsParseErrors(t *testing.T) {
	src := newFakeSource("not json", eventLine("c1", "start"))
	src.hang = true
	s := newTestStream(src, 16)
	defer s.Close()

	ev, err := WaitFor(s, isAction("start"), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "c1", ev.Base().ActorID)
}

func TestWaitForSurfacesExitError(t *testing.T) {
	src := newFakeSource()
	src.code = 127
	src.waitErr = assert.AnError
	s := newTestStream(src, 16)
	defer s.Close()

	_, err := WaitFor(s, isAction("start"), time.Second)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 127, exitErr.Code)
}

func TestWaitForContainer(t *testing.T) {
	src := newFakeSource(
		eventLine("other", "start"),
		eventLine("c1", "start"),
	)
	src.hang = true
	s := newTestStream(src, 16)
	defer s.Close()

	ev, err := WaitForContainer(s, "c1", "start", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "c1", ev.ActorID)
	assert.Equal(t, "web", ev.Name())
}

func TestWaitForContainerByName(t *testing.T) {
	src := newFakeSource(eventLine("c1", "die"))
	src.hang = true
	s := newTestStream(src, 16)
	defer s.Close()

	ev, err := WaitForContainer(s, "web", "die", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "c1", ev.ActorID)
}
