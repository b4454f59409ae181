package stream

// lineSource is what the relay needs from a spawned process: a line cursor,
// a kill switch, and the exit status. *runner.Handle implements it; tests
// substitute fakes.
type lineSource interface {
	Scan() bool
	Text() string
	Err() error
	Terminate()
	Wait() (code int, err error)
	Stderr() string
}
