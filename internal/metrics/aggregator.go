package metrics

import (
	"time"

	"github.com/dockwatch/dockwatch/internal/domain"
)

const DefaultCapacity = 120

type entry struct {
	at     time.Time
	sample domain.StatsSample
}

// Aggregator retains the last capacity samples for one subject and computes
// statistics over a trailing time window on demand. Capacity bounds memory;
// the window bounds what a query considers — they are independent.
//
// Single-writer: AddSample must not be called from two goroutines. Callers
// fanning out clone samples into independent aggregators instead of sharing
// one.
type Aggregator struct {
	subjectID string
	history   []entry
	capacity  int
	createdAt time.Time
	now       func() time.Time
}

func New(subjectID string, capacity int) *Aggregator {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Aggregator{
		subjectID: subjectID,
		history:   make([]entry, 0, capacity),
		capacity:  capacity,
		createdAt: time.Now(),
		now:       time.Now,
	}
}

func (a *Aggregator) SubjectID() string { return a.subjectID }

func (a *Aggregator) Len() int { return len(a.history) }

func (a *Aggregator) CreatedAt() time.Time { return a.createdAt }

// AddSample records s at the current time, evicting the oldest sample once
// the history is full.
func (a *Aggregator) AddSample(s domain.StatsSample) {
	e := entry{at: a.now(), sample: s}
	if len(a.history) == a.capacity {
		copy(a.history, a.history[1:])
		a.history[len(a.history)-1] = e
		return
	}
	a.history = append(a.history, e)
}

// Average reduces m over the samples of the trailing window; 0 when the
// window is empty.
func (a *Aggregator) Average(m Metric, window time.Duration) float64 {
	entries := a.window(window)
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		sum += m(e.sample)
	}
	return sum / float64(len(entries))
}

// Peak is the maximum of m over the trailing window; 0 when empty.
func (a *Aggregator) Peak(m Metric, window time.Duration) float64 {
	var peak float64
	for i, e := range a.window(window) {
		if v := m(e.sample); i == 0 || v > peak {
			peak = v
		}
	}
	return peak
}

// TotalDelta is m at the newest window sample minus m at the oldest, for
// cumulative counters like network bytes. Clamped at 0 so a counter reset
// inside the window does not read as negative traffic.
func (a *Aggregator) TotalDelta(m Metric, window time.Duration) float64 {
	entries := a.window(window)
	if len(entries) < 2 {
		return 0
	}
	delta := m(entries[len(entries)-1].sample) - m(entries[0].sample)
	if delta < 0 {
		return 0
	}
	return delta
}

// window returns the history suffix that arrived within the trailing window.
// History is append-ordered, so scanning back from the end is enough.
func (a *Aggregator) window(window time.Duration) []entry {
	cutoff := a.now().Add(-window)
	start := len(a.history)
	for start > 0 && !a.history[start-1].at.Before(cutoff) {
		start--
	}
	return a.history[start:]
}
