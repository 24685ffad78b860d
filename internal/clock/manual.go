package clock

import "time"

// Manual is a Scheduler driven explicitly by Advance. Callbacks run on the
// goroutine that calls Advance.
type Manual struct {
	timers []*ManualTimer
}

// NewManual returns an empty manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// Every registers fn; the interval is ignored, each Advance step is one interval.
func (m *Manual) Every(_ time.Duration, fn func()) Timer {
	t := &ManualTimer{fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Advance fires every live timer n times, one step at a time.
func (m *Manual) Advance(n int) {
	for i := 0; i < n; i++ {
		for _, t := range append([]*ManualTimer(nil), m.timers...) {
			t.Fire()
		}
	}
}

// Active returns the number of timers that have not been stopped.
func (m *Manual) Active() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Last returns the most recently created timer, or nil.
func (m *Manual) Last() *ManualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	return m.timers[len(m.timers)-1]
}

// ManualTimer is a timer created by Manual.
type ManualTimer struct {
	fn      func()
	stopped bool
	fired   int
}

// Stop implements Timer.
func (t *ManualTimer) Stop() {
	t.stopped = true
}

// Stopped reports whether Stop was called.
func (t *ManualTimer) Stopped() bool {
	return t.stopped
}

// Fired returns how many times the callback ran.
func (t *ManualTimer) Fired() int {
	return t.fired
}

// Fire runs the callback once unless the timer is stopped.
func (t *ManualTimer) Fire() {
	if t.stopped {
		return
	}
	t.fired++
	t.fn()
}
