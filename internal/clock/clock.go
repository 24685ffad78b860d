// Package clock provides cancellable repeating timers.
package clock

import (
	"sync"
	"time"
)

// Timer is a handle to a repeating timer. Stop is idempotent; once it returns no
// further callbacks start.
type Timer interface {
	Stop()
}

// Scheduler starts repeating timers.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Timer
}

// Real schedules callbacks on wall-clock time. Each timer runs fn on its own
// goroutine, so fn must hand work to its owner rather than mutate shared state.
type Real struct{}

// Every calls fn once per interval until the returned timer is stopped.
func (Real) Every(interval time.Duration, fn func()) Timer {
	t := &realTimer{done: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
			}
			select {
			case <-t.done:
				return
			default:
				fn()
			}
		}
	}()
	return t
}

type realTimer struct {
	once sync.Once
	done chan struct{}
}

// Stop signals the timer goroutine to exit. It does not wait, so it is safe to
// call while fn is blocked handing a tick to the caller.
func (t *realTimer) Stop() {
	t.once.Do(func() { close(t.done) })
}
