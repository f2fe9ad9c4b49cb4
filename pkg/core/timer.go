package core

import (
	"fmt"
	"sync"
	"time"
)

// Timer is the cancellation handle of a repeating timer. Cancel never
// interrupts a callback that is already running; it only suppresses future
// fires. Calling it more than once is harmless.
type Timer interface {
	Cancel()
}

// TimerFactory arms repeating timers that invoke callback once per period
// until cancelled.
type TimerFactory interface {
	CreateTimer(period time.Duration, callback func()) Timer
}

// Clock reports wall-clock time for message stamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Ticker fires a function at a steady period from its own goroutine.
type Ticker struct {
	period time.Duration
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// StartTicker begins calling fire every period. The period must be positive.
func StartTicker(period time.Duration, fire func()) *Ticker {
	if period <= 0 {
		panic(fmt.Sprintf("core: non-positive timer period %v", period))
	}
	t := &Ticker{period: period, stop: make(chan struct{}), done: make(chan struct{})}
	go t.run(fire)
	return t
}

func (t *Ticker) run(fire func()) {
	defer close(t.done)
	tk := time.NewTicker(t.period)
	defer tk.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-tk.C:
			// A stop that raced with the tick wins.
			select {
			case <-t.stop:
				return
			default:
			}
			fire()
		}
	}
}

// Period returns the configured interval.
func (t *Ticker) Period() time.Duration { return t.period }

// Cancel stops future fires without waiting for the ticker goroutine.
func (t *Ticker) Cancel() {
	t.once.Do(func() { close(t.stop) })
}

// Done is closed once the ticker goroutine has exited.
func (t *Ticker) Done() <-chan struct{} { return t.done }
