package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrStopped is returned when registering work on a stopped scheduler.
var ErrStopped = errors.New("scheduler: stopped")

// maxCatchUp bounds how many times a task may run in one Tick after a stall.
const maxCatchUp = 4

// Interval converts a rate in Hz to a tick interval.
func Interval(hz int) time.Duration {
	if hz <= 0 {
		return 0
	}
	return time.Second / time.Duration(hz)
}

type task struct {
	name     string
	interval time.Duration
	acc      time.Duration
	fn       func()
	runs     uint64
}

// Timer is a pending one-shot callback.
type Timer struct {
	id        uint64
	due       time.Duration
	fn        func()
	s         *Scheduler
	cancelled bool
	fired     bool
}

// Cancel prevents the timer from firing. It reports whether the timer was
// still pending.
func (t *Timer) Cancel() bool {
	if t == nil || t.s == nil {
		return false
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	return true
}

// Scheduler runs registered tasks at their own intervals and fires timers
// once they come due. Everything runs on the goroutine that calls Tick.
type Scheduler struct {
	mu      sync.Mutex
	clock   Clock
	tasks   []*task
	timers  []*Timer
	last    time.Duration
	nextID  uint64
	stopped bool
}

// New creates a scheduler reading time from clock.
func New(clock Clock) *Scheduler {
	return &Scheduler{
		clock: clock,
		last:  clock.Now(),
	}
}

// Every registers fn to run once per interval. Tasks run in registration order.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) error {
	if interval <= 0 {
		return fmt.Errorf("scheduler: task %q: interval must be positive, got %v", name, interval)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}
	s.tasks = append(s.tasks, &task{name: name, interval: interval, fn: fn})
	return nil
}

// EveryHz registers fn to run hz times per second.
func (s *Scheduler) EveryHz(name string, hz int, fn func()) error {
	return s.Every(name, Interval(hz), fn)
}

// After schedules fn to run once, d after the current clock time.
// On a stopped scheduler the returned timer never fires.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := &Timer{id: s.nextID, due: s.clock.Now() + d, fn: fn, s: s}
	if s.stopped {
		t.cancelled = true
		return t
	}
	s.timers = append(s.timers, t)
	return t
}

// Now returns the scheduler's clock time.
func (s *Scheduler) Now() time.Duration {
	return s.clock.Now()
}

// Tick reads the clock, runs every task whose accumulated time reached its
// interval and then fires due timers in due order.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()
	dt := now - s.last
	s.last = now
	if dt < 0 {
		dt = 0
	}

	var runs []func()
	for _, t := range s.tasks {
		t.acc += dt
		n := 0
		for t.acc >= t.interval && n < maxCatchUp {
			t.acc -= t.interval
			runs = append(runs, t.fn)
			t.runs++
			n++
		}
		if t.acc >= t.interval {
			t.acc %= t.interval
		}
	}
	s.mu.Unlock()

	for _, fn := range runs {
		if s.Stopped() {
			return
		}
		fn()
	}
	s.fireTimers(now)
}

func (s *Scheduler) fireTimers(now time.Duration) {
	s.mu.Lock()
	var due []*Timer
	pending := s.timers[:0]
	for _, t := range s.timers {
		switch {
		case t.cancelled:
		case t.due <= now:
			due = append(due, t)
		default:
			pending = append(pending, t)
		}
	}
	s.timers = pending
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].id < due[j].id
	})

	for _, t := range due {
		s.mu.Lock()
		skip := t.cancelled || s.stopped
		t.fired = !skip
		s.mu.Unlock()
		if !skip {
			t.fn()
		}
	}
}

// Pending returns the number of timers still waiting to fire.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Runs returns how many times the named task has run.
func (s *Scheduler) Runs(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.name == name {
			return t.runs
		}
	}
	return 0
}

// Stop cancels all pending timers and turns Tick into a no-op. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	for _, t := range s.timers {
		t.cancelled = true
	}
	s.timers = nil
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
