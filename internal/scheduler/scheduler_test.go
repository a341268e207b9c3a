package scheduler

import (
	"errors"
	"testing"
	"time"
)

func advanceBy(t *testing.T, s *Scheduler, c *ManualClock, step time.Duration, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		c.Advance(step)
		s.Tick()
	}
}

func TestTasksRunAtIndependentRates(t *testing.T) {
	clock := NewManualClock()
	s := New(clock)

	counts := map[string]int{}
	rates := map[string]int{"kinematics": 30, "enemies": 20, "projectiles": 30, "collisions": 10}
	for _, name := range []string{"kinematics", "enemies", "projectiles", "collisions"} {
		name := name
		if err := s.EveryHz(name, rates[name], func() { counts[name]++ }); err != nil {
			t.Fatalf("EveryHz(%s) failed: %v", name, err)
		}
	}

	advanceBy(t, s, clock, 10*time.Millisecond, 100)

	for name, hz := range rates {
		if counts[name] != hz {
			t.Errorf("%s ran %d times in 1s, expected %d", name, counts[name], hz)
		}
		if s.Runs(name) != uint64(hz) {
			t.Errorf("Runs(%s) = %d, expected %d", name, s.Runs(name), hz)
		}
	}
}

func TestTasksRunInRegistrationOrder(t *testing.T) {
	clock := NewManualClock()
	s := New(clock)

	var order []string
	_ = s.Every("a", 10*time.Millisecond, func() { order = append(order, "a") })
	_ = s.Every("b", 10*time.Millisecond, func() { order = append(order, "b") })

	advanceBy(t, s, clock, 10*time.Millisecond, 2)

	expected := []string{"a", "b", "a", "b"}
	if len(order) != len(expected) {
		t.Fatalf("order = %v, expected %v", order, expected)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("order = %v, expected %v", order, expected)
		}
	}
}

func TestCatchUpIsBounded(t *testing.T) {
	clock := NewManualClock()
	s := New(clock)

	runs := 0
	_ = s.EveryHz("slow", 10, func() { runs++ })

	clock.Advance(5 * time.Second)
	s.Tick()

	if runs != maxCatchUp {
		t.Errorf("after a 5s stall task ran %d times, expected %d", runs, maxCatchUp)
	}

	// Backlog is dropped rather than replayed on later ticks.
	clock.Advance(10 * time.Millisecond)
	s.Tick()
	if runs != maxCatchUp {
		t.Errorf("backlog replayed: runs = %d", runs)
	}
}

func TestEveryRejectsBadInterval(t *testing.T) {
	s := New(NewManualClock())
	if err := s.Every("bad", 0, func() {}); err == nil {
		t.Error("expected error for zero interval")
	}
	if err := s.EveryHz("bad", -1, func() {}); err == nil {
		t.Error("expected error for negative rate")
	}
}

func TestTimerFiresWhenDue(t *testing.T) {
	clock := NewManualClock()
	s := New(clock)

	fired := 0
	s.After(400*time.Millisecond, func() { fired++ })

	advanceBy(t, s, clock, 100*time.Millisecond, 3)
	if fired != 0 {
		t.Fatalf("timer fired early at %v", clock.Now())
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, expected 1", s.Pending())
	}

	advanceBy(t, s, clock, 100*time.Millisecond, 1)
	if fired != 1 {
		t.Fatalf("timer did not fire at %v", clock.Now())
	}

	advanceBy(t, s, clock, 100*time.Millisecond, 5)
	if fired != 1 {
		t.Errorf("timer fired %d times, expected once", fired)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", s.Pending())
	}
}

func TestTimersFireInDueOrder(t *testing.T) {
	clock := NewManualClock()
	s := New(clock)

	var order []int
	s.After(300*time.Millisecond, func() { order = append(order, 3) })
	s.After(100*time.Millisecond, func() { order = append(order, 1) })
	s.After(200*time.Millisecond, func() { order = append(order, 2) })

	clock.Advance(time.Second)
	s.Tick()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("fire order = %v, expected [1 2 3]", order)
	}
}

func TestTimerCancel(t *testing.T) {
	clock := NewManualClock()
	s := New(clock)

	fired := false
	timer := s.After(50*time.Millisecond, func() { fired = true })

	if !timer.Cancel() {
		t.Error("Cancel() on pending timer should return true")
	}
	if timer.Cancel() {
		t.Error("second Cancel() should return false")
	}

	advanceBy(t, s, clock, 100*time.Millisecond, 1)
	if fired {
		t.Error("cancelled timer fired")
	}
}

func TestTimerScheduledFromCallback(t *testing.T) {
	clock := NewManualClock()
	s := New(clock)

	second := false
	s.After(10*time.Millisecond, func() {
		s.After(10*time.Millisecond, func() { second = true })
	})

	advanceBy(t, s, clock, 10*time.Millisecond, 1)
	if second {
		t.Fatal("nested timer fired in the same tick")
	}
	advanceBy(t, s, clock, 10*time.Millisecond, 1)
	if !second {
		t.Error("nested timer did not fire")
	}
}

func TestStopCancelsEverything(t *testing.T) {
	clock := NewManualClock()
	s := New(clock)

	taskRuns := 0
	timerFired := false
	_ = s.EveryHz("t", 100, func() { taskRuns++ })
	s.After(20*time.Millisecond, func() { timerFired = true })

	s.Stop()
	s.Stop()

	advanceBy(t, s, clock, 10*time.Millisecond, 10)
	if taskRuns != 0 || timerFired {
		t.Errorf("work ran after Stop: tasks=%d timer=%v", taskRuns, timerFired)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after Stop", s.Pending())
	}

	if err := s.Every("late", time.Millisecond, func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("Every after Stop: err = %v, expected ErrStopped", err)
	}

	late := false
	timer := s.After(time.Millisecond, func() { late = true })
	advanceBy(t, s, clock, 10*time.Millisecond, 1)
	if late {
		t.Error("timer created after Stop fired")
	}
	if timer.Cancel() {
		t.Error("timer created after Stop should already be cancelled")
	}
}

func TestStopFromTaskSkipsRemainingWork(t *testing.T) {
	clock := NewManualClock()
	s := New(clock)

	after := false
	_ = s.Every("stopper", 10*time.Millisecond, func() { s.Stop() })
	_ = s.Every("next", 10*time.Millisecond, func() { after = true })

	advanceBy(t, s, clock, 10*time.Millisecond, 1)
	if after {
		t.Error("task ran after Stop within the same tick")
	}
}

func TestManualClockIgnoresNegative(t *testing.T) {
	c := NewManualClock()
	c.Advance(time.Second)
	c.Advance(-time.Hour)
	if c.Now() != time.Second {
		t.Errorf("Now() = %v, expected 1s", c.Now())
	}
}

func TestInterval(t *testing.T) {
	if Interval(10) != 100*time.Millisecond {
		t.Errorf("Interval(10) = %v", Interval(10))
	}
	if Interval(0) != 0 {
		t.Errorf("Interval(0) = %v", Interval(0))
	}
}
