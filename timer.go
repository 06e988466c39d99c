// -*- tab-width:2 -*-

package sim

import (
	count "github.com/jayalane/go-counter"
)

// TimerKey names one timer: an entity and a per-entity id. Protocols
// with a single timer use id 0.
type TimerKey struct {
	Entity Entity
	ID     int
}

// Timers starts and stops timeout events on the timeline.
type Timers struct {
	clock   *Clock
	running map[TimerKey]struct{}
}

// NewTimers returns a timer service scheduling on clock.
func NewTimers(clock *Clock) *Timers {
	return &Timers{
		clock:   clock,
		running: make(map[TimerKey]struct{}),
	}
}

// Start schedules a timeout for key after d. Starting a timer that is
// already pending is logged and ignored.
func (t *Timers) Start(key TimerKey, d float64) error {
	if _, ok := t.running[key]; ok {
		ml.Ln("Warning: attempt to start a timer that is already started", key.Entity, key.ID, t.clock.Now())
		count.IncrSyncSuffix("timer_start_running", key.Entity.String())

		return ErrTimerRunning
	}

	t.running[key] = struct{}{}
	t.clock.After(d, Event{Kind: Timeout, Entity: key.Entity, Timer: key.ID})
	ml.La("Start timer", key.Entity, key.ID, "at", t.clock.Now(), "for", d)

	return nil
}

// Stop cancels the pending timeout for key. Stopping a timer that
// isn't running is logged and ignored.
func (t *Timers) Stop(key TimerKey) error {
	if _, ok := t.running[key]; !ok {
		ml.Ln("Warning: unable to cancel timer, it wasn't running", key.Entity, key.ID, t.clock.Now())
		count.IncrSyncSuffix("timer_stop_idle", key.Entity.String())

		return ErrTimerNotRunning
	}

	delete(t.running, key)

	_, err := t.clock.Timeline().Cancel(func(ev Event) bool {
		return ev.Kind == Timeout && ev.Entity == key.Entity && ev.Timer == key.ID
	})
	if err != nil {
		// the running set and the timeline disagree
		ml.Ln("Timer was running but no event found", key.Entity, key.ID, err)
	}

	ml.La("Stop timer", key.Entity, key.ID, "at", t.clock.Now())

	return nil
}

// Running reports whether a timeout is pending for key.
func (t *Timers) Running(key TimerKey) bool {
	_, ok := t.running[key]

	return ok
}

// fired marks key as no longer pending; the loop calls it before
// running the timeout callback so the callback may restart it.
func (t *Timers) fired(key TimerKey) {
	delete(t.running, key)
}
