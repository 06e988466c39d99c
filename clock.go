// -*- tab-width:2 -*-

package sim

// Clock is the simulation context shared by the channel, the timers
// and the loop: the virtual time and the timeline of pending events.
// Time only moves when the loop dequeues an event.
type Clock struct {
	now      Time
	timeline *Timeline
}

// NewClock returns a clock at time zero with an empty timeline.
func NewClock() *Clock {
	return &Clock{timeline: NewTimeline()}
}

// Now returns the current simulation time.
func (c *Clock) Now() Time {
	return c.now
}

// Timeline returns the pending event list.
func (c *Clock) Timeline() *Timeline {
	return c.timeline
}

// After schedules ev to happen d time units from now.
func (c *Clock) After(d float64, ev Event) {
	ev.Time = c.now + Time(d)
	c.timeline.Schedule(ev)
}

// next dequeues the earliest event and moves the clock to it.
func (c *Clock) next() (Event, error) {
	ev, err := c.timeline.Next()
	if err != nil {
		return ev, err
	}

	c.now = ev.Time

	return ev, nil
}
