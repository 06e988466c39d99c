// -*- tab-width:2 -*-

package sim

import (
	"errors"
	"fmt"
	"math/rand"

	count "github.com/jayalane/go-counter"
)

var errAlreadyRan = errors.New("loop already ran")

// Loop is the main driver for the simulation. It owns the clock, the
// channel, the timers and the message source, and dispatches each
// dequeued event to the protocol. Call Run once.
type Loop struct {
	cfg     *Config
	clock   *Clock
	channel *Channel
	timers  *Timers
	source  *Source
	proto   *Protocol
	stats   *Stats
	ports   [2]*port
	ran     bool

	submitted []Message
	delivered []Payload
	observers []func(Event)
	sinks     []func(Time, Payload)
}

// NewLoop initializes and returns a simulation main loop. A nil rng
// means a math/rand source seeded with cfg.Seed; every random draw of
// the run comes from it.
func NewLoop(cfg *Config, proto *Protocol, rng Uniform) (*Loop, error) {
	Init()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if proto == nil || proto.Sender == nil || proto.Receiver == nil {
		return nil, errNoProtocol
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec
	}

	l := Loop{cfg: cfg, proto: proto, stats: &Stats{}}
	l.clock = NewClock()
	l.timers = NewTimers(l.clock)
	l.channel = NewChannel(l.clock, rng, cfg.LossProb, cfg.CorruptProb, l.stats)

	src, err := NewSource(cfg, l.clock, rng)
	if err != nil {
		return nil, err
	}

	l.source = src
	l.ports = [2]*port{{l: &l, e: A}, {l: &l, e: B}}

	return &l, nil
}

// Observe registers f to be called after every dispatched event.
func (l *Loop) Observe(f func(Event)) {
	l.observers = append(l.observers, f)
}

// OnDeliver registers f to receive every payload delivered upward.
func (l *Loop) OnDeliver(f func(Time, Payload)) {
	l.sinks = append(l.sinks, f)
}

// Now returns the current sim time.
func (l *Loop) Now() Time {
	return l.clock.Now()
}

// Clock returns the loop's clock and timeline.
func (l *Loop) Clock() *Clock {
	return l.clock
}

// Timers returns the loop's timer service.
func (l *Loop) Timers() *Timers {
	return l.timers
}

// Stats returns the counts so far.
func (l *Loop) Stats() *Stats {
	return l.stats
}

// Submitted returns the messages handed to the sender, in order.
func (l *Loop) Submitted() []Message {
	return l.submitted
}

// Delivered returns the payloads the receiver passed up, in order.
func (l *Loop) Delivered() []Payload {
	return l.delivered
}

// Run simulates until the timeline empties or the message cutoff is
// reached. With Drain set it keeps going after the last message until
// the sender is idle. MaxTime, when positive, caps the clock.
func (l *Loop) Run() (*Stats, error) {
	if l.ran {
		return l.stats, errAlreadyRan
	}

	l.ran = true

	ml.Ls("Starting", l.proto.Name, "messages", l.cfg.Messages,
		"loss", l.cfg.LossProb, "corrupt", l.cfg.CorruptProb)

	l.source.Start()
	l.proto.Sender.Init(l.ports[A])
	l.proto.Receiver.Init(l.ports[B])

	for {
		// the clock never moves past MaxTime
		if pending, ok := l.clock.Timeline().Peek(); ok &&
			l.cfg.MaxTime > 0 && float64(pending.Time) > l.cfg.MaxTime {
			ml.Ls("Max time reached at", l.clock.Now(), "next event", pending.Time)

			break
		}

		ev, err := l.clock.next()
		if errors.Is(err, ErrTimelineEmpty) {
			ml.Ls("Timeline empty at", l.clock.Now())

			break
		}

		if !l.cfg.Drain && l.source.Exhausted() {
			break // all done with simulation
		}

		ml.La("EVENT", ev)

		if err := l.dispatch(ev); err != nil {
			l.stats.EndTime = l.clock.Now()

			return l.stats, err
		}

		for _, f := range l.observers {
			f(ev)
		}

		if l.cfg.Drain && l.source.Exhausted() && l.proto.Sender.Idle() {
			ml.Ls("Sender idle after last message at", l.clock.Now())

			break
		}
	}

	l.stats.EndTime = l.clock.Now()
	l.stats.Generated = l.source.Generated()

	return l.stats, nil
}

func (l *Loop) dispatch(ev Event) error {
	switch ev.Kind {
	case AppArrival:
		m := l.source.Generate()
		l.stats.Generated = l.source.Generated()
		l.submitted = append(l.submitted, m)

		if ev.Entity != A {
			return fmt.Errorf("%w: app arrival at %s", ErrUnknownEventKind, ev.Entity)
		}

		l.proto.Sender.Output(m)

	case NetArrival:
		if ev.Packet == nil {
			return fmt.Errorf("%w: net arrival without packet", ErrUnknownEventKind)
		}

		l.stats.Arrived[ev.Entity]++
		count.IncrSyncSuffix("net_arrival", ev.Entity.String())

		if ev.Entity == A {
			l.proto.Sender.Input(*ev.Packet)
		} else {
			l.proto.Receiver.Input(*ev.Packet)
		}

	case Timeout:
		l.timers.fired(TimerKey{Entity: ev.Entity, ID: ev.Timer})
		l.stats.Timeouts[ev.Entity]++
		count.IncrSyncSuffix("timeout", ev.Entity.String())

		if ev.Entity == A {
			l.proto.Sender.Timeout(ev.Timer)
		} else {
			l.proto.Receiver.Timeout(ev.Timer)
		}

	default:
		ml.Ln("INTERNAL PANIC: unknown event type", ev)

		return fmt.Errorf("%w: %s", ErrUnknownEventKind, ev.Kind)
	}

	return nil
}

func (l *Loop) deliver(e Entity, data Payload) {
	if e != B {
		ml.Ln("Deliver called by", e, "ignored")

		return
	}

	l.delivered = append(l.delivered, data)
	l.stats.markDelivered(l.clock.Now())
	count.IncrSync("delivered")
	ml.La("TOLAYER5: data received:", string(data[:]), "at", l.clock.Now())

	for _, f := range l.sinks {
		f(l.clock.Now(), data)
	}
}
