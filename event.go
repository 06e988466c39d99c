// -*- tab-width:2 -*-

package sim

import (
	"fmt"
)

// Entity names one side of the simulated link.
type Entity int

// A sends data and B receives it.
const (
	A Entity = iota
	B
)

// Peer returns the entity at the other end of the channel.
func (e Entity) Peer() Entity {
	return 1 - e
}

func (e Entity) String() string {
	switch e {
	case A:
		return "A"
	case B:
		return "B"
	default:
		return fmt.Sprintf("Entity(%d)", int(e))
	}
}

// EventKind says what an Event does when dispatched.
type EventKind int

const (
	// Timeout fires a timer on an entity.
	Timeout EventKind = iota
	// AppArrival hands a new application message to the sender.
	AppArrival
	// NetArrival delivers a packet from the channel.
	NetArrival
)

func (k EventKind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case AppArrival:
		return "app-arrival"
	case NetArrival:
		return "net-arrival"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one scheduled occurrence on the timeline. Events are values;
// the timeline owns them until Next hands one back.
type Event struct {
	Time   Time
	Kind   EventKind
	Entity Entity
	Timer  int     // timer key, Timeout only
	Packet *Packet // NetArrival only
}

func (e Event) String() string {
	if e.Packet != nil {
		return fmt.Sprintf("%.3f %s@%s %s", e.Time, e.Kind, e.Entity, e.Packet)
	}

	if e.Kind == Timeout {
		return fmt.Sprintf("%.3f %s@%s timer=%d", e.Time, e.Kind, e.Entity, e.Timer)
	}

	return fmt.Sprintf("%.3f %s@%s", e.Time, e.Kind, e.Entity)
}
