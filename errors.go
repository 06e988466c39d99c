// -*- tab-width:2 -*-

package sim

import (
	"errors"
)

var (
	// ErrCorrupted means a packet failed checksum validation.
	ErrCorrupted = errors.New("packet corrupted")
	// ErrTimerRunning is returned when starting a timer that is already pending.
	ErrTimerRunning = errors.New("timer already running")
	// ErrTimerNotRunning is returned when stopping a timer that is not pending.
	ErrTimerNotRunning = errors.New("timer not running")
	// ErrTimelineEmpty signals there is nothing left to simulate.
	ErrTimelineEmpty = errors.New("timeline empty")
	// ErrNotFound is returned by Timeline.Cancel when nothing matched.
	ErrNotFound = errors.New("no matching event")
	// ErrUnknownEventKind aborts a run; the engine produced an event it cannot dispatch.
	ErrUnknownEventKind = errors.New("unknown event kind")

	errBadProbability  = errors.New("probability must be in [0,1]")
	errBadMessages     = errors.New("message count must be positive")
	errBadInterval     = errors.New("mean interarrival must be positive")
	errBadDistribution = errors.New("unknown interarrival distribution")
	errNoProtocol      = errors.New("protocol sender and receiver required")
)
