// -*- tab-width:2 -*-

// Package sim provides a discrete event simulation of an unreliable
// channel between two entities, used to drive and check reliable
// data transfer protocols.
package sim

import (
	"sync"

	ll "github.com/jayalane/go-lll"
)

var (
	ml     *ll.Lll
	mlOnce sync.Once
)

const (
	// PayloadLen is the fixed size of a message and packet payload.
	PayloadLen = 20

	// CorruptSentinel replaces seq or ack numbers the channel mangles.
	CorruptSentinel = 999999

	minJitter = 1.0
	maxJitter = 10.0

	payloadCorruptShare = 0.75
	seqCorruptShare     = 0.875
)

// Time is the virtual simulation clock.
type Time float64

// Init must be called before any simulation stuff
// it merely inits the logger.
func Init() {
	mlOnce.Do(func() {
		ml = ll.Init("SIM", "none")
	})
}

// InitWithLogger is an init where you can
// pass in the go-lll logger.
func InitWithLogger(l *ll.Lll) {
	mlOnce.Do(func() {
		ml = l
	})
}
