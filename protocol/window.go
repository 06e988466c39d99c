// -*- tab-width:2 -*-

package protocol

import (
	sim "github.com/jayalane/go-rdtsim"
)

// seqRing is the sequence number arithmetic shared by the windowed
// protocols. Sequence numbers live in [0, space).
type seqRing struct {
	space int
}

func (r seqRing) mod(x int) int {
	return ((x % r.space) + r.space) % r.space
}

func (r seqRing) inc(x int) int {
	return r.mod(x + 1)
}

// dist is how far x is ahead of base.
func (r seqRing) dist(base, x int) int {
	return r.mod(x - base)
}

// within reports x in [base, base+n).
func (r seqRing) within(base, n, x int) bool {
	if x < 0 || x >= r.space {
		return false
	}

	return r.dist(base, x) < n
}

// queue is a FIFO of messages waiting for room in the send window.
type queue struct {
	items []sim.Message
}

func (q *queue) push(m sim.Message) {
	q.items = append(q.items, m)
}

func (q *queue) pop() (sim.Message, bool) {
	if len(q.items) == 0 {
		return sim.Message{}, false
	}

	m := q.items[0]
	q.items[0] = sim.Message{}
	q.items = q.items[1:]

	return m, true
}

func (q *queue) len() int {
	return len(q.items)
}

func (q *queue) reset() {
	q.items = nil
}
