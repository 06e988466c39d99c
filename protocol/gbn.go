// -*- tab-width:2 -*-

package protocol

import (
	count "github.com/jayalane/go-counter"
	sim "github.com/jayalane/go-rdtsim"
	"github.com/pkg/errors"
)

const gbnTimer = 0

// GoBackNSender keeps up to window packets in flight under a single
// timer; a timeout resends all of them.
type GoBackNSender struct {
	net     sim.Network
	ring    seqRing
	window  int
	timeout float64
	base    int
	next    int
	buf     []sim.Packet
	backlog queue
}

// GoBackNReceiver accepts only the next packet in sequence and acks
// cumulatively.
type GoBackNReceiver struct {
	net         sim.Network
	ring        seqRing
	expected    int
	ackInterval float64
}

// NewGoBackN returns a go-back-n pair. The sequence space must exceed
// the window. A positive ackInterval makes the receiver resend its
// cumulative ack periodically.
func NewGoBackN(window, space int, timeout, ackInterval float64) (*GoBackNSender, *GoBackNReceiver, error) {
	Init()

	if window <= 0 {
		return nil, nil, errors.Wrapf(errWindow, "window %d", window)
	}

	if space <= window {
		return nil, nil, errors.Wrapf(errSeqSpace, "go-back-n space %d window %d", space, window)
	}

	ring := seqRing{space: space}
	s := GoBackNSender{ring: ring, window: window, timeout: timeout}
	r := GoBackNReceiver{ring: ring, ackInterval: ackInterval}

	return &s, &r, nil
}

// Init resets the sender.
func (s *GoBackNSender) Init(net sim.Network) {
	s.net = net
	s.base = 0
	s.next = 0
	s.buf = make([]sim.Packet, s.ring.space)
	s.backlog.reset()
}

// InFlight is the number of sent but unacknowledged packets.
func (s *GoBackNSender) InFlight() int {
	return s.ring.dist(s.base, s.next)
}

// Window is the maximum number of packets in flight.
func (s *GoBackNSender) Window() int {
	return s.window
}

// Base is the oldest unacknowledged sequence number.
func (s *GoBackNSender) Base() int {
	return s.base
}

// NextSeq is the sequence number the next new packet gets.
func (s *GoBackNSender) NextSeq() int {
	return s.next
}

// Output queues m and sends it if the window has room.
func (s *GoBackNSender) Output(m sim.Message) {
	s.backlog.push(m)

	if s.InFlight() >= s.window {
		ml.Ls("[A] window full, message buffered, backlog", s.backlog.len())
	}

	s.fill()
}

// fill sends backlog messages while the window has room.
func (s *GoBackNSender) fill() {
	for s.InFlight() < s.window {
		m, ok := s.backlog.pop()
		if !ok {
			return
		}

		first := s.InFlight() == 0
		s.buf[s.next] = sim.NewDataPacket(s.next, m.Data)
		s.net.Transmit(s.buf[s.next])
		ml.Ls("[A] sent seq", s.next)

		if first {
			s.net.StartTimer(gbnTimer, s.timeout)
		}

		s.next = s.ring.inc(s.next)
	}
}

// Input handles a cumulative ack.
func (s *GoBackNSender) Input(p sim.Packet) {
	if err := sim.Validate(&p); err != nil {
		ml.Ls("[A] corrupted ack, ignored")

		return
	}

	k := int(p.Ack)
	if !s.ring.within(s.base, s.InFlight(), k) {
		ml.Ls("[A] ack", k, "outside [", s.base, s.next, ") ignored")

		return
	}

	s.base = s.ring.inc(k)
	ml.Ls("[A] ack", k, "base now", s.base)

	s.net.StopTimer(gbnTimer)

	if s.InFlight() > 0 {
		s.net.StartTimer(gbnTimer, s.timeout)
	}

	s.fill()
}

// Timeout resends every packet in flight.
func (s *GoBackNSender) Timeout(_ int) {
	n := s.InFlight()
	if n == 0 {
		ml.Ln("[A] timeout with nothing in flight")

		return
	}

	ml.Ls("[A] timeout, resending [", s.base, s.next, ")")

	for i := 0; i < n; i++ {
		count.IncrSyncSuffix("retransmit", "gbn")
		s.net.Transmit(s.buf[s.ring.mod(s.base+i)])
	}

	s.net.StartTimer(gbnTimer, s.timeout)
}

// Idle reports nothing in flight and nothing waiting.
func (s *GoBackNSender) Idle() bool {
	return s.InFlight() == 0 && s.backlog.len() == 0
}

// Init resets the receiver and starts the periodic ack timer.
func (r *GoBackNReceiver) Init(net sim.Network) {
	r.net = net
	r.expected = 0

	if r.ackInterval > 0 {
		r.net.StartTimer(gbnTimer, r.ackInterval)
	}
}

// Expected is the next sequence number the receiver will accept.
func (r *GoBackNReceiver) Expected() int {
	return r.expected
}

func (r *GoBackNReceiver) lastAck() {
	r.net.Transmit(sim.NewAckPacket(r.ring.mod(r.expected - 1)))
}

// Input delivers the packet if it is the expected one; otherwise the
// last cumulative ack is repeated.
func (r *GoBackNReceiver) Input(p sim.Packet) {
	if err := sim.Validate(&p); err != nil {
		ml.Ls("[B] corrupted packet, repeating ack", r.ring.mod(r.expected-1))
		r.lastAck()

		return
	}

	if int(p.Seq) != r.expected {
		ml.Ls("[B] out of order seq", p.Seq, "expected", r.expected)
		r.lastAck()

		return
	}

	r.net.Deliver(p.Payload)
	ml.Ls("[B] delivered seq", p.Seq)
	r.expected = r.ring.inc(r.expected)
	r.lastAck()
}

// Timeout resends the cumulative ack and rearms.
func (r *GoBackNReceiver) Timeout(_ int) {
	ml.La("[B] periodic ack", r.ring.mod(r.expected-1))
	r.lastAck()

	if r.ackInterval > 0 {
		r.net.StartTimer(gbnTimer, r.ackInterval)
	}
}
