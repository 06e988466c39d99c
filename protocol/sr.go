// -*- tab-width:2 -*-

package protocol

import (
	count "github.com/jayalane/go-counter"
	sim "github.com/jayalane/go-rdtsim"
	"github.com/pkg/errors"
)

// SelectiveRepeatSender acks and retransmits packets individually.
// Each outstanding sequence number has its own timer, keyed by seq.
type SelectiveRepeatSender struct {
	net     sim.Network
	ring    seqRing
	window  int
	timeout float64
	base    int
	next    int
	buf     []sim.Packet
	acked   []bool
	sentAt  []sim.Time
	backlog queue
}

// SelectiveRepeatReceiver buffers out of order packets inside its
// window and delivers contiguous runs.
//
// A packet from the previous window [base-W, base) was already
// delivered and its ack was lost, so it is acked again. A NAK here
// would make the sender resend it forever. Only sequence numbers
// outside both windows are NAKed, which never happens when the space
// is exactly 2W. Set nakStale to NAK the previous window too.
type SelectiveRepeatReceiver struct {
	net      sim.Network
	ring     seqRing
	window   int
	base     int
	received []bool
	buf      []sim.Payload
	nakStale bool
}

// NewSelectiveRepeat returns a selective repeat pair. The sequence
// space must be at least twice the window. With nakStale the receiver
// answers an old duplicate with a NAK instead of acking it again.
func NewSelectiveRepeat(window, space int, timeout float64, nakStale bool) (
	*SelectiveRepeatSender, *SelectiveRepeatReceiver, error,
) {
	Init()

	if window <= 0 {
		return nil, nil, errors.Wrapf(errWindow, "window %d", window)
	}

	if space < 2*window {
		return nil, nil, errors.Wrapf(errSeqSpace, "selective repeat space %d window %d", space, window)
	}

	ring := seqRing{space: space}
	s := SelectiveRepeatSender{ring: ring, window: window, timeout: timeout}
	r := SelectiveRepeatReceiver{ring: ring, window: window, nakStale: nakStale}

	return &s, &r, nil
}

// Init resets the sender.
func (s *SelectiveRepeatSender) Init(net sim.Network) {
	s.net = net
	s.base = 0
	s.next = 0
	s.buf = make([]sim.Packet, s.ring.space)
	s.acked = make([]bool, s.ring.space)
	s.sentAt = make([]sim.Time, s.ring.space)
	s.backlog.reset()
}

// InFlight is the width of [base, next).
func (s *SelectiveRepeatSender) InFlight() int {
	return s.ring.dist(s.base, s.next)
}

// Window is the maximum number of packets in flight.
func (s *SelectiveRepeatSender) Window() int {
	return s.window
}

// SeqSpace is the sequence number modulus.
func (s *SelectiveRepeatSender) SeqSpace() int {
	return s.ring.space
}

// Base is the oldest unacknowledged sequence number.
func (s *SelectiveRepeatSender) Base() int {
	return s.base
}

// Output queues m and sends it if the window has room.
func (s *SelectiveRepeatSender) Output(m sim.Message) {
	s.backlog.push(m)

	if s.InFlight() >= s.window {
		ml.Ls("[A] window full, message buffered, backlog", s.backlog.len())
	}

	s.fill()
}

func (s *SelectiveRepeatSender) fill() {
	for s.InFlight() < s.window {
		m, ok := s.backlog.pop()
		if !ok {
			return
		}

		seq := s.next
		s.buf[seq] = sim.NewDataPacket(seq, m.Data)
		s.acked[seq] = false
		s.next = s.ring.inc(s.next)
		s.send(seq)
	}
}

// send transmits seq and (re)starts its timer.
func (s *SelectiveRepeatSender) send(seq int) {
	s.net.Transmit(s.buf[seq])
	s.sentAt[seq] = s.net.Now()

	if s.net.TimerRunning(seq) {
		s.net.StopTimer(seq)
	}

	s.net.StartTimer(seq, s.timeout)
	ml.Ls("[A] sent seq", seq, "at", s.sentAt[seq])
}

func (s *SelectiveRepeatSender) outstanding(seq int) bool {
	return s.ring.within(s.base, s.InFlight(), seq) && !s.acked[seq]
}

// Input handles an ack, or a NAK which triggers an immediate resend.
func (s *SelectiveRepeatSender) Input(p sim.Packet) {
	if err := sim.Validate(&p); err != nil {
		ml.Ls("[A] corrupted ack, ignored")

		return
	}

	if seq, ok := p.IsNak(); ok {
		if !s.outstanding(seq) {
			ml.Ls("[A] nak", seq, "not outstanding, ignored")

			return
		}

		count.IncrSyncSuffix("retransmit_nak", "sr")
		ml.Ls("[A] nak", seq, "resending")
		s.send(seq)

		return
	}

	ack := int(p.Ack)
	if !s.outstanding(ack) {
		ml.Ls("[A] ack", ack, "not outstanding, ignored")

		return
	}

	s.acked[ack] = true
	s.net.StopTimer(ack)

	for s.InFlight() > 0 && s.acked[s.base] {
		s.acked[s.base] = false
		s.base = s.ring.inc(s.base)
	}

	ml.Ls("[A] ack", ack, "base now", s.base)
	s.fill()
}

// Timeout resends only the packet whose timer fired.
func (s *SelectiveRepeatSender) Timeout(seq int) {
	if !s.outstanding(seq) {
		ml.Ln("[A] timeout for", seq, "which is not outstanding")

		return
	}

	count.IncrSyncSuffix("retransmit", "sr")
	ml.Ls("[A] timeout seq", seq, "sent at", s.sentAt[seq], "now", s.net.Now())
	s.send(seq)
}

// Idle reports nothing in flight and nothing waiting.
func (s *SelectiveRepeatSender) Idle() bool {
	return s.InFlight() == 0 && s.backlog.len() == 0
}

// Init resets the receiver.
func (r *SelectiveRepeatReceiver) Init(net sim.Network) {
	r.net = net
	r.base = 0
	r.received = make([]bool, r.ring.space)
	r.buf = make([]sim.Payload, r.ring.space)
}

// Base is the oldest sequence number not yet delivered.
func (r *SelectiveRepeatReceiver) Base() int {
	return r.base
}

// Input buffers and acks in-window packets, delivering contiguous
// runs. Corrupted packets are dropped without any answer.
func (r *SelectiveRepeatReceiver) Input(p sim.Packet) {
	if err := sim.Validate(&p); err != nil {
		count.IncrSyncSuffix("corrupt_dropped", "sr")
		ml.Ls("[B] corrupted packet dropped")

		return
	}

	seq := int(p.Seq)

	switch {
	case r.ring.within(r.base, r.window, seq):
		if !r.received[seq] {
			r.buf[seq] = p.Payload
			r.received[seq] = true
		}

		r.net.Transmit(sim.NewAckPacket(seq))
		ml.Ls("[B] ack", seq)

		for r.received[r.base] {
			r.net.Deliver(r.buf[r.base])
			ml.Ls("[B] delivered seq", r.base)
			r.received[r.base] = false
			r.base = r.ring.inc(r.base)
		}

	case !r.nakStale && r.ring.within(r.ring.mod(r.base-r.window), r.window, seq):
		// already delivered, our ack got lost
		r.net.Transmit(sim.NewAckPacket(seq))
		ml.Ls("[B] old seq", seq, "acked again")

	default:
		count.IncrSyncSuffix("nak_sent", "sr")
		r.net.Transmit(sim.NewNakPacket(seq))
		ml.Ls("[B] seq", seq, "outside window at", r.base, "nak")
	}
}

// Timeout is unused by the receiver.
func (r *SelectiveRepeatReceiver) Timeout(id int) {
	ml.Ln("[B] unexpected timer", id)
}
