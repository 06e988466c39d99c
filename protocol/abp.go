// -*- tab-width:2 -*-

package protocol

import (
	count "github.com/jayalane/go-counter"
	sim "github.com/jayalane/go-rdtsim"
)

const abpTimer = 0

type abpState int

const (
	abpIdle abpState = iota
	abpAwaitingAck
)

// StopAndWaitSender is the alternating bit sender. While a packet is
// outstanding new messages are dropped, not buffered.
type StopAndWaitSender struct {
	net     sim.Network
	timeout float64
	seq     int
	state   abpState
	last    sim.Packet
	dropped int
}

// StopAndWaitReceiver is the alternating bit receiver.
type StopAndWaitReceiver struct {
	net      sim.Network
	expected int
}

// NewStopAndWait returns an alternating bit sender and receiver.
func NewStopAndWait(timeout float64) (*StopAndWaitSender, *StopAndWaitReceiver) {
	Init()

	return &StopAndWaitSender{timeout: timeout}, &StopAndWaitReceiver{}
}

// Init resets the sender.
func (s *StopAndWaitSender) Init(net sim.Network) {
	s.net = net
	s.seq = 0
	s.state = abpIdle
	s.last = sim.Packet{}
	s.dropped = 0
}

// Output sends m if nothing is outstanding, otherwise drops it.
func (s *StopAndWaitSender) Output(m sim.Message) {
	if s.state == abpAwaitingAck {
		s.dropped++
		count.IncrSyncSuffix("message_dropped", "abp")
		ml.Ls("[A] packet outstanding, dropping message", string(m.Data[:]))

		return
	}

	s.last = sim.NewDataPacket(s.seq, m.Data)
	s.net.Transmit(s.last)
	s.net.StartTimer(abpTimer, s.timeout)
	s.state = abpAwaitingAck
	ml.Ls("[A] sent seq", s.seq, "at", s.net.Now())
}

// Input handles an ack from B.
func (s *StopAndWaitSender) Input(p sim.Packet) {
	if err := sim.Validate(&p); err != nil {
		ml.Ls("[A] corrupted ack, ignored")

		return
	}

	if s.state != abpAwaitingAck || int(p.Ack) != s.seq {
		ml.Ls("[A] duplicate ack", p.Ack, "ignored")

		return
	}

	s.net.StopTimer(abpTimer)
	ml.Ls("[A] got ack", p.Ack)
	s.seq = 1 - s.seq
	s.state = abpIdle
}

// Timeout resends the outstanding packet.
func (s *StopAndWaitSender) Timeout(_ int) {
	if s.state != abpAwaitingAck {
		ml.Ln("[A] timeout with nothing outstanding")

		return
	}

	count.IncrSyncSuffix("retransmit", "abp")
	ml.Ls("[A] timeout, resending seq", s.last.Seq)
	s.net.Transmit(s.last)
	s.net.StartTimer(abpTimer, s.timeout)
}

// Idle reports that no packet is outstanding.
func (s *StopAndWaitSender) Idle() bool {
	return s.state == abpIdle
}

// Dropped is the number of messages refused while awaiting an ack.
func (s *StopAndWaitSender) Dropped() int {
	return s.dropped
}

// Init resets the receiver.
func (r *StopAndWaitReceiver) Init(net sim.Network) {
	r.net = net
	r.expected = 0
}

// Input delivers an in sequence packet and acks it; anything else
// gets the ack for the last good packet again.
func (r *StopAndWaitReceiver) Input(p sim.Packet) {
	if err := sim.Validate(&p); err != nil {
		ml.Ls("[B] corrupted packet, acking", 1-r.expected)
		r.net.Transmit(sim.NewAckPacket(1 - r.expected))

		return
	}

	if int(p.Seq) != r.expected {
		ml.Ls("[B] duplicate seq", p.Seq, "acking", 1-r.expected)
		r.net.Transmit(sim.NewAckPacket(1 - r.expected))

		return
	}

	r.net.Deliver(p.Payload)
	r.net.Transmit(sim.NewAckPacket(r.expected))
	ml.Ls("[B] delivered seq", p.Seq)
	r.expected = 1 - r.expected
}

// Timeout is unused by this protocol.
func (r *StopAndWaitReceiver) Timeout(id int) {
	ml.Ln("[B] unexpected timer", id)
}
