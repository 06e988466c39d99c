// -*- tab-width:2 -*-

package sim

// Network is what a protocol entity sees of the simulation: the clock,
// the channel towards its peer, its own timers and, for the receiver,
// the application above it.
type Network interface {
	Now() Time
	Transmit(p Packet)
	StartTimer(id int, d float64)
	StopTimer(id int)
	TimerRunning(id int) bool
	Deliver(data Payload)
}

// Sender is entity A's half of a protocol.
type Sender interface {
	// Init resets all state before the first event.
	Init(net Network)
	// Output accepts one application message.
	Output(m Message)
	// Input handles an ack or nak from the receiver.
	Input(p Packet)
	// Timeout handles timer id firing.
	Timeout(id int)
	// Idle reports that nothing is buffered or unacknowledged.
	Idle() bool
}

// Receiver is entity B's half of a protocol.
type Receiver interface {
	Init(net Network)
	Input(p Packet)
	Timeout(id int)
}

// Protocol pairs a sender and a receiver.
type Protocol struct {
	Name     string
	Sender   Sender
	Receiver Receiver
}

// port binds the loop's services to one entity.
type port struct {
	l *Loop
	e Entity
}

func (p *port) Now() Time {
	return p.l.clock.Now()
}

func (p *port) Transmit(pkt Packet) {
	p.l.channel.Transmit(p.e, pkt)
}

func (p *port) StartTimer(id int, d float64) {
	_ = p.l.timers.Start(TimerKey{Entity: p.e, ID: id}, d)
}

func (p *port) StopTimer(id int) {
	_ = p.l.timers.Stop(TimerKey{Entity: p.e, ID: id})
}

func (p *port) TimerRunning(id int) bool {
	return p.l.timers.Running(TimerKey{Entity: p.e, ID: id})
}

func (p *port) Deliver(data Payload) {
	p.l.deliver(p.e, data)
}
