// -*- tab-width:2 -*-
package protocol

import (
	"testing"

	sim "github.com/jayalane/go-rdtsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGbnSender(t *testing.T) (*GoBackNSender, *fakeNet) {
	t.Helper()

	s, _, err := NewGoBackN(GbnWindow, GbnSeqSpace, GbnTimeout, 0)
	require.NoError(t, err)

	net := newFakeNet()
	s.Init(net)

	return s, net
}

func TestGoBackNWindow(t *testing.T) {
	s, net := newGbnSender(t)

	for i := 0; i < 20; i++ {
		s.Output(msg(i))
		assert.LessOrEqual(t, s.InFlight(), s.Window())
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, net.seqs())
	assert.Equal(t, []int{gbnTimer}, net.starts, "timer started once")
	assert.Equal(t, 8, s.InFlight())
	assert.False(t, s.Idle())

	// cumulative ack for 3 frees four slots
	net.reset()
	s.Input(sim.NewAckPacket(3))
	assert.Equal(t, 4, s.Base())
	assert.Equal(t, []int{8, 9, 10, 11}, net.seqs())
	assert.Equal(t, msg(8).Data, net.sent[0].Payload)
	assert.True(t, net.TimerRunning(gbnTimer))
	assert.Equal(t, []int{gbnTimer}, net.stops, "restarted")
	assert.Equal(t, 8, s.InFlight())

	// stale and corrupt acks change nothing
	net.reset()
	s.Input(sim.NewAckPacket(2))
	s.Input(sim.NewAckPacket(GbnSeqSpace - 1))

	bad := sim.NewAckPacket(5)
	bad.Ack = sim.CorruptSentinel
	s.Input(bad)
	assert.Empty(t, net.sent)
	assert.Equal(t, 4, s.Base())
}

func TestGoBackNAllAckedStopsTimer(t *testing.T) {
	s, net := newGbnSender(t)

	s.Output(msg(0))
	s.Output(msg(1))
	s.Input(sim.NewAckPacket(1))

	assert.True(t, s.Idle())
	assert.False(t, net.TimerRunning(gbnTimer))

	// next message restarts the timer
	s.Output(msg(2))
	assert.True(t, net.TimerRunning(gbnTimer))
	assert.Equal(t, 2, s.Base())
	assert.Equal(t, 3, s.NextSeq())
}

// TestGoBackNBulkRetransmit loses the third packet; the timeout resends
// it and everything after it.
func TestGoBackNBulkRetransmit(t *testing.T) {
	s, sn := newGbnSender(t)
	_, r, err := NewGoBackN(GbnWindow, GbnSeqSpace, GbnTimeout, 0)
	require.NoError(t, err)

	rn := newFakeNet()
	r.Init(rn)

	for i := 0; i < 5; i++ {
		s.Output(msg(i))
	}

	require.Len(t, sn.sent, 5)

	for i, p := range sn.sent {
		if i == 2 {
			continue // lost
		}

		r.Input(p)
	}

	assert.Equal(t, []int{0, 1, 1, 1}, rn.acks())
	assert.Len(t, rn.delivered, 2)

	for _, a := range rn.sent {
		s.Input(a)
	}

	assert.Equal(t, 2, s.Base())

	sn.reset()
	sn.fire(gbnTimer)
	s.Timeout(gbnTimer)

	assert.Equal(t, []int{2, 3, 4}, sn.seqs())
	assert.True(t, sn.TimerRunning(gbnTimer))

	for _, p := range sn.sent {
		r.Input(p)
	}

	require.Len(t, rn.delivered, 5)

	for i := range rn.delivered {
		assert.Equal(t, msg(i).Data, rn.delivered[i])
	}
}

func TestGoBackNReceiver(t *testing.T) {
	_, r, err := NewGoBackN(4, 6, GbnTimeout, 50)
	require.NoError(t, err)

	net := newFakeNet()
	r.Init(net)
	assert.True(t, net.TimerRunning(gbnTimer), "periodic ack armed")

	// nothing received yet: ack is the last sequence number
	r.Input(sim.NewDataPacket(1, msg(1).Data))
	assert.Equal(t, []int{5}, net.acks())
	assert.Empty(t, net.delivered)

	bad := sim.NewDataPacket(0, msg(0).Data)
	bad.Seq = sim.CorruptSentinel
	r.Input(bad)
	assert.Equal(t, []int{5, 5}, net.acks())

	for i := 0; i < 7; i++ {
		r.Input(sim.NewDataPacket(i%6, msg(i).Data))
	}

	assert.Len(t, net.delivered, 7)
	assert.Equal(t, 1, r.Expected(), "wrapped")
	assert.Equal(t, 0, net.acks()[len(net.acks())-1])

	net.reset()
	net.fire(gbnTimer)
	r.Timeout(gbnTimer)
	assert.Equal(t, []int{0}, net.acks())
	assert.True(t, net.TimerRunning(gbnTimer))
}

func TestGoBackNWraps(t *testing.T) {
	s, _, err := NewGoBackN(3, 4, GbnTimeout, 0)
	require.NoError(t, err)

	net := newFakeNet()
	s.Init(net)

	for i := 0; i < 10; i++ {
		s.Output(msg(i))
	}

	for ack := 0; ack < 10; ack++ {
		s.Input(sim.NewAckPacket(ack % 4))
		assert.LessOrEqual(t, s.InFlight(), 3)
	}

	assert.True(t, s.Idle())
	assert.Len(t, net.sent, 10)

	for i, p := range net.sent {
		assert.Equal(t, int32(i%4), p.Seq)
		assert.Equal(t, msg(i).Data, p.Payload)
	}
}

func TestNewGoBackNErrors(t *testing.T) {
	_, _, err := NewGoBackN(8, 8, GbnTimeout, 0)
	require.ErrorIs(t, err, errSeqSpace)

	_, _, err = NewGoBackN(0, 8, GbnTimeout, 0)
	require.ErrorIs(t, err, errWindow)
}
