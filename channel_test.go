// -*- tab-width:2 -*-
package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelLossUsesOneDraw(t *testing.T) {
	clock := NewClock()
	rng := &script{vals: []float64{0.1}}
	stats := &Stats{}
	c := NewChannel(clock, rng, 0.2, 0, stats)

	c.Transmit(A, NewDataPacket(0, MakeMessage(0).Data))

	assert.Equal(t, 0, clock.Timeline().Len())
	assert.Equal(t, 1, stats.Lost)
	assert.Equal(t, 1, stats.Sent[A])
	assert.Equal(t, 1, rng.used())
}

func TestChannelArrivalTimes(t *testing.T) {
	clock := NewClock()
	// keep, jitter 0 -> 1.0, no corrupt; keep, jitter .5 -> 5.5, no corrupt
	rng := &script{vals: []float64{0.9, 0.0, 0.9, 0.9, 0.5, 0.9}}
	c := NewChannel(clock, rng, 0.5, 0.5, nil)

	p := NewDataPacket(0, MakeMessage(0).Data)
	c.Transmit(A, p)
	c.Transmit(A, p)

	ev, err := clock.next()
	require.NoError(t, err)
	assert.Equal(t, NetArrival, ev.Kind)
	assert.Equal(t, B, ev.Entity)
	assert.InDelta(t, 1.0, float64(ev.Time), 1e-9)
	require.NotNil(t, ev.Packet)
	assert.Equal(t, p, *ev.Packet)

	// second packet queued behind the first
	ev, err = clock.next()
	require.NoError(t, err)
	assert.InDelta(t, 6.5, float64(ev.Time), 1e-9)
	assert.Equal(t, 6, rng.used())
}

func TestChannelArrivalFromNowWhenIdle(t *testing.T) {
	clock := NewClock()
	rng := &script{vals: []float64{0.9, 0.0, 0.9}}
	c := NewChannel(clock, rng, 0, 0, nil)

	c.lastArrival[B] = 3
	clock.now = 20

	c.Transmit(A, NewAckPacket(0))

	ev, err := clock.next()
	require.NoError(t, err)
	assert.InDelta(t, 21.0, float64(ev.Time), 1e-9)
}

func TestChannelDirectionsIndependent(t *testing.T) {
	clock := NewClock()
	rng := &script{fallback: 0.5}
	c := NewChannel(clock, rng, 0, 0, nil)

	c.Transmit(A, NewDataPacket(0, Payload{}))
	c.Transmit(A, NewDataPacket(1, Payload{}))
	c.Transmit(B, NewAckPacket(0))

	var toB []int32

	var toA []Time

	for clock.Timeline().Len() > 0 {
		ev, err := clock.next()
		require.NoError(t, err)

		if ev.Entity == B {
			toB = append(toB, ev.Packet.Seq)
		} else {
			toA = append(toA, ev.Time)
		}
	}

	assert.Equal(t, []int32{0, 1}, toB)
	require.Len(t, toA, 1)
	assert.InDelta(t, 5.5, float64(toA[0]), 1e-9, "A's queue does not wait for B's")
}

func TestChannelCorruption(t *testing.T) {
	cases := []struct {
		name  string
		kind  float64
		check func(t *testing.T, orig, got Packet)
	}{
		{"payload", 0.5, func(t *testing.T, orig, got Packet) {
			t.Helper()
			assert.Equal(t, orig.Payload[0]^0xFF, got.Payload[0])
			assert.Equal(t, orig.Seq, got.Seq)
			assert.Equal(t, orig.Ack, got.Ack)
		}},
		{"seq", 0.8, func(t *testing.T, orig, got Packet) {
			t.Helper()
			assert.Equal(t, int32(CorruptSentinel), got.Seq)
			assert.Equal(t, orig.Payload, got.Payload)
		}},
		{"ack", 0.9, func(t *testing.T, orig, got Packet) {
			t.Helper()
			assert.Equal(t, int32(CorruptSentinel), got.Ack)
			assert.Equal(t, orig.Seq, got.Seq)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clock := NewClock()
			stats := &Stats{}
			rng := &script{vals: []float64{0.9, 0.5, 0.1, tc.kind}}
			c := NewChannel(clock, rng, 0.5, 0.5, stats)

			orig := NewDataPacket(1, MakeMessage(4).Data)
			sent := orig
			c.Transmit(A, sent)

			assert.Equal(t, orig, sent, "sender copy untouched")
			assert.Equal(t, 1, stats.Corrupted)
			assert.Equal(t, 4, rng.used())

			ev, err := clock.next()
			require.NoError(t, err)
			require.NotNil(t, ev.Packet)
			tc.check(t, orig, *ev.Packet)
			assert.ErrorIs(t, Validate(ev.Packet), ErrCorrupted)
		})
	}
}
