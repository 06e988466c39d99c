// -*- tab-width:2 -*-

package sim

import (
	count "github.com/jayalane/go-counter"
)

// Channel is the unreliable medium between A and B. It may lose or
// corrupt a packet but never reorders packets headed to the same
// entity.
type Channel struct {
	clock       *Clock
	rng         Uniform
	loss        float64
	corrupt     float64
	jitter      ModelCdf
	lastArrival [2]Time
	stats       *Stats
}

// NewChannel returns a channel drawing from rng with the given loss
// and corruption probabilities.
func NewChannel(clock *Clock, rng Uniform, loss, corrupt float64, stats *Stats) *Channel {
	if stats == nil {
		stats = &Stats{}
	}

	return &Channel{
		clock:   clock,
		rng:     rng,
		loss:    loss,
		corrupt: corrupt,
		jitter:  UniformCDF(minJitter, maxJitter),
		stats:   stats,
	}
}

// Transmit sends p from entity from to its peer.
func (c *Channel) Transmit(from Entity, p Packet) {
	to := from.Peer()

	c.stats.Sent[from]++
	count.IncrSyncSuffix("channel_sent", from.String())

	if c.rng.Float64() < c.loss {
		c.stats.Lost++
		count.IncrSync("channel_lost")
		ml.La("Channel: packet being lost", from, "->", to, &p)

		return
	}

	cp := p // the sender keeps its own copy

	at := c.clock.Now()
	if c.lastArrival[to] > at {
		at = c.lastArrival[to]
	}

	at += Time(c.jitter(c.rng.Float64()))
	c.lastArrival[to] = at

	if c.rng.Float64() < c.corrupt {
		c.stats.Corrupted++
		count.IncrSync("channel_corrupted")

		x := c.rng.Float64()

		switch {
		case x < payloadCorruptShare:
			cp.Payload[0] ^= 0xFF
		case x < seqCorruptShare:
			cp.Seq = CorruptSentinel
		default:
			cp.Ack = CorruptSentinel
		}

		ml.La("Channel: packet being corrupted", from, "->", to, &cp)
	}

	c.clock.Timeline().Schedule(Event{Time: at, Kind: NetArrival, Entity: to, Packet: &cp})
	ml.La("Channel: scheduling arrival", to, "at", at, &cp)
}
