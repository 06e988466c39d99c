// -*- tab-width:2 -*-

package sim

import (
	"encoding/binary"
	"fmt"
)

// Payload is the fixed size data block carried by messages and packets.
type Payload [PayloadLen]byte

// Message is the unit the application hands to a sender.
type Message struct {
	Data Payload
}

// Packet is what protocol entities exchange through the channel.
// A negative Ack is a NAK for sequence -Ack-1.
type Packet struct {
	Seq      int32
	Ack      int32
	Checksum int32
	Payload  Payload
}

func (p *Packet) String() string {
	return fmt.Sprintf("seq=%d ack=%d sum=%#04x %q", p.Seq, p.Ack, p.Checksum, p.Payload[:])
}

// MakeMessage builds the default payload for the n'th message: one
// lowercase letter repeated, cycling through the alphabet.
func MakeMessage(n int) Message {
	var m Message

	c := byte('a' + n%26) //nolint:mnd

	for i := range m.Data {
		m.Data[i] = c
	}

	return m
}

// Checksum is the one's complement of the one's complement sum of the
// packet's 16 bit words: seq (low, high), ack (low, high), then the
// payload as little-endian pairs. The checksum field is not included.
func Checksum(p *Packet) int32 {
	var sum uint32

	add := func(w uint16) {
		sum += uint32(w)
		if sum&0xFFFF0000 != 0 {
			sum &= 0xFFFF
			sum++
		}
	}

	for _, v := range []int32{p.Seq, p.Ack} {
		u := uint32(v)
		add(uint16(u))
		add(uint16(u >> 16)) //nolint:mnd
	}

	for i := 0; i < PayloadLen; i += 2 {
		add(binary.LittleEndian.Uint16(p.Payload[i:]))
	}

	return int32(^uint16(sum))
}

// Seal sets the packet's checksum.
func Seal(p *Packet) {
	p.Checksum = Checksum(p)
}

// Validate returns ErrCorrupted when the checksum doesn't match.
func Validate(p *Packet) error {
	if Checksum(p) != p.Checksum {
		return ErrCorrupted
	}

	return nil
}

// NewDataPacket returns a sealed data packet.
func NewDataPacket(seq int, data Payload) Packet {
	p := Packet{Seq: int32(seq), Payload: data} //nolint:gosec
	Seal(&p)

	return p
}

// NewAckPacket returns a sealed ack packet with an empty payload.
func NewAckPacket(ack int) Packet {
	p := Packet{Ack: int32(ack)} //nolint:gosec
	Seal(&p)

	return p
}

// NewNakPacket returns a sealed negative acknowledgment for seq.
func NewNakPacket(seq int) Packet {
	return NewAckPacket(-seq - 1)
}

// IsNak reports whether p is a NAK, and for which sequence.
func (p *Packet) IsNak() (int, bool) {
	if p.Ack >= 0 {
		return 0, false
	}

	return int(-p.Ack - 1), true
}
