// Package v1_14_4 is the packet catalog for protocol 498 (Minecraft
// 1.14.4): the handshake, status and play states.
package v1_14_4

import (
	mcproto "github.com/blockwire/mcproto"
	"github.com/blockwire/mcproto/codec"
	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/xerr"
)

// HandshakeServerBound is the closed set of serverbound handshake packets.
type HandshakeServerBound interface {
	mcproto.Packet
	handshakeServerBound()
}

// Handshake opens a connection and switches it toward status or login.
type Handshake struct {
	ProtocolVersion int32  `mc:"with=var_int"`
	ServerAddr      string `mc:"max_length=255"`
	ServerPort      uint16
	NextState       int32 `mc:"with=var_int"`
}

func (*Handshake) PacketID() int32       { return 0x00 }
func (*Handshake) handshakeServerBound() {}

// DecodeHandshakeServerBound decodes the serverbound handshake packet with
// the given type id.
func DecodeHandshakeServerBound(id int32, d coder.Decoder) (HandshakeServerBound, error) {
	switch id {
	case 0x00:
		p, err := codec.Decode[Handshake](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, &xerr.UnknownPacketTypeError{TypeID: id}
	}
}
