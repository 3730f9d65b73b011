package v1_14_4

import (
	mcproto "github.com/blockwire/mcproto"
	"github.com/blockwire/mcproto/codec"
	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/status"
	"github.com/blockwire/mcproto/xerr"
)

// StatusServerBound is the closed set of serverbound status packets.
type StatusServerBound interface {
	mcproto.Packet
	statusServerBound()
}

// StatusClientBound is the closed set of clientbound status packets.
type StatusClientBound interface {
	mcproto.Packet
	statusClientBound()
}

// StatusRequest asks for the server list payload. It has no body.
type StatusRequest struct{}

// PingRequest carries an arbitrary client timestamp the server echoes back.
type PingRequest struct {
	Time uint64
}

// StatusResponse answers a StatusRequest with the server list payload.
type StatusResponse struct {
	Status status.ServerStatus
}

// PingResponse echoes the timestamp of a PingRequest.
type PingResponse struct {
	Time uint64
}

func (*StatusRequest) PacketID() int32     { return 0x00 }
func (*StatusRequest) statusServerBound()  {}
func (*PingRequest) PacketID() int32       { return 0x01 }
func (*PingRequest) statusServerBound()    {}
func (*StatusResponse) PacketID() int32    { return 0x00 }
func (*StatusResponse) statusClientBound() {}
func (*PingResponse) PacketID() int32      { return 0x01 }
func (*PingResponse) statusClientBound()   {}

// DecodeStatusServerBound decodes the serverbound status packet with the
// given type id.
func DecodeStatusServerBound(id int32, d coder.Decoder) (StatusServerBound, error) {
	switch id {
	case 0x00:
		return &StatusRequest{}, nil
	case 0x01:
		p, err := codec.Decode[PingRequest](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, &xerr.UnknownPacketTypeError{TypeID: id}
	}
}

// DecodeStatusClientBound decodes the clientbound status packet with the
// given type id.
func DecodeStatusClientBound(id int32, d coder.Decoder) (StatusClientBound, error) {
	switch id {
	case 0x00:
		p, err := codec.Decode[StatusResponse](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x01:
		p, err := codec.Decode[PingResponse](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, &xerr.UnknownPacketTypeError{TypeID: id}
	}
}
