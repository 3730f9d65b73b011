// Package v1_15 is the packet catalog for protocol 573 (Minecraft 1.15):
// the login state.
package v1_15

import (
	"github.com/google/uuid"

	mcproto "github.com/blockwire/mcproto"
	"github.com/blockwire/mcproto/chat"
	"github.com/blockwire/mcproto/codec"
	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/xerr"
)

// LoginServerBound is the closed set of serverbound login packets.
type LoginServerBound interface {
	mcproto.Packet
	loginServerBound()
}

// LoginClientBound is the closed set of clientbound login packets.
type LoginClientBound interface {
	mcproto.Packet
	loginClientBound()
}

// LoginStart begins login with the player name.
type LoginStart struct {
	Name string
}

// EncryptionResponse returns the shared secret and verify token, each
// encrypted with the server's public key.
type EncryptionResponse struct {
	SharedSecret []byte
	VerifyToken  []byte
}

// LoginPluginResponse answers a LoginPluginRequest. Data runs to the end of
// the packet and is empty when the client does not understand the channel.
type LoginPluginResponse struct {
	MessageID  int32 `mc:"with=var_int"`
	Successful bool
	Data       []byte `mc:"with=rest"`
}

// LoginDisconnect rejects the login with a chat component reason.
type LoginDisconnect struct {
	Reason chat.Message
}

// EncryptionRequest starts protocol encryption.
type EncryptionRequest struct {
	ServerID    string `mc:"max_length=20"`
	PublicKey   []byte
	VerifyToken []byte
}

// LoginSuccess completes login. The UUID travels as a hyphenated string.
type LoginSuccess struct {
	UUID     uuid.UUID `mc:"with=uuid_hyp_str"`
	Username string    `mc:"max_length=16"`
}

// SetCompression enables frame compression for packets larger than the
// threshold.
type SetCompression struct {
	Threshold int32 `mc:"with=var_int"`
}

// LoginPluginRequest asks the client about a custom channel during login.
type LoginPluginRequest struct {
	MessageID int32 `mc:"with=var_int"`
	Channel   string
	Data      []byte `mc:"with=rest"`
}

func (*LoginStart) PacketID() int32            { return 0x00 }
func (*LoginStart) loginServerBound()          {}
func (*EncryptionResponse) PacketID() int32    { return 0x01 }
func (*EncryptionResponse) loginServerBound()  {}
func (*LoginPluginResponse) PacketID() int32   { return 0x02 }
func (*LoginPluginResponse) loginServerBound() {}

func (*LoginDisconnect) PacketID() int32      { return 0x00 }
func (*LoginDisconnect) loginClientBound()    {}
func (*EncryptionRequest) PacketID() int32    { return 0x01 }
func (*EncryptionRequest) loginClientBound()  {}
func (*LoginSuccess) PacketID() int32         { return 0x02 }
func (*LoginSuccess) loginClientBound()       {}
func (*SetCompression) PacketID() int32       { return 0x03 }
func (*SetCompression) loginClientBound()     {}
func (*LoginPluginRequest) PacketID() int32   { return 0x04 }
func (*LoginPluginRequest) loginClientBound() {}

// DecodeLoginServerBound decodes the serverbound login packet with the
// given type id.
func DecodeLoginServerBound(id int32, d coder.Decoder) (LoginServerBound, error) {
	switch id {
	case 0x00:
		p, err := codec.Decode[LoginStart](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x01:
		p, err := codec.Decode[EncryptionResponse](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x02:
		p, err := codec.Decode[LoginPluginResponse](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, &xerr.UnknownPacketTypeError{TypeID: id}
	}
}

// DecodeLoginClientBound decodes the clientbound login packet with the
// given type id.
func DecodeLoginClientBound(id int32, d coder.Decoder) (LoginClientBound, error) {
	switch id {
	case 0x00:
		p, err := codec.Decode[LoginDisconnect](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x01:
		p, err := codec.Decode[EncryptionRequest](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x02:
		p, err := codec.Decode[LoginSuccess](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x03:
		p, err := codec.Decode[SetCompression](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x04:
		p, err := codec.Decode[LoginPluginRequest](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, &xerr.UnknownPacketTypeError{TypeID: id}
	}
}
