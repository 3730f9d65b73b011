// Package mcproto implements the Minecraft wire protocol: primitive
// encodings, schema-compiled packet codecs and packet framing.
//
// Information about the protocol can be found at https://wiki.vg/Protocol.
//
// The working pieces live in the subpackages: coder (primitive encodings),
// codec (schema compiler and plan interpreter), packet (framing and
// compression) and version (per-version packet catalogs). The root package
// ties typed packets to frames.
package mcproto

import (
	"bytes"
	"io"

	"github.com/blockwire/mcproto/codec"
	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/packet"
)

// Protocol numbers of the game versions this module ships catalogs for.
const (
	ProtocolV1_14_4 = 498
	ProtocolV1_15   = 573
)

// Packet is implemented by every typed packet in the version catalogs.
type Packet interface {
	PacketID() int32
}

// Marshal encodes a typed packet into a raw packet ready for framing.
func Marshal(p Packet) (*packet.Raw, error) {
	var body bytes.Buffer
	if err := codec.EncodeValue(coder.NewEncoder(&body), p); err != nil {
		return nil, err
	}
	return &packet.Raw{ID: p.PacketID(), Data: body.Bytes()}, nil
}

// Write frames a typed packet onto w without compression.
func Write(w io.Writer, p Packet) error {
	raw, err := Marshal(p)
	if err != nil {
		return err
	}
	return packet.WriteTo(w, raw)
}

// WriteCompressed frames a typed packet onto a connection whose compression
// threshold is threshold.
func WriteCompressed(w io.Writer, p Packet, threshold int) error {
	raw, err := Marshal(p)
	if err != nil {
		return err
	}
	return packet.WriteCompressed(w, raw, threshold)
}
