// Package packet frames packets for the wire: a varint length prefix around
// a packet id and body, with optional zlib compression once a connection has
// negotiated a threshold.
package packet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/xerr"
)

// Raw is one framed packet: the type id and its undecoded body. Which struct
// the body decodes to depends on the connection's protocol version, state
// and direction, so framing and typed decoding stay separate.
type Raw struct {
	ID   int32
	Data []byte
}

func (p *Raw) String() string {
	return fmt.Sprintf("packet 0x%02X (%d bytes)", p.ID, len(p.Data))
}

// Decoder returns a decoder positioned at the start of the packet body,
// after the id.
func (p *Raw) Decoder() coder.Decoder {
	return coder.NewDecoder(bytes.NewReader(p.Data))
}

// WriteTo frames p without compression.
func WriteTo(w io.Writer, p *Raw) error {
	body, err := rawBody(p)
	if err != nil {
		return err
	}
	return writeFrame(w, body)
}

// ReadFrom reads one uncompressed frame. A stream that ends inside a frame
// yields xerr.IncompleteError rather than a bare EOF.
func ReadFrom(r io.Reader) (*Raw, error) {
	body, err := readFrame(r)
	if err != nil {
		return nil, err
	}
	return parseRaw(body)
}

// WriteCompressed frames p for a connection whose compression threshold is
// threshold. Bodies longer than the threshold are deflated and prefixed
// with their uncompressed size; shorter ones travel as-is behind a zero
// marker.
func WriteCompressed(w io.Writer, p *Raw, threshold int) error {
	body, err := rawBody(p)
	if err != nil {
		return err
	}
	var inner bytes.Buffer
	e := coder.NewEncoder(&inner)
	if threshold >= 0 && len(body) > threshold {
		if err := e.WriteVarInt32(int32(len(body))); err != nil {
			return err
		}
		zw := zlib.NewWriter(&inner)
		if _, err := zw.Write(body); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
	} else {
		if err := e.WriteVarInt32(0); err != nil {
			return err
		}
		if err := e.WriteBytes(body); err != nil {
			return err
		}
	}
	return writeFrame(w, inner.Bytes())
}

// ReadCompressed reads one frame from a connection with compression
// enabled. An inflated body whose size differs from the declared one yields
// xerr.DecompressionError.
func ReadCompressed(r io.Reader) (*Raw, error) {
	body, err := readFrame(r)
	if err != nil {
		return nil, err
	}
	d := coder.NewDecoder(bytes.NewReader(body))
	declared, err := d.ReadVarInt32()
	if err != nil {
		return nil, incomplete(err, 1)
	}
	if declared < 0 {
		return nil, fmt.Errorf("packet: negative uncompressed size %d", declared)
	}
	rest, err := d.ReadAll()
	if err != nil {
		return nil, err
	}
	if declared == 0 {
		return parseRaw(rest)
	}
	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, err
	}
	inflated, err := io.ReadAll(zr)
	zr.Close()
	if err != nil {
		return nil, err
	}
	if len(inflated) != int(declared) {
		return nil, &xerr.DecompressionError{Declared: int(declared), Actual: len(inflated)}
	}
	return parseRaw(inflated)
}

func rawBody(p *Raw) ([]byte, error) {
	var body bytes.Buffer
	e := coder.NewEncoder(&body)
	if err := e.WriteVarInt32(p.ID); err != nil {
		return nil, err
	}
	if err := e.WriteBytes(p.Data); err != nil {
		return nil, err
	}
	return body.Bytes(), nil
}

func writeFrame(w io.Writer, body []byte) error {
	e := coder.NewEncoder(w)
	if err := e.WriteVarInt32(int32(len(body))); err != nil {
		return err
	}
	return e.WriteBytes(body)
}

func readFrame(r io.Reader) ([]byte, error) {
	d := coder.NewDecoder(r)
	length, err := d.ReadVarInt32()
	if err != nil {
		return nil, incomplete(err, 1)
	}
	if length < 0 {
		return nil, fmt.Errorf("packet: negative frame length %d", length)
	}
	body := make([]byte, length)
	if n, err := io.ReadFull(r, body); err != nil {
		return nil, incomplete(err, int(length)-n)
	}
	return body, nil
}

func parseRaw(body []byte) (*Raw, error) {
	d := coder.NewDecoder(bytes.NewReader(body))
	id, err := d.ReadVarInt32()
	if err != nil {
		return nil, incomplete(err, 1)
	}
	data, err := d.ReadAll()
	if err != nil {
		return nil, err
	}
	return &Raw{ID: id, Data: data}, nil
}

// incomplete maps stream exhaustion onto the incomplete-frame error; other
// errors pass through untouched.
func incomplete(err error, needed int) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return &xerr.IncompleteError{BytesNeeded: needed}
	}
	return err
}
