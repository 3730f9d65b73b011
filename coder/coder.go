// Package coder implements the primitive wire encodings of the protocol:
// big-endian fixed-width integers and floats, variable-length integers,
// length-bounded strings, byte arrays, UUIDs and opaque tag blobs, all
// over plain byte streams.
//
// Varints carry 7 payload bits per byte, least-significant group first,
// with the high bit as continuation flag. The magnitude test uses the bit
// pattern of the signed value, so negative numbers always occupy the
// maximum byte count for their width. This is the protocol's encoding,
// not zig-zag.
package coder

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/blockwire/mcproto/tag"
	"github.com/blockwire/mcproto/xerr"
)

// StringMaxLength bounds strings that carry no explicit bound of their own.
const StringMaxLength uint16 = 32768

const (
	maxVarIntBytes  = 5
	maxVarLongBytes = 10
)

// Encoder writes primitive values to a byte sink. Methods fail fast: the
// first error aborts the surrounding encode.
type Encoder interface {
	WriteBool(b bool) error
	WriteUInt8(i uint8) error
	WriteInt8(i int8) error
	WriteUInt16(i uint16) error
	WriteInt16(i int16) error
	WriteUInt32(i uint32) error
	WriteInt32(i int32) error
	WriteUInt64(i uint64) error
	WriteInt64(i int64) error
	WriteFloat32(f float32) error
	WriteFloat64(f float64) error
	WriteVarInt32(i int32) error
	WriteVarInt64(i int64) error
	WriteString(s string, max uint16) error
	WriteData(p []byte) error
	WriteBytes(p []byte) error
	WriteUUID(id uuid.UUID) error
	WriteUUIDString(id uuid.UUID) error
	WriteTag(t tag.Tag) error
}

// Decoder reads primitive values from a byte source.
type Decoder interface {
	ReadBool() (bool, error)
	ReadUInt8() (uint8, error)
	ReadInt8() (int8, error)
	ReadUInt16() (uint16, error)
	ReadInt16() (int16, error)
	ReadUInt32() (uint32, error)
	ReadInt32() (int32, error)
	ReadUInt64() (uint64, error)
	ReadInt64() (int64, error)
	ReadFloat32() (float32, error)
	ReadFloat64() (float64, error)
	ReadVarInt32() (int32, error)
	ReadVarInt64() (int64, error)
	ReadString(max uint16) (string, error)
	ReadData() ([]byte, error)
	ReadAll() ([]byte, error)
	ReadUUID() (uuid.UUID, error)
	ReadUUIDString() (uuid.UUID, error)
	ReadTag() (tag.Tag, error)
}

func NewEncoder(w io.Writer) Encoder {
	return &encoder{w: w}
}

func NewDecoder(r io.Reader) Decoder {
	return &decoder{r: r}
}

type encoder struct {
	w   io.Writer
	buf [16]byte
}

func (e *encoder) write(p []byte) error {
	_, err := e.w.Write(p)
	return err
}

func (e *encoder) WriteBool(b bool) error {
	if b {
		e.buf[0] = 1
	} else {
		e.buf[0] = 0
	}
	return e.write(e.buf[:1])
}

func (e *encoder) WriteUInt8(i uint8) error {
	e.buf[0] = i
	return e.write(e.buf[:1])
}

func (e *encoder) WriteInt8(i int8) error {
	return e.WriteUInt8(uint8(i))
}

func (e *encoder) WriteUInt16(i uint16) error {
	binary.BigEndian.PutUint16(e.buf[:2], i)
	return e.write(e.buf[:2])
}

func (e *encoder) WriteInt16(i int16) error {
	return e.WriteUInt16(uint16(i))
}

func (e *encoder) WriteUInt32(i uint32) error {
	binary.BigEndian.PutUint32(e.buf[:4], i)
	return e.write(e.buf[:4])
}

func (e *encoder) WriteInt32(i int32) error {
	return e.WriteUInt32(uint32(i))
}

func (e *encoder) WriteUInt64(i uint64) error {
	binary.BigEndian.PutUint64(e.buf[:8], i)
	return e.write(e.buf[:8])
}

func (e *encoder) WriteInt64(i int64) error {
	return e.WriteUInt64(uint64(i))
}

func (e *encoder) WriteFloat32(f float32) error {
	return e.WriteUInt32(math.Float32bits(f))
}

func (e *encoder) WriteFloat64(f float64) error {
	return e.WriteUInt64(math.Float64bits(f))
}

func (e *encoder) WriteVarInt32(i int32) error {
	u := uint32(i)
	n := 0
	for {
		b := byte(u & 0x7F)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		e.buf[n] = b
		n++
		if u == 0 {
			return e.write(e.buf[:n])
		}
	}
}

func (e *encoder) WriteVarInt64(i int64) error {
	u := uint64(i)
	n := 0
	for {
		b := byte(u & 0x7F)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		e.buf[n] = b
		n++
		if u == 0 {
			return e.write(e.buf[:n])
		}
	}
}

// WriteString fails before writing anything when the string's byte length
// exceeds max.
func (e *encoder) WriteString(s string, max uint16) error {
	if len(s) > int(max) {
		return &xerr.StringTooLongError{Length: len(s), MaxLength: max}
	}
	if err := e.WriteVarInt32(int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, s)
	return err
}

// WriteData writes a varint length prefix followed by the raw bytes.
func (e *encoder) WriteData(p []byte) error {
	if err := e.WriteVarInt32(int32(len(p))); err != nil {
		return err
	}
	return e.write(p)
}

// WriteBytes writes the bytes verbatim, without a prefix. The boundary
// must come from the enclosing frame.
func (e *encoder) WriteBytes(p []byte) error {
	return e.write(p)
}

func (e *encoder) WriteUUID(id uuid.UUID) error {
	return e.write(id[:])
}

// WriteUUIDString writes the 36-character hyphenated form.
func (e *encoder) WriteUUIDString(id uuid.UUID) error {
	return e.WriteString(id.String(), 36)
}

func (e *encoder) WriteTag(t tag.Tag) error {
	c := tag.ActiveCodec()
	if c == nil {
		return xerr.NoTagCodec
	}
	return c.Encode(e.w, t)
}

type decoder struct {
	r   io.Reader
	buf [16]byte
}

func (d *decoder) read(n int) ([]byte, error) {
	if _, err := io.ReadFull(d.r, d.buf[:n]); err != nil {
		return nil, err
	}
	return d.buf[:n], nil
}

func (d *decoder) readByte() (byte, error) {
	if _, err := io.ReadFull(d.r, d.buf[:1]); err != nil {
		return 0, err
	}
	return d.buf[0], nil
}

func (d *decoder) ReadBool() (bool, error) {
	b, err := d.readByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, xerr.NonBoolValue
	}
}

func (d *decoder) ReadUInt8() (uint8, error) {
	return d.readByte()
}

func (d *decoder) ReadInt8() (int8, error) {
	b, err := d.readByte()
	return int8(b), err
}

func (d *decoder) ReadUInt16() (uint16, error) {
	p, err := d.read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

func (d *decoder) ReadInt16() (int16, error) {
	i, err := d.ReadUInt16()
	return int16(i), err
}

func (d *decoder) ReadUInt32() (uint32, error) {
	p, err := d.read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

func (d *decoder) ReadInt32() (int32, error) {
	i, err := d.ReadUInt32()
	return int32(i), err
}

func (d *decoder) ReadUInt64() (uint64, error) {
	p, err := d.read(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}

func (d *decoder) ReadInt64() (int64, error) {
	i, err := d.ReadUInt64()
	return int64(i), err
}

func (d *decoder) ReadFloat32() (float32, error) {
	i, err := d.ReadUInt32()
	return math.Float32frombits(i), err
}

func (d *decoder) ReadFloat64() (float64, error) {
	i, err := d.ReadUInt64()
	return math.Float64frombits(i), err
}

func (d *decoder) ReadVarInt32() (int32, error) {
	var out uint32
	for n := 0; ; n++ {
		b, err := d.readByte()
		if err != nil {
			return 0, err
		}
		out |= uint32(b&0x7F) << (7 * n)
		if n+1 > maxVarIntBytes {
			return 0, &xerr.VarIntTooLongError{MaxBytes: maxVarIntBytes}
		}
		if b&0x80 == 0 {
			return int32(out), nil
		}
	}
}

func (d *decoder) ReadVarInt64() (int64, error) {
	var out uint64
	for n := 0; ; n++ {
		b, err := d.readByte()
		if err != nil {
			return 0, err
		}
		out |= uint64(b&0x7F) << (7 * n)
		if n+1 > maxVarLongBytes {
			return 0, &xerr.VarIntTooLongError{MaxBytes: maxVarLongBytes}
		}
		if b&0x80 == 0 {
			return int64(out), nil
		}
	}
}

// ReadString checks the declared length against max before consuming any
// payload byte.
func (d *decoder) ReadString(max uint16) (string, error) {
	length, err := d.ReadVarInt32()
	if err != nil {
		return "", err
	}
	if length < 0 || length > int32(max) {
		return "", &xerr.StringTooLongError{Length: int(length), MaxLength: max}
	}
	p := make([]byte, length)
	if _, err := io.ReadFull(d.r, p); err != nil {
		return "", err
	}
	if !utf8.Valid(p) {
		return "", xerr.InvalidUTF8
	}
	return string(p), nil
}

func (d *decoder) ReadData() ([]byte, error) {
	length, err := d.ReadVarInt32()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("coder: negative byte array length %d", length)
	}
	p := make([]byte, length)
	if _, err := io.ReadFull(d.r, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ReadAll returns every remaining byte of the source.
func (d *decoder) ReadAll() ([]byte, error) {
	return io.ReadAll(d.r)
}

func (d *decoder) ReadUUID() (uuid.UUID, error) {
	var id uuid.UUID
	if _, err := io.ReadFull(d.r, id[:]); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (d *decoder) ReadUUIDString() (uuid.UUID, error) {
	s, err := d.ReadString(36)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &xerr.UUIDParseError{Err: err}
	}
	return id, nil
}

func (d *decoder) ReadTag() (tag.Tag, error) {
	c := tag.ActiveCodec()
	if c == nil {
		return nil, xerr.NoTagCodec
	}
	t, err := c.Decode(d.r)
	if err != nil {
		return nil, &xerr.TagError{Err: err}
	}
	return t, nil
}
