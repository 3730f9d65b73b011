// Package xerr defines the closed error sets of the wire codec.
//
// Encode can fail with StringTooLongError, an underlying I/O error or a
// JSONError from a collaborator model. Decode can additionally fail with
// any of the malformed-input kinds below. All kinds carry their context
// as fields, so callers never parse error strings.
package xerr

import "fmt"

// Error enumerates the kinds that carry no context of their own.
type Error uint8

const (
	NonBoolValue Error = iota
	InvalidUTF8
	NilUnionValue
	NoTagCodec
)

var errorMap = map[Error]string{
	NonBoolValue:  "boolean byte is neither 0 nor 1",
	InvalidUTF8:   "string bytes are not valid utf-8",
	NilUnionValue: "union value is nil",
	NoTagCodec:    "no tag codec registered",
}

func (e Error) Error() string {
	return errorMap[e]
}
func (e Error) String() string {
	return errorMap[e]
}

// StringTooLongError reports a string whose byte length exceeds the bound
// declared for its field. On decode the length is the declared prefix,
// checked before any payload byte is consumed.
type StringTooLongError struct {
	Length    int
	MaxLength uint16
}

func (e *StringTooLongError) Error() string {
	return fmt.Sprintf("string length %d exceeds maximum %d", e.Length, e.MaxLength)
}

// VarIntTooLongError reports a variable-length integer that was still
// unterminated after its maximum byte count.
type VarIntTooLongError struct {
	MaxBytes int
}

func (e *VarIntTooLongError) Error() string {
	return fmt.Sprintf("varint exceeds %d bytes", e.MaxBytes)
}

// UnknownPacketTypeError reports a packet id with no entry in the catalog
// it was dispatched against.
type UnknownPacketTypeError struct {
	TypeID int32
}

func (e *UnknownPacketTypeError) Error() string {
	return fmt.Sprintf("unknown packet type 0x%02X", e.TypeID)
}

// UnknownEnumTypeError reports a discriminant that matches no variant of
// its tagged union or no value of its enum.
type UnknownEnumTypeError struct {
	TypeID int64
}

func (e *UnknownEnumTypeError) Error() string {
	return fmt.Sprintf("unknown enum discriminant %d", e.TypeID)
}

// IncompleteError reports a frame that ended before its declared length.
// BytesNeeded is the minimum number of further bytes the caller must
// supply before retrying; it distinguishes "wait for more input" from a
// broken stream.
type IncompleteError struct {
	BytesNeeded int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("incomplete frame, %d more bytes needed", e.BytesNeeded)
}

// DecompressionError reports a compressed frame whose inflated size does
// not equal the declared uncompressed length.
type DecompressionError struct {
	Declared int
	Actual   int
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("inflated %d bytes, frame declared %d", e.Actual, e.Declared)
}

// UUIDParseError wraps a failure to parse the hyphenated string form of a
// UUID.
type UUIDParseError struct {
	Err error
}

func (e *UUIDParseError) Error() string {
	return fmt.Sprintf("parse uuid: %v", e.Err)
}
func (e *UUIDParseError) Unwrap() error {
	return e.Err
}

// JSONError wraps a JSON marshal or unmarshal failure from a collaborator
// model such as a chat message or a server status.
type JSONError struct {
	Err error
}

func (e *JSONError) Error() string {
	return fmt.Sprintf("json: %v", e.Err)
}
func (e *JSONError) Unwrap() error {
	return e.Err
}

// TagError wraps a failure of the external tag-tree codec.
type TagError struct {
	Err error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("tag codec: %v", e.Err)
}
func (e *TagError) Unwrap() error {
	return e.Err
}
