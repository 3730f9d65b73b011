package coder

import "bytes"

// Encodable writes itself through an Encoder.
type Encodable interface {
	WriteTo(Encoder) error
}

// Decodable reads itself from a Decoder.
type Decodable interface {
	ReadFrom(Decoder) error
}

// Codable types own their wire form on both sides. The schema compiler
// prefers a field type's Codable implementation over its default codec.
type Codable interface {
	Encodable
	Decodable
}

func Marshal(ec Encodable) ([]byte, error) {
	var buf bytes.Buffer
	err := ec.WriteTo(NewEncoder(&buf))
	return buf.Bytes(), err
}

func Unmarshal(b []byte, dc Decodable) error {
	return dc.ReadFrom(NewDecoder(bytes.NewReader(b)))
}
