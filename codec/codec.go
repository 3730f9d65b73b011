// Package codec derives wire codecs for plain struct types.
//
// A schema is an exported-field struct whose fields encode in declaration
// order. The `mc` struct tag adjusts a field's wire form:
//
//	Name  string `mc:"max_length=16"` // bounded string
//	ID    int32  `mc:"with=var_int"`  // named codec
//	Flags uint8  `mc:"bitfield=4"`    // packed bits
//
// Untagged fields encode by declared type. Interface fields must name a
// union registered with RegisterUnion, named integer types may be closed
// enums via RegisterEnum, and any type whose pointer implements
// coder.Codable keeps full control of its wire bytes.
//
// Schemas compile once, on first use, and malformed ones fail compilation
// rather than producing bad bytes.
package codec

import (
	"fmt"
	"io"
	"reflect"

	"github.com/blockwire/mcproto/coder"
)

// A Codec holds the compiled plan for T.
type Codec[T any] struct {
	p *plan
}

// Compile builds the codec for struct type T, reporting malformed schemas.
func Compile[T any]() (*Codec[T], error) {
	p, err := compiled(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return &Codec[T]{p: p}, nil
}

// MustCompile is Compile panicking on schema errors.
func MustCompile[T any]() *Codec[T] {
	c, err := Compile[T]()
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Codec[T]) Encode(w io.Writer, v *T) error {
	return c.EncodeTo(coder.NewEncoder(w), v)
}

func (c *Codec[T]) Decode(r io.Reader) (*T, error) {
	return c.DecodeFrom(coder.NewDecoder(r))
}

func (c *Codec[T]) EncodeTo(e coder.Encoder, v *T) error {
	return c.p.encode(e, reflect.ValueOf(v).Elem())
}

func (c *Codec[T]) DecodeFrom(d coder.Decoder) (*T, error) {
	v := new(T)
	if err := c.p.decode(d, reflect.ValueOf(v).Elem()); err != nil {
		return nil, err
	}
	return v, nil
}

// Encode writes v's wire form to e, compiling T's schema on first use.
func Encode[T any](e coder.Encoder, v *T) error {
	p, err := compiled(reflect.TypeOf(v).Elem())
	if err != nil {
		return err
	}
	return p.encode(e, reflect.ValueOf(v).Elem())
}

// Decode reads a T from d, compiling T's schema on first use.
func Decode[T any](d coder.Decoder) (*T, error) {
	v := new(T)
	p, err := compiled(reflect.TypeOf(v).Elem())
	if err != nil {
		return nil, err
	}
	if err := p.decode(d, reflect.ValueOf(v).Elem()); err != nil {
		return nil, err
	}
	return v, nil
}

// EncodeValue writes the wire form of the struct v points to. It serves
// interface-typed call sites; prefer Encode when the type is statically
// known.
func EncodeValue(e coder.Encoder, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("codec: EncodeValue needs a non-nil struct pointer, got %T", v)
	}
	p, err := compiled(rv.Type().Elem())
	if err != nil {
		return err
	}
	return p.encode(e, rv.Elem())
}
