package codec

import (
	"reflect"

	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/internal/safe"
	"github.com/blockwire/mcproto/xerr"
)

// Discriminant selects the wire form of an enum value or union tag.
type Discriminant uint8

const (
	UnsignedByte Discriminant = iota
	VarInt
)

// IntValue constrains enum base types to sized integers.
type IntValue interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type enumDef struct {
	disc  Discriminant
	valid map[int64]struct{}
}

var enums safe.RMap[reflect.Type, *enumDef]

// RegisterEnum declares E as a closed enum: fields of type E encode as disc
// and decode only to one of values. Meant for package init, before any
// schema naming E compiles.
func RegisterEnum[E IntValue](disc Discriminant, values ...E) {
	t := reflect.TypeOf((*E)(nil)).Elem()
	def := &enumDef{disc: disc, valid: make(map[int64]struct{}, len(values))}
	for _, v := range values {
		def.valid[int64(v)] = struct{}{}
	}
	enums.Set(t, def)
}

func enumValueOp(t reflect.Type, def *enumDef) valueOp {
	var signed bool
	switch t.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		signed = true
	}
	return valueOp{
		enc: func(e coder.Encoder, v reflect.Value) error {
			var raw int64
			if signed {
				raw = v.Int()
			} else {
				raw = int64(v.Uint())
			}
			return writeDiscriminant(e, def.disc, int32(raw))
		},
		dec: func(d coder.Decoder, v reflect.Value) error {
			id, err := readDiscriminant(d, def.disc)
			if err != nil {
				return err
			}
			if _, ok := def.valid[int64(id)]; !ok {
				return &xerr.UnknownEnumTypeError{TypeID: int64(id)}
			}
			if signed {
				v.SetInt(int64(id))
			} else {
				v.SetUint(uint64(id))
			}
			return nil
		},
	}
}

func writeDiscriminant(e coder.Encoder, disc Discriminant, id int32) error {
	if disc == VarInt {
		return e.WriteVarInt32(id)
	}
	return e.WriteUInt8(uint8(id))
}

func readDiscriminant(d coder.Decoder, disc Discriminant) (int32, error) {
	if disc == VarInt {
		return d.ReadVarInt32()
	}
	b, err := d.ReadUInt8()
	return int32(b), err
}
