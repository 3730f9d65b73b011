package codec

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/internal/safe"
)

// A Module is a named field codec selected with the `mc:"with=<name>"`
// directive. Type is the only Go type the module accepts; compilation fails
// when the directive is applied to any other field type.
type Module struct {
	Type reflect.Type
	Enc  func(e coder.Encoder, v reflect.Value) error
	Dec  func(d coder.Decoder, v reflect.Value) error
}

var modules safe.RMap[string, Module]

// Register adds a named codec. Registration is meant for package init;
// replacing a name after schemas have compiled has no effect on them.
func Register(name string, m Module) {
	modules.Set(name, m)
}

func init() {
	Register("var_int", Module{
		Type: reflect.TypeOf(int32(0)),
		Enc: func(e coder.Encoder, v reflect.Value) error {
			return e.WriteVarInt32(int32(v.Int()))
		},
		Dec: func(d coder.Decoder, v reflect.Value) error {
			i, err := d.ReadVarInt32()
			if err != nil {
				return err
			}
			v.SetInt(int64(i))
			return nil
		},
	})
	Register("var_long", Module{
		Type: reflect.TypeOf(int64(0)),
		Enc: func(e coder.Encoder, v reflect.Value) error {
			return e.WriteVarInt64(v.Int())
		},
		Dec: func(d coder.Decoder, v reflect.Value) error {
			i, err := d.ReadVarInt64()
			if err != nil {
				return err
			}
			v.SetInt(i)
			return nil
		},
	})
	Register("rest", Module{
		Type: reflect.TypeOf([]byte(nil)),
		Enc: func(e coder.Encoder, v reflect.Value) error {
			return e.WriteBytes(v.Bytes())
		},
		Dec: func(d coder.Decoder, v reflect.Value) error {
			p, err := d.ReadAll()
			if err != nil {
				return err
			}
			v.SetBytes(p)
			return nil
		},
	})
	Register("uuid_hyp_str", Module{
		Type: reflect.TypeOf(uuid.UUID{}),
		Enc: func(e coder.Encoder, v reflect.Value) error {
			return e.WriteUUIDString(v.Interface().(uuid.UUID))
		},
		Dec: func(d coder.Decoder, v reflect.Value) error {
			id, err := d.ReadUUIDString()
			if err != nil {
				return err
			}
			v.Set(reflect.ValueOf(id))
			return nil
		},
	})
}
