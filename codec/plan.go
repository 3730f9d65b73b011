package codec

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/internal/safe"
	"github.com/blockwire/mcproto/tag"
	"github.com/blockwire/mcproto/xlog"
)

// A plan is the compiled wire program for one struct type: an ordered mix of
// single-field steps and bitfield windows, executed against a struct value.
type plan struct {
	typ   reflect.Type
	steps []step
}

type step interface {
	encode(e coder.Encoder, v reflect.Value) error
	decode(d coder.Decoder, v reflect.Value) error
}

func (p *plan) encode(e coder.Encoder, v reflect.Value) error {
	for _, s := range p.steps {
		if err := s.encode(e, v); err != nil {
			return err
		}
	}
	return nil
}

func (p *plan) decode(d coder.Decoder, v reflect.Value) error {
	for _, s := range p.steps {
		if err := s.decode(d, v); err != nil {
			return err
		}
	}
	return nil
}

// fieldStep applies a value codec to a single field.
type fieldStep struct {
	index int
	op    valueOp
}

func (s *fieldStep) encode(e coder.Encoder, v reflect.Value) error {
	return s.op.enc(e, v.Field(s.index))
}

func (s *fieldStep) decode(d coder.Decoder, v reflect.Value) error {
	return s.op.dec(d, v.Field(s.index))
}

// valueOp encodes and decodes one value of a fixed type. Decode targets are
// always addressable.
type valueOp struct {
	enc func(e coder.Encoder, v reflect.Value) error
	dec func(d coder.Decoder, v reflect.Value) error
}

type fieldInfo struct {
	index int
	sf    reflect.StructField
	dir   directive
}

var plans safe.RMap[reflect.Type, *plan]

// compiled returns the plan for t, compiling and caching it on first use.
func compiled(t reflect.Type) (*plan, error) {
	if p, ok := plans.Get(t); ok {
		return p, nil
	}
	c := compiler{active: make(map[reflect.Type]bool)}
	return c.compile(t)
}

type compiler struct {
	active map[reflect.Type]bool
}

func (c *compiler) compile(t reflect.Type) (*plan, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("codec: %v is not a struct", t)
	}
	if p, ok := plans.Get(t); ok {
		return p, nil
	}
	if c.active[t] {
		return nil, fmt.Errorf("codec: %v refers to itself; implement coder.Codable for recursive types", t)
	}
	c.active[t] = true
	defer delete(c.active, t)

	var steps []step
	var run []fieldInfo
	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		w, err := buildWindow(t, run)
		if err != nil {
			return err
		}
		steps = append(steps, w)
		run = nil
		return nil
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		dir, err := parseDirective(sf.Tag)
		if err != nil {
			return nil, fmt.Errorf("codec: %v.%s: %w", t, sf.Name, err)
		}
		if sf.Name == "_" {
			if dir.kind != dirBitfield {
				return nil, fmt.Errorf("codec: %v: blank fields are only allowed as bitfield padding", t)
			}
			run = append(run, fieldInfo{index: i, sf: sf, dir: dir})
			continue
		}
		if !sf.IsExported() {
			return nil, fmt.Errorf("codec: %v.%s: wire structs cannot have unexported fields", t, sf.Name)
		}
		if dir.kind == dirBitfield {
			run = append(run, fieldInfo{index: i, sf: sf, dir: dir})
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		op, err := c.fieldOp(sf.Type, dir)
		if err != nil {
			return nil, fmt.Errorf("codec: %v.%s: %w", t, sf.Name, err)
		}
		steps = append(steps, &fieldStep{index: i, op: op})
	}
	if err := flush(); err != nil {
		return nil, err
	}

	p := &plan{typ: t, steps: steps}
	p, _ = plans.GetOrSet(t, p)
	xlog.Debug("schema compiled", xlog.String("type", t.String()), xlog.Int("steps", len(steps)))
	return p, nil
}

func (c *compiler) fieldOp(t reflect.Type, dir directive) (valueOp, error) {
	switch dir.kind {
	case dirWith:
		m, ok := modules.Get(dir.with)
		if !ok {
			return valueOp{}, fmt.Errorf("no codec named %q", dir.with)
		}
		if t != m.Type {
			return valueOp{}, fmt.Errorf("codec %q encodes %v, field is %v", dir.with, m.Type, t)
		}
		return valueOp{enc: m.Enc, dec: m.Dec}, nil
	case dirMaxLength:
		if t.Kind() != reflect.String {
			return valueOp{}, fmt.Errorf("max_length applies to strings, not %v", t)
		}
		return stringOp(dir.maxLength), nil
	case dirBitfield:
		return valueOp{}, fmt.Errorf("bitfield member outside a bitfield run")
	}
	return c.defaultOp(t)
}

var (
	uuidType    = reflect.TypeOf(uuid.UUID{})
	tagType     = reflect.TypeOf((*tag.Tag)(nil)).Elem()
	codableType = reflect.TypeOf((*coder.Codable)(nil)).Elem()
)

// defaultOp derives the codec a bare field gets from its declared type.
// Exact types are matched first, then registered enums, then kinds; types
// whose pointer implements coder.Codable keep full control of their bytes.
func (c *compiler) defaultOp(t reflect.Type) (valueOp, error) {
	if t == uuidType {
		return uuidOp, nil
	}
	if t == tagType {
		return tagOp, nil
	}
	if k := t.Kind(); k != reflect.Interface && k != reflect.Pointer && reflect.PointerTo(t).Implements(codableType) {
		return codableOp(t), nil
	}
	if def, ok := enums.Get(t); ok {
		return enumValueOp(t, def), nil
	}
	if op, ok := kindOps[t.Kind()]; ok {
		return op, nil
	}
	switch t.Kind() {
	case reflect.String:
		return stringOp(coder.StringMaxLength), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return dataOp, nil
		}
		elem, err := c.fieldOp(t.Elem(), directive{})
		if err != nil {
			return valueOp{}, err
		}
		return sliceOp(t, elem), nil
	case reflect.Interface:
		if def, ok := unions.Get(t); ok {
			return unionValueOp(t, def), nil
		}
		return valueOp{}, fmt.Errorf("interface %v is not a registered union", t)
	case reflect.Struct:
		p, err := c.compile(t)
		if err != nil {
			return valueOp{}, err
		}
		return structOp(p), nil
	case reflect.Pointer:
		elem, err := c.fieldOp(t.Elem(), directive{})
		if err != nil {
			return valueOp{}, err
		}
		return optionOp(t.Elem(), elem), nil
	}
	return valueOp{}, fmt.Errorf("cannot derive a codec for %v", t)
}

var kindOps = map[reflect.Kind]valueOp{
	reflect.Bool: {
		enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteBool(v.Bool()) },
		dec: func(d coder.Decoder, v reflect.Value) error {
			b, err := d.ReadBool()
			if err != nil {
				return err
			}
			v.SetBool(b)
			return nil
		},
	},
	reflect.Uint8: {
		enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteUInt8(uint8(v.Uint())) },
		dec: func(d coder.Decoder, v reflect.Value) error {
			n, err := d.ReadUInt8()
			if err != nil {
				return err
			}
			v.SetUint(uint64(n))
			return nil
		},
	},
	reflect.Int8: {
		enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteInt8(int8(v.Int())) },
		dec: func(d coder.Decoder, v reflect.Value) error {
			n, err := d.ReadInt8()
			if err != nil {
				return err
			}
			v.SetInt(int64(n))
			return nil
		},
	},
	reflect.Uint16: {
		enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteUInt16(uint16(v.Uint())) },
		dec: func(d coder.Decoder, v reflect.Value) error {
			n, err := d.ReadUInt16()
			if err != nil {
				return err
			}
			v.SetUint(uint64(n))
			return nil
		},
	},
	reflect.Int16: {
		enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteInt16(int16(v.Int())) },
		dec: func(d coder.Decoder, v reflect.Value) error {
			n, err := d.ReadInt16()
			if err != nil {
				return err
			}
			v.SetInt(int64(n))
			return nil
		},
	},
	reflect.Uint32: {
		enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteUInt32(uint32(v.Uint())) },
		dec: func(d coder.Decoder, v reflect.Value) error {
			n, err := d.ReadUInt32()
			if err != nil {
				return err
			}
			v.SetUint(uint64(n))
			return nil
		},
	},
	reflect.Int32: {
		enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteInt32(int32(v.Int())) },
		dec: func(d coder.Decoder, v reflect.Value) error {
			n, err := d.ReadInt32()
			if err != nil {
				return err
			}
			v.SetInt(int64(n))
			return nil
		},
	},
	reflect.Uint64: {
		enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteUInt64(v.Uint()) },
		dec: func(d coder.Decoder, v reflect.Value) error {
			n, err := d.ReadUInt64()
			if err != nil {
				return err
			}
			v.SetUint(n)
			return nil
		},
	},
	reflect.Int64: {
		enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteInt64(v.Int()) },
		dec: func(d coder.Decoder, v reflect.Value) error {
			n, err := d.ReadInt64()
			if err != nil {
				return err
			}
			v.SetInt(n)
			return nil
		},
	},
	reflect.Float32: {
		enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteFloat32(float32(v.Float())) },
		dec: func(d coder.Decoder, v reflect.Value) error {
			f, err := d.ReadFloat32()
			if err != nil {
				return err
			}
			v.SetFloat(float64(f))
			return nil
		},
	},
	reflect.Float64: {
		enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteFloat64(v.Float()) },
		dec: func(d coder.Decoder, v reflect.Value) error {
			f, err := d.ReadFloat64()
			if err != nil {
				return err
			}
			v.SetFloat(f)
			return nil
		},
	},
}

func stringOp(max uint16) valueOp {
	return valueOp{
		enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteString(v.String(), max) },
		dec: func(d coder.Decoder, v reflect.Value) error {
			s, err := d.ReadString(max)
			if err != nil {
				return err
			}
			v.SetString(s)
			return nil
		},
	}
}

var dataOp = valueOp{
	enc: func(e coder.Encoder, v reflect.Value) error { return e.WriteData(v.Bytes()) },
	dec: func(d coder.Decoder, v reflect.Value) error {
		p, err := d.ReadData()
		if err != nil {
			return err
		}
		v.SetBytes(p)
		return nil
	},
}

var uuidOp = valueOp{
	enc: func(e coder.Encoder, v reflect.Value) error {
		return e.WriteUUID(v.Interface().(uuid.UUID))
	},
	dec: func(d coder.Decoder, v reflect.Value) error {
		id, err := d.ReadUUID()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(id))
		return nil
	},
}

var tagOp = valueOp{
	enc: func(e coder.Encoder, v reflect.Value) error {
		return e.WriteTag(v.Interface())
	},
	dec: func(d coder.Decoder, v reflect.Value) error {
		t, err := d.ReadTag()
		if err != nil {
			return err
		}
		if t == nil {
			v.SetZero()
			return nil
		}
		v.Set(reflect.ValueOf(t))
		return nil
	},
}

func structOp(p *plan) valueOp {
	return valueOp{
		enc: func(e coder.Encoder, v reflect.Value) error { return p.encode(e, v) },
		dec: func(d coder.Decoder, v reflect.Value) error { return p.decode(d, v) },
	}
}

// optionOp encodes a nilable pointer as a presence flag followed by the
// value when present.
func optionOp(elem reflect.Type, op valueOp) valueOp {
	return valueOp{
		enc: func(e coder.Encoder, v reflect.Value) error {
			if v.IsNil() {
				return e.WriteBool(false)
			}
			if err := e.WriteBool(true); err != nil {
				return err
			}
			return op.enc(e, v.Elem())
		},
		dec: func(d coder.Decoder, v reflect.Value) error {
			present, err := d.ReadBool()
			if err != nil {
				return err
			}
			if !present {
				v.SetZero()
				return nil
			}
			p := reflect.New(elem)
			if err := op.dec(d, p.Elem()); err != nil {
				return err
			}
			v.Set(p)
			return nil
		},
	}
}

func sliceOp(t reflect.Type, elem valueOp) valueOp {
	return valueOp{
		enc: func(e coder.Encoder, v reflect.Value) error {
			n := v.Len()
			if err := e.WriteVarInt32(int32(n)); err != nil {
				return err
			}
			for i := 0; i < n; i++ {
				if err := elem.enc(e, v.Index(i)); err != nil {
					return err
				}
			}
			return nil
		},
		dec: func(d coder.Decoder, v reflect.Value) error {
			n, err := d.ReadVarInt32()
			if err != nil {
				return err
			}
			if n < 0 {
				return fmt.Errorf("codec: negative length %d for %v", n, t)
			}
			s := reflect.MakeSlice(t, int(n), int(n))
			for i := 0; i < int(n); i++ {
				if err := elem.dec(d, s.Index(i)); err != nil {
					return err
				}
			}
			v.Set(s)
			return nil
		},
	}
}

func codableOp(t reflect.Type) valueOp {
	return valueOp{
		enc: func(e coder.Encoder, v reflect.Value) error {
			if !v.CanAddr() {
				p := reflect.New(t)
				p.Elem().Set(v)
				v = p.Elem()
			}
			return v.Addr().Interface().(coder.Codable).WriteTo(e)
		},
		dec: func(d coder.Decoder, v reflect.Value) error {
			return v.Addr().Interface().(coder.Codable).ReadFrom(d)
		},
	}
}
