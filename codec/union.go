package codec

import (
	"fmt"
	"reflect"

	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/internal/safe"
	"github.com/blockwire/mcproto/xerr"
)

// Variant binds one concrete struct type to its wire discriminant.
type Variant struct {
	ID    int32
	Value any
}

// Ordinals numbers variants in argument order, starting at zero.
func Ordinals(values ...any) []Variant {
	vs := make([]Variant, len(values))
	for i, v := range values {
		vs[i] = Variant{ID: int32(i), Value: v}
	}
	return vs
}

type unionDef struct {
	disc   Discriminant
	byID   map[int32]*variantDef
	byType map[reflect.Type]*variantDef
}

type variantDef struct {
	id   int32
	typ  reflect.Type
	plan *plan
}

var unions safe.RMap[reflect.Type, *unionDef]

// RegisterUnion declares interface U as a closed tagged union. Fields of
// type U encode as disc followed by the body of the concrete variant, and
// decode rejects discriminants outside the registered set.
//
// Variant values must be structs implementing U. Registration compiles each
// variant's schema and panics on a malformed one, so enums the variants use
// must already be registered.
func RegisterUnion[U any](disc Discriminant, variants ...Variant) {
	u := reflect.TypeOf((*U)(nil)).Elem()
	if u.Kind() != reflect.Interface {
		panic(fmt.Sprintf("codec: union %v must be an interface type", u))
	}
	def := &unionDef{
		disc:   disc,
		byID:   make(map[int32]*variantDef, len(variants)),
		byType: make(map[reflect.Type]*variantDef, len(variants)),
	}
	for _, va := range variants {
		vt := reflect.TypeOf(va.Value)
		if vt == nil || vt.Kind() != reflect.Struct {
			panic(fmt.Sprintf("codec: union %v: variant %v must be a struct value", u, vt))
		}
		if !vt.Implements(u) {
			panic(fmt.Sprintf("codec: union %v: %v does not implement it", u, vt))
		}
		if _, dup := def.byID[va.ID]; dup {
			panic(fmt.Sprintf("codec: union %v: duplicate discriminant %d", u, va.ID))
		}
		p, err := compiled(vt)
		if err != nil {
			panic(fmt.Sprintf("codec: union %v: %v", u, err))
		}
		vd := &variantDef{id: va.ID, typ: vt, plan: p}
		def.byID[va.ID] = vd
		def.byType[vt] = vd
	}
	unions.Set(u, def)
}

func unionValueOp(u reflect.Type, def *unionDef) valueOp {
	return valueOp{
		enc: func(e coder.Encoder, v reflect.Value) error {
			if v.IsNil() {
				return xerr.NilUnionValue
			}
			cv := v.Elem()
			vd, ok := def.byType[cv.Type()]
			if !ok {
				return fmt.Errorf("codec: %v is not a registered variant of %v", cv.Type(), u)
			}
			if err := writeDiscriminant(e, def.disc, vd.id); err != nil {
				return err
			}
			return vd.plan.encode(e, cv)
		},
		dec: func(d coder.Decoder, v reflect.Value) error {
			id, err := readDiscriminant(d, def.disc)
			if err != nil {
				return err
			}
			vd, ok := def.byID[id]
			if !ok {
				return &xerr.UnknownEnumTypeError{TypeID: int64(id)}
			}
			nv := reflect.New(vd.typ).Elem()
			if err := vd.plan.decode(d, nv); err != nil {
				return err
			}
			v.Set(nv)
			return nil
		},
	}
}
