package codec

import (
	"fmt"
	"reflect"

	"github.com/blockwire/mcproto/coder"
)

// A windowStep packs a run of consecutive bitfield fields into one backing
// word. The last declared member sits at bit offset zero and offsets grow
// toward the high bits, so the first member occupies the top of the word.
type windowStep struct {
	width   int
	members []bitMember
}

type bitMember struct {
	index  int
	width  int
	offset int
	mask   uint64
	signed bool
	flag   bool
	pad    bool
}

// buildWindow validates a bitfield run and lays its members out in the
// backing word. Widths must sum to 8, 16, 32 or 64.
func buildWindow(t reflect.Type, run []fieldInfo) (*windowStep, error) {
	members := make([]bitMember, len(run))
	for i, f := range run {
		m := bitMember{index: f.index, width: f.dir.bits, mask: maskBits(f.dir.bits)}
		switch f.sf.Type.Kind() {
		case reflect.Bool:
			m.flag = true
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			m.signed = true
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return nil, fmt.Errorf("%v.%s: bitfield member must be a bool or sized integer, not %v", t, f.sf.Name, f.sf.Type)
		}
		if !m.flag && m.width > f.sf.Type.Bits() {
			return nil, fmt.Errorf("%v.%s: bitfield width %d exceeds %v", t, f.sf.Name, m.width, f.sf.Type)
		}
		m.pad = f.sf.Name == "_"
		members[i] = m
	}
	total := 0
	for i := len(members) - 1; i >= 0; i-- {
		members[i].offset = total
		total += members[i].width
	}
	switch total {
	case 8, 16, 32, 64:
	default:
		return nil, fmt.Errorf("%v: bitfield run is %d bits wide; runs must total 8, 16, 32 or 64", t, total)
	}
	return &windowStep{width: total, members: members}, nil
}

func (s *windowStep) encode(e coder.Encoder, v reflect.Value) error {
	var word uint64
	for _, m := range s.members {
		if m.pad {
			continue
		}
		f := v.Field(m.index)
		var raw uint64
		switch {
		case m.flag:
			if f.Bool() {
				raw = 1
			}
		case m.signed:
			raw = uint64(f.Int()) & m.mask
		default:
			raw = f.Uint() & m.mask
		}
		word |= raw << m.offset
	}
	switch s.width {
	case 8:
		return e.WriteUInt8(uint8(word))
	case 16:
		return e.WriteUInt16(uint16(word))
	case 32:
		return e.WriteUInt32(uint32(word))
	default:
		return e.WriteUInt64(word)
	}
}

func (s *windowStep) decode(d coder.Decoder, v reflect.Value) error {
	var word uint64
	switch s.width {
	case 8:
		b, err := d.ReadUInt8()
		if err != nil {
			return err
		}
		word = uint64(b)
	case 16:
		u, err := d.ReadUInt16()
		if err != nil {
			return err
		}
		word = uint64(u)
	case 32:
		u, err := d.ReadUInt32()
		if err != nil {
			return err
		}
		word = uint64(u)
	default:
		u, err := d.ReadUInt64()
		if err != nil {
			return err
		}
		word = u
	}
	for _, m := range s.members {
		if m.pad {
			continue
		}
		raw := (word >> m.offset) & m.mask
		f := v.Field(m.index)
		switch {
		case m.flag:
			f.SetBool(raw != 0)
		case m.signed:
			f.SetInt(signExtend(raw, m.width))
		default:
			f.SetUint(raw)
		}
	}
	return nil
}

func maskBits(width int) uint64 {
	if width == 64 {
		return ^uint64(0)
	}
	return uint64(1)<<width - 1
}

// signExtend interprets the low width bits of raw as a two's complement
// value.
func signExtend(raw uint64, width int) int64 {
	if width == 64 {
		return int64(raw)
	}
	if raw > uint64(1)<<(width-1)-1 {
		return int64(raw - uint64(1)<<width)
	}
	return int64(raw)
}
