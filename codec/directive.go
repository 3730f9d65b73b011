package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// A directive is one parsed `mc` struct tag. Each field carries at most one:
// the zero directive means "encode by declared type".
type directive struct {
	kind      directiveKind
	with      string
	maxLength uint16
	bits      int
}

type directiveKind uint8

const (
	dirDefault directiveKind = iota
	dirWith
	dirMaxLength
	dirBitfield
)

func (k directiveKind) String() string {
	switch k {
	case dirWith:
		return "with"
	case dirMaxLength:
		return "max_length"
	case dirBitfield:
		return "bitfield"
	default:
		return "default"
	}
}

// parseDirective reads a field's `mc` tag. An absent or empty tag yields the
// default directive; more than one directive on a field is rejected.
func parseDirective(tag reflect.StructTag) (directive, error) {
	raw, ok := tag.Lookup("mc")
	if !ok || raw == "" {
		return directive{kind: dirDefault}, nil
	}
	var dir directive
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		next, err := parseOne(key, value)
		if err != nil {
			return directive{}, err
		}
		if dir.kind != dirDefault {
			return directive{}, fmt.Errorf("conflicting directives %s and %s", dir.kind, next.kind)
		}
		dir = next
	}
	return dir, nil
}

func parseOne(key, value string) (directive, error) {
	switch key {
	case "with":
		if value == "" {
			return directive{}, fmt.Errorf("with directive needs a codec name")
		}
		return directive{kind: dirWith, with: value}, nil
	case "max_length":
		n, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return directive{}, fmt.Errorf("max_length %q: %w", value, err)
		}
		return directive{kind: dirMaxLength, maxLength: uint16(n)}, nil
	case "bitfield":
		n, err := strconv.Atoi(value)
		if err != nil {
			return directive{}, fmt.Errorf("bitfield %q: %w", value, err)
		}
		if n < 1 || n > 64 {
			return directive{}, fmt.Errorf("bitfield width %d out of range", n)
		}
		return directive{kind: dirBitfield, bits: n}, nil
	default:
		return directive{}, fmt.Errorf("unknown directive %q", key)
	}
}
