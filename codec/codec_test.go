package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/xerr"
)

type weather struct {
	ID      int32  `mc:"with=var_int"`
	Kind    string `mc:"max_length=16"`
	Air     uint16
	Falling bool
}

// TestFieldOrder tests that fields encode in declaration order with their
// directives applied.
func TestFieldOrder(t *testing.T) {
	c := MustCompile[weather]()

	var buf bytes.Buffer
	original := &weather{ID: 300, Kind: "rain", Air: 0x0102, Falling: true}
	if err := c.Encode(&buf, original); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{0xAC, 0x02, 0x04, 'r', 'a', 'i', 'n', 0x01, 0x02, 0x01}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("wire bytes: expected % X, got % X", want, buf.Bytes())
	}

	decoded, err := c.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if *decoded != *original {
		t.Errorf("round trip mismatch: expected %+v, got %+v", original, decoded)
	}
}

// TestCompileErrors tests that malformed schemas fail compilation instead
// of producing bytes.
func TestCompileErrors(t *testing.T) {
	t.Run("NotAStruct", func(t *testing.T) {
		if _, err := Compile[int32](); err == nil {
			t.Error("expected error for non-struct type")
		}
	})

	t.Run("UnexportedField", func(t *testing.T) {
		type sneaky struct {
			ID  int32
			hid uint8
		}
		if _, err := Compile[sneaky](); err == nil {
			t.Error("expected error for unexported field")
		}
	})

	t.Run("BlankFieldOutsideBitfield", func(t *testing.T) {
		type padded struct {
			_ uint8
		}
		if _, err := Compile[padded](); err == nil {
			t.Error("expected error for blank field without bitfield directive")
		}
	})

	t.Run("ConflictingDirectives", func(t *testing.T) {
		type clash struct {
			ID int32 `mc:"with=var_int,max_length=5"`
		}
		_, err := Compile[clash]()
		if err == nil || !strings.Contains(err.Error(), "conflicting directives") {
			t.Errorf("expected conflicting directives error, got %v", err)
		}
	})

	t.Run("UnknownDirective", func(t *testing.T) {
		type stray struct {
			ID int32 `mc:"packed"`
		}
		if _, err := Compile[stray](); err == nil {
			t.Error("expected error for unknown directive")
		}
	})

	t.Run("UnknownModule", func(t *testing.T) {
		type stray struct {
			ID int32 `mc:"with=var_int_32"`
		}
		if _, err := Compile[stray](); err == nil {
			t.Error("expected error for unregistered codec name")
		}
	})

	t.Run("ModuleTypeMismatch", func(t *testing.T) {
		type wrong struct {
			ID int64 `mc:"with=var_int"`
		}
		_, err := Compile[wrong]()
		if err == nil || !strings.Contains(err.Error(), "var_int") {
			t.Errorf("expected codec type mismatch error, got %v", err)
		}
	})

	t.Run("MaxLengthOnNonString", func(t *testing.T) {
		type wrong struct {
			ID int32 `mc:"max_length=5"`
		}
		if _, err := Compile[wrong](); err == nil {
			t.Error("expected error for max_length on an int field")
		}
	})

	t.Run("RecursiveType", func(t *testing.T) {
		type node struct {
			Next *node
		}
		_, err := Compile[node]()
		if err == nil || !strings.Contains(err.Error(), "Codable") {
			t.Errorf("expected recursion error suggesting Codable, got %v", err)
		}
	})

	t.Run("UnregisteredInterface", func(t *testing.T) {
		type open struct {
			Body any
		}
		_, err := Compile[open]()
		if err == nil || !strings.Contains(err.Error(), "union") {
			t.Errorf("expected unregistered union error, got %v", err)
		}
	})
}

// TestNamedModules tests the built-in `with` codecs.
func TestNamedModules(t *testing.T) {
	t.Run("VarLong", func(t *testing.T) {
		type move struct {
			Delta int64 `mc:"with=var_long"`
		}
		c := MustCompile[move]()
		var buf bytes.Buffer
		if err := c.Encode(&buf, &move{Delta: -1}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if buf.Len() != 10 {
			t.Fatalf("expected 10 wire bytes for -1, got %d", buf.Len())
		}
		decoded, err := c.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if decoded.Delta != -1 {
			t.Errorf("Delta: expected -1, got %d", decoded.Delta)
		}
	})

	t.Run("Rest", func(t *testing.T) {
		type plugin struct {
			Channel string `mc:"max_length=20"`
			Data    []byte `mc:"with=rest"`
		}
		c := MustCompile[plugin]()
		var buf bytes.Buffer
		original := &plugin{Channel: "brand", Data: []byte{1, 2, 3, 4}}
		if err := c.Encode(&buf, original); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		// No length prefix: the four data bytes follow the channel directly.
		want := []byte{0x05, 'b', 'r', 'a', 'n', 'd', 1, 2, 3, 4}
		if !bytes.Equal(buf.Bytes(), want) {
			t.Fatalf("wire bytes: expected % X, got % X", want, buf.Bytes())
		}
		decoded, err := c.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !bytes.Equal(decoded.Data, original.Data) {
			t.Errorf("Data: expected % X, got % X", original.Data, decoded.Data)
		}
	})

	t.Run("UUIDHyphenated", func(t *testing.T) {
		type session struct {
			ID uuid.UUID `mc:"with=uuid_hyp_str"`
		}
		c := MustCompile[session]()
		var buf bytes.Buffer
		original := &session{ID: uuid.MustParse("2a1e1912-7103-4add-80fc-91ebc346cbce")}
		if err := c.Encode(&buf, original); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if buf.Len() != 37 {
			t.Fatalf("expected 37 wire bytes, got %d", buf.Len())
		}
		decoded, err := c.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if decoded.ID != original.ID {
			t.Errorf("ID: expected %s, got %s", original.ID, decoded.ID)
		}
	})
}

// TestDefaultTypes tests the codecs derived from declared types alone.
func TestDefaultTypes(t *testing.T) {
	t.Run("UUIDBinary", func(t *testing.T) {
		type spawn struct {
			ID uuid.UUID
		}
		c := MustCompile[spawn]()
		var buf bytes.Buffer
		original := &spawn{ID: uuid.MustParse("2a1e1912-7103-4add-80fc-91ebc346cbce")}
		if err := c.Encode(&buf, original); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if buf.Len() != 16 {
			t.Fatalf("expected 16 wire bytes, got %d", buf.Len())
		}
		decoded, err := c.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if decoded.ID != original.ID {
			t.Errorf("ID: expected %s, got %s", original.ID, decoded.ID)
		}
	})

	t.Run("NestedStruct", func(t *testing.T) {
		type inner struct {
			A uint8
			B uint8
		}
		type outer struct {
			Head uint8
			Body inner
		}
		c := MustCompile[outer]()
		var buf bytes.Buffer
		if err := c.Encode(&buf, &outer{Head: 1, Body: inner{A: 2, B: 3}}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !bytes.Equal(buf.Bytes(), []byte{1, 2, 3}) {
			t.Fatalf("wire bytes: expected 01 02 03, got % X", buf.Bytes())
		}
		decoded, err := c.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if decoded.Body.B != 3 {
			t.Errorf("Body.B: expected 3, got %d", decoded.Body.B)
		}
	})
}

// TestOption tests the pointer presence-flag encoding.
func TestOption(t *testing.T) {
	type action struct {
		Boost *int32 `mc:"with=var_int"`
	}
	// A directive on a pointer field applies to the pointer type itself,
	// which no module accepts.
	if _, err := Compile[action](); err == nil {
		t.Fatal("expected error for directive on pointer field")
	}

	type lookAt struct {
		EntityID *uint32
	}
	c := MustCompile[lookAt]()

	t.Run("Present", func(t *testing.T) {
		var buf bytes.Buffer
		id := uint32(7)
		if err := c.Encode(&buf, &lookAt{EntityID: &id}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !bytes.Equal(buf.Bytes(), []byte{0x01, 0, 0, 0, 7}) {
			t.Fatalf("wire bytes: expected 01 00 00 00 07, got % X", buf.Bytes())
		}
		decoded, err := c.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if decoded.EntityID == nil || *decoded.EntityID != 7 {
			t.Errorf("EntityID: expected 7, got %v", decoded.EntityID)
		}
	})

	t.Run("Absent", func(t *testing.T) {
		var buf bytes.Buffer
		if err := c.Encode(&buf, &lookAt{}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !bytes.Equal(buf.Bytes(), []byte{0x00}) {
			t.Fatalf("wire bytes: expected 00, got % X", buf.Bytes())
		}
		decoded, err := c.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if decoded.EntityID != nil {
			t.Errorf("EntityID: expected nil, got %v", *decoded.EntityID)
		}
	})
}

// TestSlice tests the varint-counted sequence encoding.
func TestSlice(t *testing.T) {
	type tab struct {
		Matches []string
	}
	c := MustCompile[tab]()

	var buf bytes.Buffer
	original := &tab{Matches: []string{"ab", "c"}}
	if err := c.Encode(&buf, original); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{0x02, 0x02, 'a', 'b', 0x01, 'c'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("wire bytes: expected % X, got % X", want, buf.Bytes())
	}
	decoded, err := c.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded.Matches) != 2 || decoded.Matches[0] != "ab" || decoded.Matches[1] != "c" {
		t.Errorf("Matches: expected [ab c], got %v", decoded.Matches)
	}

	t.Run("NegativeCount", func(t *testing.T) {
		wire := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}
		if _, err := c.Decode(bytes.NewReader(wire)); err == nil {
			t.Error("expected error for negative element count")
		}
	})
}

type handedness uint8

const (
	leftHand handedness = iota
	rightHand
)

type hatKind int32

const (
	noHat hatKind = iota + 100
	topHat
)

func init() {
	RegisterEnum(UnsignedByte, leftHand, rightHand)
	RegisterEnum(VarInt, noHat, topHat)
}

// TestEnum tests closed enums under both discriminant widths.
func TestEnum(t *testing.T) {
	t.Run("UnsignedByte", func(t *testing.T) {
		type settings struct {
			Hand handedness
		}
		c := MustCompile[settings]()
		var buf bytes.Buffer
		if err := c.Encode(&buf, &settings{Hand: rightHand}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !bytes.Equal(buf.Bytes(), []byte{0x01}) {
			t.Fatalf("wire bytes: expected 01, got % X", buf.Bytes())
		}
		decoded, err := c.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if decoded.Hand != rightHand {
			t.Errorf("Hand: expected %d, got %d", rightHand, decoded.Hand)
		}
	})

	t.Run("VarInt", func(t *testing.T) {
		type outfit struct {
			Hat hatKind
		}
		c := MustCompile[outfit]()
		var buf bytes.Buffer
		if err := c.Encode(&buf, &outfit{Hat: topHat}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !bytes.Equal(buf.Bytes(), []byte{0x65}) {
			t.Fatalf("wire bytes: expected 65, got % X", buf.Bytes())
		}
		decoded, err := c.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if decoded.Hat != topHat {
			t.Errorf("Hat: expected %d, got %d", topHat, decoded.Hat)
		}
	})

	t.Run("UnknownValue", func(t *testing.T) {
		type settings struct {
			Hand handedness
		}
		c := MustCompile[settings]()
		_, err := c.Decode(bytes.NewReader([]byte{0x09}))
		var unknown *xerr.UnknownEnumTypeError
		if !errors.As(err, &unknown) {
			t.Fatalf("expected UnknownEnumTypeError, got %v", err)
		}
		if unknown.TypeID != 9 {
			t.Errorf("TypeID: expected 9, got %d", unknown.TypeID)
		}
	})
}

type trade interface{ trade() }

type tradeBuy struct {
	Slot  uint8
	Count uint8
}

type tradeSell struct {
	Slot uint8
}

func (tradeBuy) trade()  {}
func (tradeSell) trade() {}

func init() {
	RegisterUnion[trade](UnsignedByte, Ordinals(tradeBuy{}, tradeSell{})...)
}

// TestUnion tests tagged union dispatch through an interface field.
func TestUnion(t *testing.T) {
	type window struct {
		Action trade
	}
	c := MustCompile[window]()

	t.Run("RoundTrip", func(t *testing.T) {
		var buf bytes.Buffer
		if err := c.Encode(&buf, &window{Action: tradeBuy{Slot: 3, Count: 2}}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !bytes.Equal(buf.Bytes(), []byte{0x00, 0x03, 0x02}) {
			t.Fatalf("wire bytes: expected 00 03 02, got % X", buf.Bytes())
		}
		decoded, err := c.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		buy, ok := decoded.Action.(tradeBuy)
		if !ok {
			t.Fatalf("expected tradeBuy, got %T", decoded.Action)
		}
		if buy.Slot != 3 || buy.Count != 2 {
			t.Errorf("variant: expected {3 2}, got %+v", buy)
		}
	})

	t.Run("SecondVariant", func(t *testing.T) {
		var buf bytes.Buffer
		if err := c.Encode(&buf, &window{Action: tradeSell{Slot: 9}}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !bytes.Equal(buf.Bytes(), []byte{0x01, 0x09}) {
			t.Fatalf("wire bytes: expected 01 09, got % X", buf.Bytes())
		}
	})

	t.Run("UnknownDiscriminant", func(t *testing.T) {
		_, err := c.Decode(bytes.NewReader([]byte{0x07}))
		var unknown *xerr.UnknownEnumTypeError
		if !errors.As(err, &unknown) {
			t.Fatalf("expected UnknownEnumTypeError, got %v", err)
		}
		if unknown.TypeID != 7 {
			t.Errorf("TypeID: expected 7, got %d", unknown.TypeID)
		}
	})

	t.Run("NilValue", func(t *testing.T) {
		var buf bytes.Buffer
		err := c.Encode(&buf, &window{})
		if !errors.Is(err, xerr.NilUnionValue) {
			t.Errorf("expected NilUnionValue, got %v", err)
		}
	})
}

// selfFramed owns its wire form: a count byte followed by that many 0xEE
// bytes. The schema compiler must defer to it instead of deriving a codec
// from its fields.
type selfFramed struct {
	N uint8
}

func (s *selfFramed) WriteTo(e coder.Encoder) error {
	if err := e.WriteUInt8(s.N); err != nil {
		return err
	}
	return e.WriteBytes(bytes.Repeat([]byte{0xEE}, int(s.N)))
}

func (s *selfFramed) ReadFrom(d coder.Decoder) error {
	n, err := d.ReadUInt8()
	if err != nil {
		return err
	}
	s.N = n
	for i := uint8(0); i < n; i++ {
		if _, err := d.ReadUInt8(); err != nil {
			return err
		}
	}
	return nil
}

// TestCodableField tests that field types implementing coder.Codable keep
// control of their own bytes.
func TestCodableField(t *testing.T) {
	type carrier struct {
		Body selfFramed
		Tail uint8
	}
	c := MustCompile[carrier]()

	var buf bytes.Buffer
	if err := c.Encode(&buf, &carrier{Body: selfFramed{N: 2}, Tail: 5}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{0x02, 0xEE, 0xEE, 0x05}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("wire bytes: expected % X, got % X", want, buf.Bytes())
	}
	decoded, err := c.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Body.N != 2 || decoded.Tail != 5 {
		t.Errorf("round trip mismatch: got %+v", decoded)
	}
}

// TestEncodeValue tests the interface-typed encode entry point.
func TestEncodeValue(t *testing.T) {
	var buf bytes.Buffer
	e := coder.NewEncoder(&buf)

	if err := EncodeValue(e, &weather{ID: 1, Kind: "x"}); err != nil {
		t.Fatalf("EncodeValue failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected bytes written")
	}

	if err := EncodeValue(e, weather{}); err == nil {
		t.Error("expected error for non-pointer value")
	}
	var nilWeather *weather
	if err := EncodeValue(e, nilWeather); err == nil {
		t.Error("expected error for nil pointer")
	}
}
