// Package cbortag backs the tag boundary with CBOR. Trees are plain Go
// values (map[string]any, []any, int64, string, ...) encoded in canonical
// form, so equal trees always produce equal bytes.
package cbortag

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/blockwire/mcproto/tag"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic("cbortag: " + err.Error())
	}
	encMode = em
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		panic("cbortag: " + err.Error())
	}
	decMode = dm
}

// Codec encodes and decodes tag trees as single CBOR items.
type Codec struct{}

// Register installs the CBOR codec as the process-wide tag codec.
func Register() {
	tag.SetCodec(Codec{})
}

func (Codec) Encode(w io.Writer, t tag.Tag) error {
	return encMode.NewEncoder(w).Encode(t)
}

// Decode reads exactly one CBOR item. The source is consumed byte by
// byte so that trailing packet fields stay readable after the tree.
func (Codec) Decode(r io.Reader) (tag.Tag, error) {
	var t tag.Tag
	if err := decMode.NewDecoder(byteReader{r}).Decode(&t); err != nil {
		return nil, err
	}
	return t, nil
}

// byteReader defeats the decoder's read-ahead buffering; without it the
// decoder would swallow bytes belonging to the next field.
type byteReader struct {
	r io.Reader
}

func (b byteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return b.r.Read(p[:1])
}
