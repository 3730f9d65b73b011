// Package tag is the boundary to an externally owned tree-structured tag
// format. Packets carry whole tag trees as opaque blobs; this package
// never looks inside them. The concrete wire form comes from whichever
// Codec the process registers, typically cbortag.
package tag

import (
	"io"
	"sync/atomic"
)

// Tag is one tree of the external format. The codec core only moves Tag
// values between schema fields and the registered Codec.
type Tag any

// Codec translates Tag trees to and from their wire form.
type Codec interface {
	Encode(w io.Writer, t Tag) error
	Decode(r io.Reader) (Tag, error)
}

var active atomic.Pointer[Codec]

// SetCodec registers the process-wide tag codec. Call it once during
// startup, before any schema encode or decode runs.
func SetCodec(c Codec) {
	active.Store(&c)
}

// ActiveCodec returns the registered codec, or nil if none was set.
func ActiveCodec() Codec {
	p := active.Load()
	if p == nil {
		return nil
	}
	return *p
}
