package stream

import (
	"strings"

	// Packages
	unicode "golang.org/x/text/encoding/unicode"
	transform "golang.org/x/text/transform"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Decoder turns raw body chunks into text. A multi-byte character split
// across two chunks is held back until the rest of it arrives.
type Decoder struct {
	t       transform.Transformer
	pending []byte
	dst     [1024]byte
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewDecoder returns a streaming UTF-8 decoder which drops a leading byte
// order mark and replaces malformed sequences with U+FFFD.
func NewDecoder() *Decoder {
	return &Decoder{
		t: unicode.UTF8BOM.NewDecoder(),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Decode returns the text for chunk. When final is false, an incomplete
// trailing sequence is kept for the next call; when final is true it is
// flushed as a replacement character and the decoder is reset.
func (d *Decoder) Decode(chunk []byte, final bool) string {
	src := append(d.pending, chunk...)
	d.pending = nil

	var text strings.Builder
	for {
		nDst, nSrc, err := d.t.Transform(d.dst[:], src, final)
		text.Write(d.dst[:nDst])
		src = src[nSrc:]
		if err == transform.ErrShortDst {
			continue
		}
		if err == transform.ErrShortSrc {
			d.pending = append(d.pending, src...)
		}
		break
	}

	if final {
		d.Reset()
	}
	return text.String()
}

// Reset discards any held back bytes.
func (d *Decoder) Reset() {
	d.pending = nil
	d.t.Reset()
}
