package intake

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// Payload is an encoded request body ready for delivery.
type Payload struct {
	// Body is the bytes to POST: the joined record values, or their
	// base64-encoded gzip stream when compression is on
	Body []byte

	// Compressed reports whether Body went through gzip
	Compressed bool

	// Records is the number of values that contributed to Body
	Records int

	// RawLen is the length of the joined values before compression
	RawLen int
}

// Encoder builds request payloads from record values. Values are joined
// with commas; nil values are skipped without leaving a separator.
type Encoder struct {
	compress bool
	level    int
}

// NewEncoder creates an encoder. level is the gzip compression level and
// must be within [0, 9]; it is only consulted when compress is true.
func NewEncoder(compress bool, level int) (*Encoder, error) {
	if compress && (level < gzip.NoCompression || level > gzip.BestCompression) {
		return nil, fmt.Errorf("gzip level %d out of range [%d, %d]", level, gzip.NoCompression, gzip.BestCompression)
	}
	return &Encoder{compress: compress, level: level}, nil
}

// Encode joins the non-nil values and optionally compresses the result.
// The boolean result is false when nothing remains to send, in which
// case no request must be made.
func (e *Encoder) Encode(values [][]byte) (Payload, bool, error) {
	var joined bytes.Buffer
	var count int
	for _, v := range values {
		if v == nil {
			continue
		}
		if count > 0 {
			joined.WriteByte(',')
		}
		joined.Write(v)
		count++
	}

	if joined.Len() == 0 {
		return Payload{}, false, nil
	}

	if !e.compress {
		return Payload{Body: joined.Bytes(), Records: count, RawLen: joined.Len()}, true, nil
	}

	var compressed bytes.Buffer
	zw, err := gzip.NewWriterLevel(&compressed, e.level)
	if err != nil {
		return Payload{}, false, fmt.Errorf("create gzip writer: %w", err)
	}
	if _, err := zw.Write(joined.Bytes()); err != nil {
		return Payload{}, false, fmt.Errorf("compress payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return Payload{}, false, fmt.Errorf("finalize gzip stream: %w", err)
	}

	body := make([]byte, base64.StdEncoding.EncodedLen(compressed.Len()))
	base64.StdEncoding.Encode(body, compressed.Bytes())

	return Payload{Body: body, Compressed: true, Records: count, RawLen: joined.Len()}, true, nil
}
