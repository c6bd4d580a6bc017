package record

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Value is a validated record payload. The concrete types are Image, Float,
// Int and Text; no other implementations exist.
type Value interface {
	Kind() Kind
	wire() any
	clone() Value
}

type Image []byte

type Float float64

type Int int64

type Text string

func (Image) Kind() Kind { return KindImage }
func (Float) Kind() Kind { return KindFloat }
func (Int) Kind() Kind   { return KindInt }
func (Text) Kind() Kind  { return KindString }

func (v Image) wire() any { return EncodeImage(v) }
func (v Float) wire() any { return float64(v) }
func (v Int) wire() any   { return int64(v) }
func (v Text) wire() any  { return string(v) }

func (v Image) clone() Value {
	if v == nil {
		return Image(nil)
	}
	return append(Image(make([]byte, 0, len(v))), v...)
}
func (v Float) clone() Value { return v }
func (v Int) clone() Value   { return v }
func (v Text) clone() Value  { return v }

var errLineBreak = errors.New("illegal line break in base64 data")

// EncodeImage returns the standard, padded base64 text of raw image bytes.
func EncodeImage(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeImage strictly decodes standard base64. Unlike the stdlib decoder,
// line breaks are rejected instead of skipped.
func DecodeImage(encoded string) ([]byte, error) {
	if i := strings.IndexAny(encoded, "\r\n"); i >= 0 {
		return nil, fmt.Errorf("%w at input byte %d", errLineBreak, i)
	}
	return base64.StdEncoding.Strict().DecodeString(encoded)
}
