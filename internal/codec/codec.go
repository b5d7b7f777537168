// Package codec converts queue elements to and from their stored text form.
//
// Membership and removal compare encoded strings, so a codec must be
// deterministic: equal elements have to encode to byte-identical text.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Codec encodes elements of type E for storage and decodes them back.
type Codec[E any] interface {
	Encode(e E) (string, error)
	Decode(s string) (E, error)
}

// Funcs adapts an encode/decode function pair to Codec.
type Funcs[E any] struct {
	EncodeFunc func(E) (string, error)
	DecodeFunc func(string) (E, error)
}

// Encode implements Codec.
func (f Funcs[E]) Encode(e E) (string, error) {
	return f.EncodeFunc(e)
}

// Decode implements Codec.
func (f Funcs[E]) Decode(s string) (E, error) {
	return f.DecodeFunc(s)
}

// JSON encodes elements as compact JSON. HTML escaping is disabled so the
// stored text matches what other JSON tools produce.
//
// Map keys are sorted by encoding/json; struct fields keep declaration order.
type JSON[E any] struct{}

// Encode implements Codec.
func (JSON[E]) Encode(e E) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Decode implements Codec.
func (JSON[E]) Decode(s string) (E, error) {
	var e E
	if err := json.Unmarshal([]byte(s), &e); err != nil {
		return e, fmt.Errorf("decode json: %w", err)
	}
	return e, nil
}

// Text stores strings as-is after Unicode NFC normalisation, so canonically
// equivalent spellings ("é" precomposed or as e + combining accent) are the
// same element. Invalid UTF-8 is rejected.
type Text struct{}

// Encode implements Codec.
func (Text) Encode(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("encode text: invalid UTF-8")
	}
	return norm.NFC.String(s), nil
}

// Decode implements Codec.
func (Text) Decode(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("decode text: invalid UTF-8")
	}
	return s, nil
}
