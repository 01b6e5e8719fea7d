// Package gojson adapts github.com/goccy/go-json's token decoder to the
// engine.TokenSource contract.
//
// go-json's Token API hides separators, so the input is buffered and checked
// with gjson.ValidBytes before the first token is produced.
package gojson

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	eng "github.com/reoring/flexjson/internal/engine"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type source struct {
	dec   *j.Decoder
	cr    *countingReader
	stack []frame
	err   error
}

// ErrSyntax is returned for input that is not well-formed JSON.
var ErrSyntax = errors.New("gojson: malformed JSON")

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
// The reader is consumed in full on the first NextToken.
func NewReader(r io.Reader) eng.TokenSource {
	return &source{cr: &countingReader{r: r}}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

// load buffers the input and rejects it unless it is a single well-formed
// JSON text. Empty input is left to the decoder, which reports io.EOF.
func (s *source) load() error {
	data, err := io.ReadAll(s.cr)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) > 0 && !gjson.ValidBytes(data) {
		if err := j.Unmarshal(data, new(any)); err != nil {
			return err
		}
		return ErrSyntax
	}
	s.dec = j.NewDecoder(bytes.NewReader(data))
	s.dec.UseNumber()
	return nil
}

func (s *source) NextToken() (eng.Token, error) {
	if s.err != nil {
		return eng.Token{}, s.err
	}
	if s.dec == nil {
		if s.err = s.load(); s.err != nil {
			return eng.Token{}, s.err
		}
	}
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	off := s.cr.n
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return eng.Token{Kind: eng.KindBeginObject, Offset: off}, nil
		case '}':
			s.pop()
			return eng.Token{Kind: eng.KindEndObject, Offset: off}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return eng.Token{Kind: eng.KindBeginArray, Offset: off}, nil
		case ']':
			s.pop()
			return eng.Token{Kind: eng.KindEndArray, Offset: off}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return eng.Token{Kind: eng.KindKey, String: v, Offset: off}, nil
			}
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindString, String: v, Offset: off}, nil
	case bool:
		s.valueDone()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: off}, nil
	case j.Number:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: off}, nil
	case float64:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: off}, nil
	}
	s.valueDone()
	return eng.Token{Kind: eng.KindNull, Offset: off}, nil
}

// Location reports how many bytes have been pulled from the input so far.
// The input is buffered whole, so after the first token this is its length.
func (s *source) Location() int64 { return s.cr.n }

func (s *source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *source) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
