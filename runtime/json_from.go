package cbor

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// FromJSON streams the JSON values read from r into e, one top-level CBOR
// item per JSON value.
//
//   - null/bool/string map to CBOR null/bool/text.
//   - numbers become integers when they have no fraction or exponent and
//     fit int64 or uint64, and float64 otherwise.
//   - arrays and objects become definite-length arrays and maps, with
//     object members kept in document order.
//
// JSON nesting deeper than MaxNesting fails with ErrNestingTooDeep, the
// same as any other encode.
func FromJSON(r io.Reader, e *Encoder) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	depth := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if depth != 0 {
				return io.ErrUnexpectedEOF
			}
			return e.Err()
		}
		if err != nil {
			return err
		}
		switch x := tok.(type) {
		case json.Delim:
			switch x {
			case '[', '{':
				if x == '[' {
					err = e.OpenArray()
				} else {
					err = e.OpenMap()
				}
				if err != nil {
					return err
				}
				depth++
			case ']':
				err = e.CloseArray()
				depth--
			case '}':
				err = e.CloseMap()
				depth--
			}
		case nil:
			err = e.AddNull()
		case bool:
			err = e.AddBool(x)
		case string:
			err = e.AddString(x)
		case json.Number:
			err = addJSONNumber(e, x)
		}
		if err != nil {
			return err
		}
	}
}

// FromJSONBytes converts a JSON document into CBOR bytes.
func FromJSONBytes(js []byte) ([]byte, error) {
	e := NewEncoder(nil)
	if err := FromJSON(bytes.NewReader(js), e); err != nil {
		return nil, err
	}
	return e.Finish()
}

func addJSONNumber(e *Encoder, n json.Number) error {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return e.AddInt64(i)
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return e.AddUint64(u)
		}
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	return e.AddFloat64(f)
}
