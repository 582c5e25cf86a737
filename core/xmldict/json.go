package xmldict

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// The JSON bridge maps values onto plain JSON: mappings become objects with
// insertion order preserved, pairs become two-element arrays with the key
// first, timestamps and raw text become strings. Because JSON has no tuple
// type, a two-element array whose first element is a string decodes back as
// a pair.

// MarshalJSON implements json.Marshaler.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) writeJSON(buf *bytes.Buffer) error {
	switch v.Kind() {
	case KindAbsent:
		buf.WriteString("null")
	case KindString, KindRaw:
		return writeJSONString(buf, v.str)
	case KindInt:
		fmt.Fprintf(buf, "%d", v.i)
	case KindFloat:
		b, err := json.Marshal(v.f)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindTime:
		return writeJSONString(buf, v.t.Format("2006-01-02T15:04:05.999999Z07:00"))
	case KindPair:
		buf.WriteByte('[')
		if err := writeJSONString(buf, v.key); err != nil {
			return err
		}
		buf.WriteByte(',')
		if err := v.one.writeJSON(buf); err != nil {
			return err
		}
		buf.WriteByte(']')
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, e.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := e.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// writeJSONString encodes s without HTML escaping, so markup characters in
// document text survive as literal < > &.
func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline after the value.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	parsed, err := decodeJSONValue(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("trailing data after JSON value")
	}

	*v = *parsed
	return nil
}

func decodeJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := Mapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			var items []*Value
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			if len(items) == 2 && items[0].Kind() == KindString {
				return Pair(items[0].str, items[1]), nil
			}
			return List(items...), nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return Str(t), nil
	case json.Number:
		if strings.ContainsAny(string(t), ".eE") {
			f, err := t.Float64()
			if err != nil {
				return nil, err
			}
			return Float(f), nil
		}
		i, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return nil, err
			}
			return Float(f), nil
		}
		return Int(i), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Absent(), nil
	default:
		return nil, fmt.Errorf("unexpected JSON token %v", tok)
	}
}
