// Package xmldict converts between OSM-flavored XML documents and dynamic
// dictionary values, mirroring the shape conventions of xmltodict: attributes
// become "@name" keys, inline text becomes "#text", repeated children fold
// into lists, and selected container elements preserve full child ordering as
// key/value sequences.
//
// The package is lossless in the unparse direction: a Value produced by Parse
// serializes back to an equivalent document via Unparse.
package xmldict

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
	KindRaw
	KindPair
	KindList
	KindMapping
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindRaw:
		return "raw"
	case KindPair:
		return "pair"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry is a single key/value association inside a mapping.
type Entry struct {
	Key   string
	Value *Value
}

// Value is a dynamically typed node of a parsed document: a scalar, a raw
// text payload, a key/value pair, a sequence, or an ordered mapping.
//
// The zero value and nil both behave as the absent value.
type Value struct {
	kind    Kind
	str     string
	i       int64
	f       float64
	b       bool
	t       time.Time
	key     string
	one     *Value
	list    []*Value
	entries []Entry
}

// Absent returns the absent value.
func Absent() *Value {
	return &Value{kind: KindAbsent}
}

// Str returns a string scalar.
func Str(s string) *Value {
	return &Value{kind: KindString, str: s}
}

// Int returns an integer scalar.
func Int(i int64) *Value {
	return &Value{kind: KindInt, i: i}
}

// Float returns a float scalar.
func Float(f float64) *Value {
	return &Value{kind: KindFloat, f: f}
}

// Bool returns a boolean scalar.
func Bool(b bool) *Value {
	return &Value{kind: KindBool, b: b}
}

// Time returns a timestamp scalar.
func Time(t time.Time) *Value {
	return &Value{kind: KindTime, t: t}
}

// Raw returns a raw text value, serialized as a CDATA section on unparse.
func Raw(s string) *Value {
	return &Value{kind: KindRaw, str: s}
}

// Pair returns a key/value pair, the element type of ordered sequences.
func Pair(key string, value *Value) *Value {
	return &Value{kind: KindPair, key: key, one: value}
}

// List returns a sequence of the given values.
func List(items ...*Value) *Value {
	return &Value{kind: KindList, list: items}
}

// Mapping returns an ordered mapping of the given entries.
func Mapping(entries ...Entry) *Value {
	return &Value{kind: KindMapping, entries: entries}
}

// Kind returns the value's dynamic type. Nil values are absent.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindAbsent
	}
	return v.kind
}

// IsAbsent reports whether the value is absent.
func (v *Value) IsAbsent() bool {
	return v.Kind() == KindAbsent
}

// AsString returns the string payload of a string or raw value.
func (v *Value) AsString() (string, bool) {
	if v == nil || (v.kind != KindString && v.kind != KindRaw) {
		return "", false
	}
	return v.str, true
}

// AsInt returns the integer payload.
func (v *Value) AsInt() (int64, bool) {
	if v == nil || v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the float payload.
func (v *Value) AsFloat() (float64, bool) {
	if v == nil || v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsBool returns the boolean payload.
func (v *Value) AsBool() (bool, bool) {
	if v == nil || v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsTime returns the timestamp payload.
func (v *Value) AsTime() (time.Time, bool) {
	if v == nil || v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

// AsPair returns the key and value of a pair.
func (v *Value) AsPair() (string, *Value, bool) {
	if v == nil || v.kind != KindPair {
		return "", nil, false
	}
	return v.key, v.one, true
}

// Items returns the elements of a list.
func (v *Value) Items() []*Value {
	if v == nil || v.kind != KindList {
		return nil
	}
	return v.list
}

// Append adds items to a list value. Any other kind is left unchanged.
func (v *Value) Append(items ...*Value) {
	if v == nil || v.kind != KindList {
		return
	}
	v.list = append(v.list, items...)
}

// Entries returns the entries of a mapping in insertion order.
func (v *Value) Entries() []Entry {
	if v == nil || v.kind != KindMapping {
		return nil
	}
	return v.entries
}

// Len returns the number of elements of a list or mapping, and zero for
// everything else.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMapping:
		return len(v.entries)
	default:
		return 0
	}
}

// Get returns the value stored under key in a mapping.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.kind != KindMapping {
		return nil, false
	}
	for i := range v.entries {
		if v.entries[i].Key == key {
			return v.entries[i].Value, true
		}
	}
	return nil, false
}

// Set stores value under key in a mapping, replacing an existing entry in
// place or appending a new one.
func (v *Value) Set(key string, value *Value) {
	for i := range v.entries {
		if v.entries[i].Key == key {
			v.entries[i].Value = value
			return
		}
	}
	v.entries = append(v.entries, Entry{Key: key, Value: value})
}

// Equal reports whether two values are structurally equal. Timestamps compare
// by instant and zone offset, so a UTC time and the same instant at +02:00
// are not equal.
func (v *Value) Equal(other *Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case KindAbsent:
		return true
	case KindString, KindRaw:
		return v.str == other.str
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindBool:
		return v.b == other.b
	case KindTime:
		if !v.t.Equal(other.t) {
			return false
		}
		_, off1 := v.t.Zone()
		_, off2 := other.t.Zone()
		return off1 == off2
	case KindPair:
		return v.key == other.key && v.one.Equal(other.one)
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.entries) != len(other.entries) {
			return false
		}
		for i := range v.entries {
			if v.entries[i].Key != other.entries[i].Key {
				return false
			}
			if !v.entries[i].Value.Equal(other.entries[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the value for debugging. The output is not a wire format.
func (v *Value) String() string {
	var sb strings.Builder
	v.debugString(&sb)
	return sb.String()
}

func (v *Value) debugString(sb *strings.Builder) {
	switch v.Kind() {
	case KindAbsent:
		sb.WriteString("absent")
	case KindString:
		fmt.Fprintf(sb, "%q", v.str)
	case KindRaw:
		fmt.Fprintf(sb, "raw(%q)", v.str)
	case KindInt:
		fmt.Fprintf(sb, "%d", v.i)
	case KindFloat:
		fmt.Fprintf(sb, "%g", v.f)
	case KindBool:
		fmt.Fprintf(sb, "%t", v.b)
	case KindTime:
		sb.WriteString(v.t.Format(time.RFC3339Nano))
	case KindPair:
		fmt.Fprintf(sb, "(%q, ", v.key)
		v.one.debugString(sb)
		sb.WriteString(")")
	case KindList:
		sb.WriteString("[")
		for i, item := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.debugString(sb)
		}
		sb.WriteString("]")
	case KindMapping:
		sb.WriteString("{")
		for i, e := range v.entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%q: ", e.Key)
			e.Value.debugString(sb)
		}
		sb.WriteString("}")
	}
}
