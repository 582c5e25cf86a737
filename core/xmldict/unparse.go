package xmldict

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/osmforge/osmxml/core/encoding"
	"github.com/osmforge/osmxml/core/errors"
)

const xmlDeclaration = "<?xml version='1.0' encoding='UTF-8'?>\n"

// Unparse serializes a dictionary value back into an XML document. The input
// must be a mapping with exactly one entry, whose key names the root element.
func Unparse(root *Value) (string, error) {
	if root.Kind() != KindMapping {
		return "", errors.NewTypeMismatch("mapping", root.Kind().String())
	}
	entries := root.Entries()
	if len(entries) != 1 {
		return "", errors.NewInvalidRoot(len(entries))
	}

	var body strings.Builder
	if err := serializeElement(&body, entries[0].Key, entries[0].Value, true); err != nil {
		return "", err
	}

	element := body.String()
	var out strings.Builder
	out.Grow(len(xmlDeclaration) + len(element) + 1)
	out.WriteString(xmlDeclaration)
	out.WriteString(element)
	if element != "" {
		out.WriteByte('\n')
	}
	return out.String(), nil
}

// UnparseBytes is Unparse returning the document as a byte slice.
func UnparseBytes(root *Value) ([]byte, error) {
	s, err := Unparse(root)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func serializeElement(sb *strings.Builder, key string, v *Value, isRoot bool) error {
	switch v.Kind() {
	case KindMapping:
		return serializePairs(sb, key, v.Entries())
	case KindList:
		return serializeSequence(sb, key, v.Items(), isRoot)
	case KindPair:
		return errors.NewTypeMismatch("mapping, sequence, or scalar", "pair")
	default:
		return serializeScalar(sb, key, v)
	}
}

// serializePairs writes one element from a flat key/value view: "@" keys
// become attributes, "#text" becomes inline character data, everything else
// becomes a child element.
func serializePairs(sb *strings.Builder, key string, entries []Entry) error {
	var attrs, inner strings.Builder

	for _, e := range entries {
		if name, ok := strings.CutPrefix(e.Key, "@"); ok {
			s, err := scalarString(e.Value)
			if err != nil {
				return err
			}
			attrs.WriteByte(' ')
			attrs.WriteString(name)
			attrs.WriteString(`="`)
			attrs.WriteString(encoding.EscapeXMLAttr(s))
			attrs.WriteByte('"')
			continue
		}
		if e.Key == "#text" {
			if e.Value.Kind() == KindRaw {
				inner.WriteString("<![CDATA[")
				inner.WriteString(e.Value.str)
				inner.WriteString("]]>")
				continue
			}
			s, err := scalarString(e.Value)
			if err != nil {
				return err
			}
			inner.WriteString(encoding.EscapeXMLText(s))
			continue
		}
		if err := serializeElement(&inner, e.Key, e.Value, false); err != nil {
			return err
		}
	}

	if inner.Len() == 0 {
		fmt.Fprintf(sb, "<%s%s/>", key, attrs.String())
		return nil
	}
	fmt.Fprintf(sb, "<%s%s>%s</%s>", key, attrs.String(), inner.String(), key)
	return nil
}

// serializeSequence writes a sequence value. All pair entries aggregate into
// a single element emitted at the position of the first pair; mapping and
// scalar entries each produce their own element under the same name.
func serializeSequence(sb *strings.Builder, key string, items []*Value, isRoot bool) error {
	if len(items) == 0 {
		return nil
	}

	firstPair := -1
	nonPairs := 0
	for i, item := range items {
		if item.Kind() == KindPair {
			if firstPair < 0 {
				firstPair = i
			}
		} else {
			nonPairs++
		}
	}
	if isRoot && nonPairs > 1 {
		return errors.ErrRootMultiValue
	}

	for i, item := range items {
		if i == firstPair {
			var entries []Entry
			for _, it := range items {
				if k, v, ok := it.AsPair(); ok {
					entries = append(entries, Entry{Key: k, Value: v})
				}
			}
			if err := serializePairs(sb, key, entries); err != nil {
				return err
			}
			continue
		}

		switch item.Kind() {
		case KindPair:
			// Aggregated at firstPair.
		case KindMapping:
			if err := serializePairs(sb, key, item.Entries()); err != nil {
				return err
			}
		case KindList:
			return errors.ErrNestedSequence
		default:
			if err := serializeScalar(sb, key, item); err != nil {
				return err
			}
		}
	}
	return nil
}

func serializeScalar(sb *strings.Builder, key string, v *Value) error {
	if v.Kind() == KindRaw {
		fmt.Fprintf(sb, "<%s><![CDATA[%s]]></%s>", key, v.str, key)
		return nil
	}

	s, err := scalarString(v)
	if err != nil {
		return err
	}
	if s == "" {
		fmt.Fprintf(sb, "<%s/>", key)
		return nil
	}
	fmt.Fprintf(sb, "<%s>%s</%s>", key, encoding.EscapeXMLText(s), key)
	return nil
}

// scalarString renders a scalar value as XML character data. Timestamps must
// be UTC; a zone offset is rejected rather than silently converted.
func scalarString(v *Value) (string, error) {
	switch v.Kind() {
	case KindAbsent:
		return "", nil
	case KindString, KindRaw:
		return v.str, nil
	case KindBool:
		if v.b {
			return "true", nil
		}
		return "false", nil
	case KindInt:
		return strconv.FormatInt(v.i, 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64), nil
	case KindTime:
		if name, offset := v.t.Zone(); offset != 0 {
			return "", errors.NewTimezone(name, offset)
		}
		t := v.t
		if micro := t.Nanosecond() / 1000; micro != 0 {
			return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%06dZ",
				t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), micro), nil
		}
		return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02dZ",
			t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second()), nil
	default:
		return "", errors.NewTypeMismatch("scalar", v.Kind().String())
	}
}
