// Package encoding provides shared text escaping utilities for XML output.
package encoding

import "strings"

// EscapeXMLText escapes &, < and > for XML character data.
// Returns the input unchanged, without allocating, when no escaping is needed.
func EscapeXMLText(s string) string {
	return escapeXML(s, false)
}

// EscapeXMLAttr escapes text for use in XML attribute values.
// Escapes the double quote in addition to the character-data entities.
func EscapeXMLAttr(s string) string {
	return escapeXML(s, true)
}

func escapeXML(s string, quote bool) string {
	first := indexSpecial(s, quote)
	if first < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 10)
	last := 0

	for i := first; i < len(s); i++ {
		var rep string
		switch s[i] {
		case '&':
			rep = "&amp;"
		case '<':
			rep = "&lt;"
		case '>':
			rep = "&gt;"
		case '"':
			if !quote {
				continue
			}
			rep = "&quot;"
		default:
			continue
		}
		b.WriteString(s[last:i])
		b.WriteString(rep)
		last = i + 1
	}

	b.WriteString(s[last:])
	return b.String()
}

func indexSpecial(s string, quote bool) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&', '<', '>':
			return i
		case '"':
			if quote {
				return i
			}
		}
	}
	return -1
}
