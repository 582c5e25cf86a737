package xmldict

import (
	corexml "github.com/osmforge/osmxml/core/xml"
)

// The builder consumes the parsed DOM as a flat event stream, one start and
// end event per element with text events in between. Comments and other node
// kinds do not produce events.

type eventKind int

const (
	evStart eventKind = iota
	evText
	evEnd
)

type event struct {
	kind  eventKind
	name  string
	attrs []corexml.Attr
	text  string
}

// walkEvents streams the children of n, depth first, into fn. CDATA sections
// are delivered as ordinary text events.
func walkEvents(n *corexml.Node, fn func(event) error) error {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Kind() {
		case corexml.KindElement:
			if err := fn(event{kind: evStart, name: child.Name(), attrs: child.Attrs()}); err != nil {
				return err
			}
			if err := walkEvents(child, fn); err != nil {
				return err
			}
			if err := fn(event{kind: evEnd, name: child.Name()}); err != nil {
				return err
			}
		case corexml.KindText, corexml.KindCData:
			if err := fn(event{kind: evText, text: child.Text()}); err != nil {
				return err
			}
		}
	}
	return nil
}
