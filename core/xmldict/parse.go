package xmldict

import (
	"strings"
	"unicode/utf8"

	"github.com/osmforge/osmxml/core/cache"
	"github.com/osmforge/osmxml/core/errors"
	corexml "github.com/osmforge/osmxml/core/xml"
)

const (
	// DefaultMaxDepth bounds the number of suspended element frames during
	// parsing. Real OSM payloads nest far shallower than this.
	DefaultMaxDepth = 10

	// DefaultMaxSize bounds accepted input, matching the CGImap limit.
	DefaultMaxSize = 50 * 1024 * 1024
)

// forceItems names elements whose sibling order matters and where duplicates
// are expected, such as osmChange create/modify/delete blocks. Their parent
// switches to an ordered key/value sequence.
var forceItems = map[string]struct{}{
	"bounds":   {},
	"create":   {},
	"delete":   {},
	"modify":   {},
	"node":     {},
	"relation": {},
	"way":      {},
}

// forceList names elements that are always represented as lists, even with a
// single occurrence.
var forceList = map[string]struct{}{
	"comment":    {},
	"gpx_file":   {},
	"member":     {},
	"nd":         {},
	"note":       {},
	"preference": {},
	"tag":        {},
	"trk":        {},
	"trkpt":      {},
	"trkseg":     {},
}

// Options configures parsing.
type Options struct {
	// ISODates parses timestamps without an embedded space.
	ISODates DateParser
	// SpacedDates parses timestamps containing a space.
	SpacedDates DateParser
	// MaxDepth bounds the number of suspended element frames.
	MaxDepth int
	// MaxSize bounds the input size in bytes. Zero disables the check.
	MaxSize int
	// AttrKeys interns "@name" attribute keys across documents.
	AttrKeys *cache.Cache[string, string]
}

// DefaultOptions returns the standard parsing configuration.
func DefaultOptions() *Options {
	return &Options{
		ISODates:    ParseISO8601,
		SpacedDates: ParseSpacedDate,
		MaxDepth:    DefaultMaxDepth,
		MaxSize:     DefaultMaxSize,
		AttrKeys:    cache.New[string, string](),
	}
}

func (o *Options) attrKey(name string) string {
	if o.AttrKeys == nil {
		return "@" + name
	}
	return o.AttrKeys.GetOrCompute(name, func(n string) string {
		return "@" + n
	})
}

// Parse converts an XML document into its dictionary form with default
// options. The result is a mapping with a single entry, keyed by the root
// element name.
func Parse(data []byte) (*Value, error) {
	return ParseWithOptions(data, DefaultOptions())
}

// ParseWithOptions converts an XML document into its dictionary form.
func ParseWithOptions(data []byte, opts *Options) (*Value, error) {
	if opts.MaxSize > 0 && len(data) > opts.MaxSize {
		return nil, errors.NewSize(len(data), opts.MaxSize)
	}
	if !utf8.Valid(data) {
		return nil, errors.ErrDecode
	}

	doc, err := corexml.Parse(data)
	if err != nil {
		return nil, errors.NewSyntax(err)
	}

	b := &builder{opts: opts}
	err = walkEvents(doc.Top(), func(ev event) error {
		switch ev.kind {
		case evStart:
			return b.startElement(ev.name, ev.attrs)
		case evText:
			return b.handleText(ev.text)
		case evEnd:
			return b.endElement()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if b.result == nil {
		return nil, errors.ErrEmptyDocument
	}
	return b.result, nil
}

// frame holds the partial state of one open element. An element accumulates
// into dict until an order-preserving child arrives, at which point dict is
// flattened into list and all later children append as pairs.
type frame struct {
	name   string
	active bool
	dict   *Value
	list   *Value
	text   string // split character data accumulation buffer
	textOK bool
}

type builder struct {
	opts   *Options
	stack  []frame
	cur    frame
	result *Value
}

func (b *builder) startElement(name string, attrs []corexml.Attr) error {
	if len(b.stack) >= b.opts.MaxDepth {
		return errors.NewNesting(b.opts.MaxDepth)
	}

	if b.cur.active {
		b.stack = append(b.stack, b.cur)
	}
	b.cur = frame{name: name, active: true}

	for _, a := range attrs {
		v, err := b.opts.coerce(a.Name, a.Value)
		if err != nil {
			return err
		}
		if b.cur.dict == nil {
			b.cur.dict = Mapping()
		}
		b.cur.dict.Set(b.opts.attrKey(a.Name), v)
	}
	return nil
}

func (b *builder) handleText(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if !b.cur.active {
		return nil
	}

	v, err := b.opts.coerce(b.cur.name, raw)
	if err != nil {
		return err
	}

	if b.cur.list != nil {
		b.cur.list.Append(Pair("#text", v))
		return nil
	}

	if b.cur.dict == nil {
		b.cur.dict = Mapping()
	}

	if b.cur.textOK {
		s, err := scalarString(v)
		if err != nil {
			return err
		}
		// The tokenizer can split character data across events; concatenate.
		b.cur.text += s
		b.cur.dict.Set("#text", Str(b.cur.text))
		return nil
	}

	if existing, ok := b.cur.dict.Get("#text"); ok {
		// Second text event: seed the accumulation buffer from the value
		// stored by the first one.
		prev, err := scalarString(existing)
		if err != nil {
			return err
		}
		next, err := scalarString(v)
		if err != nil {
			return err
		}
		b.cur.text = prev + next
		b.cur.textOK = true
		b.cur.dict.Set("#text", Str(b.cur.text))
		return nil
	}

	b.cur.dict.Set("#text", v)
	return nil
}

func (b *builder) endElement() error {
	if !b.cur.active {
		return nil
	}
	name := b.cur.name

	var result *Value
	switch {
	case b.cur.dict == nil && b.cur.list == nil:
		result = nil
	case b.cur.list == nil:
		// Collapse pure text elements to a scalar instead of {"#text": v}.
		if v, ok := b.cur.dict.Get("#text"); ok && b.cur.dict.Len() == 1 {
			result = v
		} else {
			result = b.cur.dict
		}
	case b.cur.dict == nil:
		result = b.cur.list
	default:
		merged := List()
		for _, e := range b.cur.dict.Entries() {
			merged.Append(Pair(e.Key, e.Value))
		}
		merged.Append(b.cur.list.Items()...)
		result = merged
	}

	if n := len(b.stack); n > 0 {
		parent := b.stack[n-1]
		b.stack = b.stack[:n-1]
		if result != nil {
			attach(&parent, name, result)
		}
		b.cur = parent
		return nil
	}

	if result != nil {
		b.result = Mapping(Entry{Key: name, Value: result})
	}
	b.cur = frame{}
	return nil
}

// attach inserts a finished child value into its parent frame, applying the
// ordering and list folding rules.
func attach(parent *frame, name string, child *Value) {
	if parent.list != nil {
		// Already in sequence mode; keep children in document order.
		parent.list.Append(Pair(name, child))
		return
	}

	if _, ok := forceItems[name]; ok {
		// Switch to sequence mode to preserve sibling order and duplicates.
		list := List()
		if parent.dict != nil {
			for _, e := range parent.dict.Entries() {
				list.Append(Pair(e.Key, e.Value))
			}
			parent.dict = nil
		}
		list.Append(Pair(name, child))
		parent.list = list
		return
	}

	if parent.dict == nil {
		parent.dict = Mapping()
	}

	if existing, ok := parent.dict.Get(name); ok {
		// Repeated tags become lists to preserve all occurrences.
		if existing.Kind() == KindList {
			existing.Append(child)
		} else {
			parent.dict.Set(name, List(existing, child))
		}
		return
	}

	if _, ok := forceList[name]; ok {
		parent.dict.Set(name, List(child))
		return
	}

	parent.dict.Set(name, child)
}
