// Package xml provides a thin document layer over xmlquery: parsing into a
// DOM, ordered node and attribute access for document traversal, XPath
// queries, and a well-formedness check.
//
// Namespace prefixes are stripped throughout: element and attribute names are
// exposed as local names, and namespace declarations are not reported as
// attributes.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an XML node (element, text, CDATA, comment).
type Node struct {
	node *xmlquery.Node
}

// Attr is a single attribute, with its local name, in document order.
type Attr struct {
	Name  string
	Value string
}

// Kind classifies nodes for document traversal.
type Kind int

const (
	KindElement Kind = iota
	KindText
	KindCData
	KindComment
	KindOther
)

// Parse parses a complete XML document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// Check reports the first well-formedness error in data, if any.
//
// Entity expansion beyond the predefined XML entities is disabled, so a
// crafted document cannot trigger external entity fetches or expansion blowup.
func Check(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = map[string]string{}

	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Top returns the document node itself, whose children include the root
// element. It is the starting point for full traversals.
func (d *Document) Top() *Node {
	if d.root == nil {
		return nil
	}
	return &Node{node: d.root}
}

// Root returns the root element of the document, or nil if there is none.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*Node, error) {
	_, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}

	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst executes an XPath query and returns the first matching node,
// or nil when nothing matches.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	_, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// Kind returns the node classification.
func (n *Node) Kind() Kind {
	if n == nil || n.node == nil {
		return KindOther
	}
	switch n.node.Type {
	case xmlquery.ElementNode:
		return KindElement
	case xmlquery.TextNode:
		return KindText
	case xmlquery.CharDataNode:
		return KindCData
	case xmlquery.CommentNode:
		return KindComment
	default:
		return KindOther
	}
}

// Name returns the element's local name.
func (n *Node) Name() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the character data of a text or CDATA node.
func (n *Node) Text() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// FirstChild returns the node's first child, or nil.
func (n *Node) FirstChild() *Node {
	if n == nil || n.node == nil || n.node.FirstChild == nil {
		return nil
	}
	return &Node{node: n.node.FirstChild}
}

// NextSibling returns the node's next sibling, or nil.
func (n *Node) NextSibling() *Node {
	if n == nil || n.node == nil || n.node.NextSibling == nil {
		return nil
	}
	return &Node{node: n.node.NextSibling}
}

// Attrs returns the node's attributes in document order, with local names.
// Namespace declarations are skipped.
func (n *Node) Attrs() []Attr {
	if n == nil || n.node == nil || len(n.node.Attr) == 0 {
		return nil
	}

	attrs := make([]Attr, 0, len(n.node.Attr))
	for _, a := range n.node.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		attrs = append(attrs, Attr{Name: a.Name.Local, Value: a.Value})
	}
	return attrs
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// Children returns the child element nodes.
func (n *Node) Children() []*Node {
	if n == nil || n.node == nil {
		return nil
	}

	var children []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, &Node{node: child})
		}
	}
	return children
}

// InnerText returns all text content of the node and its descendants.
func (n *Node) InnerText() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// OutputXML serializes the node, including the node itself.
func (n *Node) OutputXML() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.OutputXML(true)
}
