// Package dom provides the Document Object Model tree structure used by
// the HTML tree constructor. It holds no parsing logic of its own: it
// only knows how to create nodes and attach them to a tree.
//
// Spec references:
// - DOM Level 2 Core: https://www.w3.org/TR/DOM-Level-2-Core/
package dom

import (
	"errors"
	"strings"
)

// NodeType represents the kind of a DOM node.
type NodeType int

const (
	// DocumentNode is the root of a tree. Exactly one exists per parse.
	DocumentNode NodeType = iota
	// ElementNode is a tagged element such as <p> or <a>.
	ElementNode
	// TextNode holds accumulated character data.
	TextNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// ElementKind enumerates the tags the tree constructor recognizes.
// An unmodeled tag name yields ErrUnknownTag from ElementKindFromName;
// the tree constructor uses that as a signal, not a failure.
type ElementKind int

const (
	// UnknownElementKind is the zero value: never attached to a real
	// Element node, only returned alongside ErrUnknownTag.
	UnknownElementKind ElementKind = iota
	Html
	Head
	Body
	Style
	Script
	P
	H1
	H2
	A
)

func (k ElementKind) String() string {
	switch k {
	case Html:
		return "html"
	case Head:
		return "head"
	case Body:
		return "body"
	case Style:
		return "style"
	case Script:
		return "script"
	case P:
		return "p"
	case H1:
		return "h1"
	case H2:
		return "h2"
	case A:
		return "a"
	default:
		return "unknown"
	}
}

// ErrUnknownTag is returned by ElementKindFromName for any tag name this
// engine does not model.
var ErrUnknownTag = errors.New("dom: unknown tag")

var elementKindByName = map[string]ElementKind{
	"html":   Html,
	"head":   Head,
	"body":   Body,
	"style":  Style,
	"script": Script,
	"p":      P,
	"h1":     H1,
	"h2":     H2,
	"a":      A,
}

// ElementKindFromName maps a tag name (case-insensitive) to an
// ElementKind. An unrecognized name returns ErrUnknownTag.
func ElementKindFromName(name string) (ElementKind, error) {
	kind, ok := elementKindByName[strings.ToLower(name)]
	if !ok {
		return UnknownElementKind, ErrUnknownTag
	}
	return kind, nil
}

// Attribute is a single (name, value) pair. Order of appearance is
// preserved and duplicate names are kept as-is: there is no query API
// here that depends on attribute uniqueness.
type Attribute struct {
	Name  string
	Value string
}

// Node is a single node in the DOM tree. The zero value is not usable;
// construct nodes with NewDocument, NewElement, or NewText.
//
// Parent is a non-owning back-reference. Ownership flows from parent to
// child via FirstChild/NextSibling; ownership is lost entirely (along
// with the subtree) when a node is never attached with AppendChild.
type Node struct {
	Type NodeType

	// Kind and Attributes are only meaningful when Type == ElementNode.
	Kind       ElementKind
	Attributes []Attribute

	// Text is only meaningful when Type == TextNode.
	Text string

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node
}

// NewDocument creates a new, empty Document node.
func NewDocument() *Node {
	return &Node{Type: DocumentNode}
}

// NewElement creates a new, unattached Element node of the given kind.
func NewElement(kind ElementKind, attrs []Attribute) *Node {
	return &Node{Type: ElementNode, Kind: kind, Attributes: attrs}
}

// NewText creates a new, unattached Text node.
func NewText(s string) *Node {
	return &Node{Type: TextNode, Text: s}
}

// AppendChild attaches child as the last child of parent. child must
// not already have a parent.
func AppendChild(parent, child *Node) {
	if child.Parent != nil {
		panic("dom: AppendChild called on a node that already has a parent")
	}
	if last := parent.LastChild; last != nil {
		last.NextSibling = child
		child.PrevSibling = last
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child
	child.Parent = parent
}

// LastChildOf returns the last child of node, or nil if it has none.
func LastChildOf(node *Node) *Node {
	return node.LastChild
}

// GetAttribute returns the value of the first attribute with the given
// name, or "" if none is present.
func (n *Node) GetAttribute(name string) string {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// Window owns the single Document produced by a parse, plus any future
// top-level document-scope state. It carries no parsing behavior.
type Window struct {
	Document *Node
}

// NewWindow creates a Window wrapping a fresh, empty Document.
func NewWindow() *Window {
	return &Window{Document: NewDocument()}
}
