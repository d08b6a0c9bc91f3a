// Package vdom is the intermediate document tree rendered by tokens and
// serialized by a printer.
package vdom

import (
	"golang.org/x/net/html"

	"kekpiler/internal/printer"
)

// Node is a printable tree node.
type Node interface {
	Print(p printer.Printer)
	// Phrasing reports whether the node may be printed inside an inline run.
	Phrasing() bool
}

// Decorator wraps a node and changes how it prints.
type Decorator interface {
	Node
	Unwrap() Node
}

// Text is escaped character data unless Raw is set.
type Text struct {
	Value string
	Raw   bool
}

func NewText(s string) *Text    { return &Text{Value: s} }
func NewRawText(s string) *Text { return &Text{Value: s, Raw: true} }

func (t *Text) Print(p printer.Printer) {
	if t.Value == "" {
		return
	}
	if t.Raw {
		p.Print(t.Value)
		return
	}
	p.Print(html.EscapeString(t.Value))
}

func (t *Text) Phrasing() bool { return true }

// Opaque is externally generated markup printed as is.
type Opaque struct {
	HTML   string
	Inline bool
}

// NewOpaque returns a block-level opaque node.
func NewOpaque(markup string) *Opaque { return &Opaque{HTML: markup} }

// NewInlineOpaque returns an opaque node that may join inline runs.
func NewInlineOpaque(markup string) *Opaque { return &Opaque{HTML: markup, Inline: true} }

func (o *Opaque) Print(p printer.Printer) {
	if o.HTML != "" {
		p.Print(o.HTML)
	}
}

func (o *Opaque) Phrasing() bool { return o.Inline }

// NodeList is a tagless sequence of nodes.
type NodeList []Node

func (l NodeList) Print(p printer.Printer) {
	for _, n := range l {
		if n != nil {
			n.Print(p)
		}
	}
}

func (l NodeList) Phrasing() bool {
	return allPhrasing(l)
}

type verbatim struct {
	inner Node
}

// Verbatim suspends inserted whitespace for the whole subtree of n.
func Verbatim(n Node) Node {
	return &verbatim{inner: n}
}

func (v *verbatim) Print(p printer.Printer) {
	p.Inline(func() { v.inner.Print(p) })
}

func (v *verbatim) Phrasing() bool { return v.inner.Phrasing() }

func (v *verbatim) Unwrap() Node { return v.inner }

// Unwrap strips every decorator around n.
func Unwrap(n Node) Node {
	for {
		d, ok := n.(Decorator)
		if !ok {
			return n
		}
		n = d.Unwrap()
	}
}

// AsElement returns the element behind any decorators.
func AsElement(n Node) (*Element, bool) {
	e, ok := Unwrap(n).(*Element)
	return e, ok
}

func allPhrasing(nodes []Node) bool {
	for _, n := range nodes {
		if n != nil && !n.Phrasing() {
			return false
		}
	}
	return true
}
