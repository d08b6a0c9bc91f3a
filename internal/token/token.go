package token

import (
	"kekpiler/internal/printer"
	"kekpiler/internal/resource"
	"kekpiler/internal/vdom"
)

// Token is a node of the parsed document tree.
type Token interface {
	Kind() Kind
	// Offset is the byte offset of the token in the compiled source.
	Offset() int
	Name() string
	// ConsumeTokens runs in the first grouping pass and returns the node that
	// replaces the current token, or nil to drop it.
	ConsumeTokens(ctx *Context, it *Iterator) Token
	// ConsumeNeighbours runs in the second grouping pass over the nodes
	// produced by the first.
	ConsumeNeighbours(ctx *Context, it *Iterator) Token
	Render(ctx *Context) vdom.Node
	Dump(p printer.Printer)
}

// Wrapper is implemented by override classes that decorate the token of the
// class they extend.
type Wrapper interface {
	Unwrap() Token
}

// Wrapped can be embedded by override classes. It forwards every Token method
// to the extended token.
type Wrapped struct {
	Token
}

func (w Wrapped) Unwrap() Token { return w.Token }

// Container holds ordered children.
type Container interface {
	Children() []Token
	SetChildren(children []Token)
}

// Inline is implemented by tokens a paragraph may swallow.
type Inline interface {
	IsInline() bool
}

// ListItem is implemented by itemized and enumerated items.
type ListItem interface {
	ListTag() string
	// SimpleContent reports whether the item holds at most one paragraph
	// followed by one list that is not in paragraph mode.
	SimpleContent() bool
	SetParagraphMode(on bool)
}

// Lister is implemented by list aggregates.
type Lister interface {
	Items() []Token
	ParagraphMode() bool
}

// Resourceful is implemented by tokens carrying a resource request.
type Resourceful interface {
	resource.Request
	ResourceURL() string
}

// Metadata is implemented by tokens that describe the preceding node.
type Metadata interface {
	MetadataText() string
}

// MetadataTarget is implemented by tokens that accept a metadata block placed
// after them. AcceptMetadata is called at most once with a successful result.
type MetadataTarget interface {
	AcceptMetadata(ctx *Context, meta Token) bool
}

// Heading is implemented by section headings.
type Heading interface {
	Level() int
	Title() string
}

// Fragment is implemented by tokens that render with a linkable id.
type Fragment interface {
	Heading
	FragmentID() string
}

// As returns the first token in the wrapper chain of t that implements T.
func As[T any](t Token) (T, bool) {
	for t != nil {
		if v, ok := t.(T); ok {
			return v, true
		}
		w, ok := t.(Wrapper)
		if !ok {
			break
		}
		t = w.Unwrap()
	}
	var zero T
	return zero, false
}

// IsInline reports whether t may be swallowed by a paragraph.
func IsInline(t Token) bool {
	in, ok := As[Inline](t)
	return ok && in.IsInline()
}

// ChildrenOf returns the children of a container token and nil otherwise.
func ChildrenOf(t Token) []Token {
	if c, ok := As[Container](t); ok {
		return c.Children()
	}
	return nil
}

// Walk visits t and its descendants in document order. Returning false from
// visit stops the walk; Walk reports whether it ran to completion.
func Walk(t Token, visit func(Token) bool) bool {
	if t == nil {
		return true
	}
	if !visit(t) {
		return false
	}
	for _, c := range ChildrenOf(t) {
		if !Walk(c, visit) {
			return false
		}
	}
	return true
}

// Collect returns every token under root, root included, implementing T.
func Collect[T any](root Token) []T {
	var out []T
	Walk(root, func(t Token) bool {
		if v, ok := As[T](t); ok {
			out = append(out, v)
		}
		return true
	})
	return out
}

// Base provides the default token behaviour. Embedders supply Render and,
// when they carry state worth showing, Dump.
type Base struct {
	kind   Kind
	offset int
}

func NewBase(kind Kind, offset int) Base {
	return Base{kind: kind, offset: offset}
}

func (b *Base) Kind() Kind   { return b.kind }
func (b *Base) Offset() int  { return b.offset }
func (b *Base) Name() string { return b.kind.String() }

func (b *Base) ConsumeTokens(_ *Context, it *Iterator) Token     { return it.Current() }
func (b *Base) ConsumeNeighbours(_ *Context, it *Iterator) Token { return it.Current() }

func (b *Base) Render(*Context) vdom.Node { return nil }

func (b *Base) Dump(p printer.Printer) { p.Print(b.Name()) }

// Parent is the base of container tokens.
type Parent struct {
	Base
	children []Token
}

func NewParent(kind Kind, offset int) Parent {
	return Parent{Base: NewBase(kind, offset)}
}

func (p *Parent) Children() []Token            { return p.children }
func (p *Parent) SetChildren(children []Token) { p.children = children }
func (p *Parent) HasChildren() bool            { return len(p.children) > 0 }

func (p *Parent) AppendChild(children ...Token) {
	for _, c := range children {
		if c != nil {
			p.children = append(p.children, c)
		}
	}
}

// RenderChildren appends the rendered children to el.
func (p *Parent) RenderChildren(ctx *Context, el *vdom.Element) {
	for _, c := range p.children {
		el.Append(c.Render(ctx))
	}
}

func (p *Parent) Dump(pr printer.Printer) {
	DumpContainer(pr, p.Name(), p.children)
}

// DumpContainer prints a header line followed by the indented children.
func DumpContainer(p printer.Printer, header string, children []Token) {
	p.Print(header)
	p.Block(func() {
		for _, c := range children {
			c.Dump(p)
		}
	})
}
