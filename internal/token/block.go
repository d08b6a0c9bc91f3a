package token

import (
	"fmt"
	"strings"

	"kekpiler/internal/config"
	"kekpiler/internal/pattern"
	"kekpiler/internal/printer"
	"kekpiler/internal/vdom"
)

const fence = "```"

// Document is the root of the tree.
type Document struct {
	Parent
}

func newDocument(ctx *Context, text string) *Document {
	d := &Document{Parent: NewParent(KindDocument, 0)}
	d.SetChildren(BuildChildren(ctx, pattern.Document, text, 0))
	return d
}

func (d *Document) Render(ctx *Context) vdom.Node {
	el := vdom.NewElement("article")
	d.RenderChildren(ctx, el)
	return el
}

// Header is a section heading.
type Header struct {
	Base
	level int
	text  string
}

func newHeader(_ *Context, text string, offset int) Token {
	text = strings.TrimSpace(text)
	n := 0
	for n < len(text) && text[n] == '#' {
		n++
	}
	return &Header{
		Base:  NewBase(KindHeading, offset),
		level: max(1, n),
		text:  strings.TrimSpace(text[n:]),
	}
}

func (h *Header) Level() int    { return h.level }
func (h *Header) Title() string { return h.text }

// RenderedLevel applies the configured heading offset, clamped to 1..6.
func (h *Header) RenderedLevel(ctx *Context) int {
	return min(6, max(1, h.level+ctx.Config.Int(config.KeyHeadingLevelOffset)))
}

func (h *Header) Render(ctx *Context) vdom.Node {
	return vdom.NewElement(fmt.Sprintf("h%d", h.RenderedLevel(ctx)), vdom.NewText(h.text))
}

func (h *Header) Dump(p printer.Printer) {
	p.Print(strings.Repeat("#", h.level) + " " + h.text)
}

// Code is a fenced code block.
type Code struct {
	Base
	Lang string
	Text string
}

func newCode(_ *Context, text string, offset int) Token {
	lang, body, _ := splitFenced(text, fence)
	return &Code{Base: NewBase(KindCode, offset), Lang: lang, Text: body}
}

// splitFenced returns the trimmed info line, the body of a fenced block and
// the offset of the body in text. The closing fence is optional.
func splitFenced(text, marker string) (info, body string, start int) {
	rest := strings.TrimPrefix(text, marker)
	eol := strings.IndexByte(rest, '\n')
	if eol < 0 {
		return "", strings.TrimSuffix(rest, marker), len(marker)
	}
	return strings.TrimSpace(rest[:eol]), strings.TrimSuffix(rest[eol+1:], marker), len(marker) + eol + 1
}

func (c *Code) Render(*Context) vdom.Node {
	code := vdom.NewElement("code", vdom.NewText(c.Text))
	if c.Lang != "" {
		code.AddClass("language-" + c.Lang)
	}
	return vdom.Verbatim(vdom.NewElement("pre", code))
}

func (c *Code) Dump(p printer.Printer) {
	p.Print("Code [" + c.Lang + "]")
	p.Block(func() { p.Print(c.Text) })
}

// ContainerBox is a ::: fenced container.
type ContainerBox struct {
	Parent
	BoxType string
}

func newContainerBox(ctx *Context, text string, offset int) Token {
	boxType, body, start := splitFenced(text, ":::")
	b := &ContainerBox{Parent: NewParent(KindContainerBox, offset), BoxType: boxType}
	b.SetChildren(BuildChildren(ctx, pattern.Container, body, offset+start))
	return b
}

func (b *ContainerBox) Render(ctx *Context) vdom.Node {
	el := vdom.NewElement("div")
	if b.BoxType != "" {
		el.AddClass(ctx.ClassPrefix() + b.BoxType)
	}
	b.RenderChildren(ctx, el)
	return el
}

func (b *ContainerBox) Dump(p printer.Printer) {
	DumpContainer(p, "ContainerBox ["+b.BoxType+"]", b.Children())
}

// Quote is a block quote.
type Quote struct {
	Parent
}

func newQuote(ctx *Context, text string, offset int) Token {
	q := &Quote{Parent: NewParent(KindQuote, offset)}
	q.SetChildren(BuildChildren(ctx, pattern.Container, stripQuoteMarkers(text), offset))
	return q
}

func stripQuoteMarkers(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		rest := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(rest, ">") {
			rest = rest[1:]
			if strings.HasPrefix(rest, " ") {
				rest = rest[1:]
			}
			lines[i] = rest
		}
	}
	return strings.Join(lines, "\n")
}

func (q *Quote) Render(ctx *Context) vdom.Node {
	el := vdom.NewElement("blockquote")
	q.RenderChildren(ctx, el)
	return el
}

// Paragraph holds inline content.
type Paragraph struct {
	Parent
}

func newParagraph(ctx *Context, text string, offset int) Token {
	p := &Paragraph{Parent: NewParent(KindParagraph, offset)}
	p.SetChildren(BuildChildren(ctx, pattern.Inline, strings.TrimRight(text, " \t\r\n"), offset))
	return p
}

// ConsumeNeighbours swallows directly following inline tokens and the
// content of directly following paragraphs.
// It returns the token current on entry, which may be an override wrapper.
func (p *Paragraph) ConsumeNeighbours(_ *Context, it *Iterator) Token {
	self := it.Current()
	for next := it.Peek(1); next != nil; next = it.Peek(1) {
		if IsInline(next) {
			p.AppendChild(next)
		} else if other, ok := As[*Paragraph](next); ok && next.Kind() == KindParagraph {
			p.AppendChild(other.Children()...)
		} else {
			break
		}
		it.Next()
	}
	return self
}

func (p *Paragraph) Render(ctx *Context) vdom.Node {
	el := vdom.NewElement("p")
	p.RenderChildren(ctx, el)
	return el
}

// Reference declares the target of a reference name: [name]: target.
type Reference struct {
	Base
	reference string
	resource  string
}

func newReference(_ *Context, text string, offset int) Token {
	text = strings.TrimSpace(text)
	split := strings.Index(text, "]:")
	return &Reference{
		Base:      NewBase(KindReference, offset),
		reference: strings.TrimSpace(text[1:split]),
		resource:  strings.TrimSpace(text[split+2:]),
	}
}

func (r *Reference) ReferenceName() string { return r.reference }
func (r *Reference) ResourceName() string  { return r.resource }

func (r *Reference) Dump(p printer.Printer) {
	p.Print("Reference [" + r.reference + "]: " + r.resource)
}

// Division is a zero-width grouping marker.
type Division struct {
	Base
}

func newDivision(kind Kind) Constructor {
	return func(_ *Context, _ string, offset int) Token {
		return &Division{Base: NewBase(kind, offset)}
	}
}
