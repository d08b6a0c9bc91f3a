package token

import (
	"strconv"
	"strings"

	"kekpiler/internal/config"
	"kekpiler/internal/diag"
	"kekpiler/internal/printer"
	"kekpiler/internal/resource"
	"kekpiler/internal/vdom"
)

// Text is plain character data.
type Text struct {
	Base
	Value string
}

func newText(_ *Context, text string, offset int) Token {
	return &Text{Base: NewBase(KindText, offset), Value: text}
}

func newEscapedText(_ *Context, text string, offset int) Token {
	return &Text{Base: NewBase(KindEscapedText, offset), Value: text[1:]}
}

func (t *Text) IsInline() bool { return true }

func (t *Text) Render(*Context) vdom.Node { return vdom.NewText(t.Value) }

func (t *Text) Dump(p printer.Printer) { p.Print(strconv.Quote(t.Value)) }

// InlineCode is code delimited by one or two backticks.
type InlineCode struct {
	Text
}

func newInlineCode(_ *Context, text string, offset int) Token {
	n := 1
	if len(text) >= 4 && strings.HasPrefix(text, "``") && strings.HasSuffix(text, "``") {
		n = 2
	}
	return &InlineCode{Text: Text{Base: NewBase(KindInlineCode, offset), Value: text[n : len(text)-n]}}
}

func (c *InlineCode) Render(*Context) vdom.Node {
	return vdom.NewElement("code", vdom.NewText(c.Value))
}

// StyledText is text wrapped in emphasis or strike-through markers.
type StyledText struct {
	Text
	Emphasis int
	Strike   bool
}

func newStyledText(_ *Context, text string, offset int) Token {
	s := &StyledText{Text: Text{Base: NewBase(KindStyledText, offset)}}
	i := 0
	for ; i < len(text)/2; i++ {
		c := text[i]
		if c != text[len(text)-1-i] {
			break
		}
		if c == '~' {
			s.Strike = true
		} else if c == '_' || c == '*' {
			s.Emphasis++
		} else {
			break
		}
	}
	s.Emphasis = min(s.Emphasis, 3)
	s.Value = text[i : len(text)-i]
	return s
}

func (s *StyledText) Render(*Context) vdom.Node {
	var n vdom.Node = vdom.NewText(s.Value)
	switch s.Emphasis {
	case 1:
		n = vdom.NewElement("em", n)
	case 2:
		n = vdom.NewElement("strong", n)
	case 3:
		n = vdom.NewElement("em", vdom.NewElement("strong", n))
	}
	if s.Strike {
		n = vdom.NewElement("s", n)
	}
	return n
}

func (s *StyledText) Dump(p printer.Printer) {
	p.Print("<" + strconv.Quote(s.Value) + "> emphasis=" + strconv.Itoa(s.Emphasis) + " strike=" + strconv.FormatBool(s.Strike))
}

// parseResource splits [label](resource) or [label][reference] after skip
// leading bytes. An empty reference refers to the label.
func parseResource(text string, skip int) (label string, h resource.Handle) {
	text = strings.TrimSpace(text)[skip:]
	closing := strings.IndexByte(text, ']')
	if !strings.HasPrefix(text, "[") || closing < 0 {
		return text, h
	}
	label = text[1:closing]
	rest := text[closing+1:]
	if len(rest) < 2 {
		return label, h
	}
	inner := strings.TrimSpace(rest[1 : len(rest)-1])
	if rest[0] == '[' {
		if inner == "" {
			inner = label
		}
		h.Reference = inner
		return label, h
	}
	h.Resource = inner
	return label, h
}

// Link is [text](url) or [text][reference].
type Link struct {
	Base
	resource.Handle
	Label string
}

func newLink(_ *Context, text string, offset int) Token {
	label, h := parseResource(text, 0)
	return &Link{Base: NewBase(KindLink, offset), Handle: h, Label: label}
}

func (l *Link) ResourceType() string { return "link" }
func (l *Link) ResourceURL() string  { return l.URL }
func (l *Link) IsInline() bool       { return true }

func (l *Link) Render(*Context) vdom.Node {
	return vdom.NewElement("a", vdom.NewText(l.Label)).SetAttr("href", l.URL)
}

func (l *Link) Dump(p printer.Printer) {
	p.Print("Link " + strconv.Quote(l.Label) + " -> " + dumpTarget(&l.Handle))
}

func dumpTarget(h *resource.Handle) string {
	if h.IsReference() {
		return "[" + h.Reference + "] " + h.URL
	}
	return "(" + h.Resource + ") " + h.URL
}

// Image is ![alt](src) or ![alt][reference].
type Image struct {
	Base
	resource.Handle
	Alt string
}

func newImage(ctx *Context, text string, offset int) Token {
	alt, h := parseResource(text, 1)
	if strings.TrimSpace(alt) == "" {
		ctx.ReportConfigured(config.KeyImageMissingAltSeverity, diag.MdImageMissingAlt, offset, "image has no alt text")
	}
	return &Image{Base: NewBase(KindImage, offset), Handle: h, Alt: alt}
}

func (i *Image) ResourceType() string { return "image" }
func (i *Image) ResourceURL() string  { return i.URL }

func (i *Image) Render(*Context) vdom.Node {
	return vdom.NewElement("img").SetAttr("src", i.URL).SetAttr("alt", i.Alt)
}

func (i *Image) Dump(p printer.Printer) {
	p.Print("Image " + strconv.Quote(i.Alt) + " -> " + dumpTarget(&i.Handle))
}

// CustomBlock is @[name](resource) or @[name][reference]. The generic block
// renders nothing; registered constructors specialize it by name.
type CustomBlock struct {
	Base
	resource.Handle
	BlockName string
}

func newCustomBlock(_ *Context, text string, offset int) Token {
	name, h := parseResource(text, 1)
	return &CustomBlock{Base: NewBase(KindCustomBlock, offset), Handle: h, BlockName: strings.TrimSpace(name)}
}

func (b *CustomBlock) ResourceType() string { return "block" }
func (b *CustomBlock) ResourceURL() string  { return b.URL }

// Argument returns the resource name, or the reference name when the block
// was written in reference form.
func (b *CustomBlock) Argument() string {
	if b.Resource != "" {
		return b.Resource
	}
	return b.Reference
}

func (b *CustomBlock) Dump(p printer.Printer) {
	p.Print("CustomBlock @" + b.BlockName + " " + dumpTarget(&b.Handle))
}
