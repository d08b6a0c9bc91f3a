package token

import (
	"strings"

	"kekpiler/internal/config"
	"kekpiler/internal/pattern"
	"kekpiler/internal/printer"
	"kekpiler/internal/vdom"
)

// Item is an itemized or enumerated list item.
type Item struct {
	Parent
	Task          bool
	Checked       bool
	paragraphMode bool
}

func newListItem(kind Kind) Constructor {
	return func(ctx *Context, text string, offset int) Token {
		indent := leadingSpace(text)
		prefix := indent + markerLen(text[indent:], kind)
		content := dedent(text[prefix:], indent+2)

		it := &Item{Parent: NewParent(kind, offset)}
		if rest, checked, ok := cutTaskBox(content); ok {
			it.Task, it.Checked = true, checked
			content = rest
		}
		it.SetChildren(BuildChildren(ctx, pattern.Container, content, offset+prefix))
		return it
	}
}

func leadingSpace(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

func markerLen(s string, kind Kind) int {
	if kind == KindItemizedItem {
		return 1
	}
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n + 1
}

// dedent removes up to width blanks after every line break.
func dedent(s string, width int) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])
		if s[i] != '\n' {
			continue
		}
		for n := 0; n < width && i+1 < len(s) && (s[i+1] == ' ' || s[i+1] == '\t'); n++ {
			i++
		}
	}
	return b.String()
}

// cutTaskBox strips a leading [ ], [x] or [X] box.
func cutTaskBox(content string) (rest string, checked, ok bool) {
	s := strings.TrimLeft(content, " \t")
	if len(s) < 3 || s[0] != '[' || s[2] != ']' || !strings.ContainsRune(" xX", rune(s[1])) {
		return content, false, false
	}
	if len(s) > 3 && !strings.ContainsRune(" \t\n", rune(s[3])) {
		return content, false, false
	}
	return s[3:], s[1] != ' ', true
}

func (it *Item) ListTag() string {
	if it.Kind() == KindEnumerationItem {
		return "ol"
	}
	return "ul"
}

func (it *Item) SimpleContent() bool {
	cs := it.Children()
	switch len(cs) {
	case 0:
		return true
	case 1:
		return cs[0].Kind() == KindParagraph
	case 2:
		l, ok := As[Lister](cs[1])
		return cs[0].Kind() == KindParagraph && ok && !l.ParagraphMode()
	}
	return false
}

func (it *Item) SetParagraphMode(on bool) { it.paragraphMode = on }
func (it *Item) ParagraphMode() bool      { return it.paragraphMode }

// ConsumeTokens gathers the following items of the same kind into a list.
// Soft divisions between items switch the list to paragraph mode; soft
// divisions after the last item stay in the stream.
func (it *Item) ConsumeTokens(ctx *Context, iter *Iterator) Token {
	items := []Token{iter.Current()}
	paragraphs := !it.SimpleContent()
	separated := false
	for i := 1; ; {
		next := iter.Peek(i)
		if next == nil {
			break
		}
		if next.Kind() == KindSoftDivision {
			separated = true
			i++
			continue
		}
		item, ok := As[ListItem](next)
		if !ok || next.Kind() != it.Kind() {
			break
		}
		paragraphs = paragraphs || separated || !item.SimpleContent()
		items = append(items, next)
		for ; i > 0; i-- {
			iter.Next()
		}
		i = 1
	}
	return ctx.Registry.Create(ctx, KindList, NewList(items, paragraphs, it.Offset()))
}

func (it *Item) Render(ctx *Context) vdom.Node {
	li := vdom.NewElement("li")
	if it.Task {
		box := vdom.NewElement("input").SetAttr("type", "checkbox").SetBoolAttr("disabled")
		if it.Checked {
			box.SetBoolAttr("checked")
		}
		li.AddClass(ctx.ClassPrefix() + ctx.Config.String(config.KeyTaskItemClass))
		li.Append(box)
	}
	cs := it.Children()
	if it.paragraphMode || len(cs) == 0 {
		it.RenderChildren(ctx, li)
		return li
	}
	if p, ok := As[*Paragraph](cs[0]); ok {
		p.RenderChildren(ctx, li)
	} else {
		li.Append(cs[0].Render(ctx))
	}
	for _, c := range cs[1:] {
		li.Append(c.Render(ctx))
	}
	return li
}

func (it *Item) Dump(p printer.Printer) {
	header := "- Item"
	if it.Task {
		header += " [ ]"
		if it.Checked {
			header = "- Item [x]"
		}
	}
	DumpContainer(p, header, it.Children())
}

// List aggregates consecutive items of one kind.
type List struct {
	Parent
	paragraphMode bool
}

// NewList groups items and propagates the paragraph mode to them.
func NewList(items []Token, paragraphMode bool, offset int) *List {
	l := &List{Parent: NewParent(KindList, offset), paragraphMode: paragraphMode}
	for _, t := range items {
		if item, ok := As[ListItem](t); ok {
			item.SetParagraphMode(paragraphMode)
		}
	}
	l.SetChildren(items)
	return l
}

func (l *List) Items() []Token      { return l.Children() }
func (l *List) ParagraphMode() bool { return l.paragraphMode }

func (l *List) Render(ctx *Context) vdom.Node {
	tag := "ul"
	if cs := l.Children(); len(cs) > 0 {
		if item, ok := As[ListItem](cs[0]); ok {
			tag = item.ListTag()
		}
	}
	el := vdom.NewElement(tag)
	l.RenderChildren(ctx, el)
	return el
}

func (l *List) Dump(p printer.Printer) {
	header := "List"
	if l.paragraphMode {
		header += " -PAR-"
	}
	DumpContainer(p, header, l.Children())
}
