package vdom

import (
	"slices"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/linkedhashset"
	"golang.org/x/net/html"

	"kekpiler/internal/printer"
)

var voidTags = map[string]struct{}{
	"br": {}, "img": {}, "input": {}, "hr": {}, "wbr": {}, "meta": {}, "link": {},
}

var phrasingTags = map[string]struct{}{
	"a": {}, "abbr": {}, "b": {}, "br": {}, "cite": {}, "code": {}, "del": {},
	"em": {}, "i": {}, "img": {}, "input": {}, "ins": {}, "kbd": {}, "label": {},
	"mark": {}, "q": {}, "s": {}, "small": {}, "span": {}, "strong": {},
	"sub": {}, "sup": {}, "time": {}, "u": {}, "wbr": {},
}

type attr struct {
	value   string
	raw     bool
	boolean bool
}

// Element is a tagged node with an ordered class set and ordered attributes.
type Element struct {
	Tag      string
	classes  *linkedhashset.Set
	attrs    *linkedhashmap.Map
	children []Node
}

func NewElement(tag string, children ...Node) *Element {
	e := &Element{
		Tag:     tag,
		classes: linkedhashset.New(),
		attrs:   linkedhashmap.New(),
	}
	return e.Append(children...)
}

// IsVoid reports whether the element prints without a closing tag.
func (e *Element) IsVoid() bool {
	_, ok := voidTags[e.Tag]
	return ok
}

func (e *Element) AddClass(names ...string) *Element {
	for _, n := range names {
		for _, f := range strings.Fields(n) {
			e.classes.Add(f)
		}
	}
	return e
}

func (e *Element) RemoveClass(name string) *Element {
	e.classes.Remove(name)
	return e
}

func (e *Element) HasClass(name string) bool {
	return e.classes.Contains(name)
}

func (e *Element) Classes() []string {
	out := make([]string, 0, e.classes.Size())
	for _, v := range e.classes.Values() {
		out = append(out, v.(string))
	}
	return out
}

// SetAttr sets an attribute whose value is escaped on output.
func (e *Element) SetAttr(name, value string) *Element {
	e.attrs.Put(name, attr{value: value})
	return e
}

// SetRawAttr sets an attribute printed without escaping.
func (e *Element) SetRawAttr(name, value string) *Element {
	e.attrs.Put(name, attr{value: value, raw: true})
	return e
}

// SetBoolAttr sets a valueless attribute such as disabled.
func (e *Element) SetBoolAttr(name string) *Element {
	e.attrs.Put(name, attr{boolean: true})
	return e
}

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs.Get(name)
	if !ok {
		return "", false
	}
	return v.(attr).value, true
}

func (e *Element) RemoveAttr(name string) *Element {
	e.attrs.Remove(name)
	return e
}

// AttrNames lists attribute names in insertion order.
func (e *Element) AttrNames() []string {
	out := make([]string, 0, e.attrs.Size())
	for _, k := range e.attrs.Keys() {
		out = append(out, k.(string))
	}
	return out
}

func (e *Element) Append(nodes ...Node) *Element {
	for _, n := range nodes {
		if n != nil {
			e.children = append(e.children, n)
		}
	}
	return e
}

func (e *Element) Prepend(nodes ...Node) *Element {
	var head []Node
	for _, n := range nodes {
		if n != nil {
			head = append(head, n)
		}
	}
	e.children = append(head, e.children...)
	return e
}

func (e *Element) ClearChildren() *Element {
	e.children = nil
	return e
}

func (e *Element) Children() []Node { return slices.Clone(e.children) }

func (e *Element) Len() int { return len(e.children) }

// ChildAt returns the i-th child or nil.
func (e *Element) ChildAt(i int) Node {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// FindByTag returns the first descendant element with the given tag,
// looking through decorators and node lists.
func (e *Element) FindByTag(tag string) *Element {
	return findIn(e.children, tag)
}

func findIn(nodes []Node, tag string) *Element {
	for _, n := range nodes {
		switch v := Unwrap(n).(type) {
		case *Element:
			if v.Tag == tag {
				return v
			}
			if found := findIn(v.children, tag); found != nil {
				return found
			}
		case NodeList:
			if found := findIn(v, tag); found != nil {
				return found
			}
		}
	}
	return nil
}

func (e *Element) Phrasing() bool {
	if _, ok := phrasingTags[e.Tag]; !ok {
		return false
	}
	return allPhrasing(e.children)
}

func (e *Element) Print(p printer.Printer) {
	open := e.openTag()
	if e.IsVoid() {
		p.Print(open)
		return
	}
	closing := "</" + e.Tag + ">"
	if allPhrasing(e.children) {
		p.Inline(func() {
			p.Print(open)
			NodeList(e.children).Print(p)
			p.Print(closing)
		})
		return
	}
	p.Print(open)
	p.Block(func() { NodeList(e.children).Print(p) })
	p.Print(closing)
}

func (e *Element) openTag() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.Tag)
	if e.classes.Size() > 0 {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(strings.Join(e.Classes(), " ")))
		b.WriteByte('"')
	}
	e.attrs.Each(func(k, v interface{}) {
		a := v.(attr)
		b.WriteByte(' ')
		b.WriteString(k.(string))
		if a.boolean {
			return
		}
		b.WriteString(`="`)
		if a.raw {
			b.WriteString(a.value)
		} else {
			b.WriteString(html.EscapeString(a.value))
		}
		b.WriteByte('"')
	})
	b.WriteByte('>')
	return b.String()
}

// String prints the element compactly.
func (e *Element) String() string {
	p := printer.NewCompact()
	e.Print(p)
	return p.String()
}

// Render prints n with the requested printer.
func Render(n Node, indent bool) string {
	p := printer.New(indent)
	if n != nil {
		n.Print(p)
	}
	return p.String()
}
