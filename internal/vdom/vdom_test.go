package vdom

import (
	"slices"
	"testing"
)

func TestElementPrinting(t *testing.T) {
	tests := []struct {
		name   string
		node   Node
		indent bool
		want   string
	}{
		{
			name: "escaped text and attributes",
			node: NewElement("a", NewText(`<b>&"x"`)).SetAttr("href", `/q?a=1&b="2"`),
			want: `<a href="/q?a=1&amp;b=&#34;2&#34;">&lt;b&gt;&amp;&#34;x&#34;</a>`,
		},
		{
			name: "opaque passthrough",
			node: NewElement("div", NewOpaque("<b>bold</b>")),
			want: `<div><b>bold</b></div>`,
		},
		{
			name: "void and boolean",
			node: NewElement("li", NewElement("input").SetAttr("type", "checkbox").SetBoolAttr("disabled"), NewText("x")),
			want: `<li><input type="checkbox" disabled>x</li>`,
		},
		{
			name:   "indent block with inline children",
			node:   NewElement("article", NewElement("h3", NewText("Title")), NewElement("p", NewText("a "), NewElement("em", NewText("b")))),
			indent: true,
			want:   "<article>\n  <h3>Title</h3>\n  <p>a <em>b</em></p>\n</article>\n",
		},
		{
			name:   "verbatim keeps whitespace",
			node:   NewElement("div", Verbatim(NewElement("pre", NewElement("code", NewText("a\n  b\n"))))),
			indent: true,
			want:   "<div>\n  <pre><code>a\n  b\n</code></pre>\n</div>\n",
		},
		{
			name:   "compact inserts nothing",
			node:   NewElement("ul", NewElement("li", NewText("1")), NewElement("li", NewText("2"))),
			indent: false,
			want:   "<ul><li>1</li><li>2</li></ul>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.node, tt.indent); got != tt.want {
				t.Fatalf("got %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestClassSetIsOrderedAndDeduplicated(t *testing.T) {
	e := NewElement("div").AddClass("b", "a b", "c").AddClass("a")
	if got := e.Classes(); !slices.Equal(got, []string{"b", "a", "c"}) {
		t.Fatalf("classes = %v", got)
	}
	if got := e.String(); got != `<div class="b a c"></div>` {
		t.Fatalf("got %q", got)
	}
}

func TestChildrenManipulation(t *testing.T) {
	e := NewElement("p", NewText("b"))
	e.Prepend(NewText("a")).Append(nil, NewText("c"))
	if e.Len() != 3 {
		t.Fatalf("len = %d", e.Len())
	}
	if txt, ok := e.ChildAt(0).(*Text); !ok || txt.Value != "a" {
		t.Fatalf("first child = %#v", e.ChildAt(0))
	}
	if e.ChildAt(5) != nil {
		t.Fatal("out of range child should be nil")
	}
	e.ClearChildren()
	if e.String() != "<p></p>" {
		t.Fatalf("got %q", e.String())
	}
}

func TestFindByTagThroughDecorators(t *testing.T) {
	code := NewElement("code")
	root := NewElement("figure", NodeList{NewText("x"), Verbatim(NewElement("pre", code))})
	if got := root.FindByTag("code"); got != code {
		t.Fatalf("FindByTag = %v", got)
	}
	if root.FindByTag("figure") != nil {
		t.Fatal("root itself must not match")
	}
	if e, ok := AsElement(Verbatim(code)); !ok || e != code {
		t.Fatal("AsElement must unwrap decorators")
	}
}
