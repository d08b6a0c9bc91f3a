// Package toc adds the @[TOC]() block, a nested list of links to every
// fragment (usually slugged headings) of the document.
package toc

import (
	"context"

	"kekpiler/internal/compiler"
	"kekpiler/internal/printer"
	"kekpiler/internal/resource"
	"kekpiler/internal/token"
	"kekpiler/internal/vdom"
)

// BlockName is the custom block name of a table of contents.
const BlockName = "TOC"

type Extension struct{}

func New() *Extension { return &Extension{} }

func (*Extension) Init(*compiler.Compiler) (string, error) { return "tableOfContents", nil }

func (*Extension) InjectClasses(r *token.Registry) error {
	return r.RegisterCustomBlock(BlockName, func(_ *token.Context, b *token.CustomBlock) token.Token {
		return &Contents{CustomBlock: b}
	})
}

// PreRender builds the entry tree once and hands it to every table of
// contents in the document.
func (*Extension) PreRender(_ context.Context, c *compiler.Compiler) error {
	tree := c.Tree()
	tables := token.Collect[*Contents](tree)
	if len(tables) == 0 {
		return nil
	}
	root := Build(token.Collect[token.Fragment](tree))
	for _, t := range tables {
		t.root = root
	}
	return nil
}

// Entry is one level of the table. Placeholder entries have no fragment and
// only hold deeper levels.
type Entry struct {
	Fragment token.Fragment
	Level    int
	Children []*Entry
}

// Build nests fragments by heading level. A jump of more than one level
// inserts placeholder entries. Fragments without a title are skipped.
func Build(frags []token.Fragment) *Entry {
	root := &Entry{}
	stack := []*Entry{root}
	for _, f := range frags {
		if f.Title() == "" {
			continue
		}
		level := max(1, f.Level())
		for len(stack) > 1 && stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		for parent.Level < level-1 {
			gap := &Entry{Level: parent.Level + 1}
			parent.Children = append(parent.Children, gap)
			stack = append(stack, gap)
			parent = gap
		}
		e := &Entry{Fragment: f, Level: level}
		parent.Children = append(parent.Children, e)
		stack = append(stack, e)
	}
	return root
}

// Contents renders the table of contents.
type Contents struct {
	*token.CustomBlock
	root *Entry
}

func (*Contents) ResourceType() string { return resource.TypeNone }
func (*Contents) Name() string         { return "TableOfContents" }

func (c *Contents) Render(ctx *token.Context) vdom.Node {
	nav := vdom.NewElement("nav").AddClass(ctx.ClassPrefix() + "toc")
	if c.root == nil {
		return nav.Append(vdom.NewElement("ol"))
	}
	return nav.Append(renderLevel(c.root.Children))
}

func renderLevel(entries []*Entry) *vdom.Element {
	ol := vdom.NewElement("ol")
	for _, e := range entries {
		li := vdom.NewElement("li")
		if e.Fragment != nil {
			li.Append(vdom.NewElement("a", vdom.NewText(e.Fragment.Title())).SetAttr("href", "#"+e.Fragment.FragmentID()))
		}
		if len(e.Children) > 0 {
			li.Append(renderLevel(e.Children))
		}
		ol.Append(li)
	}
	return ol
}

func (c *Contents) Dump(p printer.Printer) {
	p.Print("TableOfContents")
	if c.root == nil {
		return
	}
	p.Block(func() { dumpEntries(p, c.root.Children) })
}

func dumpEntries(p printer.Printer, entries []*Entry) {
	for _, e := range entries {
		title := "-"
		if e.Fragment != nil {
			title = e.Fragment.Title() + " #" + e.Fragment.FragmentID()
		}
		p.Print(title)
		if len(e.Children) > 0 {
			p.Block(func() { dumpEntries(p, e.Children) })
		}
	}
}
