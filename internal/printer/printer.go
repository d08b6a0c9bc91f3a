// Package printer serializes text line by line, either compactly or with
// indentation.
package printer

import "strings"

// IndentUnit is the indentation added by each Push of an indenting printer.
const IndentUnit = "  "

// Printer accumulates output.
//
// Print emits one line in indenting mode and plain text in compact mode.
// Inline suspends inserted whitespace while fn runs, so that every Print
// inside it lands on one line; nested Inline calls join the outer run.
type Printer interface {
	Print(s string)
	Push()
	Pop()
	Block(fn func())
	Inline(fn func())
	String() string
}

// New returns an indenting printer when indent is set and a compact one
// otherwise.
func New(indent bool) Printer {
	if indent {
		return NewIndent()
	}
	return NewCompact()
}

// Compact never inserts whitespace.
type Compact struct {
	b strings.Builder
}

func NewCompact() *Compact { return &Compact{} }

func (c *Compact) Print(s string)   { c.b.WriteString(s) }
func (c *Compact) Push()            {}
func (c *Compact) Pop()             {}
func (c *Compact) Block(fn func())  { fn() }
func (c *Compact) Inline(fn func()) { fn() }
func (c *Compact) String() string   { return c.b.String() }

// Indent writes one line per Print, prefixed with the pushed indentation.
type Indent struct {
	b      strings.Builder
	depth  int
	inline int
}

func NewIndent() *Indent { return &Indent{} }

func (p *Indent) Print(s string) {
	if p.inline > 0 {
		p.b.WriteString(s)
		return
	}
	p.writeIndent()
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *Indent) Push() { p.depth++ }

func (p *Indent) Pop() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Indent) Block(fn func()) {
	p.Push()
	defer p.Pop()
	fn()
}

func (p *Indent) Inline(fn func()) {
	if p.inline > 0 {
		fn()
		return
	}
	p.writeIndent()
	p.inline++
	fn()
	p.inline--
	p.b.WriteByte('\n')
}

func (p *Indent) String() string { return p.b.String() }

func (p *Indent) writeIndent() {
	for range p.depth {
		p.b.WriteString(IndentUnit)
	}
}
