package token

import (
	"strings"

	"kekpiler/internal/config"
	"kekpiler/internal/diag"
	"kekpiler/internal/pattern"
	"kekpiler/internal/printer"
	"kekpiler/internal/vdom"
)

// Alignment of a table column.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return "left"
}

// Table is a pipe table. A table whose layout does not match its header
// falls back to a paragraph of its source text.
type Table struct {
	Parent
	Source   string
	Columns  []Alignment
	Fallback bool
}

func newTable(ctx *Context, text string, offset int) Token {
	t := &Table{Parent: NewParent(KindTable, offset), Source: text}
	if reason := t.layout(ctx, Tokenize(ctx, pattern.Table, text, offset)); reason != "" {
		t.Fallback = true
		t.SetChildren(nil)
		ctx.ReportConfigured(config.KeyBadTableLayoutSeverity, diag.MdBadTableLayout, offset,
			"table rendered as text: %s", reason)
	}
	return t
}

// layout runs the row state machine and returns why the table is malformed,
// or "" on success.
func (t *Table) layout(ctx *Context, tokens []Token) string {
	it := NewIterator(tokens)
	if !it.HasNext() {
		return "empty table"
	}

	header := newTableRow(KindTableHeaderRow, t.Offset(), 0)
	t.AppendChild(ctx.Registry.Create(ctx, KindTableHeaderRow, header))
headerCells:
	for it.HasNext() {
		tk := it.Next()
		switch tk.Kind() {
		case KindTableCell:
			if cell, ok := As[*TableCell](tk); ok {
				cell.kind = KindTableHeaderCell
			}
			header.appendCell(tk)
		case KindTableRowDivision:
			break headerCells
		default:
			return "unexpected " + tk.Name() + " in header row"
		}
	}

	if !it.HasNext() {
		return "missing alignment row"
	}
	div, ok := As[*TableHeaderDivision](it.Next())
	if !ok {
		return "missing alignment row"
	}
	cols := len(div.Columns)
	if cols != len(header.Children()) {
		return "alignment row does not match the header column count"
	}

	var row *TableRow
	expectRow := true
	for it.HasNext() {
		tk := it.Next()
		switch tk.Kind() {
		case KindTableCell:
			if expectRow {
				row = newTableRow(KindTableRow, tk.Offset(), cols)
				t.AppendChild(ctx.Registry.Create(ctx, KindTableRow, row))
				expectRow = false
			}
			row.appendCell(tk)
		case KindTableHeaderDivision:
			literal, _ := As[*TableHeaderDivision](tk)
			t.AppendChild(ctx.Registry.Create(ctx, KindTableRow, literal.literalRow(ctx, cols)))
			expectRow = true
		case KindTableRowDivision:
			expectRow = true
		default:
			return "unexpected " + tk.Name() + " in table body"
		}
	}

	t.Columns = make([]Alignment, cols)
	for i, c := range div.Columns {
		t.Columns[i] = c.Align
	}
	for _, r := range t.Children() {
		for i, c := range ChildrenOf(r) {
			if cell, ok := As[*TableCell](c); ok && i < cols {
				cell.Align = t.Columns[i]
			}
		}
	}
	return ""
}

func (t *Table) Render(ctx *Context) vdom.Node {
	if t.Fallback {
		return vdom.NewElement("p", vdom.NewText(strings.TrimRight(t.Source, " \t\r\n")))
	}
	rows := t.Children()
	thead := vdom.NewElement("thead")
	tbody := vdom.NewElement("tbody")
	if len(rows) > 0 {
		thead.Append(rows[0].Render(ctx))
		for _, r := range rows[1:] {
			tbody.Append(r.Render(ctx))
		}
	}
	return vdom.NewElement("table", thead, tbody)
}

func (t *Table) Dump(p printer.Printer) {
	if t.Fallback {
		p.Print("Table (fallback)")
		return
	}
	t.Parent.Dump(p)
}

// TableRow is a body or header row. Cells beyond the column limit are
// discarded.
type TableRow struct {
	Parent
	limit int
}

func newTableRow(kind Kind, offset, limit int) *TableRow {
	return &TableRow{Parent: NewParent(kind, offset), limit: limit}
}

func (r *TableRow) appendCell(c Token) {
	if r.limit > 0 && len(r.Children()) >= r.limit {
		return
	}
	r.AppendChild(c)
}

func (r *TableRow) Render(ctx *Context) vdom.Node {
	el := vdom.NewElement("tr")
	r.RenderChildren(ctx, el)
	return el
}

// TableCell holds the inline content of one cell.
type TableCell struct {
	Parent
	Align Alignment
}

func newTableCell(ctx *Context, text string, offset int) Token {
	return newTableCellContent(ctx, strings.TrimPrefix(text, "|"), offset+1)
}

func newTableCellContent(ctx *Context, content string, offset int) *TableCell {
	c := &TableCell{Parent: NewParent(KindTableCell, offset)}
	content = strings.ReplaceAll(strings.TrimSpace(content), `\|`, "|")
	c.SetChildren(BuildChildren(ctx, pattern.Inline, content, offset))
	return c
}

// IsHeader reports whether the cell belongs to the header row.
func (c *TableCell) IsHeader() bool { return c.Kind() == KindTableHeaderCell }

func (c *TableCell) Render(ctx *Context) vdom.Node {
	tag := "td"
	if c.IsHeader() {
		tag = "th"
	}
	el := vdom.NewElement(tag)
	if c.Align != AlignLeft {
		el.SetAttr("style", "text-align:"+c.Align.String())
	}
	c.RenderChildren(ctx, el)
	return el
}

// TableColumn is one column of an alignment row.
type TableColumn struct {
	Text  string
	Align Alignment
}

// TableHeaderDivision is an alignment row such as |:--|--:|.
type TableHeaderDivision struct {
	Base
	Columns []TableColumn
}

func newTableHeaderDivision(_ *Context, text string, offset int) Token {
	d := &TableHeaderDivision{Base: NewBase(KindTableHeaderDivision, offset)}
	text = strings.Trim(strings.TrimSpace(text), "|")
	for _, col := range strings.Split(text, "|") {
		col = strings.TrimSpace(col)
		align := AlignLeft
		if strings.HasSuffix(col, ":") {
			align = AlignRight
			if strings.HasPrefix(col, ":") {
				align = AlignCenter
			}
		}
		d.Columns = append(d.Columns, TableColumn{Text: col, Align: align})
	}
	return d
}

// literalRow turns an alignment row met inside the body into a row of text
// cells.
func (d *TableHeaderDivision) literalRow(ctx *Context, limit int) *TableRow {
	row := newTableRow(KindTableRow, d.Offset(), limit)
	for _, col := range d.Columns {
		row.appendCell(ctx.Registry.Create(ctx, KindTableCell, newTableCellContent(ctx, col.Text, d.Offset())))
	}
	return row
}
