package pattern

import "strings"

// Level selects one of the grammars of the document language.
type Level uint8

const (
	// Document is the top-level block grammar.
	Document Level = iota
	// Container is the block grammar inside container boxes, list items and quotes.
	Container
	// Inline is the grammar of paragraph content.
	Inline
	// Table splits a table block into cells and divisions.
	Table
)

func (l Level) String() string {
	switch l {
	case Document:
		return "document"
	case Container:
		return "container"
	case Inline:
		return "inline"
	case Table:
		return "table"
	}
	return "unknown"
}

// Extensible reports whether alternatives may be inserted into the level.
func (l Level) Extensible() bool {
	return l == Document || l == Inline
}

// Alternative is one named branch of a level's composed pattern.
type Alternative struct {
	Name    string
	Pattern string
}

// Category names of the built-in alternatives.
const (
	Comment      = "comm"
	Heading      = "head"
	Code         = "code"
	Box          = "box"
	Image        = "img"
	Block        = "block"
	Reference    = "ref"
	Item         = "item"
	Enumeration  = "enum"
	TableBlock   = "table"
	Quote        = "quote"
	Paragraph    = "par"
	HardDivision = "hdiv"
	SoftDivision = "sdiv"
	Escape       = "esc"
	DoubleCode   = "icode2"
	InlineCode   = "icode"
	Link         = "link"
	Style        = "style"
	Text         = "text"
	TableHeadDiv = "thead"
	TableRowDiv  = "tdiv"
	TableCell    = "tcell"
)

// Shared fragments. \x60 is the backtick.
const (
	hws      = `[^\S\r\n]`
	fence3   = `\x60\x60\x60`
	resource = `(?:\([^)\r\n]*\)|\[[^\]\r\n]*\])`
	label    = `\[[^\]\r\n]*\]`
	// a block-level resource token (image or custom block) ahead
	blockAhead = `[!@]` + label + resource
	// an unindented list marker at the start of the next line
	itemAhead = `\r?\n` + hws + `*(?:[*+-]|\d+\.)` + hws
)

func listItem(marker string) string {
	return hws + `*` + marker + hws +
		`(?:(?:` + fence3 + `(?:[\s\S](?!` + fence3 + `))*[\s\S]\x60\x60)` +
		`|[\s\S](?!(?:\r?\n(?:[*+-]|\d+\.)` + hws + `)|(?:` + blockAhead + `)|(?:\r?\n\r?\n(?!` + hws + `+\S))))*.`
}

func fenced(marker string) string {
	return marker + `(?:.+\r?\n)?(?:[\s\S](?!` + marker + `))*[\s\S](?:` + marker + `)?`
}

var (
	codeAlt    = Alternative{Code, fenced(fence3)}
	imageAlt   = Alternative{Image, `!` + label + resource}
	blockAlt   = Alternative{Block, `@\[[^\]\r\n]+\]` + resource}
	itemAlt    = Alternative{Item, listItem(`[*+-]`)}
	enumAlt    = Alternative{Enumeration, listItem(`\d+\.`)}
	softDivAlt = Alternative{SoftDivision, `\r?\n` + hws + `*\r?\n` + hws + `*`}
)

func builtins(level Level) []Alternative {
	switch level {
	case Document:
		return []Alternative{
			{Comment, `<!--[\s\S]*?-->`},
			{Heading, hws + `*#+.+`},
			codeAlt,
			{Box, fenced(`:::`)},
			imageAlt,
			blockAlt,
			{Reference, hws + `*\[[^\]\r\n]+\]:.+`},
			itemAlt,
			enumAlt,
			{TableBlock, `(?:\|[^|\r\n]+)+\|?` + hws + `*\r?\n` + hws + `*(?:\|` + hws + `*[:-]-+[:-]` + hws + `*)+\|?` + hws + `*\r?\n` +
				`(?:` + hws + `*(?:\|[^|\r\n]+)+\|?` + hws + `*\r?\n)*`},
			{Quote, hws + `*>(?:[\s\S](?!(?:\r?\n(?:` + hws + `*>` + hws + `*)?\r?\n)|(?:\r?\n(?:` + fence3 + `|:::))|(?:` + blockAhead + `)))*[\s\S]` +
				// пустые строки "> " в конце цитаты принадлежат ей
				`(?:\r?\n` + hws + `*>` + hws + `*$)*`},
			{Paragraph, `(?=\S)(?:[\s\S](?!(?:\r?\n\r?\n)|(?:\r?\n(?:` + fence3 + `|:::))|(?:` + blockAhead + `)|(?:` + itemAhead + `)))*[\s\S]`},
			{HardDivision, `\r?\n` + hws + `*\r?\n` + hws + `*\r?\n\s*`},
			softDivAlt,
		}
	case Container:
		return []Alternative{
			codeAlt,
			imageAlt,
			blockAlt,
			itemAlt,
			enumAlt,
			{Paragraph, `(?=\S)(?:[\s\S](?!(?:\r?\n\r?\n)|(?:` + hws + `*` + fence3 + `)|(?:` + blockAhead + `)|(?:` + itemAhead + `)))*[\s\S]`},
			softDivAlt,
		}
	case Inline:
		return []Alternative{
			{Escape, `\\[\x60_~*\\\[]`},
			{DoubleCode, `\x60\x60(?:[\s\S](?!\x60\x60))*.\x60\x60`},
			{InlineCode, `\x60(?!\x60)(?:[\s\S](?!\x60))*.\x60`},
			{Link, label + resource},
			{Style, `(?<s1>___|\*\*\*|__|\*\*|[_~*])(?:[\s\S](?!\k<s1>))*.\k<s1>`},
			{Text, `(?:[\s\S](?![\x60_~*\\\[]))*[\s\S]`},
		}
	case Table:
		return []Alternative{
			{TableHeadDiv, `\|(?:` + hws + `*[:-]-+[:-]` + hws + `*\|)+` + hws + `*\r?\n`},
			{TableRowDiv, `\|?` + hws + `*\r?\n`},
			{TableCell, `\|(?:(?:\\\|)|[^|\r\n])+`},
		}
	}
	return nil
}

func compose(alts []Alternative) string {
	var b strings.Builder
	for i, alt := range alts {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString("(?<")
		b.WriteString(alt.Name)
		b.WriteByte('>')
		b.WriteString(alt.Pattern)
		b.WriteByte(')')
	}
	return b.String()
}
