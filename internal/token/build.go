package token

import (
	"kekpiler/internal/config"
	"kekpiler/internal/diag"
	"kekpiler/internal/pattern"
)

type builtin struct {
	kind  Kind
	build Constructor
}

// builtins maps pattern categories to built-in constructors. Filled in init
// because the constructors tokenize recursively.
var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		pattern.Comment:      {KindInvalid, nil},
		pattern.Heading:      {KindHeading, newHeader},
		pattern.Code:         {KindCode, newCode},
		pattern.Box:          {KindContainerBox, newContainerBox},
		pattern.Image:        {KindImage, newImage},
		pattern.Block:        {KindCustomBlock, newCustomBlock},
		pattern.Reference:    {KindReference, newReference},
		pattern.Item:         {KindItemizedItem, newListItem(KindItemizedItem)},
		pattern.Enumeration:  {KindEnumerationItem, newListItem(KindEnumerationItem)},
		pattern.TableBlock:   {KindTable, newTable},
		pattern.Quote:        {KindQuote, newQuote},
		pattern.Paragraph:    {KindParagraph, newParagraph},
		pattern.HardDivision: {KindHardDivision, newDivision(KindHardDivision)},
		pattern.SoftDivision: {KindSoftDivision, newDivision(KindSoftDivision)},
		pattern.Escape:       {KindEscapedText, newEscapedText},
		pattern.DoubleCode:   {KindInlineCode, newInlineCode},
		pattern.InlineCode:   {KindInlineCode, newInlineCode},
		pattern.Link:         {KindLink, newLink},
		pattern.Style:        {KindStyledText, newStyledText},
		pattern.Text:         {KindText, newText},
		pattern.TableHeadDiv: {KindTableHeaderDivision, newTableHeaderDivision},
		pattern.TableRowDiv:  {KindTableRowDivision, newDivision(KindTableRowDivision)},
		pattern.TableCell:    {KindTableCell, newTableCell},
	}
}

// Tokenize scans text at level and constructs one token per match. base is
// the offset of text in the compiled source.
func Tokenize(ctx *Context, level pattern.Level, text string, base int) []Token {
	var out []Token
	for _, m := range ctx.Patterns.Scan(level, text) {
		if t := ctx.Registry.construct(ctx, m.Category, m.Text, base+m.Offset); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// BuildChildren tokenizes text at level and groups the result.
func BuildChildren(ctx *Context, level pattern.Level, text string, base int) []Token {
	return Build(ctx, Tokenize(ctx, level, text, base))
}

// Build groups a sibling list: ConsumeTokens over the raw tokens, then
// ConsumeNeighbours and metadata attachment over the result, then division
// markers are dropped.
func Build(ctx *Context, tokens []Token) []Token {
	var first []Token
	it := NewIterator(tokens)
	for it.HasNext() {
		if t := it.Next().ConsumeTokens(ctx, it); t != nil {
			first = append(first, t)
		}
	}

	var second []Token
	it = NewIterator(first)
	for it.HasNext() {
		t := it.Next().ConsumeNeighbours(ctx, it)
		if t == nil {
			continue
		}
		attachMetadata(ctx, it, t)
		second = append(second, t)
	}

	out := second[:0]
	for _, t := range second {
		if !t.Kind().IsDivision() {
			out = append(out, t)
		}
	}
	return out
}

// attachMetadata offers the first non-division token after t to t when it is
// a metadata block.
func attachMetadata(ctx *Context, it *Iterator, t Token) {
	target, ok := As[MetadataTarget](t)
	if !ok {
		return
	}
	for i := 1; i <= it.Remaining(); i++ {
		next := it.Peek(i)
		if next.Kind().IsDivision() {
			continue
		}
		if _, ok := As[Metadata](next); ok && target.AcceptMetadata(ctx, next) {
			it.Remove(i)
		}
		return
	}
}

// ParseDocument builds the whole token tree of text and reports metadata
// blocks that no node accepted.
func ParseDocument(ctx *Context, text string) Token {
	doc := ctx.Registry.Create(ctx, KindDocument, newDocument(ctx, text))
	Walk(doc, func(t Token) bool {
		if _, ok := As[Metadata](t); ok {
			ctx.ReportConfigured(config.KeyUnusedMetadataSeverity, diag.MdUnusedMetadata, t.Offset(),
				"%s is not attached to any element", t.Name())
		}
		return true
	})
	return doc
}
