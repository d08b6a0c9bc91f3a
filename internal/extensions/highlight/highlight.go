// Package highlight renders fenced code blocks through a pluggable
// highlighting function, with optional line numbers and marked lines.
//
// The fence info line carries the language followed by options:
//
//	```go marker=2-3,6 offset=9
//
// marker lists the 1-based lines to mark, offset shifts the displayed line
// numbers.
package highlight

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"kekpiler/internal/compiler"
	"kekpiler/internal/config"
	"kekpiler/internal/diag"
	"kekpiler/internal/printer"
	"kekpiler/internal/token"
	"kekpiler/internal/vdom"
)

// Setting keys.
const (
	KeyTrimWhitespace          = "trimWhitespace"
	KeyNormalizeTabsToSpaces   = "normalizeTabsToSpaces"
	KeyNormalizeSpacesToTabs   = "normalizeSpacesToTabs"
	KeyRemoveIndent            = "removeIndent"
	KeyHighlightingFunction    = "highlightingFunction"
	KeyShowLineNumbers         = "showLineNumbers"
	KeyShowLineMarkers         = "showLineMarkers"
	KeyLineNumberOffset        = "lineNumberOffset"
	KeyShowHighlightedLanguage = "showHighlightedLanguage"
	KeyCodeElementClasses      = "codeElementClasses"
	KeyFailureSeverity         = "highlightingFailureSeverity"
	KeyBadCodeOptionsSeverity  = "badCodeOptionsSeverity"
)

const (
	classLangName    = "mdkekcode-langname"
	classLineNumbers = "mdkekcode-linenumbers"
	classManyLines   = "mdkekcode-manylines"
)

// Func turns source code into HTML markup. The result is inserted as is.
type Func func(code, lang string) (string, error)

// EscapeCode is the default highlighting function. It only escapes.
func EscapeCode(code, _ string) (string, error) {
	return html.EscapeString(code), nil
}

type Extension struct {
	config *config.Config
}

func New() *Extension { return &Extension{} }

func (e *Extension) Init(c *compiler.Compiler) (string, error) {
	e.config = c.Config()
	e.config.SetDefaults(map[string]any{
		KeyTrimWhitespace:          true,
		KeyNormalizeTabsToSpaces:   2,
		KeyNormalizeSpacesToTabs:   0,
		KeyRemoveIndent:            true,
		KeyHighlightingFunction:    Func(EscapeCode),
		KeyShowLineNumbers:         true,
		KeyShowLineMarkers:         true,
		KeyLineNumberOffset:        0,
		KeyShowHighlightedLanguage: true,
		KeyCodeElementClasses:      []string{"mdkekcode"},
		KeyFailureSeverity:         diag.SevWarning,
		KeyBadCodeOptionsSeverity:  diag.SevWarning,
	})
	return "codeHighlight", nil
}

func (*Extension) InjectClasses(r *token.Registry) error {
	return r.Override(token.Class{
		Name:    "HighlightedCode",
		Kind:    token.KindCode,
		Extends: r.Installed(token.KindCode),
		New:     newBlock,
	})
}

// PreRender highlights every code block of the document.
func (e *Extension) PreRender(_ context.Context, c *compiler.Compiler) error {
	s := loadSettings(e.config)
	for _, b := range token.Collect[*Block](c.Tree()) {
		b.highlight(c.Context(), s)
	}
	return nil
}

type settings struct {
	trim         bool
	tabsToSpaces int
	spacesToTabs int
	removeIndent bool
	fn           Func
	lineNumbers  bool
	lineMarkers  bool
	lineOffset   int
	showLang     bool
	classes      []string
}

func loadSettings(c *config.Config) settings {
	return settings{
		trim:         c.Bool(KeyTrimWhitespace),
		tabsToSpaces: c.Int(KeyNormalizeTabsToSpaces),
		spacesToTabs: c.Int(KeyNormalizeSpacesToTabs),
		removeIndent: c.Bool(KeyRemoveIndent),
		fn:           funcOf(c.Any(KeyHighlightingFunction)),
		lineNumbers:  c.Bool(KeyShowLineNumbers),
		lineMarkers:  c.Bool(KeyShowLineMarkers),
		lineOffset:   c.Int(KeyLineNumberOffset),
		showLang:     c.Bool(KeyShowHighlightedLanguage),
		classes:      c.Strings(KeyCodeElementClasses),
	}
}

func funcOf(v any) Func {
	switch f := v.(type) {
	case Func:
		if f != nil {
			return f
		}
	case func(string, string) (string, error):
		if f != nil {
			return f
		}
	case func(string, string) string:
		if f != nil {
			return func(code, lang string) (string, error) { return f(code, lang), nil }
		}
	}
	return EscapeCode
}

func (s settings) run(code, lang string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("highlighting function panicked: %v", r)
		}
	}()
	return s.fn(code, lang)
}

// Block is a code block with parsed fence options.
type Block struct {
	token.Wrapped
	code        *token.Code
	options     Options
	settings    settings
	html        string
	highlighted bool
}

func newBlock(ctx *token.Context, base token.Token) token.Token {
	b := &Block{Wrapped: token.Wrapped{Token: base}}
	code, ok := token.As[*token.Code](base)
	if !ok {
		return base
	}
	b.code = code
	opts, problems := ParseOptions(code.Lang)
	for _, p := range problems {
		ctx.ReportConfigured(KeyBadCodeOptionsSeverity, diag.ExtBadCodeOptions, base.Offset(), "code block options: %s", p)
	}
	b.options = opts
	code.Lang = opts.Lang
	return b
}

func (b *Block) Name() string { return "HighlightedCode" }

// Options returns the parsed fence options.
func (b *Block) Options() Options { return b.options }

// HTML returns the highlighted markup, empty before pre-rendering.
func (b *Block) HTML() string { return b.html }

func (b *Block) highlight(ctx *token.Context, s settings) {
	text := b.code.Text
	if s.trim {
		text = trimWhitespace(text)
	}
	switch {
	case s.tabsToSpaces > 0:
		text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", s.tabsToSpaces))
	case s.spacesToTabs > 0:
		text = strings.ReplaceAll(text, strings.Repeat(" ", s.spacesToTabs), "\t")
	}
	if s.removeIndent {
		text = removeIndent(text)
	}

	out, err := s.run(text, b.options.Lang)
	if err != nil {
		out = html.EscapeString(text)
		ctx.ReportConfigured(KeyFailureSeverity, diag.ExtHighlightFailed, b.Offset(), "could not highlight code: %v", err)
	}
	b.html, b.settings, b.highlighted = out, s, true
}

func (b *Block) Render(ctx *token.Context) vdom.Node {
	node := b.Token.Render(ctx)
	if !b.highlighted {
		return node
	}
	pre := findElement(node, "pre")
	if pre == nil {
		return node
	}
	code := pre.FindByTag("code")
	if code == nil {
		return node
	}
	code.ClearChildren()
	b.renderContent(pre, code)
	code.AddClass(b.settings.classes...)
	return node
}

func (b *Block) renderContent(pre, code *vdom.Element) {
	s := b.settings
	if s.showLang && b.options.Lang != "" {
		pre.Append(vdom.NewElement("div", vdom.NewText(b.options.Lang)).AddClass(classLangName))
	}

	showMarkers := s.lineMarkers && len(b.options.Markers) > 0
	if !s.lineNumbers && !showMarkers {
		code.Append(vdom.NewInlineOpaque(b.html))
		return
	}

	lines := splitLines(b.html)
	nodes := make([]vdom.Node, len(lines))
	for i, l := range lines {
		nodes[i] = line(vdom.NewInlineOpaque(l))
	}

	var numbers []*vdom.Element
	if s.lineNumbers {
		box := vdom.NewElement("div").AddClass(classLineNumbers)
		code.AddClass(classLineNumbers)
		first := s.lineOffset + b.options.Offset + 1
		if last := len(lines) + first; last >= 100 || last <= -10 {
			box.AddClass(classManyLines)
			code.AddClass(classManyLines)
		}
		for i := range lines {
			span := vdom.NewElement("span", vdom.NewElement("span", line(vdom.NewText(strconv.Itoa(first+i)))))
			numbers = append(numbers, span)
			box.Append(span)
		}
		pre.Append(box)
	}

	if showMarkers {
		marked := make(map[int]bool, len(b.options.Markers))
		for _, m := range b.options.Markers {
			if m >= 1 && m <= len(lines) {
				marked[m-1] = true
			}
		}
		for i := range lines {
			if !marked[i] {
				continue
			}
			class := markerClass(marked[i-1], marked[i+1])
			nodes[i] = vdom.NewElement("span", nodes[i]).AddClass(class)
			if numbers != nil {
				numbers[i].AddClass(class)
			}
		}
	}
	code.Append(nodes...)
}

func (b *Block) Dump(p printer.Printer) {
	p.Print(fmt.Sprintf("HighlightedCode [%s] markers=%v offset=%d", b.options.Lang, b.options.Markers, b.options.Offset))
	p.Block(func() { b.Token.Dump(p) })
}

// line is one output line of a code block, terminated by a newline.
func line(n vdom.Node) vdom.Node {
	return vdom.NodeList{n, vdom.NewRawText("\n")}
}

func markerClass(prevMarked, nextMarked bool) string {
	switch {
	case !prevMarked && !nextMarked:
		return "mdkekcode-marked-first-last"
	case !prevMarked:
		return "mdkekcode-marked-first"
	case !nextMarked:
		return "mdkekcode-marked-last"
	}
	return "mdkekcode-marked"
}

func findElement(n vdom.Node, tag string) *vdom.Element {
	e, ok := vdom.AsElement(n)
	if !ok {
		return nil
	}
	if e.Tag == tag {
		return e
	}
	return e.FindByTag(tag)
}
