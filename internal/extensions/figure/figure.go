// Package figure wraps images, code blocks and tables into <figure>
// elements. A caption is given by a @[caption](text) block placed right
// after the wrapped block.
package figure

import (
	"strconv"
	"strings"

	"kekpiler/internal/compiler"
	"kekpiler/internal/diag"
	"kekpiler/internal/printer"
	"kekpiler/internal/resource"
	"kekpiler/internal/token"
	"kekpiler/internal/vdom"
)

const (
	// BlockName is the custom block name of a caption.
	BlockName = "caption"

	KeyMissingCaptionSeverity = "missingFigureCaptionSeverity"
	KeyEmptyCaptionSeverity   = "emptyCaptionSeverity"
)

type Extension struct{}

func New() *Extension { return &Extension{} }

func (*Extension) Init(c *compiler.Compiler) (string, error) {
	c.Config().SetDefaults(map[string]any{
		KeyMissingCaptionSeverity: diag.SevWarning,
		KeyEmptyCaptionSeverity:   diag.SevWarning,
	})
	return "figure", nil
}

func (*Extension) InjectClasses(r *token.Registry) error {
	if err := r.RegisterCustomBlock(BlockName, newCaption); err != nil {
		return err
	}
	for _, k := range []struct {
		kind  token.Kind
		name  string
		class string
	}{
		{token.KindImage, "ImageFigure", "image"},
		{token.KindCode, "CodeFigure", "code"},
		{token.KindTable, "TableFigure", "table"},
	} {
		name, class := k.name, k.class
		err := r.Override(token.Class{
			Name:    name,
			Kind:    k.kind,
			Extends: r.Installed(k.kind),
			New: func(_ *token.Context, base token.Token) token.Token {
				return &Figure{Wrapped: token.Wrapped{Token: base}, name: name, class: class}
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Caption is metadata for the preceding figure. It renders nothing.
type Caption struct {
	*token.CustomBlock
}

func newCaption(ctx *token.Context, b *token.CustomBlock) token.Token {
	c := &Caption{CustomBlock: b}
	if strings.TrimSpace(c.MetadataText()) == "" {
		ctx.ReportConfigured(KeyEmptyCaptionSeverity, diag.MdEmptyCaption, b.Offset(), "caption has no text")
	}
	return c
}

func (*Caption) ResourceType() string            { return resource.TypeNone }
func (*Caption) Name() string                    { return "Caption" }
func (c *Caption) MetadataText() string          { return c.Argument() }
func (*Caption) Render(*token.Context) vdom.Node { return nil }

// Figure decorates an image, code block or table.
type Figure struct {
	token.Wrapped
	name    string
	class   string
	caption string
}

func (f *Figure) Name() string { return f.name }

// AcceptMetadata takes the first caption following the figure.
func (f *Figure) AcceptMetadata(_ *token.Context, meta token.Token) bool {
	c, ok := token.As[*Caption](meta)
	if !ok {
		return false
	}
	f.caption = strings.TrimSpace(c.MetadataText())
	return true
}

// CaptionText returns the caption, falling back to the alt text of images.
func (f *Figure) CaptionText() string {
	if f.caption != "" {
		return f.caption
	}
	if img, ok := token.As[*token.Image](f.Token); ok {
		return strings.TrimSpace(img.Alt)
	}
	return ""
}

func (f *Figure) Render(ctx *token.Context) vdom.Node {
	fig := vdom.NewElement("figure", f.Token.Render(ctx)).AddClass(ctx.ClassPrefix() + f.class)
	text := f.CaptionText()
	if text == "" {
		ctx.ReportConfigured(KeyMissingCaptionSeverity, diag.MdMissingCaption, f.Offset(), "figure without caption")
		return fig
	}
	return fig.Append(vdom.NewElement("figcaption", vdom.NewText(text)))
}

func (f *Figure) Dump(p printer.Printer) {
	p.Print(f.name + " caption=" + strconv.Quote(f.caption))
	p.Block(func() { f.Token.Dump(p) })
}
