// Package linebreak adds the @[break]() block, a forced line break that
// paragraphs absorb like inline text.
package linebreak

import (
	"kekpiler/internal/compiler"
	"kekpiler/internal/resource"
	"kekpiler/internal/token"
	"kekpiler/internal/vdom"
)

// BlockName is the custom block name of a line break.
const BlockName = "break"

type Extension struct{}

func New() *Extension { return &Extension{} }

func (*Extension) Init(*compiler.Compiler) (string, error) { return "lineBreak", nil }

func (*Extension) InjectClasses(r *token.Registry) error {
	return r.RegisterCustomBlock(BlockName, func(_ *token.Context, b *token.CustomBlock) token.Token {
		return &Break{CustomBlock: b}
	})
}

// Break renders <br>.
type Break struct {
	*token.CustomBlock
}

func (*Break) ResourceType() string            { return resource.TypeNone }
func (*Break) IsInline() bool                  { return true }
func (*Break) Name() string                    { return "LineBreak" }
func (*Break) Render(*token.Context) vdom.Node { return vdom.NewElement("br") }
