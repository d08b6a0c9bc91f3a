// Package slugger gives every heading an id derived from its title, so
// headings can be linked to and listed by the table of contents.
package slugger

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
	"golang.org/x/text/unicode/norm"

	"kekpiler/internal/compiler"
	"kekpiler/internal/token"
	"kekpiler/internal/vdom"
)

// ClassName is the override class installed for headings.
const ClassName = "SluggedHeading"

type Extension struct{}

func New() *Extension { return &Extension{} }

func (*Extension) Init(*compiler.Compiler) (string, error) { return "headerSlugger", nil }

func (*Extension) InjectClasses(r *token.Registry) error {
	return r.Override(token.Class{
		Name:    ClassName,
		Kind:    token.KindHeading,
		Extends: r.Installed(token.KindHeading),
		New: func(_ *token.Context, base token.Token) token.Token {
			return &Heading{Wrapped: token.Wrapped{Token: base}}
		},
	})
}

// PreRender assigns slugs in document order.
func (*Extension) PreRender(_ context.Context, c *compiler.Compiler) error {
	s := NewSlugger()
	for _, h := range token.Collect[*Heading](c.Tree()) {
		h.slug = s.Slug(h.Title())
	}
	return nil
}

// Heading is a heading with a fragment id.
type Heading struct {
	token.Wrapped
	slug string
}

func (h *Heading) Name() string { return ClassName }

func (h *Heading) Level() int {
	if inner, ok := token.As[token.Heading](h.Token); ok {
		return inner.Level()
	}
	return 1
}

func (h *Heading) Title() string {
	if inner, ok := token.As[token.Heading](h.Token); ok {
		return inner.Title()
	}
	return ""
}

func (h *Heading) FragmentID() string { return h.slug }

func (h *Heading) Render(ctx *token.Context) vdom.Node {
	n := h.Token.Render(ctx)
	if el, ok := vdom.AsElement(n); ok && h.slug != "" {
		el.SetAttr("id", h.slug)
	}
	return n
}

// Slugger hands out slugs that are unique within one document.
type Slugger struct {
	seen map[string]int
}

func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

// Slug returns the slug of text, suffixed with -N when it was taken.
func (s *Slugger) Slug(text string) string {
	base := Normalize(text)
	n, taken := s.seen[base]
	if !taken {
		s.seen[base] = 0
		return base
	}
	for {
		n++
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, ok := s.seen[candidate]; !ok {
			s.seen[base] = n
			s.seen[candidate] = 0
			return candidate
		}
	}
}

// Normalize turns a title into a slug. Titles without any letter or digit
// become "section".
func Normalize(text string) string {
	text = norm.NFC.String(strings.TrimSpace(text))
	if out, err := slug.Normalize(text); err == nil && out != "" {
		return out
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}
