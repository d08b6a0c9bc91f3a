// Package commonmark embeds plain CommonMark files with @[commonmark](path).
// The file is converted by goldmark with the GitHub flavoured extensions and
// inserted as is.
package commonmark

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"kekpiler/internal/compiler"
	"kekpiler/internal/config"
	"kekpiler/internal/diag"
	"kekpiler/internal/printer"
	"kekpiler/internal/resource"
	"kekpiler/internal/token"
	"kekpiler/internal/vdom"
)

const (
	// BlockName is the custom block name and the resource type of embeds.
	BlockName = "commonmark"

	KeyBaseDir             = "commonmarkBaseDir"
	KeyUnsafeHTML          = "commonmarkUnsafeHTML"
	KeyUnavailableSeverity = "embedUnavailableSeverity"
)

type Extension struct {
	config *config.Config
}

func New() *Extension { return &Extension{} }

func (e *Extension) Init(c *compiler.Compiler) (string, error) {
	e.config = c.Config()
	e.config.SetDefaults(map[string]any{
		KeyBaseDir:             "",
		KeyUnsafeHTML:          false,
		KeyUnavailableSeverity: diag.SevWarning,
	})
	return "commonmark", nil
}

func (*Extension) InjectClasses(r *token.Registry) error {
	return r.RegisterCustomBlock(BlockName, func(_ *token.Context, b *token.CustomBlock) token.Token {
		return &Embed{CustomBlock: b}
	})
}

// LocateResources reads and converts every requested file once.
func (e *Extension) LocateResources(ctx context.Context, c *compiler.Compiler, m *resource.Map) error {
	names := m.Names(BlockName)
	if len(names) == 0 {
		return nil
	}
	engine := e.engine()
	base := e.baseDir(c.Context().File.Path)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(base, name)
		}
		markup, err := convert(engine, path)
		embeds := embedsOf(m.Requests(BlockName, name))
		if err != nil {
			for _, em := range embeds {
				c.Context().ReportConfigured(KeyUnavailableSeverity, diag.ExtEmbedUnavailable, em.Offset(),
					"cannot embed %q: %v", name, err)
			}
			continue
		}
		for _, em := range embeds {
			em.markup, em.loaded = markup, true
		}
		m.Resolve(BlockName, name, path)
	}
	return nil
}

func (e *Extension) engine() goldmark.Markdown {
	opts := []goldmark.Option{goldmark.WithExtensions(extension.GFM)}
	if e.config.Bool(KeyUnsafeHTML) {
		opts = append(opts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	return goldmark.New(opts...)
}

// baseDir is the configured directory, else the directory of the document.
func (e *Extension) baseDir(docPath string) string {
	if dir := e.config.String(KeyBaseDir); dir != "" {
		return dir
	}
	if docPath != "" {
		return filepath.Dir(docPath)
	}
	return "."
}

func convert(engine goldmark.Markdown, path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := engine.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("commonmark: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func embedsOf(reqs []resource.Request) []*Embed {
	out := make([]*Embed, 0, len(reqs))
	for _, req := range reqs {
		t, ok := req.(token.Token)
		if !ok {
			continue
		}
		if em, ok := token.As[*Embed](t); ok {
			out = append(out, em)
		}
	}
	return out
}

// Embed is a converted CommonMark file.
type Embed struct {
	*token.CustomBlock
	markup string
	loaded bool
}

func (*Embed) ResourceType() string { return BlockName }
func (*Embed) Name() string         { return "CommonMarkEmbed" }

// Loaded reports whether the file was read and converted.
func (e *Embed) Loaded() bool { return e.loaded }

func (e *Embed) Render(ctx *token.Context) vdom.Node {
	if !e.loaded {
		return nil
	}
	return vdom.NewElement("div", vdom.NewOpaque(e.markup)).AddClass(ctx.ClassPrefix() + BlockName)
}

func (e *Embed) Dump(p printer.Printer) {
	p.Print(fmt.Sprintf("CommonMarkEmbed %q loaded=%t", e.Argument(), e.loaded))
}
