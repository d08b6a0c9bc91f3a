package token

import (
	"errors"
	"fmt"

	"kekpiler/internal/config"
	"kekpiler/internal/diag"
	"kekpiler/internal/pattern"
	"kekpiler/internal/resource"
)

var (
	// ErrFrozen is returned by registrations after the first compilation started.
	ErrFrozen = errors.New("token registry is frozen")
	// ErrBadOverride is returned when a class does not extend the installed class.
	ErrBadOverride = errors.New("override must extend the installed class")
	// ErrDuplicateBlock is returned when a custom block name is taken.
	ErrDuplicateBlock = errors.New("custom block already registered")
)

// Constructor builds a token from matched source text.
type Constructor func(ctx *Context, text string, offset int) Token

// BlockConstructor specializes a generic custom block. The generic block
// carries the parsed name and resource fields.
type BlockConstructor func(ctx *Context, block *CustomBlock) Token

// Class is an override of a built-in token kind. New receives the token of
// the extended class and returns the decorated token.
type Class struct {
	Name    string
	Kind    Kind
	Extends string
	New     func(ctx *Context, base Token) Token
}

// Registry holds the extension points of one compiler: override chains per
// kind, custom block constructors and extension-defined categories.
type Registry struct {
	patterns   *pattern.Library
	overrides  map[Kind][]Class
	blocks     map[string]BlockConstructor
	categories map[string]Constructor
	frozen     bool
}

func NewRegistry(lib *pattern.Library) *Registry {
	return &Registry{
		patterns:   lib,
		overrides:  make(map[Kind][]Class),
		blocks:     make(map[string]BlockConstructor),
		categories: make(map[string]Constructor),
	}
}

// Freeze rejects every later registration.
func (r *Registry) Freeze() { r.frozen = true }

func (r *Registry) Frozen() bool { return r.frozen }

// Installed names the most-derived class of kind.
func (r *Registry) Installed(kind Kind) string {
	if chain := r.overrides[kind]; len(chain) > 0 {
		return chain[len(chain)-1].Name
	}
	return kind.String()
}

// Override installs c as the new most-derived class of c.Kind.
func (r *Registry) Override(c Class) error {
	if r.frozen {
		return ErrFrozen
	}
	switch c.Kind {
	case KindInvalid, KindCustomBlock, KindExtension:
		return fmt.Errorf("%s cannot be overridden", c.Kind)
	}
	if c.Name == "" || c.New == nil {
		return fmt.Errorf("override of %s needs a name and a constructor", c.Kind)
	}
	if installed := r.Installed(c.Kind); c.Extends != installed {
		return fmt.Errorf("%s extends %q, installed is %q: %w", c.Name, c.Extends, installed, ErrBadOverride)
	}
	r.overrides[c.Kind] = append(r.overrides[c.Kind], c)
	return nil
}

// Create applies the override chain of kind to base and files the resource
// request of the resulting token.
func (r *Registry) Create(ctx *Context, kind Kind, base Token) Token {
	t := base
	for _, c := range r.overrides[kind] {
		t = c.New(ctx, t)
	}
	r.file(ctx, t)
	return t
}

// RegisterCustomBlock binds the block name used in @[name](...) to ctor.
func (r *Registry) RegisterCustomBlock(name string, ctor BlockConstructor) error {
	if r.frozen {
		return ErrFrozen
	}
	if _, ok := r.blocks[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrDuplicateBlock)
	}
	r.blocks[name] = ctor
	return nil
}

// DefineDocumentToken adds a document level alternative named name before
// the alternative named before, built with ctor.
func (r *Registry) DefineDocumentToken(name, before, pat string, ctor Constructor) error {
	return r.define(pattern.Document, name, before, pat, ctor)
}

// DefineInlineToken adds an inline level alternative, see DefineDocumentToken.
func (r *Registry) DefineInlineToken(name, before, pat string, ctor Constructor) error {
	return r.define(pattern.Inline, name, before, pat, ctor)
}

func (r *Registry) define(level pattern.Level, name, before, pat string, ctor Constructor) error {
	if r.frozen {
		return ErrFrozen
	}
	if ctor == nil {
		return fmt.Errorf("%s token %q needs a constructor", level, name)
	}
	if err := r.patterns.Insert(level, before, pattern.Alternative{Name: name, Pattern: pat}); err != nil {
		return err
	}
	r.categories[name] = ctor
	return nil
}

// construct builds the token of a matched category. Comments and categories
// without a constructor yield nil.
func (r *Registry) construct(ctx *Context, category, text string, offset int) Token {
	if ctor, ok := r.categories[category]; ok {
		t := ctor(ctx, text, offset)
		if t != nil {
			r.file(ctx, t)
		}
		return t
	}
	b, ok := builtins[category]
	if !ok || b.build == nil {
		return nil
	}
	t := b.build(ctx, text, offset)
	if t == nil {
		return nil
	}
	if b.kind == KindCustomBlock {
		return r.specialize(ctx, t.(*CustomBlock))
	}
	return r.Create(ctx, b.kind, t)
}

func (r *Registry) specialize(ctx *Context, block *CustomBlock) Token {
	ctor, ok := r.blocks[block.BlockName]
	if !ok {
		ctx.ReportConfigured(config.KeyUnknownCustomBlockSeverity, diag.MdUnknownCustomBlock, block.Offset(),
			"unknown custom block %q", block.BlockName)
		return block
	}
	t := ctor(ctx, block)
	if t == nil {
		return nil
	}
	r.file(ctx, t)
	return t
}

func (r *Registry) file(ctx *Context, t Token) {
	if t.Kind() == KindReference {
		if decl, ok := As[resource.Declaration](t); ok && !ctx.Resources.DeclareReference(decl) {
			ctx.ReportConfigured(config.KeyDuplicateReferenceSeverity, diag.MdDuplicateReference, t.Offset(),
				"reference %q is already declared", decl.ReferenceName())
		}
		return
	}
	if t.Kind() == KindCustomBlock {
		if _, generic := t.(*CustomBlock); generic {
			return
		}
	}
	req, ok := As[resource.Request](t)
	if !ok || req.ResourceType() == "" {
		return
	}
	if req.ReferenceName() != "" {
		ctx.Resources.RequestReference(req)
		return
	}
	ctx.Resources.RequestResource(req)
}
