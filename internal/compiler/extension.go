package compiler

import (
	"context"

	"kekpiler/internal/resource"
	"kekpiler/internal/token"
)

// Extension is the contract every compiler extension satisfies. Init is
// called once by Use and returns the unique extension name.
type Extension interface {
	Init(c *Compiler) (name string, err error)
}

// ClassInjector registers overrides, custom blocks and token definitions.
// It runs once, before the first compilation freezes the registry.
type ClassInjector interface {
	InjectClasses(r *token.Registry) error
}

// PreTokenizer may replace the source text before tokenizing. The returned
// bool reports whether the text was replaced.
type PreTokenizer interface {
	PreTokenize(ctx context.Context, c *Compiler, text string) (string, bool, error)
}

// ResourceLocator resolves resource requests collected while building the
// token tree. Requests left unresolved fall back to their names.
type ResourceLocator interface {
	LocateResources(ctx context.Context, c *Compiler, m *resource.Map) error
}

// PreRenderer runs on the finished token tree before rendering.
type PreRenderer interface {
	PreRender(ctx context.Context, c *Compiler) error
}

// PreStringifier runs on the rendered tree before it is serialized.
type PreStringifier interface {
	PreStringify(ctx context.Context, c *Compiler) error
}

type installed struct {
	name string
	ext  Extension
}
