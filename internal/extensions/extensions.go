// Package extensions is the catalog of bundled compiler extensions, looked
// up by the names used in kekpiler.toml and on the command line.
package extensions

import (
	"fmt"
	"slices"

	"kekpiler/internal/compiler"
	"kekpiler/internal/extensions/commonmark"
	"kekpiler/internal/extensions/figure"
	"kekpiler/internal/extensions/frontmatter"
	"kekpiler/internal/extensions/highlight"
	"kekpiler/internal/extensions/linebreak"
	"kekpiler/internal/extensions/slugger"
	"kekpiler/internal/extensions/toc"
)

var catalog = map[string]func() compiler.Extension{
	"commonmark":  func() compiler.Extension { return commonmark.New() },
	"figure":      func() compiler.Extension { return figure.New() },
	"frontmatter": func() compiler.Extension { return frontmatter.New() },
	"highlight":   func() compiler.Extension { return highlight.New() },
	"linebreak":   func() compiler.Extension { return linebreak.New() },
	"slugger":     func() compiler.Extension { return slugger.New() },
	"toc":         func() compiler.Extension { return toc.New() },
}

// defaults is the set used when a project names no extensions. Order
// matters: overrides installed later wrap earlier ones.
var defaults = []string{"frontmatter", "slugger", "toc", "highlight", "figure", "linebreak"}

// Names lists the catalog in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Default lists the extensions enabled by default.
func Default() []string { return slices.Clone(defaults) }

// New creates a fresh instance of the named extension.
func New(name string) (compiler.Extension, error) {
	ctor, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown extension %q", name)
	}
	return ctor(), nil
}

// Install creates the named extensions and registers them with c in order.
func Install(c *compiler.Compiler, names []string) error {
	for _, name := range names {
		ext, err := New(name)
		if err != nil {
			return err
		}
		if err := c.Use(ext); err != nil {
			return fmt.Errorf("install %s: %w", name, err)
		}
	}
	return nil
}
