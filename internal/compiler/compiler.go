// Package compiler drives one markdown document through the stages of
// compilation and hosts the extensions that hook into them.
//
// A Compiler owns its grammar, override table and extensions, so separate
// Compiler values can run on separate goroutines. A single Compiler runs
// one compilation at a time; calling Compile from inside a hook panics.
//
// Stages run strictly in order:
//
//	reset → preprocess → tokenize → resolve → pre-render → render → pre-stringify → stringify
//
// An error severity diagnostic aborts the running stage and Compile returns
// an *Error. Hook errors are returned wrapped with the hook and extension name.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kekpiler/internal/config"
	"kekpiler/internal/diag"
	"kekpiler/internal/observ"
	"kekpiler/internal/pattern"
	"kekpiler/internal/printer"
	"kekpiler/internal/resource"
	"kekpiler/internal/source"
	"kekpiler/internal/token"
	"kekpiler/internal/trace"
	"kekpiler/internal/vdom"
)

// Stage names, in execution order.
const (
	StageReset        = "reset"
	StagePreprocess   = "preprocess"
	StageTokenize     = "tokenize"
	StageResolve      = "resolve"
	StagePreRender    = "pre-render"
	StageRender       = "render"
	StagePreStringify = "pre-stringify"
	StageStringify    = "stringify"
)

// ErrDuplicateExtension is returned by Use for a name that is already taken.
var ErrDuplicateExtension = errors.New("extension already registered")

// StageStatus reports whether a stage started or finished.
type StageStatus int

const (
	StageStart StageStatus = iota
	StageEnd
)

// StageEvent describes a stage boundary.
type StageEvent struct {
	Name    string
	Status  StageStatus
	Elapsed time.Duration
}

// StageObserver receives stage events emitted during Compile.
type StageObserver func(StageEvent)

// Options содержит опции компилятора
type Options struct {
	Settings       map[string]any
	MaxDiagnostics int
	Observer       StageObserver
}

// Dump holds the debug output of the last compilation with debugDump set.
type Dump struct {
	Tokens string
	Tree   string
}

// Compiler compiles markdown documents to HTML.
type Compiler struct {
	opts       Options
	config     *config.Config
	patterns   *pattern.Library
	registry   *token.Registry
	resources  *resource.Registry
	extensions []installed
	names      map[string]struct{}

	injected  bool
	injectErr error
	compiling bool

	ctx   *token.Context
	tree  token.Token
	root  vdom.Node
	bag   *diag.Bag
	timer *observ.Timer
	dump  Dump
}

func New(opts Options) *Compiler {
	lib := pattern.NewLibrary()
	return &Compiler{
		opts:      opts,
		config:    config.New(opts.Settings),
		patterns:  lib,
		registry:  token.NewRegistry(lib),
		resources: resource.NewRegistry(),
		names:     make(map[string]struct{}),
		bag:       diag.NewBag(opts.MaxDiagnostics),
		timer:     observ.NewTimer(),
	}
}

// Use initializes ext and appends it to the hook order.
func (c *Compiler) Use(ext Extension) error {
	if c.injected {
		return fmt.Errorf("use extension: %w", token.ErrFrozen)
	}
	name, err := ext.Init(c)
	if err != nil {
		return fmt.Errorf("init extension: %w", err)
	}
	if name == "" {
		return fmt.Errorf("extension %T has no name", ext)
	}
	if _, dup := c.names[name]; dup {
		return fmt.Errorf("%q: %w", name, ErrDuplicateExtension)
	}
	c.names[name] = struct{}{}
	c.extensions = append(c.extensions, installed{name: name, ext: ext})
	return nil
}

// Extension returns the extension registered under name.
func (c *Compiler) Extension(name string) (Extension, bool) {
	for _, e := range c.extensions {
		if e.name == name {
			return e.ext, true
		}
	}
	return nil, false
}

// ExtensionNames lists registered extensions in hook order.
func (c *Compiler) ExtensionNames() []string {
	names := make([]string, len(c.extensions))
	for i, e := range c.extensions {
		names[i] = e.name
	}
	return names
}

func (c *Compiler) Config() *config.Config     { return c.config }
func (c *Compiler) Registry() *token.Registry  { return c.registry }
func (c *Compiler) Patterns() *pattern.Library { return c.patterns }

// Context returns the handle of the running compilation.
// It panics outside Compile.
func (c *Compiler) Context() *token.Context {
	if !c.compiling || c.ctx == nil {
		panic("compiler: no active compilation")
	}
	return c.ctx
}

// Tree returns the token tree of the running compilation.
// It panics before the tree is built.
func (c *Compiler) Tree() token.Token {
	c.Context()
	if c.tree == nil {
		panic("compiler: token tree is not built yet")
	}
	return c.tree
}

// Root returns the rendered tree of the running compilation.
// It panics before rendering.
func (c *Compiler) Root() vdom.Node {
	c.Context()
	if c.root == nil {
		panic("compiler: document is not rendered yet")
	}
	return c.root
}

// SetRoot replaces the rendered tree before it is serialized.
func (c *Compiler) SetRoot(n vdom.Node) {
	c.Context()
	if n == nil {
		n = vdom.NodeList{}
	}
	c.root = n
}

// Report records a diagnostic for the running compilation. An error
// severity diagnostic aborts the compilation.
func (c *Compiler) Report(code diag.Code, sev diag.Severity, offset int, msg string) {
	c.Context().Report(code, sev, offset, msg)
}

// Diagnostics returns the diagnostics of the last compilation in the order
// they were reported.
func (c *Compiler) Diagnostics() []diag.Diagnostic {
	items := c.bag.Items()
	out := make([]diag.Diagnostic, len(items))
	copy(out, items)
	return out
}

// Timings returns the stage durations of the last compilation.
func (c *Compiler) Timings() observ.Report {
	return c.timer.Report()
}

// DebugDump returns the token and element trees of the last compilation.
// Both are empty unless debugDump is set.
func (c *Compiler) DebugDump() Dump {
	return c.dump
}

// Compile compiles an anonymous document.
func (c *Compiler) Compile(ctx context.Context, src string, indent bool) (string, error) {
	return c.CompileFile(ctx, source.NewFile("", []byte(src)), indent)
}

// CompileFile compiles file. Diagnostics carry the file path.
func (c *Compiler) CompileFile(ctx context.Context, file *source.File, indent bool) (out string, err error) {
	if c.compiling {
		panic("compiler: Compile called during an active compilation")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.inject(); err != nil {
		return "", err
	}

	c.compiling = true
	defer func() {
		c.compiling = false
		c.ctx = nil
		c.tree = nil
		c.root = nil
	}()

	if trace.DocumentFrom(ctx) == "" && file.Path != "" {
		ctx = trace.WithDocument(ctx, file.Path)
	}
	span, ctx := trace.Start(ctx, trace.ScopeDocument, "compile")
	defer func() {
		detail := "ok"
		if err != nil {
			detail = err.Error()
		}
		span.End(detail)
	}()

	c.timer.Reset()
	stages := []struct {
		name string
		run  func(context.Context) (string, error)
	}{
		{StageReset, func(context.Context) (string, error) { c.reset(file); return "", nil }},
		{StagePreprocess, c.preprocess},
		{StageTokenize, c.tokenize},
		{StageResolve, c.resolve},
		{StagePreRender, func(ctx context.Context) (string, error) {
			return "", each(ctx, c, "PreRender", func(ctx context.Context, h PreRenderer) error {
				return h.PreRender(ctx, c)
			})
		}},
		{StageRender, c.render},
		{StagePreStringify, func(ctx context.Context) (string, error) {
			return "", each(ctx, c, "PreStringify", func(ctx context.Context, h PreStringifier) error {
				return h.PreStringify(ctx, c)
			})
		}},
		{StageStringify, func(context.Context) (string, error) {
			out = vdom.Render(c.root, indent)
			return fmt.Sprintf("bytes=%d", len(out)), nil
		}},
	}
	for _, s := range stages {
		if err := c.stage(ctx, s.name, s.run); err != nil {
			return "", err
		}
	}
	return out, nil
}

// inject runs the class injectors once, validates the settings and freezes
// the registry.
func (c *Compiler) inject() error {
	if c.injected {
		return c.injectErr
	}
	c.injected = true
	for _, e := range c.extensions {
		h, ok := e.ext.(ClassInjector)
		if !ok {
			continue
		}
		if err := h.InjectClasses(c.registry); err != nil {
			c.injectErr = fmt.Errorf("InjectClasses: %s: %w", e.name, err)
			return c.injectErr
		}
	}
	c.registry.Freeze()
	if err := c.config.Validate(); err != nil {
		c.injectErr = err
	}
	return c.injectErr
}

// stage runs one stage, converting an abort raised by an error severity
// diagnostic into an *Error.
func (c *Compiler) stage(ctx context.Context, name string, run func(context.Context) (string, error)) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	span, ctx := trace.Start(ctx, trace.ScopeStage, name)
	idx := c.timer.Begin(name)
	c.observe(StageEvent{Name: name, Status: StageStart})
	start := time.Now()

	note := ""
	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(*token.Abort)
			if !ok {
				panic(r)
			}
			d := diag.New(diag.SevError, abort.Code, abort.Offset, abort.Message)
			if c.ctx != nil {
				d = d.At(c.ctx.File)
			}
			err = &Error{Stage: name, Diagnostic: d}
			note = "aborted"
		}
		c.timer.End(idx, note)
		span.End(note)
		c.observe(StageEvent{Name: name, Status: StageEnd, Elapsed: time.Since(start)})
	}()

	note, err = run(ctx)
	return err
}

func (c *Compiler) observe(ev StageEvent) {
	if c.opts.Observer != nil {
		c.opts.Observer(ev)
	}
}

func (c *Compiler) reset(file *source.File) {
	c.resources.Reset()
	c.bag = diag.NewBag(c.opts.MaxDiagnostics)
	c.dump = Dump{}
	c.tree = nil
	c.root = nil
	c.ctx = &token.Context{
		Config:    c.config,
		Registry:  c.registry,
		Patterns:  c.patterns,
		Resources: c.resources,
	}
	c.setFile(file)
}

func (c *Compiler) setFile(file *source.File) {
	c.ctx.File = file
	c.ctx.Reporter = diag.NewDedupReporter(diag.BagReporter{Bag: c.bag, File: file})
}

// preprocess chains the replacement text of every PreTokenizer.
func (c *Compiler) preprocess(ctx context.Context) (string, error) {
	text := c.ctx.File.Text()
	replaced := 0
	err := each(ctx, c, "PreTokenize", func(ctx context.Context, h PreTokenizer) error {
		out, ok, err := h.PreTokenize(ctx, c, text)
		if err != nil {
			return err
		}
		if ok {
			text = out
			replaced++
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if replaced > 0 {
		c.setFile(source.NewFile(c.ctx.File.Path, []byte(text)))
	}
	return fmt.Sprintf("replaced=%d", replaced), nil
}

func (c *Compiler) tokenize(context.Context) (string, error) {
	c.tree = token.ParseDocument(c.ctx, c.ctx.File.Text())
	nodes := 0
	token.Walk(c.tree, func(token.Token) bool {
		nodes++
		return true
	})
	if c.config.Bool(config.KeyDebugDump) {
		p := printer.New(true)
		c.tree.Dump(p)
		c.dump.Tokens = p.String()
	}
	return fmt.Sprintf("nodes=%d", nodes), nil
}

func (c *Compiler) resolve(ctx context.Context) (string, error) {
	m := c.resources.Map()
	err := each(ctx, c, "LocateResources", func(ctx context.Context, h ResourceLocator) error {
		return h.LocateResources(ctx, c, m)
	})
	if err != nil {
		return "", err
	}
	c.resources.ApplyFallbacks()
	return fmt.Sprintf("requests=%d", m.Len()), nil
}

func (c *Compiler) render(context.Context) (string, error) {
	c.root = c.tree.Render(c.ctx)
	if c.root == nil {
		c.root = vdom.NodeList{}
	}
	if c.config.Bool(config.KeyDebugDump) {
		c.dump.Tree = vdom.Render(c.root, true)
	}
	return "", nil
}

// each calls fn for every extension implementing T, in registration order.
func each[T any](ctx context.Context, c *Compiler, hook string, fn func(context.Context, T) error) error {
	for _, e := range c.extensions {
		h, ok := e.ext.(T)
		if !ok {
			continue
		}
		span, hctx := trace.Start(ctx, trace.ScopeNode, hook)
		span.With("extension", e.name)
		err := fn(hctx, h)
		span.End("")
		if err != nil {
			return fmt.Errorf("%s: %s: %w", hook, e.name, err)
		}
	}
	return nil
}
