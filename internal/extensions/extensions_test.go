package extensions

import (
	"context"
	"strings"
	"testing"

	"kekpiler/internal/compiler"
)

func TestCatalog(t *testing.T) {
	names := Names()
	if len(names) != 7 || names[0] != "commonmark" || names[6] != "toc" {
		t.Fatalf("unexpected catalog %v", names)
	}
	for _, n := range Default() {
		if _, err := New(n); err != nil {
			t.Errorf("default extension %s: %v", n, err)
		}
	}
	if _, err := New("nope"); err == nil {
		t.Error("unknown extension must fail")
	}
}

func TestDefaultsWorkTogether(t *testing.T) {
	c := compiler.New(compiler.Options{Settings: map[string]any{
		"showLineNumbers":         false,
		"showHighlightedLanguage": false,
	}})
	if err := Install(c, Default()); err != nil {
		t.Fatal(err)
	}
	src := "---\ntitle: T\n---\n@[TOC]()\n\n# Intro\n\n```go\nx\n```\n@[caption](Listing)\n\nend @[break]() here\n"
	out, err := c.Compile(context.Background(), src, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, part := range []string{
		`<a href="#intro">Intro</a>`,
		`<h1 id="intro">Intro</h1>`,
		`<figure class="code"><pre><code class="language-go mdkekcode">x</code></pre><figcaption>Listing</figcaption></figure>`,
		`<p>end<br>here</p>`,
	} {
		if !strings.Contains(out, part) {
			t.Errorf("output %q lacks %q", out, part)
		}
	}
	if d := c.Diagnostics(); len(d) != 0 {
		t.Errorf("unexpected diagnostics %v", d)
	}
}

func TestInstallTwiceFails(t *testing.T) {
	c := compiler.New(compiler.Options{})
	if err := Install(c, []string{"toc", "toc"}); err == nil {
		t.Error("duplicate extension must fail")
	}
}
