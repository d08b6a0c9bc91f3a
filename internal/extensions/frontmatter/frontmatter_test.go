package frontmatter

import (
	"context"
	"strings"
	"testing"

	"kekpiler/internal/compiler"
	"kekpiler/internal/diag"
)

func TestFrontMatter(t *testing.T) {
	src := "---\ntitle: Notes\ntags:\n  - go\n  - md\nauthor: me\n---\n# Heading\n\n![](x.png)\n"
	c := compiler.New(compiler.Options{})
	fm := New()
	if err := c.Use(fm); err != nil {
		t.Fatal(err)
	}
	out, err := c.Compile(context.Background(), src, false)
	if err != nil {
		t.Fatal(err)
	}
	if out != `<article><h1>Heading</h1><img src="x.png" alt=""></article>` {
		t.Errorf("unexpected output %q", out)
	}
	if fm.String("title") != "Notes" || strings.Join(fm.Strings("tags"), ",") != "go,md" {
		t.Errorf("unexpected values %v", fm.Values())
	}

	diags := c.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %v", diags)
	}
	if diags[0].Code != diag.ExtUnknownFrontMatterKey || !strings.Contains(diags[0].Message, "author") {
		t.Errorf("unexpected first diagnostic %+v", diags[0])
	}
	// строки сохраняются: картинка всё ещё на десятой строке
	if diags[1].Code != diag.MdImageMissingAlt || diags[1].Line != 10 {
		t.Errorf("unexpected position %+v", diags[1])
	}
}

func TestBadFrontMatter(t *testing.T) {
	c := compiler.New(compiler.Options{})
	fm := New()
	if err := c.Use(fm); err != nil {
		t.Fatal(err)
	}
	out, err := c.Compile(context.Background(), "---\ntitle: [unclosed\n---\ntext\n", false)
	if err != nil {
		t.Fatal(err)
	}
	if out != "<article><p>text</p></article>" {
		t.Errorf("block must be stripped even when invalid, got %q", out)
	}
	if d := c.Diagnostics(); len(d) != 1 || d[0].Code != diag.ExtBadFrontMatter {
		t.Errorf("diagnostics = %v", d)
	}
	if len(fm.Values()) != 0 {
		t.Errorf("values must be empty, got %v", fm.Values())
	}
}

func TestNoFrontMatter(t *testing.T) {
	for _, src := range []string{"text\n", "--- \nnot closed\n", "intro\n---\nx: y\n---\n"} {
		if end := blockEnd(src); end != -1 {
			t.Errorf("blockEnd(%q) = %d, want -1", src, end)
		}
	}
	if end := blockEnd("---\na: b\n---\nrest"); end != len("---\na: b\n---\n") {
		t.Errorf("blockEnd = %d", end)
	}
}
