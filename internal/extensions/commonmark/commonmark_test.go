package commonmark

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"kekpiler/internal/compiler"
	"kekpiler/internal/diag"
	"kekpiler/internal/source"
)

func newCompiler(t *testing.T, settings map[string]any) *compiler.Compiler {
	t.Helper()
	c := compiler.New(compiler.Options{Settings: settings})
	if err := c.Use(New()); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestEmbed(t *testing.T) {
	dir := t.TempDir()
	part := "# Part\n\n*x* ~~y~~\n"
	if err := os.WriteFile(filepath.Join(dir, "part.md"), []byte(part), 0o600); err != nil {
		t.Fatal(err)
	}

	c := newCompiler(t, map[string]any{KeyBaseDir: dir, "contentClassPrefix": "kek-"})
	out, err := c.Compile(context.Background(), "intro\n\n@[commonmark](part.md)\n", false)
	if err != nil {
		t.Fatal(err)
	}
	want := `<article><p>intro</p><div class="kek-commonmark"><h1>Part</h1>` + "\n" +
		`<p><em>x</em> <del>y</del></p></div></article>`
	if out != want {
		t.Errorf("got  %q\nwant %q", out, want)
	}
	if d := c.Diagnostics(); len(d) != 0 {
		t.Errorf("unexpected diagnostics %v", d)
	}
}

func TestEmbedRelativeToDocument(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("<i>ok</i>\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c := newCompiler(t, map[string]any{KeyUnsafeHTML: true})
	doc := source.NewFile(filepath.Join(dir, "doc.md"), []byte("@[commonmark](a.md)\n"))
	out, err := c.CompileFile(context.Background(), doc, false)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<article><div class="commonmark"><p><i>ok</i></p></div></article>`; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestEmbedUnavailable(t *testing.T) {
	c := newCompiler(t, map[string]any{KeyBaseDir: t.TempDir()})
	out, err := c.Compile(context.Background(), "text\n\n@[commonmark](missing.md)\n", false)
	if err != nil {
		t.Fatal(err)
	}
	if out != "<article><p>text</p></article>" {
		t.Errorf("unexpected output %q", out)
	}
	d := c.Diagnostics()
	if len(d) != 1 || d[0].Code != diag.ExtEmbedUnavailable || d[0].Line != 3 {
		t.Errorf("diagnostics = %v", d)
	}
}

func TestEmbedUnavailableAsError(t *testing.T) {
	c := newCompiler(t, map[string]any{KeyBaseDir: t.TempDir(), KeyUnavailableSeverity: "error"})
	_, err := c.Compile(context.Background(), "@[commonmark](missing.md)\n", false)
	cerr, ok := err.(*compiler.Error)
	if !ok || cerr.Stage != compiler.StageResolve {
		t.Fatalf("expected a resolve stage error, got %v", err)
	}
}
