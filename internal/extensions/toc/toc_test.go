package toc

import (
	"context"
	"testing"

	"kekpiler/internal/compiler"
	"kekpiler/internal/extensions/slugger"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	c := compiler.New(compiler.Options{})
	for _, ext := range []compiler.Extension{slugger.New(), New()} {
		if err := c.Use(ext); err != nil {
			t.Fatal(err)
		}
	}
	out, err := c.Compile(context.Background(), src, false)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestTableOfContents(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"nested",
			"@[TOC]()\n\n# A\n\n## B\n\n## C\n\n# D\n",
			`<article><nav class="toc"><ol><li><a href="#a">A</a><ol><li><a href="#b">B</a></li><li><a href="#c">C</a></li></ol></li>` +
				`<li><a href="#d">D</a></li></ol></nav>` +
				`<h1 id="a">A</h1><h2 id="b">B</h2><h2 id="c">C</h2><h1 id="d">D</h1></article>`,
		},
		{
			"skipped level",
			"@[TOC]()\n\n### Deep\n",
			`<article><nav class="toc"><ol><li><ol><li><ol><li><a href="#deep">Deep</a></li></ol></li></ol></li></ol></nav>` +
				`<h3 id="deep">Deep</h3></article>`,
		},
		{
			"no headings",
			"@[TOC]()\n",
			`<article><nav class="toc"><ol></ol></nav></article>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compile(t, tt.src); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}
