package figure

import (
	"context"
	"testing"

	"kekpiler/internal/compiler"
	"kekpiler/internal/diag"
)

func TestFigures(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  string
		codes []diag.Code
	}{
		{
			"image with caption",
			"![cat](cat.png)\n\n@[caption](A sleeping cat)\n",
			`<article><figure class="image"><img src="cat.png" alt="cat"><figcaption>A sleeping cat</figcaption></figure></article>`,
			nil,
		},
		{
			"image falls back to alt",
			"![cat](cat.png)\n",
			`<article><figure class="image"><img src="cat.png" alt="cat"><figcaption>cat</figcaption></figure></article>`,
			nil,
		},
		{
			"code without caption",
			"```go\nx := 1\n```\n",
			`<article><figure class="code"><pre><code class="language-go">x := 1` + "\n" + `</code></pre></figure></article>`,
			[]diag.Code{diag.MdMissingCaption},
		},
		{
			"second caption unused",
			"```\nx\n```\n@[caption](One)\n\n@[caption](Two)\n",
			`<article><figure class="code"><pre><code>x` + "\n" + `</code></pre><figcaption>One</figcaption></figure></article>`,
			[]diag.Code{diag.MdUnusedMetadata},
		},
		{
			"table",
			"| a | b |\n|---|--:|\n| 1 | 2 |\n\n@[caption](Numbers)\n",
			`<article><figure class="table"><table><thead><tr><th>a</th><th style="text-align:right">b</th></tr></thead>` +
				`<tbody><tr><td>1</td><td style="text-align:right">2</td></tr></tbody></table><figcaption>Numbers</figcaption></figure></article>`,
			nil,
		},
		{
			"empty caption",
			"![cat](cat.png)\n\n@[caption]()\n",
			`<article><figure class="image"><img src="cat.png" alt="cat"><figcaption>cat</figcaption></figure></article>`,
			[]diag.Code{diag.MdEmptyCaption},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := compiler.New(compiler.Options{})
			if err := c.Use(New()); err != nil {
				t.Fatal(err)
			}
			got, err := c.Compile(context.Background(), tt.src, false)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
			var codes []diag.Code
			for _, d := range c.Diagnostics() {
				codes = append(codes, d.Code)
			}
			if len(codes) != len(tt.codes) {
				t.Fatalf("diagnostics = %v, want %v", codes, tt.codes)
			}
			for i := range codes {
				if codes[i] != tt.codes[i] {
					t.Errorf("diagnostic %d = %v, want %v", i, codes[i], tt.codes[i])
				}
			}
		})
	}
}
