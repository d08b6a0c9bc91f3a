package slugger

import (
	"context"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"kekpiler/internal/compiler"
	"kekpiler/internal/token"
)

func TestSlugsAreUnique(t *testing.T) {
	s := NewSlugger()
	got := []string{s.Slug("Intro"), s.Slug("intro"), s.Slug("Intro"), s.Slug("intro-1")}
	want := []string{"intro", "intro-1", "intro-2", "intro-1-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slug %d = %q, want %q", i, got[i], want[i])
		}
	}
	if Normalize("  ?!  ") != "section" {
		t.Errorf("punctuation only title must give a fallback slug, got %q", Normalize("?!"))
	}
}

type fragmentCollector struct {
	ids []string
}

func (*fragmentCollector) Init(*compiler.Compiler) (string, error) { return "collector", nil }

func (p *fragmentCollector) PreStringify(_ context.Context, c *compiler.Compiler) error {
	for _, f := range token.Collect[token.Fragment](c.Tree()) {
		p.ids = append(p.ids, f.FragmentID())
	}
	return nil
}

func TestHeadingsGetIDs(t *testing.T) {
	c := compiler.New(compiler.Options{})
	collector := &fragmentCollector{}
	for _, ext := range []compiler.Extension{New(), collector} {
		if err := c.Use(ext); err != nil {
			t.Fatal(err)
		}
	}
	out, err := c.Compile(context.Background(), "# Intro\n\n## Intro\n\ntext\n", false)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if cascadia.MustCompile("h1#intro").MatchFirst(doc) == nil {
		t.Errorf("h1 without id in %s", out)
	}
	if cascadia.MustCompile("h2#intro-1").MatchFirst(doc) == nil {
		t.Errorf("h2 without unique id in %s", out)
	}
	if strings.Join(collector.ids, ",") != "intro,intro-1" {
		t.Errorf("fragments = %v", collector.ids)
	}

	// повторная компиляция начинает нумерацию заново
	out, err = c.Compile(context.Background(), "# Intro\n", false)
	if err != nil || out != `<article><h1 id="intro">Intro</h1></article>` {
		t.Errorf("second compile: %q, %v", out, err)
	}
}
