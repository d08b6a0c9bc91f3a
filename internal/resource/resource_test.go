package resource

import (
	"slices"
	"testing"
)

type link struct {
	Handle
	typ string
}

func (l *link) ResourceType() string { return l.typ }

type decl struct{ ref, res string }

func (d decl) ReferenceName() string { return d.ref }
func (d decl) ResourceName() string  { return d.res }

func direct(typ, name string) *link { return &link{Handle: Handle{Resource: name}, typ: typ} }
func byRef(typ, ref string) *link   { return &link{Handle: Handle{Reference: ref}, typ: typ} }

func TestFallbackToOwnName(t *testing.T) {
	r := NewRegistry()
	a := direct("link", "http://a")
	b := byRef("image", "missing")
	r.RequestResource(a)
	r.RequestReference(b)
	r.ApplyFallbacks()
	if a.URL != "http://a" {
		t.Fatalf("direct url = %q", a.URL)
	}
	if b.URL != "missing" {
		t.Fatalf("reference url = %q", b.URL)
	}
}

func TestReferenceBeforeAndAfterDeclaration(t *testing.T) {
	r := NewRegistry()
	before := byRef("link", "a")
	r.RequestReference(before)
	if !r.DeclareReference(decl{"a", "http://target"}) {
		t.Fatal("first declaration rejected")
	}
	after := byRef("link", "a")
	r.RequestReference(after)
	if r.DeclareReference(decl{"a", "http://other"}) {
		t.Fatal("duplicate declaration accepted")
	}
	r.ApplyFallbacks()
	for i, l := range []*link{before, after} {
		if l.URL != "http://target" {
			t.Fatalf("request %d url = %q", i, l.URL)
		}
	}
	// оба запроса попали в одну корзину в порядке подачи
	reqs := r.Map().Requests("link", "http://target")
	if len(reqs) != 2 || reqs[0] != before || reqs[1] != after {
		t.Fatalf("bucket = %v", reqs)
	}
}

func TestLocatorResolutionWins(t *testing.T) {
	r := NewRegistry()
	img := direct("image", "cat.png")
	other := direct("image", "dog.png")
	r.RequestResource(img)
	r.RequestResource(other)
	r.RequestResource(direct("link", "x"))

	m := r.Map()
	if got := m.Types(); !slices.Equal(got, []string{"image", "link"}) {
		t.Fatalf("types = %v", got)
	}
	if got := m.Names("image"); !slices.Equal(got, []string{"cat.png", "dog.png"}) {
		t.Fatalf("names = %v", got)
	}
	if n := m.Resolve("image", "cat.png", "/static/cat.png"); n != 1 {
		t.Fatalf("resolved %d", n)
	}
	r.ApplyFallbacks()
	if img.URL != "/static/cat.png" || other.URL != "dog.png" {
		t.Fatalf("urls = %q, %q", img.URL, other.URL)
	}
	if m.Len() != 3 {
		t.Fatalf("len = %d", m.Len())
	}
}

func TestReset(t *testing.T) {
	r := NewRegistry()
	r.RequestResource(direct("link", "x"))
	r.DeclareReference(decl{"a", "b"})
	r.Reset()
	if r.Map().Len() != 0 {
		t.Fatal("requests survived reset")
	}
	if _, ok := r.Declared("a"); ok {
		t.Fatal("declaration survived reset")
	}
}
