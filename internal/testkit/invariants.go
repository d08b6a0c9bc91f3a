package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"kekpiler/internal/source"
	"kekpiler/internal/token"
)

// CheckTreeInvariants runs a minimal set of invariants on a built token tree:
// 1) no division marker survives grouping
// 2) every token offset lies within the file content
func CheckTreeInvariants(root token.Token, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var failure error
	token.Walk(root, func(t token.Token) bool {
		if t.Kind().IsDivision() {
			failure = fmt.Errorf("division %s left in tree at offset %d", t.Name(), t.Offset())
			return false
		}
		off, err := safecast.Conv[uint32](t.Offset())
		if err != nil {
			failure = fmt.Errorf("%s has negative offset %d", t.Name(), t.Offset())
			return false
		}
		if off > lenContent {
			failure = fmt.Errorf("%s offset beyond content: %d > %d", t.Name(), off, lenContent)
			return false
		}
		return true
	})
	return failure
}

var (
	withID       = cascadia.MustCompile("[id]")
	fragmentLink = cascadia.MustCompile(`a[href^="#"]`)
)

// CheckHTMLInvariants parses compiled output and checks that element ids are
// unique and that every fragment link points at an existing id.
func CheckHTMLInvariants(out string) error {
	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		return fmt.Errorf("parse output: %w", err)
	}
	ids := make(map[string]bool)
	for _, n := range withID.MatchAll(doc) {
		id := attr(n, "id")
		if ids[id] {
			return fmt.Errorf("duplicate id %q", id)
		}
		ids[id] = true
	}
	for _, n := range fragmentLink.MatchAll(doc) {
		target := strings.TrimPrefix(attr(n, "href"), "#")
		if target != "" && !ids[target] {
			return fmt.Errorf("link to missing id %q", target)
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
