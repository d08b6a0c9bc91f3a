package testkit

import (
	"strings"
	"testing"
)

func TestCheckHTMLInvariants(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"ok", `<nav><a href="#a">A</a></nav><h1 id="a">A</h1><a href="https://x">x</a>`, ""},
		{"duplicate", `<h1 id="a">A</h1><h2 id="a">B</h2>`, `duplicate id "a"`},
		{"dangling", `<a href="#gone">x</a>`, `missing id "gone"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckHTMLInvariants(tt.html)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}
