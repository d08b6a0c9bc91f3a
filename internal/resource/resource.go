// Package resource collects the URLs requested by a document and resolves
// them after the tree is built.
//
// Requests are bucketed by resource type and name in filing order. A
// reference request waits for the declaration of its reference name and is
// then upgraded to a plain resource request, at most once. Whatever is still
// unresolved after every locator ran falls back to its own name.
package resource

// TypeNone marks requests that never need a URL.
const TypeNone = "none"

// Request is implemented by nodes that need a URL.
type Request interface {
	ResourceType() string
	ResourceName() string
	ReferenceName() string
	SetResourceName(name string)
	// TrySetResourceURL sets the URL unless one is already set and returns
	// the URL in effect.
	TrySetResourceURL(url string) string
}

// Declaration binds a reference name to a resource name.
type Declaration interface {
	ReferenceName() string
	ResourceName() string
}

// Handle carries the resource state of a request and implements every
// Request method except ResourceType.
type Handle struct {
	Resource  string
	Reference string
	URL       string
	resolved  bool
}

func (h *Handle) ResourceName() string        { return h.Resource }
func (h *Handle) ReferenceName() string       { return h.Reference }
func (h *Handle) SetResourceName(name string) { h.Resource = name }

// IsReference reports whether the handle was created from a [text][ref] form.
func (h *Handle) IsReference() bool { return h.Reference != "" }

// Resolved reports whether a URL has been set.
func (h *Handle) Resolved() bool { return h.resolved }

func (h *Handle) TrySetResourceURL(url string) string {
	if !h.resolved {
		h.URL = url
		h.resolved = true
	}
	return h.URL
}
