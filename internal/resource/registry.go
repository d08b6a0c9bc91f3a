package resource

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

type referenceEntry struct {
	decl     Declaration
	requests []Request
}

// Registry owns the pending requests of one compilation.
type Registry struct {
	resources  *Map
	references *linkedhashmap.Map // name -> *referenceEntry
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset drops every request and declaration.
func (r *Registry) Reset() {
	r.resources = newMap()
	r.references = linkedhashmap.New()
}

// RequestResource files req under its type and name.
func (r *Registry) RequestResource(req Request) {
	r.resources.add(req)
}

// RequestReference files req under its reference name and upgrades it right
// away when the declaration is already known.
func (r *Registry) RequestReference(req Request) {
	entry := r.reference(req.ReferenceName())
	entry.requests = append(entry.requests, req)
	if entry.decl != nil {
		r.upgrade(req, entry.decl)
	}
}

// DeclareReference records decl and upgrades every waiting request in filing
// order. A second declaration of the same name is ignored and false is
// returned.
func (r *Registry) DeclareReference(decl Declaration) bool {
	entry := r.reference(decl.ReferenceName())
	if entry.decl != nil {
		return false
	}
	entry.decl = decl
	for _, req := range entry.requests {
		r.upgrade(req, decl)
	}
	return true
}

// Declared returns the declaration of name, if any.
func (r *Registry) Declared(name string) (Declaration, bool) {
	v, ok := r.references.Get(name)
	if !ok || v.(*referenceEntry).decl == nil {
		return nil, false
	}
	return v.(*referenceEntry).decl, true
}

// Map returns the resource buckets handed to locators.
func (r *Registry) Map() *Map { return r.resources }

// ApplyFallbacks sets the URL of every unresolved request to its resource
// name, or to its reference name when it was never upgraded.
func (r *Registry) ApplyFallbacks() {
	r.resources.Each(func(_, name string, reqs []Request) {
		for _, req := range reqs {
			req.TrySetResourceURL(name)
		}
	})
	r.references.Each(func(k, v interface{}) {
		for _, req := range v.(*referenceEntry).requests {
			req.TrySetResourceURL(k.(string))
		}
	})
}

func (r *Registry) upgrade(req Request, decl Declaration) {
	req.SetResourceName(decl.ResourceName())
	r.resources.add(req)
}

func (r *Registry) reference(name string) *referenceEntry {
	if v, ok := r.references.Get(name); ok {
		return v.(*referenceEntry)
	}
	e := &referenceEntry{}
	r.references.Put(name, e)
	return e
}
