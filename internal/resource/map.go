package resource

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Map buckets requests by type and then by resource name, both in filing
// order.
type Map struct {
	types *linkedhashmap.Map // type -> *linkedhashmap.Map(name -> []Request)
}

func newMap() *Map {
	return &Map{types: linkedhashmap.New()}
}

func (m *Map) add(req Request) {
	typ, name := req.ResourceType(), req.ResourceName()
	var names *linkedhashmap.Map
	if v, ok := m.types.Get(typ); ok {
		names = v.(*linkedhashmap.Map)
	} else {
		names = linkedhashmap.New()
		m.types.Put(typ, names)
	}
	var reqs []Request
	if v, ok := names.Get(name); ok {
		reqs = v.([]Request)
	}
	names.Put(name, append(reqs, req))
}

// Types lists the requested resource types.
func (m *Map) Types() []string {
	return toStrings(m.types.Keys())
}

// Names lists the requested names of typ.
func (m *Map) Names(typ string) []string {
	names := m.bucket(typ)
	if names == nil {
		return nil
	}
	return toStrings(names.Keys())
}

// Requests returns the requests for (typ, name).
func (m *Map) Requests(typ, name string) []Request {
	names := m.bucket(typ)
	if names == nil {
		return nil
	}
	v, ok := names.Get(name)
	if !ok {
		return nil
	}
	return v.([]Request)
}

// Len counts every filed request.
func (m *Map) Len() int {
	n := 0
	m.Each(func(_, _ string, reqs []Request) { n += len(reqs) })
	return n
}

// Each visits every (type, name) bucket in filing order.
func (m *Map) Each(fn func(typ, name string, reqs []Request)) {
	m.types.Each(func(t, names interface{}) {
		names.(*linkedhashmap.Map).Each(func(n, reqs interface{}) {
			fn(t.(string), n.(string), reqs.([]Request))
		})
	})
}

// Resolve offers url to every request of (typ, name) and returns how many
// requests took it.
func (m *Map) Resolve(typ, name, url string) int {
	n := 0
	for _, req := range m.Requests(typ, name) {
		if req.TrySetResourceURL(url) == url {
			n++
		}
	}
	return n
}

func (m *Map) bucket(typ string) *linkedhashmap.Map {
	v, ok := m.types.Get(typ)
	if !ok {
		return nil
	}
	return v.(*linkedhashmap.Map)
}

func toStrings(keys []interface{}) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}
