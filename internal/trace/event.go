package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Scope indicates the granularity of an event; lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers CLI commands and batch builds.
	ScopeDriver Scope = iota + 1
	// ScopeDocument covers the compilation of one document.
	ScopeDocument
	// ScopeStage covers one compiler stage (tokenize, render, ...).
	ScopeStage
	// ScopeNode covers single extension hooks.
	ScopeNode
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeDocument:
		return "document"
	case ScopeStage:
		return "stage"
	case ScopeNode:
		return "node"
	}
	return "unknown"
}

// Event is a single trace record. Document is the path of the document the
// event belongs to, so events of parallel builds can be told apart.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Document string
	Name     string
	Detail   string
	Elapsed  time.Duration // only on KindSpanEnd
	Extra    map[string]string
}
