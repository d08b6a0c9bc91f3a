package diag

// Bag collects diagnostics in emission order up to an optional limit.
type Bag struct {
	items   []Diagnostic
	limit   int
	dropped int
}

// NewBag creates a bag holding at most limit diagnostics; limit <= 0 means
// unlimited.
func NewBag(limit int) *Bag {
	return &Bag{limit: limit}
}

// Add сохраняет диагностику; сверх лимита она только считается.
// Ошибки принимаются всегда, иначе прерывание компиляции потеряло бы причину.
func (b *Bag) Add(d Diagnostic) bool {
	if b.limit > 0 && len(b.items) >= b.limit && d.Severity < SevError {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// Dropped reports how many diagnostics were refused by the limit.
func (b *Bag) Dropped() int { return b.dropped }

// Items returns the collected diagnostics. The slice must not be modified.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) HasErrors() bool { return b.atLeast(SevError) }

func (b *Bag) HasWarnings() bool { return b.atLeast(SevWarning) }

func (b *Bag) atLeast(sev Severity) bool {
	for _, d := range b.items {
		if d.Severity >= sev {
			return true
		}
	}
	return false
}
