// Package pattern holds the priority-ordered grammars of the document language.
//
// Every level is a list of named alternatives composed into one regular
// expression. Scanning applies the composed expression repeatedly and labels
// each match with the first alternative, in priority order, that took part in
// it. The order of the alternatives is the grammar: earlier ones win.
package pattern

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// SlotFirst inserts an alternative ahead of every built-in one.
const SlotFirst = ""

var (
	// ErrNotExtensible is returned when inserting into a closed level.
	ErrNotExtensible = errors.New("grammar level does not accept new alternatives")
	// ErrUnknownSlot is returned when the insertion slot names no alternative.
	ErrUnknownSlot = errors.New("unknown insertion slot")
	// ErrDuplicateName is returned when the alternative name is already taken.
	ErrDuplicateName = errors.New("duplicate alternative name")
)

const levelCount = int(Table) + 1

type grammar struct {
	alts     []Alternative
	compiled *regexp2.Regexp
}

// Library owns the grammars of one compiler.
type Library struct {
	levels [levelCount]grammar
}

// NewLibrary returns a library holding the built-in grammars.
func NewLibrary() *Library {
	lib := &Library{}
	for l := range lib.levels {
		lib.levels[l].alts = builtins(Level(l))
	}
	return lib
}

// Alternatives returns a copy of the level's alternatives in priority order.
func (lib *Library) Alternatives(level Level) []Alternative {
	return slices.Clone(lib.levels[level].alts)
}

// Insert adds alt to level directly before the alternative named before.
// Only document and inline levels are extensible.
func (lib *Library) Insert(level Level, before string, alt Alternative) error {
	if !level.Extensible() {
		return fmt.Errorf("%s: %w", level, ErrNotExtensible)
	}
	if alt.Name == "" || alt.Pattern == "" {
		return fmt.Errorf("%s: alternative needs a name and a pattern", level)
	}
	g := &lib.levels[level]
	for _, existing := range g.alts {
		if existing.Name == alt.Name {
			return fmt.Errorf("%s: %q: %w", level, alt.Name, ErrDuplicateName)
		}
	}
	if _, err := regexp2.Compile(alt.Pattern, regexp2.Multiline); err != nil {
		return fmt.Errorf("%s: %q: %w", level, alt.Name, err)
	}

	idx := 0
	if before != SlotFirst {
		idx = slices.IndexFunc(g.alts, func(a Alternative) bool { return a.Name == before })
		if idx < 0 {
			return fmt.Errorf("%s: %q: %w", level, before, ErrUnknownSlot)
		}
	}
	g.alts = slices.Insert(g.alts, idx, alt)
	g.compiled = nil
	return nil
}

func (lib *Library) regexp(level Level) *regexp2.Regexp {
	g := &lib.levels[level]
	if g.compiled == nil {
		g.compiled = regexp2.MustCompile(compose(g.alts), regexp2.Multiline)
	}
	return g.compiled
}

// Match is one classified span of scanned text.
type Match struct {
	Category string
	Text     string
	Offset   int // byte offset into the scanned text
}

// Scan classifies text with the level's grammar. Text between matches that no
// alternative accepts is skipped. A match whose category cannot be resolved is
// a broken grammar and panics.
func (lib *Library) Scan(level Level, text string) []Match {
	re := lib.regexp(level)
	alts := lib.levels[level].alts
	runes := []rune(text)

	var out []Match
	m, err := re.FindRunesMatch(runes)
	runeIdx, byteOff := 0, 0
	for ; m != nil && err == nil; m, err = re.FindNextMatch(m) {
		for runeIdx < m.Index {
			byteOff += utf8.RuneLen(runes[runeIdx])
			runeIdx++
		}
		out = append(out, Match{
			Category: category(m, alts),
			Text:     m.String(),
			Offset:   byteOff,
		})
	}
	if err != nil {
		panic(fmt.Errorf("pattern: %s scan failed: %w", level, err))
	}
	return out
}

func category(m *regexp2.Match, alts []Alternative) string {
	for _, alt := range alts {
		if g := m.GroupByName(alt.Name); g != nil && len(g.Captures) > 0 {
			return alt.Name
		}
	}
	panic(fmt.Sprintf("pattern: unresolvable category for match %q at %d", m.String(), m.Index))
}
