package token

import "slices"

// Iterator walks a sibling list during grouping. It starts before the first
// element; Next moves onto it.
type Iterator struct {
	items []Token
	idx   int
}

func NewIterator(items []Token) *Iterator {
	return &Iterator{items: items, idx: -1}
}

func (it *Iterator) HasNext() bool { return it.idx < len(it.items)-1 }

// Next advances by one and returns the new current token.
func (it *Iterator) Next() Token {
	it.idx++
	return it.Current()
}

// Current returns the token under the cursor or nil.
func (it *Iterator) Current() Token {
	if it.idx < 0 || it.idx >= len(it.items) {
		return nil
	}
	return it.items[it.idx]
}

// Peek returns the token i positions after the cursor or nil.
func (it *Iterator) Peek(i int) Token {
	j := it.idx + i
	if j < 0 || j >= len(it.items) {
		return nil
	}
	return it.items[j]
}

// Remaining counts the tokens after the cursor.
func (it *Iterator) Remaining() int {
	return max(0, len(it.items)-1-it.idx)
}

// Remove deletes and returns the token i positions after the cursor.
func (it *Iterator) Remove(i int) Token {
	if i < 1 || it.idx+i >= len(it.items) {
		return nil
	}
	j := it.idx + i
	t := it.items[j]
	it.items = slices.Delete(it.items, j, j+1)
	return t
}
