// Package ledger tracks entries a user removed from a displayed sequence so
// they can be restored to their original relative position.
//
// The reference frame is the sequence handed to New. Every item keeps its
// index in that frame for the ledger's lifetime, so ordering never depends
// on item identity and restoration is a binary search over the displayed
// positions rather than a scan of the frame.
//
// A Ledger is owned by a single session and is not safe for concurrent use.
package ledger

import "sort"

// Deleted is an item waiting in the ledger.
type Deleted[T any] struct {
	Item T `json:"entry"`
	// Position is the item's index in the reference frame, fixed when the
	// ledger was created.
	Position int `json:"originalPosition"`
}

// Ledger holds the displayed sequence and the deleted set.
type Ledger[T any] struct {
	frame     []T
	displayed []int // reference-frame positions, always ascending
	deleted   []int // reference-frame positions, in deletion order
}

// New creates a ledger whose reference frame is a copy of items. Every item
// starts displayed.
func New[T any](items []T) *Ledger[T] {
	frame := make([]T, len(items))
	copy(frame, items)
	displayed := make([]int, len(items))
	for i := range displayed {
		displayed[i] = i
	}
	return &Ledger[T]{frame: frame, displayed: displayed}
}

// Len returns the number of displayed items.
func (l *Ledger[T]) Len() int {
	return len(l.displayed)
}

// DeletedLen returns the number of items in the ledger.
func (l *Ledger[T]) DeletedLen() int {
	return len(l.deleted)
}

// FrameLen returns the size of the reference frame.
func (l *Ledger[T]) FrameLen() int {
	return len(l.frame)
}

// Displayed returns the displayed items in order.
func (l *Ledger[T]) Displayed() []T {
	out := make([]T, len(l.displayed))
	for i, p := range l.displayed {
		out[i] = l.frame[p]
	}
	return out
}

// DisplayedPositions returns the reference-frame position of each displayed
// item.
func (l *Ledger[T]) DisplayedPositions() []int {
	out := make([]int, len(l.displayed))
	copy(out, l.displayed)
	return out
}

// At returns the displayed item at displayIndex.
func (l *Ledger[T]) At(displayIndex int) (item T, ok bool) {
	if displayIndex < 0 || displayIndex >= len(l.displayed) {
		return item, false
	}
	return l.frame[l.displayed[displayIndex]], true
}

// Deleted returns the ledger contents in deletion order. Restore indices
// refer to this order.
func (l *Ledger[T]) Deleted() []Deleted[T] {
	out := make([]Deleted[T], len(l.deleted))
	for i, p := range l.deleted {
		out[i] = Deleted[T]{Item: l.frame[p], Position: p}
	}
	return out
}

// Delete moves the displayed item at displayIndex into the ledger.
// Out-of-range indices are ignored.
func (l *Ledger[T]) Delete(displayIndex int) bool {
	if displayIndex < 0 || displayIndex >= len(l.displayed) {
		return false
	}
	pos := l.displayed[displayIndex]
	l.displayed = append(l.displayed[:displayIndex], l.displayed[displayIndex+1:]...)
	l.deleted = append(l.deleted, pos)
	return true
}

// Restore moves the ledger item at ledgerIndex back into the displayed
// sequence, immediately before the first displayed item with a greater
// reference-frame position, or at the end when there is none.
// Out-of-range indices are ignored.
func (l *Ledger[T]) Restore(ledgerIndex int) bool {
	if ledgerIndex < 0 || ledgerIndex >= len(l.deleted) {
		return false
	}
	pos := l.deleted[ledgerIndex]
	l.deleted = append(l.deleted[:ledgerIndex], l.deleted[ledgerIndex+1:]...)
	l.insert(pos)
	return true
}

// RestoreAll restores every ledger item in ascending position order.
func (l *Ledger[T]) RestoreAll() int {
	n := len(l.deleted)
	if n == 0 {
		return 0
	}
	pending := l.deleted
	l.deleted = nil
	sort.Ints(pending)
	for _, pos := range pending {
		l.insert(pos)
	}
	return n
}

// Clear discards every ledger item. Cleared items can no longer be restored.
func (l *Ledger[T]) Clear() int {
	n := len(l.deleted)
	l.deleted = nil
	return n
}

// InsertIndex returns the display index at which an item with reference-frame
// position pos would be restored.
func (l *Ledger[T]) InsertIndex(pos int) int {
	return sort.SearchInts(l.displayed, pos+1)
}

func (l *Ledger[T]) insert(pos int) {
	at := l.InsertIndex(pos)
	l.displayed = append(l.displayed, 0)
	copy(l.displayed[at+1:], l.displayed[at:])
	l.displayed[at] = pos
}
