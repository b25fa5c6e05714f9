// internal/selection/builder.go
//
// Ordered color picker used for both secret and guess entry.
//
// Invariants:
//   - Selected colors are mutually distinct (guess entry included; this is
//     product policy, not a game rule).
//   - len(selected) <= capacity.
//
// The builder never checks palette membership; callers only offer colors
// from the current palette.

package selection

import "github.com/robalobadob/mastermind/internal/game"

// Builder accumulates up to Capacity distinct colors.
type Builder struct {
	capacity int
	selected []game.Color
}

// New returns an empty builder holding at most capacity colors.
func New(capacity int) *Builder {
	if capacity < 0 {
		capacity = 0
	}
	return &Builder{capacity: capacity, selected: make([]game.Color, 0, capacity)}
}

// Capacity is the peg count the builder was sized for.
func (b *Builder) Capacity() int { return b.capacity }

// Len is the number of selected colors.
func (b *Builder) Len() int { return len(b.selected) }

// Select appends c unless it is already selected or the builder is full.
// It reports whether the selection changed.
func (b *Builder) Select(c game.Color) bool {
	if b.Contains(c) || len(b.selected) >= b.capacity {
		return false
	}
	b.selected = append(b.selected, c)
	return true
}

// RemoveAt drops the color at position i and shifts the rest left.
// Out-of-range positions are ignored.
func (b *Builder) RemoveAt(i int) bool {
	if i < 0 || i >= len(b.selected) {
		return false
	}
	b.selected = append(b.selected[:i], b.selected[i+1:]...)
	return true
}

// Complete reports whether every peg is filled.
func (b *Builder) Complete() bool { return len(b.selected) == b.capacity }

// Reset empties the selection.
func (b *Builder) Reset() { b.selected = b.selected[:0] }

// Contains reports whether c is selected; palettes render it disabled.
func (b *Builder) Contains(c game.Color) bool {
	for _, s := range b.selected {
		if s == c {
			return true
		}
	}
	return false
}

// Selected returns a copy of the ordered selection.
func (b *Builder) Selected() []game.Color {
	return append([]game.Color(nil), b.selected...)
}
