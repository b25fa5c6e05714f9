package selection

import (
	"fmt"
	"testing"

	"github.com/robalobadob/mastermind/internal/game"
)

func palette(n int) []game.Color {
	out := make([]game.Color, n)
	for i := range out {
		out[i] = game.Color(fmt.Sprintf("#%06X", i+1))
	}
	return out
}

func TestSelectRespectsCapacity(t *testing.T) {
	for pegs := game.MinPegs; pegs <= game.MaxPegs; pegs++ {
		b := New(pegs)
		colors := palette(pegs + 1)
		for i := 0; i < pegs; i++ {
			if !b.Select(colors[i]) {
				t.Fatalf("pegs=%d: select #%d rejected", pegs, i)
			}
		}
		if !b.Complete() {
			t.Fatalf("pegs=%d: expected complete", pegs)
		}
		if b.Select(colors[pegs]) {
			t.Fatalf("pegs=%d: select beyond capacity accepted", pegs)
		}
		if b.Len() != pegs {
			t.Fatalf("pegs=%d: len=%d", pegs, b.Len())
		}
	}
}

func TestSelectRejectsDuplicates(t *testing.T) {
	b := New(4)
	b.Select("#E74C3C")
	if b.Select("#E74C3C") {
		t.Fatal("duplicate select accepted")
	}
	if got := b.Selected(); len(got) != 1 {
		t.Fatalf("selected = %v", got)
	}
}

func TestRemoveAtShiftsLeft(t *testing.T) {
	b := New(4)
	for _, c := range []game.Color{"a", "b", "c", "d"} {
		b.Select(c)
	}
	if !b.RemoveAt(1) {
		t.Fatal("RemoveAt(1) rejected")
	}
	want := []game.Color{"a", "c", "d"}
	got := b.Selected()
	if len(got) != len(want) {
		t.Fatalf("selected = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("selected = %v; want %v", got, want)
		}
	}
	// The removed color becomes selectable again.
	if !b.Select("b") {
		t.Fatal("reselect after removal rejected")
	}
}

func TestRemoveAtBreaksCompletion(t *testing.T) {
	for pegs := game.MinPegs; pegs <= game.MaxPegs; pegs++ {
		for i := 0; i < pegs; i++ {
			b := New(pegs)
			for _, c := range palette(pegs) {
				b.Select(c)
			}
			b.RemoveAt(i)
			if b.Complete() {
				t.Fatalf("pegs=%d remove %d: still complete", pegs, i)
			}
		}
	}
}

func TestRemoveAtOutOfRange(t *testing.T) {
	b := New(4)
	b.Select("a")
	for _, i := range []int{-1, 1, 4} {
		if b.RemoveAt(i) {
			t.Fatalf("RemoveAt(%d) accepted", i)
		}
	}
	if b.Len() != 1 {
		t.Fatalf("len = %d", b.Len())
	}
}

func TestResetAndCopy(t *testing.T) {
	b := New(4)
	b.Select("a")
	b.Select("b")
	snap := b.Selected()
	snap[0] = "z"
	if !b.Contains("a") || b.Contains("z") {
		t.Fatal("Selected leaked internal slice")
	}
	b.Reset()
	if b.Len() != 0 || b.Complete() {
		t.Fatal("reset did not empty the builder")
	}
}
