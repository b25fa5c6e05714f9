package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/screen"
	"github.com/robalobadob/mastermind/internal/selection"
)

// codeEntry is the palette picker shared by secret entry and guessing.
// A selection belongs to the snapshot it was started on: a new snapshot
// (accepted guess, new round, refresh) starts an empty one, a failed call
// keeps it.
type codeEntry struct {
	b    *selection.Builder
	from *game.State
}

func (e *codeEntry) sync(st *game.State) {
	if st == nil {
		return
	}
	if e.b == nil || e.from != st {
		e.b = selection.New(st.PegCount)
		e.from = st
	}
}

// handle runs the picker commands. It reports false for anything else.
func (e *codeEntry) handle(st *game.State, cmd string, args []string) (bool, error) {
	e.sync(st)
	if _, err := strconv.Atoi(cmd); err == nil {
		args = append([]string{cmd}, args...)
		cmd = "pick"
	}
	switch cmd {
	case "pick", "p":
		if len(args) == 0 {
			return true, game.Invalidf("Usage: pick N [N...]")
		}
		// All indexes are checked before any is applied.
		picks := make([]game.Color, 0, len(args))
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil || n < 1 || n > len(st.RoundPalette) {
				return true, game.Invalidf("No color %s in the palette", a)
			}
			picks = append(picks, st.RoundPalette[n-1])
		}
		for _, c := range picks {
			e.b.Select(c)
		}
	case "remove", "rm":
		if len(args) != 1 {
			return true, game.Invalidf("Usage: remove P")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return true, game.Invalidf("Position must be a number")
		}
		e.b.RemoveAt(n - 1)
	case "clear":
		e.b.Reset()
	default:
		return false, nil
	}
	return true, nil
}

func (e *codeEntry) complete(st *game.State) error {
	e.sync(st)
	if !e.b.Complete() {
		return game.Invalidf("Please select exactly %d colors", e.b.Capacity())
	}
	return nil
}

// selectionLine renders the picked colors followed by empty slots.
func (e *codeEntry) selectionLine(t *Theme) string {
	picked := e.b.Selected()
	parts := make([]string, 0, e.b.Capacity())
	for _, c := range picked {
		parts = append(parts, t.Swatch(c))
	}
	for i := len(picked); i < e.b.Capacity(); i++ {
		parts = append(parts, t.Empty())
	}
	return strings.Join(parts, " ") + t.Muted(fmt.Sprintf("  (%d/%d)", len(picked), e.b.Capacity()))
}

// paletteLine renders the round palette by 1-based index; picked colors are
// shown as unavailable.
func (e *codeEntry) paletteLine(t *Theme, palette []game.Color) string {
	parts := make([]string, len(palette))
	for i, c := range palette {
		label := strconv.Itoa(i + 1)
		if e.b.Contains(c) {
			parts[i] = t.Muted(label + " ---")
			continue
		}
		parts[i] = label + " " + t.Swatch(c)
	}
	return strings.Join(parts, "  ")
}

var entryHelp = []string{
	"pick N [N...]      add palette colors by number (or just type the numbers)",
	"remove P           drop the color at position P",
	"clear              start over",
	"submit             send the code",
}

// secretEntryHandler lets the mastermind choose the code.
type secretEntryHandler struct {
	view
	entry codeEntry
}

func newSecretEntry(ctrl Controller, out io.Writer, theme *Theme) *secretEntryHandler {
	return &secretEntryHandler{view: view{id: screen.SecretEntry, ctrl: ctrl, out: out, theme: theme}}
}

func (h *secretEntryHandler) Show() {
	h.visible = true
	h.render()
}

func (h *secretEntryHandler) render() {
	st := h.ctrl.State()
	if st == nil {
		return
	}
	h.entry.sync(st)
	t := h.theme
	h.println()
	h.println(t.Title(fmt.Sprintf("Round %d", st.RoundNumber+1)), t.Muted("  secret entry"))
	h.println(st.MastermindName(), ", choose a secret code. ", st.GuesserName(), ", look away!")
	h.println("Secret:  ", h.entry.selectionLine(t))
	h.println("Palette: ", h.entry.paletteLine(t, st.RoundPalette))
}

func (h *secretEntryHandler) Help() []string { return entryHelp }

func (h *secretEntryHandler) Handle(ctx context.Context, cmd string, args []string) error {
	st := h.ctrl.State()
	if st == nil {
		return errUnknownCommand
	}
	if ok, err := h.entry.handle(st, cmd, args); ok {
		if err != nil {
			return err
		}
		h.render()
		return nil
	}
	if cmd != "submit" {
		return errUnknownCommand
	}
	if err := h.entry.complete(st); err != nil {
		return err
	}
	return h.ctrl.CommitSecret(ctx, h.entry.b.Selected())
}

// guessingHandler runs the guess loop.
type guessingHandler struct {
	view
	entry codeEntry
}

func newGuessing(ctrl Controller, out io.Writer, theme *Theme) *guessingHandler {
	return &guessingHandler{view: view{id: screen.Guessing, ctrl: ctrl, out: out, theme: theme}}
}

func (h *guessingHandler) Show() {
	h.visible = true
	h.render()
}

func (h *guessingHandler) render() {
	st := h.ctrl.State()
	if st == nil {
		return
	}
	h.entry.sync(st)
	t := h.theme
	h.println()
	h.println(t.Title(fmt.Sprintf("Round %d", st.RoundNumber+1)),
		t.Muted(fmt.Sprintf("  attempts %d / %d, %d left", st.AttemptsUsed, st.MaxAttempts, st.AttemptsLeft())))
	if st.Mode == game.ModeTwoPlayer {
		h.println(t.Muted("Guesser: "), st.GuesserName(), t.Muted("  Mastermind: "), st.MastermindName())
	}
	for i, a := range st.History {
		h.println(fmt.Sprintf("%2d  ", i+1), t.Code(a.Guess), "  ", t.Feedback(a.Score, st.PegCount))
	}
	if h.ctrl.PendingResolution() {
		h.println(t.Warn("The round is over. Type submit to see the result."))
		return
	}
	h.println("Guess:   ", h.entry.selectionLine(t))
	h.println("Palette: ", h.entry.paletteLine(t, st.RoundPalette))
}

func (h *guessingHandler) Help() []string { return entryHelp }

func (h *guessingHandler) Handle(ctx context.Context, cmd string, args []string) error {
	st := h.ctrl.State()
	if st == nil {
		return errUnknownCommand
	}
	if cmd == "submit" && h.ctrl.PendingResolution() {
		_, err := h.ctrl.ResolveRound(ctx)
		return err
	}
	if ok, err := h.entry.handle(st, cmd, args); ok {
		if err != nil {
			return err
		}
		h.render()
		return nil
	}
	if cmd != "submit" {
		return errUnknownCommand
	}
	if err := h.entry.complete(st); err != nil {
		return err
	}
	_, err := h.ctrl.SubmitGuess(ctx, h.entry.b.Selected())
	return err
}
