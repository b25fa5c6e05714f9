package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/screen"
	"github.com/robalobadob/mastermind/internal/session"
)

// view carries what every handler shares.
type view struct {
	id      screen.ID
	visible bool
	ctrl    Controller
	out     io.Writer
	theme   *Theme
}

func (v *view) ID() screen.ID { return v.id }
func (v *view) Hide() { v.visible = false }
func (v *view) Visible() bool { return v.visible }

func (v *view) println(parts ...string) {
	fmt.Fprintln(v.out, strings.Join(parts, ""))
}

// setupHandler collects the session configuration.
type setupHandler struct {
	view
	cfg   session.Config
	names game.PlayerNames
}

func newSetup(ctrl Controller, out io.Writer, theme *Theme) *setupHandler {
	return &setupHandler{
		view: view{id: screen.Setup, ctrl: ctrl, out: out, theme: theme},
		cfg: session.Config{
			Mode:       game.ModeSolo,
			Difficulty: game.DifficultyNormal,
			PegCount:   game.MinPegs,
		},
	}
}

func (h *setupHandler) Show() {
	h.visible = true
	h.render()
}

func (h *setupHandler) render() {
	t := h.theme
	h.println()
	h.println(t.Title("MASTERMIND"))
	mode := "Classic (solo)"
	if h.cfg.Mode == game.ModeTwoPlayer {
		mode = "Two player"
	}
	h.println("Mode:        ", mode)
	h.println("Difficulty:  ", string(h.cfg.Difficulty))
	h.println("Pegs:        ", strconv.Itoa(h.cfg.PegCount), t.Muted(fmt.Sprintf("  (+/- to change, %d..%d)", game.MinPegs, game.MaxPegs)))
	if h.cfg.Mode == game.ModeTwoPlayer {
		h.println("Mastermind:  ", orDash(h.names.Mastermind))
		h.println("Guesser:     ", orDash(h.names.Guesser))
	}
	h.println(t.Muted("Type start to begin, help for commands."))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (h *setupHandler) Help() []string {
	return []string{
		"mode classic|two   solo game or two players on one device",
		"difficulty easy|normal|hard",
		"pegs N             code length, 4 to 8",
		"+ / -              one more / one fewer peg",
		"names A B          mastermind and guesser names",
		"start              begin the session",
	}
}

func (h *setupHandler) Handle(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "mode":
		if len(args) != 1 {
			return game.Invalidf("Usage: mode classic|two")
		}
		switch strings.ToLower(args[0]) {
		case "classic", "solo", "1":
			h.cfg.Mode = game.ModeSolo
		case "two", "two_player", "2":
			h.cfg.Mode = game.ModeTwoPlayer
		default:
			return game.Invalidf("Unknown mode %q", args[0])
		}
	case "difficulty", "diff":
		if len(args) != 1 {
			return game.Invalidf("Usage: difficulty easy|normal|hard")
		}
		d := game.Difficulty(strings.ToLower(args[0]))
		if !d.Valid() {
			return game.Invalidf("Unknown difficulty %q", args[0])
		}
		h.cfg.Difficulty = d
	case "pegs":
		if len(args) != 1 {
			return game.Invalidf("Usage: pegs N")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return game.Invalidf("Peg count must be a number")
		}
		if err := game.ValidatePegCount(n); err != nil {
			return err
		}
		h.cfg.PegCount = n
	case "+":
		if h.cfg.PegCount < game.MaxPegs {
			h.cfg.PegCount++
		}
	case "-":
		if h.cfg.PegCount > game.MinPegs {
			h.cfg.PegCount--
		}
	case "names":
		if len(args) != 2 {
			return game.Invalidf("Usage: names <mastermind> <guesser>")
		}
		h.names = game.PlayerNames{Mastermind: args[0], Guesser: args[1]}
	case "start":
		cfg := h.cfg
		if cfg.Mode == game.ModeTwoPlayer {
			names := h.names
			cfg.PlayerNames = &names
		}
		return h.ctrl.StartSession(ctx, cfg)
	default:
		return errUnknownCommand
	}
	h.render()
	return nil
}
