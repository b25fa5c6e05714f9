// internal/ui/app.go
//
// Line-command front end for the session controller.
// Responsibilities:
//   - Build the five phase handlers, the screen router and the score bar,
//     and attach them to the controller.
//   - Dispatch each input line: global commands first, then the handler of
//     the visible screen.
//   - Turn operation errors into one-line messages.
//
// Handlers only collect input and render; every state change goes through
// the controller.

package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/engine"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/screen"
	"github.com/robalobadob/mastermind/internal/session"
)

// Controller is the slice of session.Controller the handlers use.
type Controller interface {
	Phase() session.Phase
	State() *game.State
	Result() *game.RoundResult
	PendingResolution() bool

	StartSession(ctx context.Context, cfg session.Config) error
	CommitSecret(ctx context.Context, secret []game.Color) error
	AdvanceToGuessing() error
	SubmitGuess(ctx context.Context, guess []game.Color) (*session.GuessOutcome, error)
	ResolveRound(ctx context.Context) (*game.RoundResult, error)
	StartNewRound(ctx context.Context) error
	EndSession() error
	Refresh(ctx context.Context) error

	SetNavigator(n session.Navigator)
	SetScoreDisplay(d session.ScoreDisplay)
}

// Handler is a screen that also accepts commands.
type Handler interface {
	screen.Screen
	Handle(ctx context.Context, cmd string, args []string) error
	Help() []string
}

var errUnknownCommand = errors.New("unknown command")

// App wires handlers to the controller.
type App struct {
	ctrl     Controller
	out      io.Writer
	theme    *Theme
	router   *screen.Router
	bar      *ScoreBar
	handlers map[screen.ID]Handler
}

// New builds the handlers and attaches the router and score bar to ctrl.
func New(ctrl Controller, out io.Writer, theme *Theme) *App {
	a := &App{
		ctrl:  ctrl,
		out:   out,
		theme: theme,
		bar:   &ScoreBar{out: out, theme: theme},
	}
	hs := []Handler{
		newSetup(ctrl, out, theme),
		newSecretEntry(ctrl, out, theme),
		newHandover(ctrl, out, theme),
		newGuessing(ctrl, out, theme),
		newRoundOver(ctrl, out, theme),
	}
	a.handlers = make(map[screen.ID]Handler, len(hs))
	screens := make([]screen.Screen, len(hs))
	for i, h := range hs {
		a.handlers[h.ID()] = h
		screens[i] = h
	}
	a.router = screen.NewRouter(screens...)
	ctrl.SetNavigator(a.router)
	ctrl.SetScoreDisplay(a.bar)
	return a
}

// Router exposes the screen router.
func (a *App) Router() *screen.Router { return a.router }

// Start shows the screen for the controller's current phase.
func (a *App) Start() error {
	return a.router.Navigate(a.ctrl.Phase())
}

// Dispatch runs one input line. It returns true when the user asked to quit.
func (a *App) Dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		a.help()
		return false
	case "refresh":
		a.report(a.ctrl.Refresh(ctx))
		return false
	}

	h, ok := a.handlers[a.router.Active()]
	if !ok {
		a.report(fmt.Errorf("no active screen"))
		return false
	}
	err := h.Handle(ctx, cmd, args)
	if errors.Is(err, errUnknownCommand) {
		fmt.Fprintf(a.out, "%s\n", a.theme.Warn(fmt.Sprintf("Unknown command %q. Type help for a list.", cmd)))
		return false
	}
	a.report(err)
	return false
}

func (a *App) help() {
	fmt.Fprintln(a.out, a.theme.Title("Commands"))
	if h, ok := a.handlers[a.router.Active()]; ok {
		for _, l := range h.Help() {
			fmt.Fprintln(a.out, "  "+l)
		}
	}
	fmt.Fprintln(a.out, "  refresh            reload the game from the engine")
	fmt.Fprintln(a.out, "  help               show this list")
	fmt.Fprintln(a.out, "  quit               leave")
}

// report prints err, if any, as a single line.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	var msg string
	switch {
	case game.IsValidation(err):
		msg = err.Error()
	case errors.Is(err, session.ErrBusy):
		msg = "Still waiting for the engine, try again in a moment."
	case errors.Is(err, session.ErrInvalidPhase):
		msg = "That command is not available right now."
	case errors.Is(err, session.ErrNoSession):
		msg = "No game in progress."
	case engine.IsRequestError(err):
		msg = "Engine error: " + err.Error()
		var re *engine.RequestError
		if errors.As(err, &re) {
			log.Debug().Str("detail", re.Detail()).Msg("engine error")
		}
	default:
		msg = "Error: " + err.Error()
	}
	fmt.Fprintln(a.out, a.theme.Bad(msg))
}
