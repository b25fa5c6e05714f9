package ui

import (
	"context"
	"io"

	"github.com/robalobadob/mastermind/internal/screen"
)

// handoverHandler hides the board while the device changes hands.
type handoverHandler struct {
	view
}

func newHandover(ctrl Controller, out io.Writer, theme *Theme) *handoverHandler {
	return &handoverHandler{view: view{id: screen.Handover, ctrl: ctrl, out: out, theme: theme}}
}

func (h *handoverHandler) Show() {
	h.visible = true
	st := h.ctrl.State()
	if st == nil {
		return
	}
	h.println()
	h.println(h.theme.Title("Secret locked in"))
	h.println("Pass device to ", st.GuesserName())
	h.println(h.theme.Muted("Type ready when " + st.GuesserName() + " has the keyboard."))
}

func (h *handoverHandler) Help() []string {
	return []string{"ready              start guessing"}
}

func (h *handoverHandler) Handle(_ context.Context, cmd string, _ []string) error {
	if cmd != "ready" {
		return errUnknownCommand
	}
	return h.ctrl.AdvanceToGuessing()
}
