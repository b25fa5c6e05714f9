package ui

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/robalobadob/mastermind/internal/engine"
	"github.com/robalobadob/mastermind/internal/enginetest"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/screen"
	"github.com/robalobadob/mastermind/internal/session"
)

type harness struct {
	t   *testing.T
	app *App
	ctl *session.Controller
	eng *enginetest.Server
	out *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	eng := enginetest.New(enginetest.Options{})
	srv := eng.Start()
	t.Cleanup(srv.Close)
	cl, err := engine.New(srv.URL+"/api", engine.Options{})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	out := &bytes.Buffer{}
	ctl := session.New(cl, session.Options{})
	app := New(ctl, out, NewTheme(out, true))
	if err := app.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return &harness{t: t, app: app, ctl: ctl, eng: eng, out: out}
}

// run dispatches lines and returns everything printed while doing so.
func (h *harness) run(lines ...string) string {
	h.t.Helper()
	h.out.Reset()
	for _, l := range lines {
		if h.app.Dispatch(context.Background(), l) {
			h.t.Fatalf("unexpected quit on %q", l)
		}
	}
	return h.out.String()
}

func mustContain(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("output missing %q:\n%s", w, out)
		}
	}
}

func TestTwoPlayerFlow(t *testing.T) {
	h := newHarness(t)
	if h.app.Router().Active() != screen.Setup {
		t.Fatalf("initial screen = %s", h.app.Router().Active())
	}

	out := h.run("mode two", "names Alice Bob", "start")
	mustContain(t, out, "Round 1", "Alice, choose a secret code")
	if h.app.Router().Active() != screen.SecretEntry {
		t.Fatalf("screen = %s", h.app.Router().Active())
	}

	out = h.run("pick 1 2", "submit")
	mustContain(t, out, "Please select exactly 4 colors")
	if h.eng.CountCalls("set-secret") != 0 {
		t.Fatal("incomplete secret reached the engine")
	}

	h.run("3 4")
	out = h.run("submit")
	mustContain(t, out, "Pass device to Bob")
	if strings.Contains(out, string(enginetest.GlobalColors[0])) {
		t.Fatalf("handover screen leaked the secret:\n%s", out)
	}

	out = h.run("ready")
	mustContain(t, out, "attempts 0 / 10", "Guesser: Bob")

	out = h.run("submit")
	mustContain(t, out, "Please select exactly 4 colors")

	out = h.run("2 1 3 4", "submit")
	mustContain(t, out, "attempts 1 / 10", "●●○○")

	out = h.run("1 2 3 4", "submit")
	mustContain(t, out, "Round Won!", "Winner: Bob", "Points Awarded:  9", "Alice: 0", "Bob: 9")
	if h.app.Router().Active() != screen.RoundOver {
		t.Fatalf("screen = %s", h.app.Router().Active())
	}

	out = h.run("next")
	mustContain(t, out, "Round 2", "Bob, choose a secret code", "Alice, look away!")

	out = h.run("end")
	mustContain(t, out, "MASTERMIND")
	if h.app.bar.Visible() {
		t.Fatal("score bar should hide after the session ends")
	}
}

func TestSoloFlowSkipsHandover(t *testing.T) {
	h := newHarness(t)
	out := h.run("difficulty hard", "+", "start")
	mustContain(t, out, "attempts 0 / 8", "Score | Player: 0")
	if h.app.Router().Active() != screen.Guessing {
		t.Fatalf("screen = %s", h.app.Router().Active())
	}
	if h.ctl.State().PegCount != 5 {
		t.Fatalf("pegs = %d", h.ctl.State().PegCount)
	}
	out = h.run("1 2 3 4 5", "submit")
	mustContain(t, out, "Round Won!", "Winner: player", "Points Awarded:  8", "Player: 8")
}

func TestEqualNamesShownLocally(t *testing.T) {
	h := newHarness(t)
	out := h.run("mode two", "names Alice Alice", "start")
	mustContain(t, out, "Players must have different names")
	if len(h.eng.Calls()) != 0 {
		t.Fatalf("engine contacted: %v", h.eng.Calls())
	}
	if h.app.Router().Active() != screen.Setup {
		t.Fatalf("screen = %s", h.app.Router().Active())
	}
}

func TestPegStepperClamps(t *testing.T) {
	h := newHarness(t)
	h.run("-", "-")
	setup := h.app.handlers[screen.Setup].(*setupHandler)
	if setup.cfg.PegCount != game.MinPegs {
		t.Fatalf("pegs = %d", setup.cfg.PegCount)
	}
	h.run("+", "+", "+", "+", "+", "+")
	if setup.cfg.PegCount != game.MaxPegs {
		t.Fatalf("pegs = %d", setup.cfg.PegCount)
	}
	out := h.run("pegs 9")
	mustContain(t, out, "Peg count must be between 4 and 8")
}

func TestEngineErrorKeepsSelection(t *testing.T) {
	h := newHarness(t)
	h.run("start")
	h.eng.FailNext("guess", http.StatusBadGateway, "Engine unavailable")
	out := h.run("2 1 3 4", "submit")
	mustContain(t, out, "Engine error: Engine unavailable")

	g := h.app.handlers[screen.Guessing].(*guessingHandler)
	if got := len(g.entry.b.Selected()); got != 4 {
		t.Fatalf("selection lost after engine error: %d colors", got)
	}
	out = h.run("submit")
	mustContain(t, out, "attempts 1 / 10")
	if got := len(g.entry.b.Selected()); got != 0 {
		t.Fatalf("selection kept after accepted guess: %d colors", got)
	}
}

func TestPickerCommands(t *testing.T) {
	h := newHarness(t)
	h.run("start")
	g := h.app.handlers[screen.Guessing].(*guessingHandler)
	pal := h.ctl.State().RoundPalette

	h.run("pick 1 1 2", "3")
	sel := g.entry.b.Selected()
	if len(sel) != 3 || sel[0] != pal[0] || sel[1] != pal[1] || sel[2] != pal[2] {
		t.Fatalf("selection = %v", sel)
	}
	h.run("remove 1")
	if sel := g.entry.b.Selected(); len(sel) != 2 || sel[0] != pal[1] {
		t.Fatalf("after remove: %v", sel)
	}
	out := h.run("pick 99")
	mustContain(t, out, "No color 99 in the palette")
	h.run("clear")
	if g.entry.b.Len() != 0 {
		t.Fatal("clear left colors behind")
	}
}

func TestUnknownAndGlobalCommands(t *testing.T) {
	h := newHarness(t)
	out := h.run("dance")
	mustContain(t, out, `Unknown command "dance"`)

	out = h.run("help")
	mustContain(t, out, "names A B", "refresh", "quit")

	out = h.run("refresh")
	mustContain(t, out, "No game in progress.")

	if !h.app.Dispatch(context.Background(), "quit") {
		t.Fatal("quit should stop the loop")
	}
	if h.app.Dispatch(context.Background(), "   ") {
		t.Fatal("blank line should not quit")
	}
}

func TestFeedbackPadsToEvenSlots(t *testing.T) {
	th := NewTheme(&bytes.Buffer{}, true)
	cases := []struct {
		fb   game.Feedback
		pegs int
		want string
	}{
		{game.Feedback{Black: 1, White: 1}, 4, "●○··"},
		{game.Feedback{Black: 2, White: 3}, 5, "●●○○○·"},
		{game.Feedback{}, 7, "········"},
		{game.Feedback{Black: 8}, 8, "●●●●●●●●"},
	}
	for _, tc := range cases {
		if got := th.Feedback(tc.fb, tc.pegs); got != tc.want {
			t.Fatalf("Feedback(%+v, %d) = %q, want %q", tc.fb, tc.pegs, got, tc.want)
		}
	}
}

func TestPickWithBadIndexChangesNothing(t *testing.T) {
	h := newHarness(t)
	h.run("start")
	g := h.app.handlers[screen.Guessing].(*guessingHandler)

	out := h.run("pick 1 2 99")
	mustContain(t, out, "No color 99 in the palette")
	if g.entry.b.Len() != 0 {
		t.Fatalf("partial pick applied: %v", g.entry.b.Selected())
	}
	out = h.run("3 x")
	mustContain(t, out, "No color x in the palette")
	if g.entry.b.Len() != 0 {
		t.Fatalf("partial pick applied: %v", g.entry.b.Selected())
	}
}

func TestGuessingShowsAttemptsLeft(t *testing.T) {
	h := newHarness(t)
	out := h.run("difficulty easy", "start")
	mustContain(t, out, "attempts 0 / 12, 12 left")
	out = h.run("2 1 3 4", "submit")
	mustContain(t, out, "attempts 1 / 12, 11 left")
}
