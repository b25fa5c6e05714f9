package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/mastermind/internal/game"
)

var (
	clrTitle  = lipgloss.Color("#58a6ff")
	clrSubtle = lipgloss.Color("#8b949e")
	clrGreen  = lipgloss.Color("#3fb950")
	clrRed    = lipgloss.Color("#f85149")
	clrGold   = lipgloss.Color("#e3b341")
	clrWhite  = lipgloss.Color("#e6edf3")
)

// Theme renders text for one output. A plain theme emits no escape codes and
// prints colors by name.
type Theme struct {
	plain bool
	r     *lipgloss.Renderer

	title, muted, good, bad, warn, peg lipgloss.Style
}

// NewTheme builds a theme bound to out. plain disables all styling.
func NewTheme(out io.Writer, plain bool) *Theme {
	r := lipgloss.NewRenderer(out)
	return &Theme{
		plain: plain,
		r:     r,
		title: r.NewStyle().Foreground(clrTitle).Bold(true),
		muted: r.NewStyle().Foreground(clrSubtle),
		good:  r.NewStyle().Foreground(clrGreen).Bold(true),
		bad:   r.NewStyle().Foreground(clrRed).Bold(true),
		warn:  r.NewStyle().Foreground(clrGold),
		peg:   r.NewStyle().Foreground(clrWhite),
	}
}

func (t *Theme) style(s lipgloss.Style, text string) string {
	if t.plain {
		return text
	}
	return s.Render(text)
}

func (t *Theme) Title(s string) string { return t.style(t.title, s) }
func (t *Theme) Muted(s string) string { return t.style(t.muted, s) }
func (t *Theme) Good(s string) string { return t.style(t.good, s) }
func (t *Theme) Bad(s string) string { return t.style(t.bad, s) }
func (t *Theme) Warn(s string) string { return t.style(t.warn, s) }

// Swatch renders one color. Colors are opaque strings; in practice they are
// hex values lipgloss can paint.
func (t *Theme) Swatch(c game.Color) string {
	if t.plain {
		return "[" + string(c) + "]"
	}
	return t.r.NewStyle().Background(lipgloss.Color(string(c))).Render("   ")
}

// Code renders a sequence of swatches.
func (t *Theme) Code(code []game.Color) string {
	parts := make([]string, len(code))
	for i, c := range code {
		parts[i] = t.Swatch(c)
	}
	return strings.Join(parts, " ")
}

// Empty renders an unfilled slot.
func (t *Theme) Empty() string {
	if t.plain {
		return "[ ]"
	}
	return t.muted.Render(" · ")
}

// Feedback renders black and white pegs padded with empty slots to an even
// slot count.
func (t *Theme) Feedback(fb game.Feedback, pegs int) string {
	slots := pegs
	if slots%2 == 1 {
		slots++
	}
	var b strings.Builder
	for i := 0; i < slots; i++ {
		switch {
		case i < fb.Black:
			b.WriteString("●")
		case i < fb.Black+fb.White:
			b.WriteString("○")
		default:
			b.WriteString("·")
		}
	}
	return t.style(t.peg, b.String())
}
