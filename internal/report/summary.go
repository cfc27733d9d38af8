// Package report renders batch results for people and for machines.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/trashsim/internal/game"
	"github.com/lox/trashsim/internal/simulator"
)

// Theme holds the styles used by the text summary.
type Theme struct {
	Label   lipgloss.Style
	Value   lipgloss.Style
	Good    lipgloss.Style
	Missing lipgloss.Style
}

// NewTheme builds a theme for w. The Ascii profile disables all styling.
func NewTheme(w io.Writer, profile termenv.Profile) Theme {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	return Theme{
		Label:   r.NewStyle().Foreground(lipgloss.Color("12")),
		Value:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Good:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Missing: r.NewStyle().Faint(true),
	}
}

// PlainTheme renders without escape sequences.
func PlainTheme() Theme {
	return NewTheme(io.Discard, termenv.Ascii)
}

type line struct {
	label string
	value string
	style lipgloss.Style
}

func (t Theme) render(lines []line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(t.Label.Render(l.label + ":"))
		b.WriteByte(' ')
		b.WriteString(l.style.Render(l.value))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatSummary renders the multi-line batch summary.
func FormatSummary(theme Theme, result simulator.BatchResult, elapsed time.Duration) string {
	expected := line{"Expected games to success", "Not enough successes", theme.Missing}
	if result.ExpectedGamesToSuccess != nil {
		expected.value, expected.style = fmt.Sprintf("%.2f", *result.ExpectedGamesToSuccess), theme.Value
	}

	rounds := line{"Average rounds until win", "Not enough wins", theme.Missing}
	if result.AverageRoundsToWin != nil {
		rounds.value, rounds.style = fmt.Sprintf("%.2f", *result.AverageRoundsToWin), theme.Value
	}

	ci := line{"95% confidence interval", "n/a", theme.Missing}
	if interval := result.ConfidenceInterval95; interval != nil {
		ci.value = fmt.Sprintf("[%.4f%%, %.4f%%]", interval.Lower()*100, interval.Upper()*100)
		ci.style = theme.Value
	}

	return theme.render([]line{
		{"Runs", fmt.Sprintf("%d", result.Runs), theme.Value},
		{"First-turn perfect wins", fmt.Sprintf("%d", result.Successes), theme.Good},
		{"Probability", fmt.Sprintf("%.4f%%", result.Probability*100), theme.Good},
		expected,
		rounds,
		ci,
		{"Runtime", fmt.Sprintf("%.2fs", elapsed.Seconds()), theme.Value},
	})
}

// FormatTrial renders the outcome of a single replayed deck.
func FormatTrial(theme Theme, result game.Result, boardSize int) string {
	return theme.render([]line{
		{"First-turn perfect", yesNo(result.FirstTurnPerfect), theme.Good},
		{"Board completed", yesNo(result.BoardCompleted), theme.Value},
		{"Slots filled", fmt.Sprintf("%d/%d", result.SlotsFilled, boardSize), theme.Value},
		{"Draws taken", fmt.Sprintf("%d", result.DrawsTaken), theme.Value},
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
