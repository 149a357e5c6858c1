// Package theme holds the lipgloss styles of the command-line output.
package theme

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Color palette. Bright but calm on both light and dark terminals.
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#EAB308") // Amber
	Error     = lipgloss.Color("#F43F5E") // Rose
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Bullet = lipgloss.NewStyle().
		Foreground(Accent)
)

// States
var (
	OK = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Warn = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	Fail = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Card frames a block of output.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// Grade renders a homework grade in its traffic-light color.
func Grade(g string) string {
	switch g {
	case "Excellent", "Good":
		return OK.Render(g)
	case "Needs Improvement":
		return Warn.Render(g)
	default:
		return Fail.Render(g)
	}
}

// Supervision renders a supervision level; stricter levels are louder.
func Supervision(level string) string {
	switch level {
	case "independent":
		return OK.Render(level)
	case "guided":
		return Warn.Render(level)
	default:
		return Fail.Render(level)
	}
}

// Check renders a success or failure mark.
func Check(ok bool) string {
	if ok {
		return OK.Render("✓")
	}
	return Fail.Render("✗")
}

// Rule is a horizontal separator of width n.
func Rule(n int) string {
	return Label.Render(strings.Repeat("─", n))
}

// List renders items as a bulleted block, one per line.
func List(items []string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString("  ")
		b.WriteString(Bullet.Render("•"))
		b.WriteString(" ")
		b.WriteString(it)
		b.WriteString("\n")
	}
	return b.String()
}
