package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Prompt is the question asked for the mileage.
const Prompt = "Please input mileage:"

// View renders the TUI
func (m Model) View() string {
	var lines []string

	lines = append(lines, titleStyle.Render("PRICEFIT"))
	if m.config.Source != "" {
		lines = append(lines, helpStyle.Render("model: "+m.config.Source))
	}

	lines = append(lines, labelStyle.Render(Prompt)+" "+inputStyle.Render(string(m.input))+m.cursor())

	switch {
	case m.pending:
		lines = append(lines, helpStyle.Render("estimating..."))
	case m.result != nil:
		lines = append(lines, RenderEstimate(*m.result))
	case m.err != nil:
		lines = append(lines, errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.result == nil && !m.canceled {
		lines = append(lines, helpStyle.Render("enter: estimate • esc: quit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (m Model) cursor() string {
	if m.pending || m.result != nil || m.canceled {
		return ""
	}
	return cursorStyle.Render("█")
}

// RenderEstimate formats an estimate the same way for the prompt and the
// non-interactive command.
func RenderEstimate(e Estimate) string {
	rows := [][2]string{
		{"mileage", formatNumber(e.Mileage) + " km"},
		{"theta0", formatNumber(e.Theta0)},
		{"theta1", formatNumber(e.Theta1)},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-9s", r[0])))
		b.WriteString(valueStyle.Render(r[1]))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-9s", "price")))
	b.WriteString(priceStyle.Render(formatNumber(e.Price)))

	return b.String()
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%.10g", v)
}
