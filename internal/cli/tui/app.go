package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the prompt until the user submits a mileage or leaves, and
// returns the estimate.
func Run(cfg Config, in io.Reader, out io.Writer) (Estimate, error) {
	p := tea.NewProgram(
		NewModel(cfg),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		return Estimate{}, fmt.Errorf("error running TUI: %w", err)
	}

	return final.(Model).Result()
}
