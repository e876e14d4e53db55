package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/haskel/pricefit/internal/cli/tui"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// summary renders aligned "label value" lines under a header.
type summary struct {
	header string
	rows   [][2]string
}

func (s *summary) add(label, format string, args ...any) {
	s.rows = append(s.rows, [2]string{label, fmt.Sprintf(format, args...)})
}

func (s *summary) render(w io.Writer) {
	width := 0
	for _, r := range s.rows {
		width = max(width, len(r[0]))
	}

	var b strings.Builder
	b.WriteString(tui.HeaderStyle.Render(s.header))
	b.WriteString("\n")
	for _, r := range s.rows {
		b.WriteString("  ")
		b.WriteString(tui.LabelStyle.Render(r[0] + strings.Repeat(" ", width-len(r[0])+2)))
		b.WriteString(tui.ValueStyle.Render(r[1]))
		b.WriteString("\n")
	}
	fmt.Fprint(w, b.String())
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.10g", v)
}
