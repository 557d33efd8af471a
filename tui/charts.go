package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline characters ordered by magnitude
var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// withBg applies a background color to a style when bg is non-empty.
func withBg(s lipgloss.Style, bg lipgloss.Color) lipgloss.Style {
	if bg != "" {
		return s.Background(bg)
	}
	return s
}

// renderHBar renders a single-color horizontal bar.
// Returns: "████░░░░" with value/maxValue proportion filled.
func renderHBar(value, maxValue, width int, fg lipgloss.Color) string {
	if maxValue <= 0 || width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > maxValue {
		value = maxValue
	}

	filled := value * width / maxValue
	empty := width - filled

	var b strings.Builder
	if filled > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(fg).Render(strings.Repeat("█", filled)))
	}
	if empty > 0 {
		b.WriteString(styleBarEmpty.Render(strings.Repeat("░", empty)))
	}
	return b.String()
}

type segment struct {
	value int
	style lipgloss.Style
}

// renderStackedBar renders segments side by side, each proportional to its
// value. The remainder of the integer division goes to the largest segment.
func renderStackedBar(segments []segment, width int, bg lipgloss.Color) string {
	total := 0
	largest := 0
	for i, s := range segments {
		total += s.value
		if s.value > segments[largest].value {
			largest = i
		}
	}
	if total == 0 || width <= 0 {
		return withBg(styleBarEmpty, bg).Render(strings.Repeat("░", max(width, 0)))
	}

	widths := make([]int, len(segments))
	used := 0
	for i, s := range segments {
		widths[i] = s.value * width / total
		used += widths[i]
	}
	widths[largest] += width - used

	var b strings.Builder
	for i, s := range segments {
		if widths[i] > 0 {
			b.WriteString(withBg(s.style, bg).Render(strings.Repeat("█", widths[i])))
		}
	}
	return b.String()
}

// renderSparkline renders a sparkline from values using block chars ▁▂▃▄▅▆▇█.
func renderSparkline(values []int, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}

	var b strings.Builder
	style := lipgloss.NewStyle().Foreground(color)
	dimStyle := lipgloss.NewStyle().Foreground(colorBarEmpty)

	for _, v := range values {
		if maxVal == 0 || v == 0 {
			b.WriteString(dimStyle.Render("▁"))
		} else {
			idx := v * (len(sparkChars) - 1) / maxVal
			b.WriteString(style.Render(string(sparkChars[idx])))
		}
	}
	return b.String()
}
