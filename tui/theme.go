package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI 256 color palette
var (
	colorGreen = lipgloss.Color("71")
	colorAmber = lipgloss.Color("179")
	colorRed   = lipgloss.Color("167")

	// Accent
	colorCyan   = lipgloss.Color("73")
	colorGold   = lipgloss.Color("220")
	colorOrange = lipgloss.Color("208")

	// Text
	colorFg  = lipgloss.Color("253")
	colorDim = lipgloss.Color("242")

	// Selection
	colorSelBg = lipgloss.Color("238")
	colorSelFg = lipgloss.Color("255")

	colorBarEmpty = lipgloss.Color("238") // ░ empty bar segments
	colorTableHdr = lipgloss.Color("245") // table header text
	colorRowAlt   = lipgloss.Color("234") // alternating row bg
)

// Left-border accent: flash bright/off, then fade out
var glowBorderColors = []lipgloss.Color{
	lipgloss.Color("46"),  // on
	lipgloss.Color("236"), // off
	lipgloss.Color("46"),  // on
	lipgloss.Color("236"), // off
	lipgloss.Color("46"),  // on
	lipgloss.Color("34"),  // fade
	lipgloss.Color("28"),  // fade
	lipgloss.Color("23"),  // fade
	lipgloss.Color("236"), // gone
}

// Braille spinner frames
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Unicode icons
const (
	iconUtility   = "○"
	iconVariant   = "◇"
	iconArbitrary = "◆"
	iconImportant = "!"
	iconNew       = "●"
	iconWarn      = "⚠"
	iconChain     = "⟫"
	iconStar      = "★"
)

// Lipgloss styles
var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim       = lipgloss.NewStyle().Foreground(colorDim)
	styleCandidate = lipgloss.NewStyle().Foreground(colorFg).Bold(true)
	styleVariant   = lipgloss.NewStyle().Foreground(colorCyan)
	styleUtility   = lipgloss.NewStyle().Foreground(colorGreen)
	styleArbitrary = lipgloss.NewStyle().Foreground(colorAmber)
	styleImportant = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleNew       = lipgloss.NewStyle().Foreground(colorOrange)
	styleBarEmpty  = lipgloss.NewStyle().Foreground(colorBarEmpty)
	styleTableHdr  = lipgloss.NewStyle().Foreground(colorTableHdr).Bold(true)

	styleKey       = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleActiveTab = lipgloss.NewStyle().Foreground(colorCyan).Bold(true).Underline(true)

	styleToastBox = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(0, 1)
)

func renderSpinner(frame int) string {
	f := spinnerFrames[frame%len(spinnerFrames)]
	return lipgloss.NewStyle().Foreground(colorCyan).Render(f)
}

func kindStyle(info CandidateInfo) (lipgloss.Style, string) {
	switch {
	case info.Important:
		return styleImportant, iconImportant
	case info.Arbitrary:
		return styleArbitrary, iconArbitrary
	case len(info.Variants) > 0:
		return styleVariant, iconVariant
	default:
		return styleUtility, iconUtility
	}
}

func truncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return "…"
	}
	// Truncate rune by rune
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		candidate := string(runes[:i]) + "…"
		if lipgloss.Width(candidate) <= maxWidth {
			return candidate
		}
	}
	return "…"
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
