package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.showHelp {
		sections = append(sections, m.renderHelp())
		return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
			strings.Join(sections, "\n"))
	}

	sections = append(sections, m.renderSummaryPanel())
	sections = append(sections, m.renderTable())
	sections = append(sections, m.renderFooter())

	view := lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
		strings.Join(sections, "\n"))

	// Overlay toasts on the view (bottom-right with padding)
	if len(m.toasts) > 0 {
		toast := m.renderToasts()
		tw := lipgloss.Width(toast)
		th := lipgloss.Height(toast)
		x := m.width - tw - 2
		y := m.height - th - 2
		view = placeOverlay(x, y, toast, view)
	}

	return view
}

func (m *Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Bold(true).Render("sift")

	var spinner string
	switch m.phase {
	case PhaseScanning:
		spinner = "  " + renderSpinner(m.anim.frame) + " Scanning..."
	case PhaseRebuilding:
		spinner = "  " + renderSpinner(m.anim.frame) + " Resolving sources..."
	}

	// Spaced stats: dim label + bold colored number
	s := m.summary
	bold := lipgloss.NewStyle().Bold(true)
	stats := styleDim.Render("candidates ") + bold.Foreground(lipgloss.Color("255")).Render(fmt.Sprintf("%d", s.Total))
	stats += "  " + styleDim.Render("files ") + bold.Foreground(colorCyan).Render(fmt.Sprintf("%d", s.Files))
	if s.Events > 0 {
		stats += "  " + styleDim.Render("events ") + bold.Foreground(colorOrange).Render(fmt.Sprintf("%d", s.Events))
	}

	// Filter display
	left := title + spinner
	if m.filterMode {
		left += "  " + m.filterInput.View()
	} else if m.filterText != "" {
		left += "  " + styleDim.Render("filter: "+m.filterText)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(stats)
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + stats
	sep := styleDim.Render(strings.Repeat("─", m.width))

	return line + "\n" + sep
}

// --- Summary panel ---

type summaryRow struct {
	style lipgloss.Style
	label string
	value int
	color lipgloss.Color
}

func renderSummaryColumn(header string, rows []summaryRow, maxVal, barW int) string {
	col := styleTableHdr.Render(header)
	for _, r := range rows {
		col += "\n" + r.style.Render(r.label) + renderHBar(r.value, maxVal, barW, r.color)
	}
	return col
}

func (m *Model) renderSummaryPanel() string {
	s := m.summary
	barW := 12

	kindMax := max(s.Total, 1)
	kindCol := renderSummaryColumn("KINDS", []summaryRow{
		{styleUtility, fmt.Sprintf(" utility   %4d ", s.Plain), s.Plain, colorGreen},
		{styleVariant, fmt.Sprintf(" variant   %4d ", s.Variants), s.Variants, colorCyan},
		{styleArbitrary, fmt.Sprintf(" arbitrary %4d ", s.Arbitrary), s.Arbitrary, colorAmber},
		{styleImportant, fmt.Sprintf(" important %4d ", s.Important), s.Important, colorRed},
	}, kindMax, barW)

	variantCol := styleTableHdr.Render("VARIANTS")
	if len(s.TopVariants) == 0 {
		variantCol += "\n" + styleDim.Render(" none")
	} else {
		top := s.TopVariants[0].Count
		for i, v := range s.TopVariants {
			if i == 4 {
				break
			}
			label := padRight(" "+truncateWithEllipsis(v.Name, 10), 12)
			variantCol += "\n" + styleVariant.Render(label) +
				styleDim.Render(fmt.Sprintf("%4d ", v.Count)) +
				renderHBar(v.Count, top, barW, colorCyan)
		}
	}

	st := s.Stats
	scanCol := styleTableHdr.Render("LAST SCAN") + "\n" +
		styleDim.Render(fmt.Sprintf(" checked %5d", st.FilesChecked)) + "\n" +
		styleDim.Render(fmt.Sprintf(" read    %5d", st.FilesRead)) + "\n" +
		styleDim.Render(fmt.Sprintf(" globs   %5d", s.Globs)) + "\n" +
		styleDim.Render(" took    "+st.Duration.Round(time.Millisecond).String())

	recent := 0
	for _, n := range s.History {
		recent += n
	}
	actCol := styleTableHdr.Render(fmt.Sprintf("ACTIVITY (%d events)", historyLen)) + "\n"
	actCol += " " + renderSparkline(padHistory(s.History), colorOrange) + "\n"
	actCol += styleDim.Render(fmt.Sprintf(" %d new candidates", recent)) + "\n"
	actCol += " " + renderStackedBar([]segment{
		{s.Mix[0], styleUtility},
		{s.Mix[1], styleVariant},
		{s.Mix[2], styleArbitrary},
	}, historyLen, "")

	gap := "   "
	panel := lipgloss.JoinHorizontal(lipgloss.Top,
		kindCol, gap, variantCol, gap, scanCol, gap, actCol,
	)

	sep := styleDim.Render(strings.Repeat("─", m.width))
	return padLines(panel, m.width, 5) + "\n" + sep
}

// padHistory left-pads the event history with zeros so the sparkline keeps
// a fixed width.
func padHistory(h []int) []int {
	if len(h) >= historyLen {
		return h
	}
	out := make([]int, historyLen-len(h), historyLen)
	return append(out, h...)
}

// --- Table ---

func (m *Model) renderTable() string {
	visRows := m.visibleRows()
	tableHeight := visRows + 1 // +1 for header

	if len(m.rows) == 0 {
		msg := "No candidates found"
		if m.filterText != "" {
			msg = "No candidates match filter"
		}
		content := "\n " + styleDim.Render(msg)
		// Pad to fill table area so footer stays at bottom
		lines := strings.Split(content, "\n")
		for len(lines) < tableHeight {
			lines = append(lines, "")
		}
		return strings.Join(lines, "\n")
	}

	contentWidth := m.width
	detailWidth := 0
	if m.showDetail && m.width >= 100 {
		detailWidth = m.width * 35 / 100
		contentWidth = m.width - detailWidth - 1
	}

	cols := computeColumns(contentWidth)

	hdr := " " +
		styleTableHdr.Render(padRight("CANDIDATE", cols.name)) +
		styleTableHdr.Render(padRight("VARIANTS", cols.variants)) +
		styleTableHdr.Render(padRight("KIND", cols.kind)) +
		styleTableHdr.Render(padRight("SEEN", cols.seen))

	// Keep cursor in view
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visRows {
		m.scrollOffset = m.cursor - visRows + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}

	end := m.scrollOffset + visRows
	if end > len(m.rows) {
		end = len(m.rows)
	}

	var tableLines []string
	tableLines = append(tableLines, hdr)
	for i := m.scrollOffset; i < end; i++ {
		line := m.renderTableRow(m.rows[i], cols, i == m.cursor, i%2 == 1, contentWidth)
		tableLines = append(tableLines, line)
	}

	// Pad table to fill available height so footer stays at bottom
	for len(tableLines) < tableHeight {
		tableLines = append(tableLines, "")
	}

	tableContent := strings.Join(tableLines, "\n")

	if detailWidth > 0 {
		detail := m.renderDetailPanel(detailWidth, tableHeight)
		sepLines := make([]string, tableHeight)
		for i := range sepLines {
			sepLines[i] = styleDim.Render("│")
		}
		sep := strings.Join(sepLines, "\n")
		return lipgloss.JoinHorizontal(lipgloss.Top, tableContent, sep, detail)
	}

	return tableContent
}

type columnWidths struct {
	name     int
	variants int
	kind     int
	seen     int
}

func computeColumns(width int) columnWidths {
	// Allocate proportionally, minimum widths
	usable := width - 2 // leading space + margin
	if usable < 40 {
		usable = 40
	}

	c := columnWidths{
		name:     usable * 45 / 100,
		variants: usable * 30 / 100,
		kind:     usable * 13 / 100,
		seen:     usable * 12 / 100,
	}

	if c.name < 16 {
		c.name = 16
	}
	if c.kind < 10 {
		c.kind = 10
	}
	if c.seen < 8 {
		c.seen = 8
	}

	return c
}

// --- Row rendering ---

// rowRenderer holds per-row styling state shared across cell renderers.
type rowRenderer struct {
	bg      func(lipgloss.Style) lipgloss.Style
	rowBg   lipgloss.Style
	hasGlow bool
	prefix  string // glow border prepended to the row
}

func (m *Model) newRowRenderer(c *Candidate, selected, alt bool) rowRenderer {
	step, hasGlow := m.anim.glowFade[c.Name]

	bg := func(base lipgloss.Style) lipgloss.Style {
		if selected {
			return base.Background(colorSelBg)
		}
		if alt {
			return base.Background(colorRowAlt)
		}
		return base
	}

	var prefix string
	if hasGlow {
		prefix = lipgloss.NewStyle().Foreground(glowBorderColors[step]).Render("▎")
	}

	return rowRenderer{
		bg:      bg,
		rowBg:   bg(lipgloss.NewStyle()),
		hasGlow: hasGlow,
		prefix:  prefix,
	}
}

func (r rowRenderer) nameCell(c *Candidate, width int, selected bool) string {
	style, icon := kindStyle(c.Info)
	dot := r.bg(style).Render(icon)

	nameStyle := r.bg(styleCandidate)
	if selected && !r.hasGlow {
		nameStyle = nameStyle.Foreground(colorSelFg)
	}
	name := truncateWithEllipsis(c.Name, width-3)
	return r.rowBg.Width(width).Render(dot + r.rowBg.Render(" ") + nameStyle.Render(name))
}

func (r rowRenderer) variantsCell(info CandidateInfo, width int) string {
	if len(info.Variants) == 0 {
		return r.bg(styleDim).Width(width).Render("──")
	}
	chain := strings.Join(info.Variants, " "+iconChain+" ")
	return r.bg(styleVariant).Width(width).Render(truncateWithEllipsis(chain, width-1))
}

func (r rowRenderer) kindCell(info CandidateInfo, width int) string {
	style, _ := kindStyle(info)
	return r.bg(style).Width(width).Render(info.Kind())
}

func (r rowRenderer) seenCell(seq, width int) string {
	if seq == 0 {
		return r.bg(styleDim).Width(width).Render("initial")
	}
	return r.bg(styleNew).Width(width).Render(fmt.Sprintf("%s #%d", iconNew, seq))
}

func (m *Model) renderTableRow(c *Candidate, cols columnWidths, selected, alt bool, rowWidth int) string {
	r := m.newRowRenderer(c, selected, alt)

	leading := r.rowBg.Render(" ")
	if r.prefix != "" {
		leading = r.prefix
	}

	line := leading +
		r.nameCell(c, cols.name, selected) +
		r.variantsCell(c.Info, cols.variants) +
		r.kindCell(c.Info, cols.kind) +
		r.seenCell(c.Seq, cols.seen)

	return r.rowBg.Width(rowWidth).Render(line)
}

// --- Detail panel ---

func (m *Model) renderDetailPanel(width, height int) string {
	c := m.selectedCandidate()
	if c == nil {
		return padLines(styleDim.Render(" No selection"), width, height)
	}

	var lines []string
	innerW := width - 2
	info := c.Info

	lines = append(lines, styleCandidate.Render(" "+truncateWithEllipsis(c.Name, innerW)))
	style, icon := kindStyle(info)
	lines = append(lines, style.Render(" "+icon+" "+info.Kind()))
	lines = append(lines, "")

	lines = append(lines, styleTableHdr.Render(" UTILITY"))
	lines = append(lines, styleUtility.Render("  "+truncateWithEllipsis(info.Utility, innerW-2)))
	lines = append(lines, "")

	if len(info.Variants) > 0 {
		lines = append(lines, styleTableHdr.Render(" VARIANT CHAIN"))
		for i, v := range info.Variants {
			indent := strings.Repeat(" ", i)
			lines = append(lines, styleVariant.Render("  "+indent+iconChain+" "+truncateWithEllipsis(v, innerW-4-i)))
		}
		lines = append(lines, "")
	}

	var flags []string
	if info.Important {
		flags = append(flags, styleImportant.Render(iconImportant+" important"))
	}
	if info.Negative {
		flags = append(flags, styleArbitrary.Render("- negative"))
	}
	if info.Arbitrary {
		flags = append(flags, styleArbitrary.Render(iconArbitrary+" arbitrary value"))
	}
	if len(flags) > 0 {
		lines = append(lines, styleTableHdr.Render(" FLAGS"))
		for _, f := range flags {
			lines = append(lines, "  "+f)
		}
		lines = append(lines, "")
	}

	lines = append(lines, styleTableHdr.Render(" SEEN"))
	if c.Seq == 0 {
		lines = append(lines, styleDim.Render("  initial scan"))
	} else {
		lines = append(lines, styleNew.Render(fmt.Sprintf("  event #%d", c.Seq)))
	}

	return padLines(strings.Join(lines, "\n"), width, height)
}

// --- Footer, toasts, help ---

func (m *Model) renderFooter() string {
	sep := styleDim.Render(strings.Repeat("─", m.width))

	type viewTab struct {
		key    string
		label  string
		filter ViewFilter
	}
	tabs := []viewTab{
		{"1", "all", ViewAll},
		{"2", "variants", ViewVariants},
		{"3", "arbitrary", ViewArbitrary},
		{"4", "new", ViewNew},
	}

	var parts []string
	parts = append(parts, styleKey.Render("/")+" search")
	parts = append(parts, styleKey.Render("y")+" copy")
	parts = append(parts, styleKey.Render("r")+" resolve")

	for _, t := range tabs {
		if m.viewFilter == t.filter {
			parts = append(parts, styleActiveTab.Render(t.key+" "+t.label))
		} else {
			parts = append(parts, styleKey.Render(t.key)+" "+t.label)
		}
	}

	if m.sortMode == SortRecent {
		parts = append(parts, styleActiveTab.Render("5 recent"))
	} else {
		parts = append(parts, styleKey.Render("5")+" recent")
	}

	if m.showDetail {
		parts = append(parts, styleActiveTab.Render("d detail"))
	} else {
		parts = append(parts, styleKey.Render("d")+" detail")
	}

	parts = append(parts, styleKey.Render("?")+" help")
	parts = append(parts, styleKey.Render("q")+" quit")

	return sep + "\n " + truncateWithEllipsis(strings.Join(parts, "  "), m.width-2)
}

func (m *Model) renderToasts() string {
	var toastStrs []string
	for _, t := range m.toasts {
		var bc lipgloss.Color
		var icon string
		switch t.Level {
		case ToastSuccess:
			bc = colorGold
			icon = iconStar + " "
		case ToastError:
			bc = colorRed
			icon = iconWarn + " "
		default:
			bc = colorCyan
			icon = ""
		}
		box := styleToastBox.BorderForeground(bc).Render(icon + t.Message)
		toastStrs = append(toastStrs, box)
	}
	return strings.Join(toastStrs, "\n")
}

func (m *Model) renderHelp() string {
	content := m.keys.helpText()

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorCyan).
		Padding(1, 2).
		Width(50).
		Render(styleTitle.Render("HELP") + "\n\n" + content + "\n\n" + styleDim.Render("press any key to close"))

	availH := m.height - 4
	if availH < 10 {
		availH = 10
	}
	return lipgloss.Place(m.width, availH, lipgloss.Center, lipgloss.Center, box)
}

// --- Layout utilities ---

// placeOverlay writes fg on top of bg at the given column (x) and row (y).
// It handles ANSI-styled strings correctly using ansi.Cut.
func placeOverlay(x, y int, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	if x < 0 {
		x = 0
	}
	for i, fgLine := range fgLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLine := bgLines[bgIdx]
		fgW := ansi.StringWidth(fgLine)
		bgW := ansi.StringWidth(bgLine)

		if x >= bgW {
			// Overlay starts beyond the background line; just append
			bgLines[bgIdx] = bgLine + strings.Repeat(" ", x-bgW) + fgLine
			continue
		}

		left := ansi.Cut(bgLine, 0, x)
		var right string
		if x+fgW < bgW {
			right = ansi.Cut(bgLine, x+fgW, bgW)
		}
		bgLines[bgIdx] = left + fgLine + right
	}
	return strings.Join(bgLines, "\n")
}

func padLines(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		w := lipgloss.Width(line)
		if w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(lines, "\n")
}
