package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case animTickMsg:
		m.updateAnimState()
		if m.hasActiveAnimations() {
			return m, m.animTick()
		}
		m.animRunning = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case scanDoneMsg:
		m.phase = PhaseIdle
		m.merge(msg.candidates, 0, false)
		m.applyResult(msg.scanResult)
		m.refresh()
		// The scanner is handed to the watcher only after this first scan.
		return m, m.startWatcher()

	case candidatesChangedMsg:
		ev := msg.event
		m.seq++
		added := m.merge(ev.NewCandidates, m.seq, true)
		m.recordEvent(added)
		m.refresh()

		cmds := []tea.Cmd{m.listenForChanges(), m.ensureAnimTick()}
		if added > 0 {
			cmds = append(cmds, m.addToast(fmt.Sprintf("+%d candidates", added), ToastSuccess))
		}
		if ev.Structural && m.phase != PhaseRebuilding {
			m.phase = PhaseRebuilding
			cmds = append(cmds, m.rebuildScanner())
		}
		return m, tea.Batch(cmds...)

	case rebuiltMsg:
		m.phase = PhaseIdle
		m.seq++
		added := m.replace(msg.candidates, m.seq)
		m.applyResult(msg.scanResult)
		m.refresh()

		toastMsg := fmt.Sprintf("Rescanned %d files", msg.files)
		if added > 0 {
			toastMsg += fmt.Sprintf(" (+%d)", added)
		}
		return m, tea.Batch(m.addToast(toastMsg, ToastInfo), m.ensureAnimTick())

	case errMsg:
		m.phase = PhaseIdle
		return m, m.addToast("Error: "+msg.err.Error(), ToastError)

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.ID == msg.id {
				m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
				break
			}
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes the help overlay
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// Filter mode
	if m.filterMode {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.filterMode = false
			m.filterInput.Reset()
			m.filterText = ""
			m.buildRows()
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			m.filterMode = false
			m.filterText = m.filterInput.Value()
			m.buildRows()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.filterText = m.filterInput.Value()
			m.buildRows()
			return m, cmd
		}
	}

	// Normal mode
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	// Navigation
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}

	case key.Matches(msg, m.keys.HalfDown):
		m.cursor += m.visibleRows() / 2
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.HalfUp):
		m.cursor -= m.visibleRows() / 2
		if m.cursor < 0 {
			m.cursor = 0
		}

	// Filter
	case key.Matches(msg, m.keys.Filter):
		m.filterMode = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Escape):
		m.filterText = ""
		m.filterInput.Reset()
		m.buildRows()

	// Actions
	case key.Matches(msg, m.keys.Reload):
		if m.phase == PhaseIdle && m.watchCancel != nil {
			m.phase = PhaseRebuilding
			return m, tea.Batch(m.rebuildScanner(), m.ensureAnimTick())
		}

	case key.Matches(msg, m.keys.Copy):
		c := m.selectedCandidate()
		if c != nil {
			return m, tea.Batch(
				m.copyToClipboard(c.Name),
				m.addToast("Copied "+c.Name, ToastInfo),
			)
		}

	case key.Matches(msg, m.keys.CopyAll):
		if len(m.rows) > 0 {
			names := make([]string, len(m.rows))
			for i, r := range m.rows {
				names[i] = r.Name
			}
			return m, tea.Batch(
				m.copyToClipboard(strings.Join(names, "\n")),
				m.addToast(fmt.Sprintf("Copied %d candidates", len(names)), ToastInfo),
			)
		}

	// Views
	case key.Matches(msg, m.keys.ViewAll):
		m.viewFilter = ViewAll
		m.buildRows()

	case key.Matches(msg, m.keys.ViewVariants):
		m.viewFilter = ViewVariants
		m.buildRows()

	case key.Matches(msg, m.keys.ViewArbitrary):
		m.viewFilter = ViewArbitrary
		m.buildRows()

	case key.Matches(msg, m.keys.ViewNew):
		m.viewFilter = ViewNew
		m.buildRows()

	case key.Matches(msg, m.keys.SortRecent):
		if m.sortMode == SortRecent {
			m.sortMode = SortAlpha
		} else {
			m.sortMode = SortRecent
		}
		m.buildRows()

	case key.Matches(msg, m.keys.Detail):
		m.showDetail = !m.showDetail

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}

	return m, nil
}

func (m *Model) visibleRows() int {
	// header(2) + summary(6) + table header(1) + footer(2) = 11
	avail := m.height - 11
	if avail < 1 {
		avail = 1
	}
	return avail
}
