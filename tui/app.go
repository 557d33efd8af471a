package tui

import (
	"context"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jackchuka/sift/internal/config"
	"github.com/jackchuka/sift/internal/scanner"
	"github.com/jackchuka/sift/internal/watcher"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScanning
	PhaseRebuilding
)

type ViewFilter int

const (
	ViewAll ViewFilter = iota
	ViewVariants
	ViewArbitrary
	ViewNew
)

type SortMode int

const (
	SortAlpha SortMode = iota
	SortRecent
)

type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

type Toast struct {
	ID        int
	Message   string
	Level     ToastLevel
	CreatedAt time.Time
}

// Candidate is one row of the dashboard.
type Candidate struct {
	Name string
	Info CandidateInfo
	// Seq is the event that first reported the candidate; zero for the
	// initial scan.
	Seq int
}

type AnimState struct {
	frame    int
	glowFade map[string]int
}

func newAnimState() AnimState {
	return AnimState{
		glowFade: make(map[string]int),
	}
}

// historyLen is the number of events kept for the activity sparkline.
const historyLen = 24

type SummaryData struct {
	Total     int
	Plain     int
	Variants  int
	Arbitrary int
	Important int
	// Mix splits the total into utility, variant and arbitrary candidates
	// without overlap.
	Mix [3]int

	Files int
	Globs int
	Stats scanner.Stats

	Events      int
	History     []int
	TopVariants []VariantCount
}

// Rebuild returns a fresh scanner that resolves the sources again.
type Rebuild func(*config.Config) (*scanner.Scanner, error)

type Model struct {
	cfg        *config.Config
	candidates []Candidate
	index      map[string]int
	rows       []*Candidate
	cursor     int

	width, height int
	scrollOffset  int

	phase       Phase
	filterMode  bool
	filterInput textinput.Model
	filterText  string
	viewFilter  ViewFilter
	sortMode    SortMode
	showHelp    bool
	showDetail  bool

	summary SummaryData
	anim    AnimState
	toasts  []Toast

	// scanner belongs to the watcher once watching starts; the model only
	// touches it before that.
	scanner     *scanner.Scanner
	watcher     watcher.Watcher
	rebuild     Rebuild
	watchCancel context.CancelFunc
	seq         int

	keys        keyMap
	nextToastID int
	animRunning bool
}

func NewModel(cfg *config.Config, s *scanner.Scanner, w watcher.Watcher, rebuild Rebuild) *Model {
	ti := textinput.New()
	ti.Placeholder = "filter candidates..."
	ti.CharLimit = 50

	return &Model{
		cfg:         cfg,
		keys:        newKeyMap(),
		scanner:     s,
		watcher:     w,
		rebuild:     rebuild,
		index:       make(map[string]int),
		filterInput: ti,
		viewFilter:  ViewAll,
		sortMode:    SortAlpha,
		showDetail:  true,
		anim:        newAnimState(),
	}
}

func (m *Model) Init() tea.Cmd {
	m.phase = PhaseScanning
	// Send an immediate animTickMsg (no timer) so the first tick doesn't
	// depend on tea.Tick's timer surviving the Init→BatchMsg dispatch path.
	// Subsequent ticks use tea.Tick normally via the animTickMsg handler.
	m.animRunning = true
	return tea.Batch(
		m.loadCandidates(),
		func() tea.Msg { return animTickMsg{} },
	)
}

// scanResult is a snapshot of a scanner taken on the goroutine that owns it.
type scanResult struct {
	candidates []string
	files      int
	globs      int
	stats      scanner.Stats
}

type scanDoneMsg struct{ scanResult }
type rebuiltMsg struct{ scanResult }
type candidatesChangedMsg struct{ event watcher.Event }
type errMsg struct{ err error }
type animTickMsg struct{}
type toastExpiredMsg struct{ id int }

func snapshot(s *scanner.Scanner) scanResult {
	all := s.Scan()
	return scanResult{
		candidates: all,
		files:      len(s.Files()),
		globs:      len(s.Globs()),
		stats:      s.Stats(),
	}
}

// merge adds candidates that are not shown yet and returns how many were new.
func (m *Model) merge(names []string, seq int, glow bool) int {
	added := 0
	for _, name := range names {
		if _, ok := m.index[name]; ok {
			continue
		}
		m.index[name] = len(m.candidates)
		m.candidates = append(m.candidates, Candidate{Name: name, Info: Classify(name), Seq: seq})
		if glow {
			m.anim.glowFade[name] = 0
		}
		added++
	}
	return added
}

// replace swaps the whole candidate set after a rebuild. Names already
// shown keep their sequence number.
func (m *Model) replace(names []string, seq int) int {
	prev, old := m.index, m.candidates

	m.candidates = make([]Candidate, 0, len(names))
	m.index = make(map[string]int, len(names))
	added := 0
	for _, name := range names {
		c := Candidate{Name: name, Info: Classify(name), Seq: seq}
		if i, ok := prev[name]; ok {
			c.Seq = old[i].Seq
		} else {
			m.anim.glowFade[name] = 0
			added++
		}
		m.index[name] = len(m.candidates)
		m.candidates = append(m.candidates, c)
	}
	return added
}

func (m *Model) recordEvent(added int) {
	m.summary.Events++
	m.summary.History = append(m.summary.History, added)
	if len(m.summary.History) > historyLen {
		m.summary.History = m.summary.History[len(m.summary.History)-historyLen:]
	}
}

func (m *Model) applyResult(r scanResult) {
	m.summary.Files = r.files
	m.summary.Globs = r.globs
	m.summary.Stats = r.stats
}

func (m *Model) buildRows() {
	rows := make([]*Candidate, 0, len(m.candidates))
	for i := range m.candidates {
		c := &m.candidates[i]
		if !matchesView(c, m.viewFilter) {
			continue
		}
		if m.filterText != "" && !containsIgnoreCase(c.Name, m.filterText) {
			continue
		}
		rows = append(rows, c)
	}

	switch m.sortMode {
	case SortRecent:
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Seq != rows[j].Seq {
				return rows[i].Seq > rows[j].Seq
			}
			return rows[i].Name < rows[j].Name
		})
	default:
		sort.Slice(rows, func(i, j int) bool {
			return rows[i].Name < rows[j].Name
		})
	}

	m.rows = rows

	// Clamp cursor
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) refresh() {
	m.computeSummary()
	m.buildRows()
}

func (m *Model) computeSummary() {
	s := &m.summary
	s.Total = len(m.candidates)
	s.Plain, s.Variants, s.Arbitrary, s.Important = 0, 0, 0, 0
	s.Mix = [3]int{}

	for _, c := range m.candidates {
		if len(c.Info.Variants) > 0 {
			s.Variants++
		} else {
			s.Plain++
		}
		if c.Info.Arbitrary {
			s.Arbitrary++
		}
		if c.Info.Important {
			s.Important++
		}
		switch {
		case c.Info.Arbitrary:
			s.Mix[2]++
		case len(c.Info.Variants) > 0:
			s.Mix[1]++
		default:
			s.Mix[0]++
		}
	}

	s.TopVariants = topVariants(m.candidates, 5)
}

func (m *Model) selectedCandidate() *Candidate {
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

func (m *Model) addToast(msg string, level ToastLevel) tea.Cmd {
	id := m.nextToastID
	m.nextToastID++
	t := Toast{
		ID:        id,
		Message:   msg,
		Level:     level,
		CreatedAt: time.Now(),
	}
	m.toasts = append(m.toasts, t)
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return toastExpiredMsg{id}
	})
}

func (m *Model) updateAnimState() {
	m.anim.frame++

	// Step the border flash every 3 frames (300ms) for snappy blink
	if m.anim.frame%3 == 0 {
		for name, step := range m.anim.glowFade {
			if step >= len(glowBorderColors)-1 {
				delete(m.anim.glowFade, name)
			} else {
				m.anim.glowFade[name] = step + 1
			}
		}
	}
}

func (m *Model) animTick() tea.Cmd {
	m.animRunning = true
	return tea.Tick(100*time.Millisecond, func(_ time.Time) tea.Msg {
		return animTickMsg{}
	})
}

func (m *Model) hasActiveAnimations() bool {
	return len(m.anim.glowFade) > 0 || m.phase != PhaseIdle
}

func (m *Model) ensureAnimTick() tea.Cmd {
	if m.animRunning {
		return nil
	}
	return m.animTick()
}

func (m *Model) loadCandidates() tea.Cmd {
	s := m.scanner
	return func() tea.Msg {
		return scanDoneMsg{snapshot(s)}
	}
}

// rebuildScanner resolves the sources again and hands the new scanner to
// the watcher. The snapshot is taken before the swap.
func (m *Model) rebuildScanner() tea.Cmd {
	cfg, rebuild, w := m.cfg, m.rebuild, m.watcher
	return func() tea.Msg {
		if rebuild == nil {
			return nil
		}
		next, err := rebuild(cfg)
		if err != nil {
			return errMsg{err}
		}
		res := snapshot(next)
		if w != nil {
			w.Swap(next)
		}
		return rebuiltMsg{res}
	}
}

func (m *Model) startWatcher() tea.Cmd {
	if m.watcher == nil || m.watchCancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.watchCancel = cancel
	go m.watcher.Run(ctx)
	return m.listenForChanges()
}

func (m *Model) listenForChanges() tea.Cmd {
	return func() tea.Msg {
		if m.watcher == nil {
			return nil
		}
		event, ok := <-m.watcher.Events()
		if !ok {
			return nil
		}
		return candidatesChangedMsg{event}
	}
}

func (m *Model) copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("pbcopy")
		case "windows":
			cmd = exec.Command("clip")
		default:
			// Try xclip first, fall back to xsel
			if _, err := exec.LookPath("xclip"); err == nil {
				cmd = exec.Command("xclip", "-selection", "clipboard")
			} else {
				cmd = exec.Command("xsel", "--clipboard", "--input")
			}
		}
		cmd.Stdin = strings.NewReader(text)
		_ = cmd.Run()
		return nil
	}
}

func matchesView(c *Candidate, filter ViewFilter) bool {
	switch filter {
	case ViewVariants:
		return len(c.Info.Variants) > 0
	case ViewArbitrary:
		return c.Info.Arbitrary
	case ViewNew:
		return c.Seq > 0
	default:
		return true
	}
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Run shows the dashboard until the user quits. The watcher starts once the
// initial scan is on screen and is closed on return.
func Run(cfg *config.Config, s *scanner.Scanner, w watcher.Watcher, rebuild Rebuild) error {
	m := NewModel(cfg, s, w, rebuild)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()

	// Cleanup
	if m.watchCancel != nil {
		m.watchCancel()
	}
	if m.watcher != nil {
		_ = m.watcher.Close()
	}

	return err
}
