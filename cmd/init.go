package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jackchuka/sift/internal/config"
	"github.com/jackchuka/sift/internal/glob"
	"github.com/jackchuka/sift/internal/model"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up sift sources interactively",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().Bool("local", false, "write "+config.LocalConfigName+" in the current directory")
	rootCmd.AddCommand(initCmd)
}

type initStep int

const (
	stepWelcome   initStep = iota
	stepOverwrite          // only if config exists
	stepSources
	stepConfirm
	stepDone
)

var (
	styleInitTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("73"))
	styleInitSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("71"))
	styleInitWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	styleInitDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

type initModel struct {
	step         initStep
	input        textinput.Model
	sources      []model.GlobEntry
	warnings     map[int]string // index → warning message
	configPath   string
	configExists bool
	err          error
	cancelled    bool
	needOne      bool
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cfgFile
	if local, _ := cmd.Flags().GetBool("local"); local {
		configPath = config.LocalConfigName
	}

	_, err := os.Stat(configPath)
	configExists := err == nil

	m := newInitModel(configPath, configExists)

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return err
	}

	if final, ok := result.(*initModel); ok && final.err != nil {
		return final.err
	}

	return nil
}

func newInitModel(configPath string, configExists bool) *initModel {
	ti := textinput.New()
	ti.Placeholder = "src:**/*.{html,tsx}"
	ti.CharLimit = 256
	ti.Width = 50

	return &initModel{
		step:         stepWelcome,
		input:        ti,
		warnings:     make(map[int]string),
		configPath:   configPath,
		configExists: configExists,
	}
}

func (m *initModel) Init() tea.Cmd {
	return nil
}

func (m *initModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()

		// Global quit
		if key == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}

		switch m.step {
		case stepWelcome:
			if key == "enter" {
				if m.configExists {
					m.step = stepOverwrite
				} else {
					m.step = stepSources
					m.input.Focus()
					return m, textinput.Blink
				}
			}
			if key == "q" || key == "esc" {
				m.cancelled = true
				return m, tea.Quit
			}

		case stepOverwrite:
			if key == "y" || key == "Y" {
				m.step = stepSources
				m.input.Focus()
				return m, textinput.Blink
			}
			m.cancelled = true
			return m, tea.Quit

		case stepSources:
			if key == "enter" {
				val := strings.TrimSpace(m.input.Value())
				if val != "" {
					m.addSource(val)
					m.input.Reset()
					m.needOne = false
				} else if len(m.sources) > 0 {
					m.step = stepConfirm
				} else {
					m.needOne = true
				}
				return m, nil
			}
			if key == "esc" {
				m.cancelled = true
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd

		case stepConfirm:
			if key == "enter" {
				cfg := config.NewConfig()
				cfg.Sources = m.sources
				if err := config.Save(cfg, m.configPath); err != nil {
					m.err = err
				}
				m.step = stepDone
				return m, tea.Quit
			}
			if key == "esc" {
				m.step = stepSources
				m.input.Focus()
				return m, textinput.Blink
			}

		case stepDone:
			return m, tea.Quit
		}
	}

	return m, nil
}

// addSource records val unless it is already listed, with a warning when
// its base is missing or its pattern does not compile.
func (m *initModel) addSource(val string) {
	e := parseSource(val)
	if isDuplicate(m.sources, e) {
		return
	}
	m.sources = append(m.sources, e)
	if w := checkSource(e); w != "" {
		m.warnings[len(m.sources)-1] = "  " + w
	}
}

func (m *initModel) View() string {
	var b strings.Builder

	switch m.step {
	case stepWelcome:
		fmt.Fprintf(&b, "%s\n\n", styleInitTitle.Render("Welcome to sift!"))
		fmt.Fprintf(&b, "Config will be saved to %s\n\n", styleInitDim.Render(m.configPath))
		fmt.Fprintln(&b, styleInitDim.Render("Press Enter to continue, Esc to cancel"))

	case stepOverwrite:
		fmt.Fprintf(&b, "%s at %s\n\n", styleInitWarn.Render("Config already exists"), styleInitDim.Render(m.configPath))
		fmt.Fprintf(&b, "Overwrite? %s\n", styleInitDim.Render("[y/N]"))

	case stepSources:
		m.viewSources(&b)

	case stepConfirm:
		fmt.Fprintf(&b, "%s with %d source(s):\n\n", styleInitTitle.Render("Ready to write config"), len(m.sources))
		for _, s := range m.sources {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
		fmt.Fprintf(&b, "\n%s\n", styleInitDim.Render("[Enter] Write config  [Esc] Go back"))

	case stepDone:
		if m.err != nil {
			fmt.Fprintln(&b, styleInitWarn.Render("Error: "+m.err.Error()))
			break
		}
		fmt.Fprintf(&b, "%s\n\n", styleInitSuccess.Render("Config saved to "+m.configPath))
		fmt.Fprintf(&b, "Run %s to list candidates, or %s to follow changes!\n",
			styleInitTitle.Render("sift"), styleInitTitle.Render("sift watch"))
	}

	return b.String()
}

func (m *initModel) viewSources(b *strings.Builder) {
	fmt.Fprintf(b, "%s\n\n", styleInitTitle.Render("Sources"))
	for i, s := range m.sources {
		fmt.Fprintln(b, styleInitSuccess.Render("  + "+s.String()))
		if w, ok := m.warnings[i]; ok {
			fmt.Fprintln(b, styleInitWarn.Render(w))
		}
	}
	if len(m.sources) > 0 {
		fmt.Fprintln(b)
		fmt.Fprintln(b, "Enter another source (or press Enter to finish):")
	} else {
		fmt.Fprintln(b, "Enter a directory or base:pattern glob to scan:")
	}
	fmt.Fprintln(b, m.input.View())
	if m.needOne {
		fmt.Fprintln(b, styleInitWarn.Render("  Add at least one source"))
	}
}

// checkSource returns a warning for a source that would match nothing.
func checkSource(e model.GlobEntry) string {
	if _, err := os.Stat(e.Base); err != nil {
		return fmt.Sprintf("%s does not exist yet", e.Base)
	}
	if _, err := glob.Compile(e); err != nil {
		return fmt.Sprintf("invalid pattern: %v", err)
	}
	return ""
}

func isDuplicate(sources []model.GlobEntry, candidate model.GlobEntry) bool {
	return slices.Contains(sources, candidate)
}
