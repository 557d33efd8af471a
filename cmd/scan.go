// cmd/scan.go
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jackchuka/sift/internal/model"
	"github.com/jackchuka/sift/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Print every candidate found in the configured sources",
	Args:  cobra.NoArgs,
	RunE:  runScan,
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Print the files the sources resolve to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newScanner(cfg)
		if err != nil {
			return err
		}
		return writeLines(cmd.OutOrStdout(), s.Files())
	},
}

var globsCmd = &cobra.Command{
	Use:   "globs",
	Short: "Print the optimized globs as base<TAB>pattern",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newScanner(cfg)
		if err != nil {
			return err
		}
		var lines []string
		for _, g := range s.Globs() {
			lines = append(lines, g.Base+"\t"+g.Pattern)
		}
		return writeLines(cmd.OutOrStdout(), lines)
	},
}

var positionsCmd = &cobra.Command{
	Use:   "positions <file>",
	Short: "Print candidates of one file with their byte offsets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		s, err := newScanner(cfg)
		if err != nil {
			return err
		}
		var lines []string
		for _, p := range s.CandidatesWithPositions(model.FileContent(path)) {
			lines = append(lines, fmt.Sprintf("%d\t%s", p.Offset, p.Candidate))
		}
		return writeLines(cmd.OutOrStdout(), lines)
	},
}

func init() {
	scanCmd.Flags().Bool("stats", false, "print a scan summary to stderr")
	rootCmd.AddCommand(scanCmd, filesCmd, globsCmd, positionsCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	s, err := newScanner(cfg)
	if err != nil {
		return err
	}

	candidates := s.Scan()
	if err := writeLines(cmd.OutOrStdout(), candidates); err != nil {
		return err
	}

	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		fmt.Fprintln(cmd.ErrOrStderr(), renderStats(s.Stats(), len(s.Globs())))
	}
	return nil
}

func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

var (
	statLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	statValue = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	statTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Bold(true)
)

func renderStats(st scanner.Stats, globs int) string {
	row := func(label string, value any) string {
		return statLabel.Render(fmt.Sprintf("  %-11s", label)) + statValue.Render(fmt.Sprint(value))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		statTitle.Render("sift"),
		row("files", st.FilesChecked),
		row("read", st.FilesRead),
		row("globs", globs),
		row("candidates", st.Total),
		row("duration", st.Duration.Round(time.Microsecond)),
	)
}
