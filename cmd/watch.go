// cmd/watch.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jackchuka/sift/internal/config"
	"github.com/jackchuka/sift/internal/scanner"
	"github.com/jackchuka/sift/internal/watcher"
	"github.com/jackchuka/sift/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep scanning and report candidates as files change",
	Long: `Runs an initial scan, then watches the resolved files.

On a terminal this opens a dashboard. Otherwise every newly seen
candidate is written to stdout, one per line, as it appears.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newScanner(cfg)
		if err != nil {
			return err
		}
		w, err := newWatcher(cfg, s)
		if err != nil {
			return err
		}
		defer w.Close()

		plain, _ := cmd.Flags().GetBool("plain")
		if !plain && isatty.IsTerminal(os.Stdout.Fd()) {
			return tui.Run(cfg, s, w, newScanner)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return stream(ctx, cmd.OutOrStdout(), s, w, func() (*scanner.Scanner, error) {
			return newScanner(cfg)
		})
	},
}

func init() {
	watchCmd.Flags().Bool("plain", false, "stream candidates even when stdout is a terminal")
	rootCmd.AddCommand(watchCmd)
}

// newWatcher picks the fsnotify watcher when auto refresh is on and falls
// back to interval polling otherwise.
func newWatcher(c *config.Config, s *scanner.Scanner) (watcher.Watcher, error) {
	if !c.AutoRefresh {
		return watcher.NewPoller(s, c.PollInterval), nil
	}
	n, err := watcher.NewNotifier(s, 0, logger)
	if err != nil {
		logger.Warn("file notifications unavailable, polling instead", slog.Any("error", err))
		return watcher.NewPoller(s, c.PollInterval), nil
	}
	return n, nil
}

// stream prints the current candidates, then every candidate not printed
// before as events arrive. Structural events swap in a fresh scanner.
func stream(ctx context.Context, out io.Writer, s *scanner.Scanner, w watcher.Watcher, rebuild func() (*scanner.Scanner, error)) error {
	seen := make(map[string]struct{})
	emit := func(candidates []string) error {
		var fresh []string
		for _, c := range candidates {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			fresh = append(fresh, c)
		}
		return writeLines(out, fresh)
	}

	if err := emit(s.Scan()); err != nil {
		return err
	}

	go w.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if err := emit(ev.NewCandidates); err != nil {
				return err
			}
			if !ev.Structural {
				continue
			}

			next, err := rebuild()
			if err != nil {
				return fmt.Errorf("rebuilding scanner: %w", err)
			}
			// Scan before handing the scanner to the watcher goroutine.
			all := next.Scan()
			w.Swap(next)
			if err := emit(all); err != nil {
				return err
			}
		}
	}
}
