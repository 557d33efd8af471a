// cmd/root.go
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackchuka/sift/internal/config"
	"github.com/jackchuka/sift/internal/model"
	"github.com/jackchuka/sift/internal/scanner"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "sift - extract utility-class candidates from source files",
	Long: `
   ╔═╗╦╔═╗╔╦╗
   ╚═╗║╠╣  ║
   ╚═╝╩╚   ╩   sift

  Scans the files selected by the configured sources and prints
  every token that could be a utility class. Sources are
  base:pattern globs; a bare directory is auto-detected.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runScan,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./sift.yaml, then $XDG_CONFIG_HOME/sift/config.yaml)")
	rootCmd.PersistentFlags().StringSliceP("source", "s", nil, "base:pattern sources to scan (overrides config file)")
	rootCmd.PersistentFlags().Int("workers", 0, "extraction workers (0 uses every CPU)")
	rootCmd.Flags().Bool("stats", false, "print a scan summary to stderr")
}

func initConfig() {
	cfgFile = config.ResolvePath(cfgFile)

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Override sources if provided via flags
	if raw, _ := rootCmd.PersistentFlags().GetStringSlice("source"); len(raw) > 0 {
		cfg.Sources = cfg.Sources[:0]
		for _, s := range raw {
			cfg.Sources = append(cfg.Sources, parseSource(s))
		}
	}
	if f := rootCmd.PersistentFlags().Lookup("workers"); f != nil && f.Changed {
		cfg.Workers, _ = rootCmd.PersistentFlags().GetInt("workers")
	}

	logger = newLogger(config.Debug())
}

// parseSource reads a --source value. An existing directory without a
// pattern is scanned with auto detection.
func parseSource(s string) model.GlobEntry {
	s = config.ExpandHome(s)
	if !strings.Contains(s, ":") {
		if info, err := os.Stat(s); err == nil && info.IsDir() {
			return model.GlobEntry{Base: s, Pattern: "**/*"}
		}
	}
	e := model.ParseGlobEntry(s)
	e.Base = config.ExpandHome(e.Base)
	return e
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newScanner builds a scanner from the loaded config. Each call returns a
// fresh instance with its own frozen file resolution.
func newScanner(c *config.Config) (*scanner.Scanner, error) {
	return scanner.New(c.Sources,
		scanner.WithLogger(logger),
		scanner.WithWorkers(c.Workers),
		scanner.WithIgnoredDirs(c.IgnoredDirs...),
		scanner.WithIgnoredExtensions(c.IgnoredExtensions...),
		scanner.WithTrace(config.Debug()),
		scanner.WithPositionCacheSize(c.PositionCacheSize),
	)
}
