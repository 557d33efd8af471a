// internal/scanner/resolve.go
package scanner

import (
	"log/slog"
	"time"

	"github.com/jackchuka/sift/internal/glob"
	"github.com/jackchuka/sift/internal/model"
	"github.com/jackchuka/sift/internal/sources"
)

// prepare resolves sources to files and globs on first use. The result is
// frozen for the lifetime of the scanner.
func (s *Scanner) prepare() {
	if s.ready {
		return
	}
	s.ready = true

	start := time.Now()
	s.resolveSources()
	s.trace("sources resolved",
		slog.Int("sources", len(s.sources)),
		slog.Int("files", len(s.files)),
		slog.Int("globs", len(s.globs)),
		slog.Duration("took", time.Since(start)),
	)
}

func (s *Scanner) resolveSources() {
	if len(s.sources) == 0 {
		return
	}

	seen := make(map[string]struct{})
	addFiles := func(files []string) {
		for _, f := range files {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			s.files = append(s.files, f)
		}
	}

	auto, explicit := glob.Partition(glob.Expand(s.sources))

	var globs []model.GlobEntry
	for _, e := range auto {
		root := glob.AutoDetectRoot(e)
		files, detected := sources.NewDetector(root, s.walkOptions(true)).Detect()
		s.trace("auto detected", slog.String("root", root), slog.Int("files", len(files)))
		addFiles(files)
		globs = append(globs, detected...)
	}

	walker := sources.NewWalker(s.walkOptions(false))
	for _, e := range glob.Hoist(explicit) {
		m, err := glob.Compile(e)
		if err != nil {
			s.log.Warn("dropping source", slog.String("source", e.String()), slog.Any("error", err))
			continue
		}

		var matched []string
		for _, f := range walker.Walk(e.Base) {
			if m.Match(f) {
				matched = append(matched, f)
			}
		}
		s.trace("explicit glob", slog.String("pattern", m.Pattern()), slog.Int("files", len(matched)))
		addFiles(matched)
		globs = append(globs, e)
	}

	s.globs = glob.Optimize(globs)
}

func (s *Scanner) walkOptions(detect bool) sources.WalkOptions {
	opts := sources.WalkOptions{
		IgnoredDirs: s.opts.ignoredDirs,
		Logger:      s.opts.logger,
	}
	if detect {
		opts.IgnoredExtensions = s.opts.ignoredExtensions
	}
	return opts
}
