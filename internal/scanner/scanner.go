// Package scanner resolves glob sources to files once and keeps the set of
// utility-class candidates found in them up to date across scans.
package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jackchuka/sift/internal/extractor"
	"github.com/jackchuka/sift/internal/model"
)

// Scanner is not safe for concurrent use.
type Scanner struct {
	sources []model.GlobEntry
	opts    options
	log     *slog.Logger

	ready      bool
	files      []string
	globs      []model.GlobEntry
	mtimes     map[string]time.Time
	candidates map[string]struct{}

	positions *lru.Cache[positionKey, []model.Position]
	stats     Stats
}

// Stats describes the most recent Scan call.
type Stats struct {
	FilesChecked  int
	FilesRead     int
	NewCandidates int
	Total         int
	Duration      time.Duration
}

type positionKey struct {
	path  string
	mtime int64
	size  int64
}

// New returns a scanner over sources. Nil or empty sources disable file
// discovery; only ScanContent and CandidatesWithPositions are then useful.
func New(sources []model.GlobEntry, opts ...Option) (*Scanner, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("scanner option: %w", err)
		}
	}

	s := &Scanner{
		sources:    slices.Clone(sources),
		opts:       o,
		log:        o.logger.With(slog.String("component", "scanner")),
		mtimes:     make(map[string]time.Time),
		candidates: make(map[string]struct{}),
	}

	if o.positionCacheSize > 0 {
		cache, err := lru.New[positionKey, []model.Position](o.positionCacheSize)
		if err != nil {
			return nil, fmt.Errorf("position cache: %w", err)
		}
		s.positions = cache
	}

	return s, nil
}

// Scan re-extracts every resolved file whose modification time changed since
// the previous call and returns the full accumulated candidate set, sorted.
func (s *Scanner) Scan() []string {
	s.prepare()
	start := time.Now()

	changed := s.changedFiles()
	items := make([]model.ChangedContent, len(changed))
	for i, f := range changed {
		items[i] = model.FileContent(f)
	}

	fresh := s.absorb(s.extractAll(items))

	s.stats = Stats{
		FilesChecked:  len(s.files),
		FilesRead:     len(changed),
		NewCandidates: len(fresh),
		Total:         len(s.candidates),
		Duration:      time.Since(start),
	}
	s.trace("scan finished",
		slog.Int("files", len(s.files)),
		slog.Int("changed", len(changed)),
		slog.Int("new", len(fresh)),
		slog.Duration("took", s.stats.Duration),
	)

	return s.sortedCandidates()
}

// ScanContent extracts candidates from pushed content and returns only those
// not seen before, in extraction order. They join the accumulated set.
func (s *Scanner) ScanContent(items []model.ChangedContent) []string {
	s.prepare()
	start := time.Now()

	fresh := s.absorb(s.extractAll(items))

	s.trace("content scan finished",
		slog.Int("items", len(items)),
		slog.Int("new", len(fresh)),
		slog.Duration("took", time.Since(start)),
	)
	return fresh
}

// CandidatesWithPositions returns every candidate occurrence in one item with
// its byte offset. The accumulated set is not modified.
func (s *Scanner) CandidatesWithPositions(item model.ChangedContent) []model.Position {
	s.prepare()

	if item.IsInline() || s.positions == nil || item.File == "" {
		content, ok := s.readContent(item)
		if !ok {
			return nil
		}
		return extractor.WithPositions(content)
	}

	info, err := os.Stat(item.File)
	if err != nil {
		s.log.Warn("failed to stat file", slog.String("path", item.File), slog.Any("error", err))
		return nil
	}
	key := positionKey{path: item.File, mtime: info.ModTime().UnixNano(), size: info.Size()}
	if cached, ok := s.positions.Get(key); ok {
		return slices.Clone(cached)
	}

	content, ok := s.readContent(item)
	if !ok {
		return nil
	}
	positions := extractor.WithPositions(content)
	s.positions.Add(key, positions)
	return slices.Clone(positions)
}

// Files returns the resolved file list.
func (s *Scanner) Files() []string {
	s.prepare()
	return slices.Clone(s.files)
}

// Globs returns the optimized glob list describing the resolved sources.
func (s *Scanner) Globs() []model.GlobEntry {
	s.prepare()
	return slices.Clone(s.globs)
}

// Stats returns counters for the last Scan.
func (s *Scanner) Stats() Stats {
	return s.stats
}

// changedFiles records the current modification time of every resolved file
// and returns those that are new or changed. A file that cannot be stat'ed
// counts as changed so it is retried on the next scan.
func (s *Scanner) changedFiles() []string {
	var changed []string
	for _, f := range s.files {
		mtime := time.Now()
		if info, err := os.Stat(f); err == nil {
			mtime = info.ModTime()
		}

		prev, seen := s.mtimes[f]
		if seen && prev.Equal(mtime) {
			continue
		}
		s.mtimes[f] = mtime
		changed = append(changed, f)
	}
	return changed
}

// extractAll reads and extracts items concurrently. Each worker writes only
// its own slot; the slots are merged here in item order.
func (s *Scanner) extractAll(items []model.ChangedContent) []string {
	if len(items) == 0 {
		return nil
	}

	slots := make([][]string, len(items))

	var g errgroup.Group
	g.SetLimit(s.opts.workers)
	for i, item := range items {
		g.Go(func() error {
			content, ok := s.readContent(item)
			if ok {
				slots[i] = extractor.Unique(content)
			}
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	var out []string
	for _, slot := range slots {
		for _, c := range slot {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// absorb adds candidates to the accumulated set and returns the ones that
// were not already present.
func (s *Scanner) absorb(candidates []string) []string {
	var fresh []string
	for _, c := range candidates {
		if _, ok := s.candidates[c]; ok {
			continue
		}
		s.candidates[c] = struct{}{}
		fresh = append(fresh, c)
	}
	return fresh
}

func (s *Scanner) sortedCandidates() []string {
	out := make([]string, 0, len(s.candidates))
	for c := range s.candidates {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

func (s *Scanner) trace(msg string, attrs ...any) {
	if s.opts.trace {
		s.log.Debug(msg, attrs...)
	}
}
