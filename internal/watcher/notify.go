// internal/watcher/notify.go
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jackchuka/sift/internal/glob"
	"github.com/jackchuka/sift/internal/model"
)

const defaultDebounce = 100 * time.Millisecond

// Notifier watches the directories of the resolved files with fsnotify and
// feeds changed files to the rescanner as they are written.
type Notifier struct {
	fsw      *fsnotify.Watcher
	events   chan Event
	debounce time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	r        Rescanner
	tracked  map[string]struct{}
	matchers []*glob.Matcher
	total    int
	closed   bool

	// backlog holds an event the consumer had no room for. Its candidates
	// are already stored by the rescanner, so it is merged into the next
	// event instead of being lost.
	backlog *Event
}

func NewNotifier(r Rescanner, debounce time.Duration, log *slog.Logger) (*Notifier, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	n := &Notifier{
		fsw:      fsw,
		events:   make(chan Event, 100),
		debounce: debounce,
		log:      log.With(slog.String("component", "watcher")),
	}
	n.Swap(r)
	return n, nil
}

func (n *Notifier) Events() <-chan Event {
	return n.events
}

// Swap replaces the rescanner and re-registers the watched directories.
func (n *Notifier) Swap(r Rescanner) {
	total := len(r.Scan())
	files := r.Files()
	globs := r.Globs()
	for i := range globs {
		if base, err := filepath.Abs(globs[i].Base); err == nil {
			globs[i].Base = base
		}
	}
	matchers, errs := glob.CompileAll(globs)
	for _, err := range errs {
		n.log.Warn("glob not watched", slog.Any("error", err))
	}

	dirs := make(map[string]struct{})
	tracked := make(map[string]struct{}, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		tracked[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for _, m := range matchers {
		if info, err := os.Stat(m.Entry().Base); err == nil && info.IsDir() {
			dirs[m.Entry().Base] = struct{}{}
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	for _, dir := range n.fsw.WatchList() {
		if _, keep := dirs[dir]; !keep {
			_ = n.fsw.Remove(dir)
		}
	}
	for dir := range dirs {
		if err := n.fsw.Add(dir); err != nil {
			n.log.Warn("cannot watch directory", slog.String("dir", dir), slog.Any("error", err))
		}
	}

	n.r = r
	n.tracked = tracked
	n.matchers = matchers
	n.total = total
	n.backlog = nil
}

func (n *Notifier) Run(ctx context.Context) {
	pending := make(map[string]fsnotify.Op)
	timer := time.NewTimer(n.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-n.fsw.Events:
			if !ok {
				return
			}
			pending[ev.Name] |= ev.Op
			timer.Reset(n.debounce)
		case err, ok := <-n.fsw.Errors:
			if !ok {
				return
			}
			n.log.Warn("watch error", slog.Any("error", err))
		case <-timer.C:
			if n.flush(pending) {
				timer.Reset(n.debounce)
			}
			pending = make(map[string]fsnotify.Op)
		}
	}
}

// flush turns a batch of coalesced filesystem operations into at most one
// event. Tracked files that still exist are rescanned; tracked files that
// vanished, and new files matching a glob, mark the event structural. It
// reports whether an undelivered event is still waiting.
func (n *Notifier) flush(pending map[string]fsnotify.Op) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed || (len(pending) == 0 && n.backlog == nil) {
		return false
	}

	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	var (
		items      []model.ChangedContent
		changed    []string
		structural bool
	)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		_, tracked := n.tracked[abs]
		info, statErr := os.Stat(abs)
		exists := statErr == nil && info.Mode().IsRegular()

		switch {
		case tracked && exists:
			items = append(items, model.FileContent(path))
			changed = append(changed, path)
		case tracked:
			structural = true
			changed = append(changed, path)
		case exists && pending[path].Has(fsnotify.Create) && n.matches(abs):
			structural = true
			changed = append(changed, path)
		}
	}

	var fresh []string
	if len(items) > 0 {
		fresh = n.r.ScanContent(items)
	}
	n.total += len(fresh)

	if b := n.backlog; b != nil {
		fresh = append(b.NewCandidates, fresh...)
		changed = mergePaths(b.Paths, changed)
		structural = structural || b.Structural
	}
	if len(fresh) == 0 && !structural {
		return false
	}

	ev := Event{
		Time:          time.Now(),
		NewCandidates: fresh,
		Total:         n.total,
		Paths:         changed,
		Structural:    structural,
	}
	select {
	case n.events <- ev:
		n.backlog = nil
		return false
	default:
		n.log.Debug("consumer is not keeping up, holding event", slog.Int("new", len(fresh)))
		n.backlog = &ev
		return true
	}
}

func mergePaths(a, b []string) []string {
	out := slices.Concat(a, b)
	slices.Sort(out)
	return slices.Compact(out)
}

func (n *Notifier) matches(path string) bool {
	for _, m := range n.matchers {
		if m.Match(path) {
			return true
		}
	}
	return false
}

func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	close(n.events)
	return n.fsw.Close()
}
