// internal/watcher/interface.go
package watcher

import (
	"context"
	"time"

	"github.com/jackchuka/sift/internal/model"
)

// Rescanner is the part of a scanner a watcher drives.
type Rescanner interface {
	Scan() []string
	ScanContent(items []model.ChangedContent) []string
	Files() []string
	Globs() []model.GlobEntry
}

type Watcher interface {
	Events() <-chan Event
	// Swap replaces the rescanner, typically after a structural change.
	Swap(r Rescanner)
	Run(ctx context.Context)
	Close() error
}

// Event reports candidates that appeared since the previous event.
type Event struct {
	Time          time.Time
	NewCandidates []string
	Total         int
	// Paths lists the files that triggered the event, when known.
	Paths []string
	// Structural is set when files were created or removed; the resolved
	// file list of the current rescanner no longer matches the tree.
	Structural bool
}
