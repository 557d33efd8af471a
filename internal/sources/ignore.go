// internal/sources/ignore.go
package sources

import (
	"bufio"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/jackchuka/sift/internal/vcs"
)

const gitignoreFile = ".gitignore"

// ignorer tracks the gitignore rules in effect for one walk. Patterns are
// scoped to the directory that declared them, so rules from a finished
// sibling subtree never match later paths.
type ignorer struct {
	anchor   string
	patterns []gitignore.Pattern
	matcher  gitignore.Matcher
	skip     map[string]struct{}
	log      *slog.Logger
}

func newIgnorer(absRoot string, log *slog.Logger) *ignorer {
	ig := &ignorer{
		anchor: absRoot,
		skip:   make(map[string]struct{}),
		log:    log,
	}

	repo, err := vcs.FindRoot(absRoot)
	if err != nil {
		log.Warn("repository lookup failed", slog.String("path", absRoot), slog.Any("error", err))
	}
	if repo != nil {
		ig.anchor = repo.Root

		// core.excludesFile from ~/.gitconfig ranks below the repository's
		// own rules.
		global, err := gitignore.LoadGlobalPatterns(osfs.New("/"))
		if err != nil {
			log.Warn("reading global excludes failed", slog.Any("error", err))
		}
		ig.patterns = append(ig.patterns, global...)

		excludes, err := repo.ExcludePatterns()
		if err != nil {
			log.Warn("reading exclude file failed", slog.String("repo", repo.Root), slog.Any("error", err))
		}
		for _, line := range excludes {
			ig.patterns = append(ig.patterns, gitignore.ParsePattern(line, nil))
		}

		for _, dir := range ancestorsBetween(repo.Root, absRoot) {
			ig.load(dir)
		}

		for _, wt := range repo.LinkedWorktrees() {
			ig.skip[filepath.Clean(wt.Root)] = struct{}{}
		}
	}

	// An explicit root is never ignored by the rules it inherits.
	if rootSegs := ig.segments(absRoot); len(rootSegs) > 0 {
		kept := ig.patterns[:0]
		for _, p := range ig.patterns {
			if p.Match(rootSegs, true) != gitignore.Exclude {
				kept = append(kept, p)
			}
		}
		ig.patterns = kept
	}

	ig.matcher = gitignore.NewMatcher(ig.patterns)
	return ig
}

// enter loads the .gitignore of a directory reached by the walk.
func (ig *ignorer) enter(absDir string) {
	if ig.load(absDir) {
		ig.matcher = gitignore.NewMatcher(ig.patterns)
	}
}

func (ig *ignorer) load(absDir string) bool {
	f, err := os.Open(filepath.Join(absDir, gitignoreFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			ig.log.Warn("reading ignore file failed", slog.String("dir", absDir), slog.Any("error", err))
		}
		return false
	}
	defer func() { _ = f.Close() }()

	domain := ig.segments(absDir)
	added := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		ig.patterns = append(ig.patterns, gitignore.ParsePattern(line, domain))
		added = true
	}
	return added
}

func (ig *ignorer) ignored(absPath string, isDir bool) bool {
	if isDir {
		if _, ok := ig.skip[absPath]; ok {
			return true
		}
	}
	segs := ig.segments(absPath)
	if len(segs) == 0 {
		return false
	}
	return ig.matcher.Match(segs, isDir)
}

func (ig *ignorer) segments(absPath string) []string {
	rel, err := filepath.Rel(ig.anchor, absPath)
	if err != nil || rel == "." {
		return nil
	}
	return strings.Split(filepath.ToSlash(rel), "/")
}

// ancestorsBetween returns top, and every directory below it on the way to
// (but excluding) bottom.
func ancestorsBetween(top, bottom string) []string {
	rel, err := filepath.Rel(top, bottom)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}

	dirs := []string{top}
	parts := strings.Split(rel, string(filepath.Separator))
	cur := top
	for _, part := range parts[:len(parts)-1] {
		cur = filepath.Join(cur, part)
		dirs = append(dirs, cur)
	}
	return dirs
}
