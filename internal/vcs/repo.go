// internal/vcs/repo.go
package vcs

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Repository describes a git working tree enclosing the scanned sources.
type Repository struct {
	Root         string
	IsWorktree   bool
	MainWorktree string
}

// Detect reports the repository whose working tree is rooted exactly at
// path. It returns nil when path holds no .git entry.
func Detect(path string) (*Repository, error) {
	gitPath := filepath.Join(path, ".git")

	info, err := os.Stat(gitPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	repo := &Repository{
		Root: path,
	}

	if info.IsDir() {
		return repo, nil
	}

	// .git is a file - this is a linked worktree
	repo.IsWorktree = true

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return nil, err
	}

	// Parse "gitdir: /path/to/main/.git/worktrees/name"
	line := strings.TrimSpace(string(content))
	if strings.HasPrefix(line, "gitdir:") {
		gitdir := strings.TrimSpace(strings.TrimPrefix(line, "gitdir:"))
		if !filepath.IsAbs(gitdir) {
			gitdir = filepath.Join(path, gitdir)
		}
		marker := string(filepath.Separator) + filepath.Join(".git", "worktrees") + string(filepath.Separator)
		if idx := strings.Index(gitdir, marker); idx != -1 {
			repo.MainWorktree = gitdir[:idx]
		}
	}

	return repo, nil
}

// FindRoot walks upward from start and returns the nearest enclosing
// repository, or nil when start is not inside one.
func FindRoot(start string) (*Repository, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}

	for {
		repo, err := Detect(dir)
		if err != nil {
			return nil, err
		}
		if repo != nil {
			return repo, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// gitDir returns the directory holding shared repository state. Linked
// worktrees share info/exclude with their main worktree.
func (r *Repository) gitDir() string {
	if r.IsWorktree && r.MainWorktree != "" {
		return filepath.Join(r.MainWorktree, ".git")
	}
	return filepath.Join(r.Root, ".git")
}

// ExcludePatterns returns the non-comment lines of .git/info/exclude. A
// missing file yields no patterns.
func (r *Repository) ExcludePatterns() ([]string, error) {
	f, err := os.Open(filepath.Join(r.gitDir(), "info", "exclude"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, sc.Err()
}

// LinkedWorktrees finds worktrees registered in .git/worktrees/ whose working
// directory still exists. Each entry contains a "gitdir" file pointing to
// the worktree's .git file.
func (r *Repository) LinkedWorktrees() []Repository {
	if r.IsWorktree {
		return nil
	}

	wtDir := filepath.Join(r.Root, ".git", "worktrees")
	entries, err := os.ReadDir(wtDir)
	if err != nil {
		return nil
	}

	var repos []Repository
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(wtDir, e.Name(), "gitdir"))
		if err != nil {
			continue
		}
		// the working directory is the parent of the .git file
		wtPath := filepath.Dir(strings.TrimSpace(string(content)))
		if info, err := os.Stat(wtPath); err != nil || !info.IsDir() {
			continue
		}
		repos = append(repos, Repository{
			Root:         wtPath,
			IsWorktree:   true,
			MainWorktree: r.Root,
		})
	}
	return repos
}
