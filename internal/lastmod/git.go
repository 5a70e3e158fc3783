// Package lastmod reads page modification times from git history.
package lastmod

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
)

// GitHistory reports the time of the last commit touching files of a work tree.
type GitHistory struct {
	repo *git.Repository
	root string

	mu    sync.Mutex
	cache map[string]time.Time
}

// OpenGit opens the repository containing path, searching parent directories.
func OpenGit(path string) (*GitHistory, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository at %s: %w", path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open git worktree: %w", err)
	}
	root, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return nil, fmt.Errorf("resolve git worktree: %w", err)
	}
	return &GitHistory{repo: repo, root: root, cache: map[string]time.Time{}}, nil
}

// Root returns the work tree directory.
func (h *GitHistory) Root() string { return h.root }

// LastModified returns the committer time of the newest commit touching path.
// ok is false for files outside the work tree and files never committed.
func (h *GitHistory) LastModified(path string) (time.Time, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, false
	}
	rel, err := filepath.Rel(h.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return time.Time{}, false
	}
	rel = filepath.ToSlash(rel)

	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.cache[rel]; ok {
		return t, !t.IsZero()
	}

	t := h.lookup(rel)
	h.cache[rel] = t
	return t, !t.IsZero()
}

func (h *GitHistory) lookup(rel string) time.Time {
	head, err := h.repo.Head()
	if err != nil {
		return time.Time{}
	}
	iter, err := h.repo.Log(&git.LogOptions{From: head.Hash(), FileName: &rel})
	if err != nil {
		return time.Time{}
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return time.Time{}
	}
	return commit.Committer.When.UTC()
}
