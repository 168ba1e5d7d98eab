package git

import (
	"bdd_automation/domain/entities"
	"errors"
	"fmt"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Inspector reads repository state for the features under test
type Inspector struct {
	repo *gogit.Repository
	path string
}

// Open - opens the repository containing path
func Open(path string) (*Inspector, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	return &Inspector{repo: repo, path: path}, nil
}

// statusName - readable form of a go-git status code
func statusName(code gogit.StatusCode) string {
	switch code {
	case gogit.Unmodified:
		return "unmodified"
	case gogit.Untracked:
		return "untracked"
	case gogit.Modified:
		return "modified"
	case gogit.Added:
		return "added"
	case gogit.Deleted:
		return "deleted"
	case gogit.Renamed:
		return "renamed"
	case gogit.Copied:
		return "copied"
	case gogit.UpdatedButUnmerged:
		return "unmerged"
	default:
		return string(rune(code))
	}
}

// Branch - current branch name, or a detached HEAD description
func (i *Inspector) Branch() (string, error) {
	head, err := i.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return fmt.Sprintf("HEAD (detached at %s)", head.Hash().String()[:7]), nil
}

// Status - branch, head commit and every changed path of the working tree
func (i *Inspector) Status() (entities.RepositoryStatus, error) {
	var result entities.RepositoryStatus

	branch, err := i.Branch()
	if err != nil {
		return result, err
	}
	result.Branch = branch
	if head, err := i.repo.Head(); err == nil {
		result.Head = head.Hash().String()
	}

	wt, err := i.repo.Worktree()
	if err != nil {
		return result, fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return result, fmt.Errorf("failed to read worktree status: %w", err)
	}

	result.Clean = status.IsClean()
	for path, fs := range status {
		if fs.Staging == gogit.Unmodified && fs.Worktree == gogit.Unmodified {
			continue
		}
		result.Changes = append(result.Changes, entities.FileChange{
			Path:     path,
			Staging:  statusName(fs.Staging),
			Worktree: statusName(fs.Worktree),
		})
	}
	sort.Slice(result.Changes, func(a, b int) bool {
		return result.Changes[a].Path < result.Changes[b].Path
	})
	return result, nil
}

// ChangedFeatures - feature files with staged, unstaged or untracked changes
func (i *Inspector) ChangedFeatures() ([]string, error) {
	status, err := i.Status()
	if err != nil {
		return nil, err
	}
	features := []string{}
	for _, change := range status.Changes {
		if strings.HasSuffix(change.Path, ".feature") && change.Worktree != "deleted" && change.Staging != "deleted" {
			features = append(features, change.Path)
		}
	}
	return features, nil
}

// Log - the most recent commits reachable from HEAD, newest first
func (i *Inspector) Log(limit int) ([]entities.CommitInfo, error) {
	head, err := i.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []entities.CommitInfo{}, nil
		}
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	iter, err := i.repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	commits := []entities.CommitInfo{}
	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(commits) >= limit {
			return storer.ErrStop
		}
		info := entities.CommitInfo{
			Hash:    c.Hash.String(),
			Author:  c.Author.Name,
			Email:   c.Author.Email,
			When:    c.Author.When,
			Subject: strings.SplitN(strings.TrimSpace(c.Message), "\n", 2)[0],
		}
		if stats, err := c.Stats(); err == nil {
			for _, stat := range stats {
				info.Files = append(info.Files, stat.Name)
			}
		}
		commits = append(commits, info)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk log: %w", err)
	}
	return commits, nil
}
