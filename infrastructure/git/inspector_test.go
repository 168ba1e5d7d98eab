package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *gogit.Repository, dir, name, content, message string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add(name)
	require.NoError(t, err)
	_, err = w.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test Author", Email: "author@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func newRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestStatus_CleanAndDirty(t *testing.T) {
	dir, repo := newRepo(t)
	commitFile(t, repo, dir, "features/login.feature", "Feature: Login\n", "Add login feature")

	inspector, err := Open(filepath.Join(dir, "features"))
	require.NoError(t, err)

	status, err := inspector.Status()
	require.NoError(t, err)
	assert.True(t, status.Clean)
	assert.Equal(t, "master", status.Branch)
	assert.Len(t, status.Head, 40)
	assert.Empty(t, status.Changes)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "features", "login.feature"), []byte("Feature: Login v2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "features", "cart.feature"), []byte("Feature: Cart\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0644))

	status, err = inspector.Status()
	require.NoError(t, err)
	assert.False(t, status.Clean)
	require.Len(t, status.Changes, 3)
	assert.Equal(t, "features/cart.feature", status.Changes[0].Path)
	assert.Equal(t, "untracked", status.Changes[0].Worktree)
	assert.Equal(t, "modified", status.Changes[1].Worktree)

	changed, err := inspector.ChangedFeatures()
	require.NoError(t, err)
	assert.Equal(t, []string{"features/cart.feature", "features/login.feature"}, changed)
}

func TestLog(t *testing.T) {
	dir, repo := newRepo(t)
	commitFile(t, repo, dir, "a.feature", "Feature: A\n", "First\n\nbody text")
	commitFile(t, repo, dir, "b.feature", "Feature: B\n", "Second")
	commitFile(t, repo, dir, "c.feature", "Feature: C\n", "Third")

	inspector, err := Open(dir)
	require.NoError(t, err)

	commits, err := inspector.Log(2)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "Third", commits[0].Subject)
	assert.Equal(t, []string{"c.feature"}, commits[0].Files)
	assert.Equal(t, "Test Author", commits[0].Author)

	all, err := inspector.Log(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "First", all[2].Subject)
}

func TestEmptyRepository(t *testing.T) {
	dir, _ := newRepo(t)
	inspector, err := Open(dir)
	require.NoError(t, err)

	branch, err := inspector.Branch()
	require.NoError(t, err)
	assert.Empty(t, branch)

	commits, err := inspector.Log(5)
	require.NoError(t, err)
	assert.Empty(t, commits)
}
