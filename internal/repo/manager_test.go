package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/devenv/internal/config"
	"github.com/mmr-tortoise/devenv/internal/model"
	"github.com/mmr-tortoise/devenv/internal/runner"
)

func newTestManager(t *testing.T) (*Manager, *runner.Recorder) {
	t.Helper()
	log, _ := test.NewNullLogger()
	rec := &runner.Recorder{}
	return NewManager(t.TempDir(), "git", rec, log), rec
}

// setupTestRepo creates a git repository in dir with a single commit using
// go-git, so the tests do not depend on a git binary or global identity.
func setupTestRepo(t *testing.T, dir string) plumbing.Hash {
	t.Helper()

	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# api\n"), 0o644))
	w, err := r.Worktree()
	require.NoError(t, err)
	_, err = w.Add("README.md")
	require.NoError(t, err)

	hash, err := w.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

func TestEnsureCloned(t *testing.T) {
	t.Run("clones only missing directories", func(t *testing.T) {
		m, rec := newTestManager(t)
		require.NoError(t, os.MkdirAll(m.Path("api"), 0o755))

		cloned, err := m.EnsureCloned(context.Background(), []config.Repository{
			{Dir: "api", URL: "git@example.com:acme/api.git"},
			{Dir: "front", URL: "git@example.com:acme/front.git"},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"front"}, cloned)
		assert.Equal(t, []string{"git clone git@example.com:acme/front.git front"}, rec.Lines())
		assert.Equal(t, m.Root, rec.Commands[0].Dir)
	})

	t.Run("nothing to do", func(t *testing.T) {
		m, rec := newTestManager(t)
		require.NoError(t, os.MkdirAll(m.Path("api"), 0o755))

		cloned, err := m.EnsureCloned(context.Background(), []config.Repository{{Dir: "api"}})
		require.NoError(t, err)
		assert.Empty(t, cloned)
		assert.Empty(t, rec.Lines())
	})

	t.Run("missing url", func(t *testing.T) {
		m, rec := newTestManager(t)

		_, err := m.EnsureCloned(context.Background(), []config.Repository{{Dir: "api"}})
		require.Error(t, err)
		assert.Equal(t, model.ExitMissingFile, model.CodeOf(err))
		assert.Empty(t, rec.Lines())
	})

	t.Run("clone failure stops the loop", func(t *testing.T) {
		m, rec := newTestManager(t)
		rec.Fail = map[string]int{"git clone u1 api": 128}

		cloned, err := m.EnsureCloned(context.Background(), []config.Repository{
			{Dir: "api", URL: "u1"},
			{Dir: "front", URL: "u2"},
		})
		require.Error(t, err)
		assert.Empty(t, cloned)

		code, ok := runner.ExitCode(err)
		assert.True(t, ok)
		assert.Equal(t, 128, code)
		assert.Equal(t, []string{"git clone u1 api"}, rec.Lines())
	})
}

func TestInspect(t *testing.T) {
	t.Run("branch and head", func(t *testing.T) {
		m, _ := newTestManager(t)
		hash := setupTestRepo(t, m.Path("api"))

		info, err := m.Inspect("api")
		require.NoError(t, err)
		assert.Equal(t, m.Path("api"), info.Path)
		assert.Equal(t, hash.String(), info.Head)
		assert.NotEmpty(t, info.Branch)
	})

	t.Run("empty repository", func(t *testing.T) {
		m, _ := newTestManager(t)
		_, err := git.PlainInit(m.Path("front"), false)
		require.NoError(t, err)

		info, err := m.Inspect("front")
		require.NoError(t, err)
		assert.Empty(t, info.Head)
	})

	t.Run("not a repository", func(t *testing.T) {
		m, _ := newTestManager(t)
		require.NoError(t, os.MkdirAll(m.Path("plain"), 0o755))

		_, err := m.Inspect("plain")
		require.Error(t, err)
		assert.Equal(t, model.ExitGitError, model.CodeOf(err))
	})
}
