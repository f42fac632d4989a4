package workspace

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/devenv/internal/config"
	"github.com/mmr-tortoise/devenv/internal/model"
)

func newTestWorkspace(t *testing.T) (*Workspace, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return New(t.TempDir(), log), hook
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInitLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmp", "docker-init.lock")
	lock := NewInitLock(path)
	lock.now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }

	assert.Equal(t, path, lock.Path())
	assert.False(t, lock.Exists(), "fresh checkout has no lock")

	// Clearing an absent lock is a no-op.
	require.NoError(t, lock.Clear())

	// Set creates the parent directory.
	require.NoError(t, lock.Set())
	assert.True(t, lock.Exists())
	assert.Equal(t, "2026-10-15T09:00:00Z\n", read(t, path))

	// Setting twice is idempotent.
	require.NoError(t, lock.Set())
	assert.True(t, lock.Exists())

	require.NoError(t, lock.Clear())
	assert.False(t, lock.Exists())
}

func TestEnsureSamples(t *testing.T) {
	t.Run("copies missing targets", func(t *testing.T) {
		w, hook := newTestWorkspace(t)
		write(t, w.Path(".env.sample"), "DATABASE_URL=postgres://db\n")
		write(t, w.Path("compose.override.sample"), "services: {}\n")

		created, err := w.EnsureSamples([]config.SampleFile{
			{Template: ".env.sample", Target: ".env"},
			{Template: "compose.override.sample", Target: "nested/compose.override.yml"},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{".env", "nested/compose.override.yml"}, created)
		assert.Equal(t, "DATABASE_URL=postgres://db\n", read(t, w.Path(".env")))
		assert.Equal(t, "services: {}\n", read(t, w.Path("nested/compose.override.yml")))
		assert.Equal(t, "copied sample config", hook.LastEntry().Message)
	})

	t.Run("never overwrites an existing target", func(t *testing.T) {
		w, _ := newTestWorkspace(t)
		write(t, w.Path(".env.sample"), "FROM_TEMPLATE=1\n")
		write(t, w.Path(".env"), "LOCAL_EDIT=1\n")

		created, err := w.EnsureSamples([]config.SampleFile{{Template: ".env.sample", Target: ".env"}})
		require.NoError(t, err)

		assert.Empty(t, created)
		assert.Equal(t, "LOCAL_EDIT=1\n", read(t, w.Path(".env")))
	})

	t.Run("existing target without template is fine", func(t *testing.T) {
		w, _ := newTestWorkspace(t)
		write(t, w.Path(".env"), "LOCAL=1\n")

		_, err := w.EnsureSamples([]config.SampleFile{{Template: ".env.sample", Target: ".env"}})
		assert.NoError(t, err)
	})

	t.Run("missing template", func(t *testing.T) {
		w, _ := newTestWorkspace(t)

		_, err := w.EnsureSamples([]config.SampleFile{{Template: ".env.sample", Target: ".env"}})
		require.Error(t, err)
		assert.Equal(t, model.ExitMissingFile, model.CodeOf(err))
		assert.False(t, w.Exists(".env"))
	})

	t.Run("keeps template permissions", func(t *testing.T) {
		w, _ := newTestWorkspace(t)
		write(t, w.Path("bin/setup.sample"), "#!/bin/sh\n")
		require.NoError(t, os.Chmod(w.Path("bin/setup.sample"), 0o755))

		_, err := w.EnsureSamples([]config.SampleFile{{Template: "bin/setup.sample", Target: "bin/setup"}})
		require.NoError(t, err)

		info, err := os.Stat(w.Path("bin/setup"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	})
}

func TestClearStale(t *testing.T) {
	t.Run("removes directories and files", func(t *testing.T) {
		w, _ := newTestWorkspace(t)
		write(t, w.Path("api/tmp/pids/server.pid"), "1234\n")
		write(t, w.Path("api/tmp/spring.pid"), "99\n")
		write(t, w.Path("api/tmp/cache/keep"), "x")

		err := w.ClearStale(config.Stale{
			Dirs:  []string{"api/tmp/pids"},
			Files: []string{"api/tmp/spring.pid"},
		})
		require.NoError(t, err)

		assert.False(t, w.Exists("api/tmp/pids"))
		assert.False(t, w.Exists("api/tmp/spring.pid"))
		assert.True(t, w.Exists("api/tmp/cache/keep"), "unrelated state survives")
	})

	t.Run("absent paths are ignored", func(t *testing.T) {
		w, _ := newTestWorkspace(t)
		err := w.ClearStale(config.Stale{
			Dirs:  []string{"api/tmp/pids"},
			Files: []string{"api/tmp/spring.pid"},
		})
		assert.NoError(t, err)
	})
}

func TestTrace(t *testing.T) {
	w, _ := newTestWorkspace(t)
	var trace bytes.Buffer
	w.Trace = &trace

	write(t, w.Path(".env.sample"), "A=1\n")
	write(t, w.Path("api/tmp/pids/server.pid"), "1\n")
	write(t, w.Path("api/tmp/spring.pid"), "2\n")

	created, err := w.EnsureSamples([]config.SampleFile{{Template: ".env.sample", Target: ".env"}})
	require.NoError(t, err)
	assert.Equal(t, []string{".env"}, created)

	require.NoError(t, w.ClearStale(config.Stale{
		Dirs:  []string{"api/tmp/pids", "absent"},
		Files: []string{"api/tmp/spring.pid", "absent.pid"},
	}))

	assert.Equal(t, "+ cp .env.sample .env\n+ rm -rf api/tmp/pids\n+ rm -f api/tmp/spring.pid\n", trace.String())

	// Nothing changed on disk.
	assert.False(t, w.Exists(".env"))
	assert.True(t, w.Exists("api/tmp/pids/server.pid"))
	assert.True(t, w.Exists("api/tmp/spring.pid"))
}

func TestPath(t *testing.T) {
	w := New("/work/app", logrus.New())
	assert.Equal(t, "/work/app/.env", w.Path(".env"))
	assert.Equal(t, "/abs/file", w.Path("/abs/file"))
}
