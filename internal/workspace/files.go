package workspace

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/devenv/internal/config"
	"github.com/mmr-tortoise/devenv/internal/model"
)

// Workspace resolves and manipulates files under the project root.
type Workspace struct {
	Root string
	Log  logrus.FieldLogger

	// Trace, when set, turns every mutation into a "+ <shell equivalent>"
	// line written to Trace. Nothing on disk changes.
	Trace io.Writer
}

// New returns a Workspace rooted at root.
func New(root string, log logrus.FieldLogger) *Workspace {
	return &Workspace{Root: root, Log: log}
}

// Path resolves p against the root unless it is absolute.
func (w *Workspace) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(w.Root, p)
}

// Exists reports whether p exists, as a file or a directory.
func (w *Workspace) Exists(p string) bool {
	_, err := os.Stat(w.Path(p))
	return err == nil
}

// EnsureSamples copies each template to its target when the target does not
// exist yet, and returns the targets it created. An existing target is never
// touched, even if it differs from its template.
func (w *Workspace) EnsureSamples(samples []config.SampleFile) ([]string, error) {
	var created []string
	for _, s := range samples {
		if w.Exists(s.Target) {
			w.Log.WithField("target", s.Target).Debug("sample target present, skipping")
			continue
		}
		if !w.Exists(s.Template) {
			return created, model.NewCLIError(model.ExitMissingFile,
				fmt.Sprintf("sample template %s not found (needed for %s)", s.Template, s.Target))
		}
		if w.Trace != nil {
			w.trace("cp", s.Template, s.Target)
			created = append(created, s.Target)
			continue
		}
		if err := copyFile(w.Path(s.Template), w.Path(s.Target)); err != nil {
			return created, fmt.Errorf("copy %s to %s: %w", s.Template, s.Target, err)
		}
		w.Log.WithFields(logrus.Fields{"template": s.Template, "target": s.Target}).Info("copied sample config")
		created = append(created, s.Target)
	}
	return created, nil
}

// copyFile copies src to dst with src's permissions. dst is created
// exclusively so a file appearing in the meantime is not clobbered.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// ClearStale removes leftover process state so a process manager inside a
// restarted container does not refuse to start. Missing paths are ignored.
func (w *Workspace) ClearStale(stale config.Stale) error {
	for _, d := range stale.Dirs {
		if !w.Exists(d) {
			continue
		}
		if w.Trace != nil {
			w.trace("rm", "-rf", d)
			continue
		}
		if err := os.RemoveAll(w.Path(d)); err != nil {
			return fmt.Errorf("remove stale directory %s: %w", d, err)
		}
		w.Log.WithField("dir", d).Debug("removed stale process state")
	}
	for _, f := range stale.Files {
		if w.Trace != nil {
			if w.Exists(f) {
				w.trace("rm", "-f", f)
			}
			continue
		}
		err := os.Remove(w.Path(f))
		switch {
		case err == nil:
			w.Log.WithField("file", f).Debug("removed stale pid file")
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("remove stale pid file %s: %w", f, err)
		}
	}
	return nil
}

func (w *Workspace) trace(argv ...string) {
	_, _ = fmt.Fprintln(w.Trace, "+ "+strings.Join(argv, " "))
}
