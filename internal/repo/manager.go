package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/devenv/internal/config"
	"github.com/mmr-tortoise/devenv/internal/model"
	"github.com/mmr-tortoise/devenv/internal/runner"
)

// Info describes the checked-out state of a local repository.
type Info struct {
	// Path is the absolute path of the working tree.
	Path string

	// Branch is the short branch name, empty for a detached HEAD.
	Branch string

	// Head is the commit SHA HEAD points to, empty for a repository
	// without commits.
	Head string
}

// Manager clones and inspects the project's repositories.
type Manager struct {
	// Root is the directory repository dirs are relative to.
	Root string

	// Git is the git executable.
	Git string

	Runner runner.Runner
	Log    logrus.FieldLogger
}

// NewManager returns a Manager cloning into root with the given git binary.
func NewManager(root, git string, r runner.Runner, log logrus.FieldLogger) *Manager {
	return &Manager{Root: root, Git: git, Runner: r, Log: log}
}

// Path resolves a repository directory against Root.
func (m *Manager) Path(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, dir)
}

// Present reports whether the repository directory exists. Whatever is
// there is left alone; it does not have to be a git checkout.
func (m *Manager) Present(r config.Repository) bool {
	_, err := os.Stat(m.Path(r.Dir))
	return err == nil
}

// EnsureCloned clones every repository whose directory is absent and returns
// the directories it cloned. It stops at the first failure.
func (m *Manager) EnsureCloned(ctx context.Context, repos []config.Repository) ([]string, error) {
	var cloned []string
	for _, r := range repos {
		if m.Present(r) {
			m.Log.WithField("dir", r.Dir).Debug("repository present, skipping clone")
			continue
		}
		if err := m.Clone(ctx, r); err != nil {
			return cloned, err
		}
		cloned = append(cloned, r.Dir)
	}
	return cloned, nil
}

// Clone runs "git clone <url> <dir>" from Root.
func (m *Manager) Clone(ctx context.Context, r config.Repository) error {
	if r.URL == "" {
		return model.NewCLIError(model.ExitMissingFile,
			fmt.Sprintf("repository %s is missing and has no clone url configured", r.Dir))
	}
	m.Log.WithFields(logrus.Fields{"url": r.URL, "dir": r.Dir}).Info("cloning repository")
	cmd := runner.New([]string{m.Git}, "clone", r.URL, r.Dir).In(m.Root)
	if err := m.Runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("clone %s: %w", r.Dir, err)
	}
	return nil
}

// Inspect opens the repository in dir and reports its branch and HEAD.
// Linked worktrees are supported.
func (m *Manager) Inspect(dir string) (Info, error) {
	path := m.Path(dir)
	info := Info{Path: path}

	repository, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		return info, model.WrapCLIError(model.ExitGitError,
			fmt.Sprintf("%s is not a git repository", dir), err)
	}

	head, err := repository.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Freshly initialized repository: HEAD names a branch with no commits.
		return info, nil
	}
	if err != nil {
		return info, model.WrapCLIError(model.ExitGitError,
			fmt.Sprintf("cannot resolve HEAD of %s", dir), err)
	}

	info.Head = head.Hash().String()
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info, nil
}
