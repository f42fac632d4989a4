// Package repo makes sure the external repositories the stack mounts (the
// API and front-end applications) are present in the project directory.
//
// Cloning shells out to the git CLI through internal/runner rather than
// using go-git, so the developer's SSH agent, credential helpers and
// ~/.gitconfig apply exactly as they do in their terminal. Read-only
// inspection of an existing checkout (current branch and HEAD, reported by
// "devenv doctor") uses github.com/go-git/go-git/v5, which needs no git
// binary and no subprocess.
package repo
