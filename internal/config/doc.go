// Package config loads the devenv configuration.
//
// Configuration is optional: every key has a default matching the stock
// development stack (api, front and spring services, tmp/docker-init.lock).
// A project may override keys with a devenv.yml/devenv.yaml file or, like
// devcontainer.json, a JSONC file (devenv.jsonc/devenv.json) whose comments
// are stripped with github.com/tidwall/jsonc before parsing.
//
// Scalar keys can also be overridden from the environment with the DEVENV_
// prefix (DEVENV_COMPOSE_COMMAND, DEVENV_DRY_RUN, DEVENV_SERVICES_API, ...).
// Loading is done with github.com/spf13/viper on a private instance so tests
// can load several configurations in one process.
package config
