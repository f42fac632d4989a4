// Package docker provides the Docker Engine API wrapper devenv uses where a
// plain docker-compose invocation is not enough.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Looking up the containers of the compose project by the labels
//     docker-compose puts on them (com.docker.compose.project/service),
//     for "attach" and "stats"
//   - Pruning dangling images after "clean" and "destroy"
//   - Checking that the daemon answers, for "doctor"
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
