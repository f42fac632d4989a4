// Package workspace manages the small amount of local state devenv keeps in
// the project directory:
//   - the init lock (tmp/docker-init.lock), whose existence records that
//     first-time setup has completed
//   - sample config files copied to their real names on first run
//   - stale process state (PID files, spring state) removed before the
//     containers start again
//
// Every operation is idempotent and gated only on file existence; nothing
// here ever overwrites a file the developer already has.
package workspace
