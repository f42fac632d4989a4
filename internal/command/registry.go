package command

import (
	"context"
	"fmt"
	"sort"
)

// Handler executes a command with the arguments that followed its name.
type Handler func(ctx context.Context, env *Env, args []string) error

// Command is one entry of the command table.
type Command struct {
	// Name is the first positional argument selecting the command.
	Name string

	// Usage is the argument synopsis shown after the name, e.g. "SERVICE".
	Usage string

	// Short is the one-line description shown in the usage listing.
	Short string

	Run Handler
}

// Registry maps command names to commands.
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds c. It panics if the name is empty, already registered, or
// has no handler: the table is fixed at build time, so these are
// programming errors.
func (r *Registry) Register(c Command) {
	if c.Name == "" {
		panic("command name must not be empty")
	}
	if c.Run == nil {
		panic(fmt.Sprintf("command %s has no handler", c.Name))
	}
	if _, exists := r.commands[c.Name]; exists {
		panic(fmt.Sprintf("command %s already registered", c.Name))
	}
	r.commands[c.Name] = c
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Commands returns every command sorted by name.
func (r *Registry) Commands() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
