package shell

import (
	"context"
	"sort"
	"strings"
)

// Handler runs a dot-command with its whitespace-split arguments.
type Handler func(ctx context.Context, sh *Shell, args []string) error

// Command describes one dot-command.
type Command struct {
	// Name includes the leading dot.
	Name string
	Args string
	Help string
	Run  Handler

	// Supported is false for commands that are recognized but not implemented.
	Supported bool
}

// Usage returns the command synopsis.
func (c *Command) Usage() string {
	if c.Args == "" {
		return c.Name
	}
	return c.Name + " " + c.Args
}

// Registry maps command names to their definitions.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry builds a registry from cmds. Later entries win on name clashes.
func NewRegistry(cmds ...*Command) *Registry {
	r := &Registry{commands: make(map[string]*Command, len(cmds))}
	for _, c := range cmds {
		r.Register(c)
	}
	return r
}

// DefaultRegistry returns a registry holding every built-in command.
func DefaultRegistry() *Registry {
	return NewRegistry(builtinCommands()...)
}

// Register adds or replaces a command.
func (r *Registry) Register(c *Command) {
	r.commands[c.Name] = c
}

// Lookup finds a command by name, with or without the leading dot.
func (r *Registry) Lookup(name string) (*Command, bool) {
	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}
	c, ok := r.commands[name]
	return c, ok
}

// Commands returns all commands sorted by name.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns all command names sorted.
func (r *Registry) Names() []string {
	cmds := r.Commands()
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}
