// Package commands provides the demo command set dispatched by the esh
// binaries. It is deliberately outside the core: the session only
// produces argument vectors, and this package decides what they mean.
package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ErrExit is returned by the exit and quit builtins; the session owner
// shuts the connection down when it sees it.
var ErrExit = errors.New("exit requested")

// Handler runs one command. out is the session's output sink, already
// line-ending translated for the transport; args excludes the command
// name itself.
type Handler func(out io.Writer, args []string) error

type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Desc    string
	Run     Handler
}

// Registry maps command names and aliases to handlers. It is populated
// once at startup and read-only afterwards, so independent sessions may
// share one instance.
type Registry struct {
	primary map[string]Command
	lookup  map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		primary: make(map[string]Command),
		lookup:  make(map[string]string),
	}
}

func (r *Registry) Register(cmd Command) error {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return fmt.Errorf("command registry: empty command name")
	}
	if cmd.Run == nil {
		return fmt.Errorf("command registry: %q has no handler", cmd.Name)
	}
	if _, ok := r.lookup[cmd.Name]; ok {
		return fmt.Errorf("command registry: duplicate command %q", cmd.Name)
	}

	r.primary[cmd.Name] = cmd
	r.lookup[cmd.Name] = cmd.Name

	for _, alias := range cmd.Aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		if _, ok := r.lookup[alias]; ok {
			return fmt.Errorf("command registry: duplicate alias %q", alias)
		}
		r.lookup[alias] = cmd.Name
	}
	return nil
}

func (r *Registry) Resolve(name string) (Command, bool) {
	if primary, ok := r.lookup[name]; ok {
		cmd, ok := r.primary[primary]
		return cmd, ok
	}
	return Command{}, false
}

// Names returns the primary command names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.primary))
	for name := range r.primary {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Run resolves argv[0] and executes it. Unknown commands print the
// argument vector back, which doubles as a tokenizer demo.
func (r *Registry) Run(out io.Writer, argv []string) error {
	if len(argv) == 0 {
		return nil
	}
	cmd, ok := r.Resolve(argv[0])
	if !ok {
		fmt.Fprintf(out, "unknown command: %s (try 'help')\n", argv[0])
		fmt.Fprintf(out, "argc     = %d\n", len(argv))
		for i, arg := range argv {
			fmt.Fprintf(out, "argv[%2d] = %s\n", i, arg)
		}
		return nil
	}
	return cmd.Run(out, argv[1:])
}

// Strings copies a dispatched argument vector out of the session
// buffer. The views die at the next received byte, so every dispatcher
// using this package goes through here first.
func Strings(argv [][]byte) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = string(a)
	}
	return out
}
