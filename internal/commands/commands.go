package commands

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

const prefix = "cmd "

// Builder defines a command's flags on fs and returns the function that runs it.
// The returned function is called after fs.Parse and can read flag state and fs.Args().
type Builder func(fs *flag.FlagSet) func() error

// Command is a subcommand. Every Execute builds a fresh FlagSet so flags never carry over
// between runs.
type Command struct {
	Name    string
	Summary string
	Build   Builder
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
	out  io.Writer
}

// NewRegistry returns an empty command registry. Flag parse errors and usage go to out.
func NewRegistry(out io.Writer) *Registry {
	if out == nil {
		out = io.Discard
	}
	return &Registry{cmds: make(map[string]*Command), out: out}
}

// Register adds a subcommand. name is the first token after "cmd" (e.g. "scan").
func (r *Registry) Register(name, summary string, build Builder) {
	r.cmds[name] = &Command{Name: name, Summary: summary, Build: build}
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.cmds))
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.cmds[name]
	return c, ok
}

// Parse interprets line as a terminal line. If line starts with "cmd " (case-sensitive),
// the rest is tokenized by spaces and returned with ok true. Otherwise nil, false.
func Parse(line string) (args []string, ok bool) {
	if !strings.HasPrefix(line, prefix) {
		return nil, false
	}
	rest := strings.TrimSpace(line[len(prefix):])
	if rest == "" {
		return nil, true
	}
	return strings.Fields(rest), true
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns an error for unknown command, parse error, or from Run().
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("commands: missing subcommand")
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return fmt.Errorf("commands: unknown command: %s", name)
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.out)
	run := cmd.Build(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("commands: %s: %w", name, err)
	}
	return run()
}

// PrintHelp writes one line per command.
func (r *Registry) PrintHelp(w io.Writer) {
	for _, name := range r.Names() {
		fmt.Fprintf(w, "%-8s %s\n", name, r.cmds[name].Summary)
	}
}
