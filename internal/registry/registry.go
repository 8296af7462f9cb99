// Package registry holds the static command table: canonical names,
// aliases, arity rules, and the OS operation handler each command binds
// to. The table is immutable once built and shared read-only by every
// session.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"nlterm/internal/ops"
)

// NoLimit marks an unbounded maximum argument count.
const NoLimit = -1

// Spec describes one canonical command.
type Spec struct {
	// Name is the canonical, globally unique command name.
	Name string
	// Aliases are alternative spellings; each maps to exactly one Spec.
	Aliases []string
	// MinArgs/MaxArgs bound the argument count; MaxArgs may be NoLimit.
	MinArgs int
	MaxArgs int
	// ArgHint describes the argument shape for usage messages.
	ArgHint string
	// Description is the one-line help text.
	Description string
	// Handler performs the bound OS operation. Nil for engine builtins
	// (help, history), which need registry and session state.
	Handler ops.Handler
}

// ValidationError reports an argument count outside the spec's bounds.
type ValidationError struct {
	Command string
	Hint    string
	Got     int
	Min     int
	Max     int
}

func (e *ValidationError) Error() string {
	usage := e.Command
	if e.Hint != "" {
		usage += " " + e.Hint
	}
	switch {
	case e.Got < e.Min:
		return fmt.Sprintf("%s: missing argument(s), usage: %s", e.Command, usage)
	default:
		return fmt.Sprintf("%s: too many arguments, usage: %s", e.Command, usage)
	}
}

// Validate checks the argument count against the spec's bounds.
func (s *Spec) Validate(args []string) error {
	if len(args) < s.MinArgs || (s.MaxArgs != NoLimit && len(args) > s.MaxArgs) {
		return &ValidationError{
			Command: s.Name,
			Hint:    s.ArgHint,
			Got:     len(args),
			Min:     s.MinArgs,
			Max:     s.MaxArgs,
		}
	}
	return nil
}

// Registry is the immutable lookup table over specs and aliases.
type Registry struct {
	specs   []*Spec
	byToken map[string]*Spec
}

// New builds the default command table. It fails on a duplicated name
// or alias; callers treat that as a startup invariant violation.
func New() (*Registry, error) {
	return build(defaultSpecs())
}

func build(specs []*Spec) (*Registry, error) {
	r := &Registry{
		specs:   specs,
		byToken: make(map[string]*Spec, len(specs)*2),
	}
	for _, spec := range specs {
		for _, token := range append([]string{spec.Name}, spec.Aliases...) {
			key := strings.ToLower(token)
			if _, exists := r.byToken[key]; exists {
				return nil, fmt.Errorf("registry: token '%s' bound twice", key)
			}
			r.byToken[key] = spec
		}
	}
	return r, nil
}

// Lookup resolves a command token, case-insensitively, across canonical
// names and aliases.
func (r *Registry) Lookup(token string) (*Spec, bool) {
	spec, found := r.byToken[strings.ToLower(strings.TrimSpace(token))]
	return spec, found
}

// Names returns the sorted canonical command names. This is the command
// list handed to the translation boundary.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for _, spec := range r.specs {
		names = append(names, spec.Name)
	}
	sort.Strings(names)
	return names
}

// CompletionTerms returns every name and alias, sorted, for prefix
// completion.
func (r *Registry) CompletionTerms() []string {
	terms := make([]string, 0, len(r.byToken))
	for token := range r.byToken {
		terms = append(terms, token)
	}
	sort.Strings(terms)
	return terms
}

// All returns the specs sorted by canonical name.
func (r *Registry) All() []*Spec {
	specs := make([]*Spec, len(r.specs))
	copy(specs, r.specs)
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

func defaultSpecs() []*Spec {
	return []*Spec{
		{Name: "dir", Aliases: []string{"ls"}, MinArgs: 0, MaxArgs: 1, ArgHint: "[path]", Description: "List directory contents", Handler: ops.HandlerFunc(ops.Dir)},
		{Name: "cd", MinArgs: 0, MaxArgs: 1, ArgHint: "[path]", Description: "Change directory", Handler: ops.HandlerFunc(ops.Cd)},
		{Name: "pwd", MinArgs: 0, MaxArgs: 0, Description: "Print working directory", Handler: ops.HandlerFunc(ops.Pwd)},
		{Name: "mkdir", MinArgs: 1, MaxArgs: NoLimit, ArgHint: "<dir>...", Description: "Create directory", Handler: ops.HandlerFunc(ops.Mkdir)},
		{Name: "rmdir", MinArgs: 1, MaxArgs: NoLimit, ArgHint: "<dir>...", Description: "Remove empty directory", Handler: ops.HandlerFunc(ops.Rmdir)},
		{Name: "del", Aliases: []string{"rm"}, MinArgs: 1, MaxArgs: NoLimit, ArgHint: "<file>...", Description: "Delete file", Handler: ops.HandlerFunc(ops.Del)},
		{Name: "copy", Aliases: []string{"cp"}, MinArgs: 2, MaxArgs: 2, ArgHint: "<source> <dest>", Description: "Copy file or directory", Handler: ops.HandlerFunc(ops.Copy)},
		{Name: "move", Aliases: []string{"mv"}, MinArgs: 2, MaxArgs: 2, ArgHint: "<source> <dest>", Description: "Move or rename file", Handler: ops.HandlerFunc(ops.Move)},
		{Name: "ren", MinArgs: 2, MaxArgs: 2, ArgHint: "<old> <new>", Description: "Rename file or directory", Handler: ops.HandlerFunc(ops.Ren)},
		{Name: "type", Aliases: []string{"cat"}, MinArgs: 1, MaxArgs: 1, ArgHint: "<file>", Description: "Display file contents", Handler: ops.HandlerFunc(ops.TypeFile)},
		{Name: "touch", MinArgs: 1, MaxArgs: NoLimit, ArgHint: "<file>...", Description: "Create empty file", Handler: ops.HandlerFunc(ops.Touch)},
		{Name: "echo", MinArgs: 0, MaxArgs: NoLimit, ArgHint: "[text]", Description: "Echo text to console", Handler: ops.HandlerFunc(ops.Echo)},
		{Name: "tasklist", Aliases: []string{"ps"}, MinArgs: 0, MaxArgs: 0, Description: "Show running processes", Handler: ops.HandlerFunc(ops.Tasklist)},
		{Name: "taskkill", Aliases: []string{"kill"}, MinArgs: 1, MaxArgs: 2, ArgHint: "<pid|name>", Description: "Kill a process", Handler: ops.HandlerFunc(ops.Taskkill)},
		{Name: "cpu", MinArgs: 0, MaxArgs: 0, Description: "Show CPU usage", Handler: ops.HandlerFunc(ops.CPU)},
		{Name: "mem", MinArgs: 0, MaxArgs: 0, Description: "Show memory usage", Handler: ops.HandlerFunc(ops.Mem)},
		{Name: "ipconfig", MinArgs: 0, MaxArgs: 0, Description: "Show network configuration", Handler: ops.HandlerFunc(ops.Ipconfig)},
		{Name: "ping", MinArgs: 1, MaxArgs: 2, ArgHint: "<host> [count]", Description: "Ping a host", Handler: ops.HandlerFunc(ops.Ping)},
		{Name: "netstat", MinArgs: 0, MaxArgs: 0, Description: "Show network connections", Handler: ops.HandlerFunc(ops.Netstat)},
		{Name: "cls", Aliases: []string{"clear"}, MinArgs: 0, MaxArgs: 0, Description: "Clear the screen", Handler: ops.HandlerFunc(ops.Noop)},
		{Name: "history", MinArgs: 0, MaxArgs: 1, ArgHint: "[clear]", Description: "Show command history"},
		{Name: "help", MinArgs: 0, MaxArgs: 0, Description: "Show help information"},
		{Name: "exit", Aliases: []string{"quit"}, MinArgs: 0, MaxArgs: 0, Description: "Exit terminal", Handler: ops.HandlerFunc(ops.Noop)},
	}
}
