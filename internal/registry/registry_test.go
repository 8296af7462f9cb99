package registry

import (
	"errors"
	"sort"
	"strings"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return r
}

func TestLookup(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name  string
		token string
		want  string
		found bool
	}{
		{"canonical name", "dir", "dir", true},
		{"alias", "ls", "dir", true},
		{"uppercase", "DIR", "dir", true},
		{"mixed case alias", "Ps", "tasklist", true},
		{"surrounding whitespace", " pwd ", "pwd", true},
		{"unknown", "frobnicate", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, found := r.Lookup(tt.token)
			if found != tt.found {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.token, found, tt.found)
			}
			if found && spec.Name != tt.want {
				t.Errorf("Lookup(%q).Name = %q, want %q", tt.token, spec.Name, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name    string
		command string
		args    []string
		wantErr bool
	}{
		{"pwd no args", "pwd", nil, false},
		{"pwd with arg", "pwd", []string{"x"}, true},
		{"dir optional arg", "dir", []string{"sub"}, false},
		{"dir too many", "dir", []string{"a", "b"}, true},
		{"mkdir missing arg", "mkdir", nil, true},
		{"mkdir many args", "mkdir", []string{"a", "b", "c", "d"}, false},
		{"copy exact", "copy", []string{"a", "b"}, false},
		{"copy missing dest", "copy", []string{"a"}, true},
		{"ping one or two", "ping", []string{"host", "3"}, false},
		{"ping three", "ping", []string{"host", "3", "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, found := r.Lookup(tt.command)
			if !found {
				t.Fatalf("Lookup(%q) not found", tt.command)
			}
			err := spec.Validate(tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("Validate() error type = %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	spec := &Spec{Name: "copy", MinArgs: 2, MaxArgs: 2, ArgHint: "<source> <dest>"}

	err := spec.Validate([]string{"only"})
	if err == nil {
		t.Fatal("Validate() expected error, got nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "copy <source> <dest>") {
		t.Errorf("error message %q should contain usage", msg)
	}
	if !strings.Contains(msg, "missing") {
		t.Errorf("error message %q should say missing", msg)
	}

	err = spec.Validate([]string{"a", "b", "c"})
	if err == nil || !strings.Contains(err.Error(), "too many") {
		t.Errorf("error = %v, want too-many message", err)
	}
}

func TestBuild_DuplicateToken(t *testing.T) {
	_, err := build([]*Spec{
		{Name: "dir"},
		{Name: "list", Aliases: []string{"dir"}},
	})
	if err == nil {
		t.Error("build() expected error for duplicate token, got nil")
	}
}

func TestNames_SortedCanonical(t *testing.T) {
	r := newTestRegistry(t)

	names := r.Names()
	if !sort.StringsAreSorted(names) {
		t.Error("Names() not sorted")
	}
	for _, alias := range []string{"ls", "rm", "cp", "mv", "cat", "ps", "kill", "clear", "quit"} {
		for _, n := range names {
			if n == alias {
				t.Errorf("Names() contains alias %q", alias)
			}
		}
	}
}

func TestCompletionTerms_IncludesAliases(t *testing.T) {
	r := newTestRegistry(t)

	terms := r.CompletionTerms()
	if !sort.StringsAreSorted(terms) {
		t.Error("CompletionTerms() not sorted")
	}
	want := map[string]bool{"dir": false, "ls": false, "tasklist": false, "ps": false}
	for _, term := range terms {
		if _, tracked := want[term]; tracked {
			want[term] = true
		}
	}
	for term, seen := range want {
		if !seen {
			t.Errorf("CompletionTerms() missing %q", term)
		}
	}
}

func TestBuiltinsHaveNoHandler(t *testing.T) {
	r := newTestRegistry(t)

	for _, name := range []string{"help", "history"} {
		spec, found := r.Lookup(name)
		if !found {
			t.Fatalf("Lookup(%q) not found", name)
		}
		if spec.Handler != nil {
			t.Errorf("%q should have nil Handler (engine builtin)", name)
		}
	}

	for _, name := range []string{"exit", "cls"} {
		spec, found := r.Lookup(name)
		if !found {
			t.Fatalf("Lookup(%q) not found", name)
		}
		if spec.Handler == nil {
			t.Errorf("%q should have a handler", name)
		}
	}
}
