package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nlterm/internal/config"
)

// newTestEngine builds a literal-only engine rooted in a temp directory.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := &config.Config{
		Workdir:        t.TempDir(),
		ResolveTimeout: time.Second,
		CommandTimeout: 5 * time.Second,
	}
	eng, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}
	t.Cleanup(eng.Close)
	return eng
}

func TestProcess_BlankInputNotRecorded(t *testing.T) {
	eng := newTestEngine(t)
	sid := eng.NewSession()

	for _, input := range []string{"", "   ", "\t"} {
		result := eng.Process(context.Background(), sid, input)
		if result.ExitStatus != 0 || result.Stdout != "" || result.Stderr != "" {
			t.Errorf("Process(%q) = %+v, want zero result", input, result)
		}
	}
	if entries := eng.Entries(sid); len(entries) != 0 {
		t.Errorf("blank input recorded %d history entries, want 0", len(entries))
	}
}

func TestProcess_UnknownSession(t *testing.T) {
	eng := newTestEngine(t)

	result := eng.Process(context.Background(), "no-such-session", "pwd")
	if result.IsSuccess() {
		t.Error("Process() on unknown session should fail")
	}
	if !strings.Contains(result.Stderr, "unknown session") {
		t.Errorf("Stderr = %q, want unknown-session message", result.Stderr)
	}
}

func TestProcess_LiteralCommand(t *testing.T) {
	eng := newTestEngine(t)
	sid := eng.NewSession()

	result := eng.Process(context.Background(), sid, "mkdir demo")
	if !result.IsSuccess() {
		t.Fatalf("mkdir failed: %s", result.Stderr)
	}
	if result.Resolved != "mkdir demo" {
		t.Errorf("Resolved = %q, want input unchanged", result.Resolved)
	}

	entries := eng.Entries(sid)
	if len(entries) != 1 {
		t.Fatalf("history = %d entries, want 1", len(entries))
	}
	if entries[0].Raw != "mkdir demo" || entries[0].Resolved != "mkdir demo" {
		t.Errorf("history entry = %+v", entries[0])
	}
}

func TestProcess_CwdDelta(t *testing.T) {
	eng := newTestEngine(t)
	sid := eng.NewSession()
	root := eng.Workdir(sid)

	if result := eng.Process(context.Background(), sid, "mkdir sub"); !result.IsSuccess() {
		t.Fatalf("mkdir failed: %s", result.Stderr)
	}

	result := eng.Process(context.Background(), sid, "cd sub")
	if !result.IsSuccess() {
		t.Fatalf("cd failed: %s", result.Stderr)
	}
	want := filepath.Join(root, "sub")
	if eng.Workdir(sid) != want {
		t.Errorf("Workdir = %q, want %q", eng.Workdir(sid), want)
	}

	// The next command sees the new directory.
	result = eng.Process(context.Background(), sid, "pwd")
	if result.Stdout != want {
		t.Errorf("pwd = %q, want %q", result.Stdout, want)
	}

	// A failed cd leaves the cwd untouched.
	result = eng.Process(context.Background(), sid, "cd nowhere")
	if result.IsSuccess() {
		t.Error("cd to missing directory should fail")
	}
	if eng.Workdir(sid) != want {
		t.Errorf("failed cd moved Workdir to %q", eng.Workdir(sid))
	}
}

func TestProcess_SessionsIsolated(t *testing.T) {
	eng := newTestEngine(t)
	s1 := eng.NewSession()
	s2 := eng.NewSession()

	eng.Process(context.Background(), s1, "mkdir only1")
	eng.Process(context.Background(), s1, "cd only1")

	if eng.Workdir(s1) == eng.Workdir(s2) {
		t.Error("cd in one session changed another session's cwd")
	}
	if len(eng.Entries(s2)) != 0 {
		t.Error("history leaked across sessions")
	}
}

func TestProcess_NaturalLanguageWithoutTranslator(t *testing.T) {
	eng := newTestEngine(t)
	sid := eng.NewSession()

	result := eng.Process(context.Background(), sid, "please show me the files")
	if result.IsSuccess() {
		t.Error("natural language should fail in literal-only mode")
	}
	if !strings.Contains(result.Stderr, "no translation backend") {
		t.Errorf("Stderr = %q, want no-backend message", result.Stderr)
	}
	if result.Resolved != "" {
		t.Errorf("Resolved = %q, want empty for failed resolution", result.Resolved)
	}

	// The failure is still recorded.
	entries := eng.Entries(sid)
	if len(entries) != 1 {
		t.Fatalf("history = %d entries, want 1", len(entries))
	}
	if entries[0].Result.IsSuccess() {
		t.Error("recorded result should carry the failure")
	}

	// The session stays usable for literal commands.
	if result := eng.Process(context.Background(), sid, "pwd"); !result.IsSuccess() {
		t.Errorf("literal command after resolution failure: %s", result.Stderr)
	}
}

func TestProcess_ValidationFailure(t *testing.T) {
	eng := newTestEngine(t)
	sid := eng.NewSession()

	result := eng.Process(context.Background(), sid, "copy lonely")
	if result.IsSuccess() {
		t.Error("copy with one arg should fail validation")
	}
	if !strings.Contains(result.Stderr, "usage:") {
		t.Errorf("Stderr = %q, want usage message", result.Stderr)
	}
}

func TestProcess_HandlerFailure(t *testing.T) {
	eng := newTestEngine(t)
	sid := eng.NewSession()

	// Deleting a missing file fails identically every time.
	first := eng.Process(context.Background(), sid, "del ghost.txt")
	second := eng.Process(context.Background(), sid, "del ghost.txt")

	if first.IsSuccess() || second.IsSuccess() {
		t.Error("del of missing file should fail")
	}
	if first.Stderr != second.Stderr {
		t.Errorf("repeated failure differs: %q vs %q", first.Stderr, second.Stderr)
	}
	if !strings.Contains(first.Stderr, "does not exist") {
		t.Errorf("Stderr = %q, want does-not-exist message", first.Stderr)
	}
	if len(eng.Entries(sid)) != 2 {
		t.Error("both failed attempts should be recorded")
	}
}

func TestProcess_HelpBuiltin(t *testing.T) {
	eng := newTestEngine(t)
	sid := eng.NewSession()

	result := eng.Process(context.Background(), sid, "help")
	if !result.IsSuccess() {
		t.Fatalf("help failed: %s", result.Stderr)
	}
	for _, want := range []string{"Available commands:", "mkdir", "tasklist", "alias: ls"} {
		if !strings.Contains(result.Stdout, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestProcess_HistoryBuiltin(t *testing.T) {
	eng := newTestEngine(t)
	sid := eng.NewSession()

	result := eng.Process(context.Background(), sid, "history")
	if result.Stdout != "History is empty" {
		t.Errorf("history on fresh session = %q", result.Stdout)
	}

	eng.Process(context.Background(), sid, "pwd")
	eng.Process(context.Background(), sid, "echo hi")

	result = eng.Process(context.Background(), sid, "history")
	if !result.IsSuccess() {
		t.Fatalf("history failed: %s", result.Stderr)
	}
	if !strings.Contains(result.Stdout, "pwd") || !strings.Contains(result.Stdout, "echo hi") {
		t.Errorf("history output = %q", result.Stdout)
	}
	// The empty-history probe is itself the first entry.
	if !strings.HasPrefix(strings.TrimSpace(result.Stdout), "1  history") {
		t.Errorf("history should be numbered from 1: %q", result.Stdout)
	}

	result = eng.Process(context.Background(), sid, "history clear")
	if !result.IsSuccess() || result.Stdout != "History cleared" {
		t.Errorf("history clear = %+v", result)
	}
	// Only the clear itself remains recorded after clearing.
	if entries := eng.Entries(sid); len(entries) != 1 {
		t.Errorf("entries after clear = %d, want 1", len(entries))
	}

	result = eng.Process(context.Background(), sid, "history bogus")
	if result.IsSuccess() {
		t.Error("history with unknown arg should fail")
	}
}

func TestProcess_FrontEndCommands(t *testing.T) {
	eng := newTestEngine(t)
	sid := eng.NewSession()

	for _, input := range []string{"exit", "quit", "cls", "clear"} {
		result := eng.Process(context.Background(), sid, input)
		if !result.IsSuccess() {
			t.Errorf("Process(%q) failed: %s", input, result.Stderr)
		}
		if result.Resolved != input {
			t.Errorf("Process(%q).Resolved = %q", input, result.Resolved)
		}
	}
}

func TestSession_LastExit(t *testing.T) {
	eng := newTestEngine(t)
	sid := eng.NewSession()

	eng.Process(context.Background(), sid, "pwd")
	sess, found := eng.session(sid)
	if !found {
		t.Fatal("session disappeared")
	}
	if sess.LastExit() != 0 {
		t.Errorf("LastExit = %d after success, want 0", sess.LastExit())
	}

	eng.Process(context.Background(), sid, "del ghost")
	if sess.LastExit() == 0 {
		t.Error("LastExit should be nonzero after failure")
	}
}

func TestDropAndReapIdle(t *testing.T) {
	eng := newTestEngine(t)
	sid := eng.NewSession()
	eng.Process(context.Background(), sid, "pwd")

	eng.Drop(sid)
	if len(eng.Entries(sid)) != 0 {
		t.Error("Drop() left history behind")
	}

	s1 := eng.NewSession()
	s2 := eng.NewSession()
	time.Sleep(20 * time.Millisecond)

	if n := eng.ReapIdle(10 * time.Millisecond); n != 2 {
		t.Errorf("ReapIdle() = %d, want 2", n)
	}
	if _, found := eng.session(s1); found {
		t.Error("reaped session still present")
	}
	if _, found := eng.session(s2); found {
		t.Error("reaped session still present")
	}

	// A fresh session survives a generous idle window.
	s3 := eng.NewSession()
	if n := eng.ReapIdle(time.Hour); n != 0 {
		t.Errorf("ReapIdle(1h) = %d, want 0", n)
	}
	if _, found := eng.session(s3); !found {
		t.Error("active session was reaped")
	}
}

func TestComplete(t *testing.T) {
	eng := newTestEngine(t)
	sid := eng.NewSession()

	got := eng.Complete(sid, "pw")
	if len(got) != 1 || got[0] != "pwd" {
		t.Errorf("Complete(pw) = %v, want [pwd]", got)
	}

	// Completion follows the session's cwd.
	eng.Process(context.Background(), sid, "mkdir box")
	eng.Process(context.Background(), sid, "cd box")
	eng.Process(context.Background(), sid, "touch boxfile.txt")

	got = eng.Complete(sid, "boxf")
	if len(got) != 1 || got[0] != "boxfile.txt" {
		t.Errorf("Complete(boxf) = %v, want [boxfile.txt]", got)
	}
}

func TestIsLiteral(t *testing.T) {
	eng := newTestEngine(t)

	if !eng.IsLiteral("dir") {
		t.Error("IsLiteral(dir) = false")
	}
	if eng.IsLiteral("what is going on") {
		t.Error("IsLiteral(natural language) = true")
	}
}
