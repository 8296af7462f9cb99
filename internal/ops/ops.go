// Package ops provides the OS operation handlers behind the command
// registry. Each handler receives pre-validated arguments and the
// session's working directory, and returns either a Result or a typed
// *HandlerError; handlers never chdir the process and never let an OS
// fault escape untyped.
package ops

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Result is the structured outcome of one executed command.
type Result struct {
	// Stdout holds the command's output text.
	Stdout string
	// Stderr holds the failure message; empty whenever ExitStatus is 0.
	Stderr string
	// ExitStatus is 0 on success, nonzero on any failure.
	ExitStatus int
	// Workdir carries the new absolute working directory. It is set
	// only by a successful directory change.
	Workdir string
	// Resolved is the literal command that was executed; it equals the
	// raw input for literal commands. Filled in by the engine.
	Resolved string
}

// IsSuccess reports whether the command completed without failure.
func (r Result) IsSuccess() bool {
	return r.ExitStatus == 0
}

// ErrorKind classifies handler failures.
type ErrorKind int

const (
	// KindNotFound means a referenced path or process does not exist.
	KindNotFound ErrorKind = iota
	// KindPermissionDenied means the OS refused the operation.
	KindPermissionDenied
	// KindInvalidArgument means an argument is structurally wrong for
	// the operation (wrong type of path, malformed pid, ...).
	KindInvalidArgument
	// KindTimeout means the operation exceeded its deadline.
	KindTimeout
)

// String returns the kind's short name.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermissionDenied:
		return "permission denied"
	case KindInvalidArgument:
		return "invalid argument"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// HandlerError is the typed failure every handler reports instead of a
// raw OS error.
type HandlerError struct {
	Kind ErrorKind
	Op   string
	Msg  string
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// Handler executes one OS operation with validated args against cwd.
type Handler interface {
	Execute(ctx context.Context, args []string, cwd string) (Result, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, args []string, cwd string) (Result, error)

// Execute calls f.
func (f HandlerFunc) Execute(ctx context.Context, args []string, cwd string) (Result, error) {
	return f(ctx, args, cwd)
}

// Noop succeeds with no output. Bound to commands whose effect lives in
// the front-end (cls, exit).
func Noop(_ context.Context, _ []string, _ string) (Result, error) {
	return Result{}, nil
}

func ok(stdout string) Result {
	return Result{Stdout: stdout}
}

func notFound(op, what string) *HandlerError {
	return &HandlerError{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf("'%s' does not exist", what)}
}

func invalidArgument(op, msg string) *HandlerError {
	return &HandlerError{Kind: KindInvalidArgument, Op: op, Msg: msg}
}

func timeout(op string) *HandlerError {
	return &HandlerError{Kind: KindTimeout, Op: op, Msg: "operation timed out"}
}

// osError maps a raw OS error onto the handler taxonomy.
func osError(op string, err error) *HandlerError {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &HandlerError{Kind: KindNotFound, Op: op, Msg: err.Error()}
	case errors.Is(err, fs.ErrPermission):
		return &HandlerError{Kind: KindPermissionDenied, Op: op, Msg: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return timeout(op)
	default:
		return &HandlerError{Kind: KindInvalidArgument, Op: op, Msg: err.Error()}
	}
}

// resolvePath anchors p at cwd unless it is already absolute.
func resolvePath(cwd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(cwd, p)
}

// statDir verifies path exists and is a directory.
func statDir(op, path string) (os.FileInfo, *HandlerError) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(op, path)
		}
		return nil, osError(op, err)
	}
	if !info.IsDir() {
		return nil, invalidArgument(op, fmt.Sprintf("'%s' is not a directory", path))
	}
	return info, nil
}
