// Package engine is the front-end-independent core: it owns sessions,
// drives input through resolution, validation, and execution, and
// records every completed request. Front-ends hand it raw lines and
// render the Results it returns; they never touch the OS themselves.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nlterm/internal/config"
	"nlterm/internal/history"
	"nlterm/internal/logger"
	"nlterm/internal/ops"
	"nlterm/internal/registry"
	"nlterm/internal/resolver"
)

// Session is one front-end attachment with its own working directory
// and history. Its mutex serializes Process calls so concurrent
// requests on the same session execute one at a time.
type Session struct {
	ID      string
	Workdir string

	mu       sync.Mutex
	lastExit int
	lastUsed time.Time
}

// LastExit returns the exit status of the session's most recent command.
func (s *Session) LastExit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastExit
}

// Engine executes raw input lines against the host on behalf of
// sessions. All methods are safe for concurrent use.
type Engine struct {
	cfg      *config.Config
	reg      *registry.Registry
	store    *history.Store
	resolver *resolver.Resolver

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewEngine builds the engine from configuration. A broken command
// table or a misconfigured translation provider aborts startup; a
// merely absent provider does not, the engine then accepts literal
// commands only.
func NewEngine(cfg *config.Config) (*Engine, error) {
	reg, err := registry.New()
	if err != nil {
		return nil, err
	}

	client, err := resolver.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		logger.Info("no translation backend configured, running literal-only")
	}

	return &Engine{
		cfg:      cfg,
		reg:      reg,
		store:    history.NewStore(reg.CompletionTerms()),
		resolver: resolver.NewResolver(client, reg, cfg.ResolveTimeout),
		sessions: make(map[string]*Session),
	}, nil
}

// Close releases the translation client.
func (e *Engine) Close() {
	e.resolver.Close()
}

// Registry exposes the command table for front-end completers.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// HasTranslator reports whether natural-language input can be resolved.
func (e *Engine) HasTranslator() bool {
	return e.cfg.HasTranslator()
}

// IsLiteral reports whether input would resolve without leaving the
// process. Front-ends use this to decide whether to show a wait state.
func (e *Engine) IsLiteral(input string) bool {
	return e.resolver.IsLiteral(input)
}

// NewSession creates a session rooted at the configured working
// directory and returns its ID.
func (e *Engine) NewSession() string {
	id := uuid.New().String()
	e.mu.Lock()
	e.sessions[id] = &Session{
		ID:       id,
		Workdir:  e.cfg.Workdir,
		lastUsed: time.Now(),
	}
	e.mu.Unlock()
	logger.Debug("session created", "session", id)
	return id
}

func (e *Engine) session(id string) (*Session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	sess, found := e.sessions[id]
	return sess, found
}

// Workdir returns the session's current working directory, or the
// configured root for an unknown session.
func (e *Engine) Workdir(sessionID string) string {
	if sess, found := e.session(sessionID); found {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		return sess.Workdir
	}
	return e.cfg.Workdir
}

// Drop discards a session and its history.
func (e *Engine) Drop(sessionID string) {
	e.mu.Lock()
	delete(e.sessions, sessionID)
	e.mu.Unlock()
	e.store.Drop(sessionID)
	logger.Debug("session dropped", "session", sessionID)
}

// ReapIdle drops every session idle for longer than maxIdle and returns
// how many were dropped.
func (e *Engine) ReapIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	e.mu.Lock()
	var stale []string
	for id, sess := range e.sessions {
		sess.mu.Lock()
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			stale = append(stale, id)
			delete(e.sessions, id)
		}
	}
	e.mu.Unlock()

	for _, id := range stale {
		e.store.Drop(id)
		logger.Debug("idle session reaped", "session", id)
	}
	return len(stale)
}

// Complete returns completion candidates for a prefix against the
// session's working directory.
func (e *Engine) Complete(sessionID, prefix string) []string {
	return e.store.Complete(prefix, e.Workdir(sessionID))
}

// Entries returns the session's history snapshot.
func (e *Engine) Entries(sessionID string) []history.Entry {
	return e.store.Entries(sessionID)
}

// Process runs one raw input line for a session and always returns a
// Result; failures of any phase land in Stderr with a nonzero
// ExitStatus, they never escape as errors. Blank input is a no-op and
// is not recorded.
func (e *Engine) Process(ctx context.Context, sessionID, raw string) ops.Result {
	if strings.TrimSpace(raw) == "" {
		return ops.Result{}
	}

	sess, found := e.session(sessionID)
	if !found {
		return ops.Result{
			Stderr:     fmt.Sprintf("unknown session '%s'", sessionID),
			ExitStatus: 1,
		}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsed = time.Now()

	result := e.processLocked(ctx, sess, raw)

	// The cwd delta and the history append commit together under the
	// session lock, so a concurrent request can never observe one
	// without the other.
	if result.Workdir != "" {
		sess.Workdir = result.Workdir
	}
	sess.lastExit = result.ExitStatus
	e.store.Append(sess.ID, history.Entry{
		Raw:      raw,
		Resolved: result.Resolved,
		Time:     time.Now(),
		Result:   result,
	})
	return result
}

func (e *Engine) processLocked(ctx context.Context, sess *Session, raw string) ops.Result {
	resolved, err := e.resolver.Resolve(ctx, raw)
	if err != nil {
		// Nothing resolved, so Resolved stays empty in the record.
		return failure("", err)
	}

	fields := strings.Fields(resolved)
	spec, found := e.reg.Lookup(fields[0])
	if !found {
		// Resolve guarantees a known first token; keep the failure
		// shape anyway.
		return failure(resolved, fmt.Errorf("unknown command '%s'", fields[0]))
	}
	args := fields[1:]

	if err := spec.Validate(args); err != nil {
		return failure(resolved, err)
	}

	if spec.Handler == nil {
		return e.builtin(sess, spec, args, resolved)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.CommandTimeout)
	defer cancel()

	result, err := spec.Handler.Execute(ctx, args, sess.Workdir)
	if err != nil {
		return failure(resolved, err)
	}
	result.Resolved = resolved
	return result
}

// builtin handles the commands that need engine state rather than an OS
// operation: help reads the command table, history reads the session's
// record.
func (e *Engine) builtin(sess *Session, spec *registry.Spec, args []string, resolved string) ops.Result {
	switch spec.Name {
	case "help":
		return ops.Result{Stdout: e.helpText(), Resolved: resolved}
	case "history":
		if len(args) == 1 {
			if !strings.EqualFold(args[0], "clear") {
				return failure(resolved, &ops.HandlerError{
					Kind: ops.KindInvalidArgument,
					Op:   "history",
					Msg:  fmt.Sprintf("unknown argument '%s', usage: history [clear]", args[0]),
				})
			}
			e.store.Clear(sess.ID)
			return ops.Result{Stdout: "History cleared", Resolved: resolved}
		}
		return ops.Result{Stdout: e.historyText(sess.ID), Resolved: resolved}
	default:
		return failure(resolved, fmt.Errorf("unknown builtin '%s'", spec.Name))
	}
}

func (e *Engine) helpText() string {
	var sb strings.Builder
	sb.WriteString("Available commands:\n")
	for _, spec := range e.reg.All() {
		name := spec.Name
		if spec.ArgHint != "" {
			name += " " + spec.ArgHint
		}
		fmt.Fprintf(&sb, "  %-24s %s", name, spec.Description)
		if len(spec.Aliases) > 0 {
			fmt.Fprintf(&sb, " (alias: %s)", strings.Join(spec.Aliases, ", "))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nAnything else is treated as natural language and translated.")
	return sb.String()
}

func (e *Engine) historyText(sessionID string) string {
	entries := e.store.Entries(sessionID)
	if len(entries) == 0 {
		return "History is empty"
	}
	var sb strings.Builder
	for i, entry := range entries {
		fmt.Fprintf(&sb, "%4d  %s", i+1, entry.Raw)
		if entry.Resolved != "" && entry.Resolved != entry.Raw {
			fmt.Fprintf(&sb, "  (-> %s)", entry.Resolved)
		}
		if i < len(entries)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// failure maps any phase error onto a Result. Every failure carries a
// nonzero exit status and a user-facing message in Stderr.
func failure(resolved string, err error) ops.Result {
	result := ops.Result{ExitStatus: 1, Resolved: resolved}

	var resErr *resolver.ResolutionError
	var valErr *registry.ValidationError
	var hErr *ops.HandlerError
	switch {
	case errors.As(err, &resErr):
		result.Stderr = resErr.Msg
	case errors.As(err, &valErr):
		result.Stderr = valErr.Error()
	case errors.As(err, &hErr):
		result.Stderr = hErr.Error()
	default:
		result.Stderr = err.Error()
	}
	return result
}
