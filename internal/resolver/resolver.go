package resolver

import (
	"context"
	"strings"
	"time"

	"nlterm/internal/logger"
	"nlterm/internal/registry"
)

// Resolver maps raw input lines to literal command lines. Literal input
// short-circuits locally; everything else crosses the translation
// boundary and the reply is re-validated before it is returned.
type Resolver struct {
	client  TranslatorClient
	reg     *registry.Registry
	timeout time.Duration
}

// NewResolver wires a resolver over the command table. A nil client is
// valid and means literal-only operation.
func NewResolver(client TranslatorClient, reg *registry.Registry, timeout time.Duration) *Resolver {
	return &Resolver{client: client, reg: reg, timeout: timeout}
}

// IsLiteral reports whether the input's first token names a known
// command, meaning resolution will not leave the process.
func (r *Resolver) IsLiteral(input string) bool {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false
	}
	_, found := r.reg.Lookup(fields[0])
	return found
}

// Close releases the translator client, if any.
func (r *Resolver) Close() {
	if r.client != nil {
		r.client.Close()
	}
}

// Resolve returns a command line whose first token is guaranteed to name
// a registered command. Literal input comes back unchanged. Failures are
// *ResolutionError: Unavailable when the boundary cannot answer,
// Unrecognized when its answer does not parse into a known command.
func (r *Resolver) Resolve(ctx context.Context, raw string) (string, error) {
	if r.IsLiteral(raw) {
		return raw, nil
	}

	if r.client == nil {
		return "", unavailable("no translation backend configured; only literal commands are accepted (try 'help')")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.client.Translate(ctx, TranslationRequest{
		Text:     raw,
		Commands: r.reg.Names(),
	})
	if err != nil {
		logger.Warn("translation failed", "error", err)
		return "", unavailable("translation failed: %v", err)
	}

	resolved, ok := sanitizeReply(reply)
	if !ok {
		logger.Debug("translator reply rejected", "reply", reply)
		return "", unrecognized("could not understand: %s", raw)
	}

	fields := strings.Fields(resolved)
	if _, found := r.reg.Lookup(fields[0]); !found {
		logger.Debug("translator proposed unknown command", "reply", resolved)
		return "", unrecognized("could not understand: %s", raw)
	}

	logger.Debug("translated input", "raw", raw, "resolved", resolved)
	return resolved, nil
}

// sanitizeReply normalizes a translator reply into one bare command
// line. Code fences and surrounding quotes are stripped; a reply that
// still spans multiple lines or comes back empty is rejected rather
// than partially executed.
func sanitizeReply(reply string) (string, bool) {
	var lines []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) != 1 {
		return "", false
	}

	line := strings.Trim(lines[0], "`\"'")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	return line, true
}
