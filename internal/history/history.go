// Package history provides the per-session command history and the
// prefix completion index. Everything lives in memory; history does not
// survive a restart.
package history

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"nlterm/internal/ops"
)

// Entry is one issued command, immutable once appended.
type Entry struct {
	// Raw is the input text as the user typed it.
	Raw string
	// Resolved is the literal command that ran; equals Raw for literal
	// input.
	Resolved string
	// Time is the completion timestamp.
	Time time.Time
	// Result is the structured outcome.
	Result ops.Result
}

// Recorder is the append/read surface the engine depends on.
type Recorder interface {
	// Append records a completed request for a session.
	Append(sessionID string, entry Entry)

	// Entries returns the session's history snapshot in append order.
	Entries(sessionID string) []Entry

	// Clear removes all entries for a session.
	Clear(sessionID string)

	// Drop forgets the session entirely.
	Drop(sessionID string)

	// Complete returns candidates for a prefix: command terms first,
	// then entries of the working directory, each group lexicographic.
	Complete(prefix, cwd string) []string
}

// Ensure concrete type implements the interface
var _ Recorder = (*Store)(nil)

// Store is the in-memory Recorder implementation. Appends to one
// session are serialized by the engine; the store's lock only protects
// the map across sessions and lets readers take snapshots.
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]Entry
	terms    []string
}

// NewStore creates a Store completing over the given command terms.
func NewStore(terms []string) *Store {
	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.Strings(sorted)
	return &Store{
		sessions: make(map[string][]Entry),
		terms:    sorted,
	}
}

// Append records a completed request for a session.
func (s *Store) Append(sessionID string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], entry)
}

// Entries returns a snapshot copy of the session's history in append
// order. The snapshot does not track later appends.
func (s *Store) Entries(sessionID string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.sessions[sessionID]
	snapshot := make([]Entry, len(entries))
	copy(snapshot, entries)
	return snapshot
}

// Clear removes all entries for a session, keeping the session known.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = nil
}

// Drop forgets the session entirely.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Complete returns completion candidates for a prefix: command-term
// matches first, then names from the working directory, both groups in
// lexicographic order. Directory entries are suffixed with "/".
func (s *Store) Complete(prefix, cwd string) []string {
	prefix = strings.ToLower(prefix)

	var candidates []string
	for _, term := range s.terms {
		if strings.HasPrefix(term, prefix) {
			candidates = append(candidates, term)
		}
	}

	entries, err := os.ReadDir(cwd)
	if err != nil {
		return candidates
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(strings.ToLower(name), prefix) {
			continue
		}
		if e.IsDir() {
			name += "/"
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return append(candidates, files...)
}
