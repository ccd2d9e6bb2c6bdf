package core

import (
	"sync"
	"time"

	"careplan-assistant/pkg"
)

// SessionStore holds the per-session state: the single last generation result
// used as follow-up context, and the ordered, append-only history of
// generation and follow-up events. One store is created per browser session
// and passed by handle into the service layer; it is never a process-wide
// singleton, so concurrent sessions in one process stay isolated.
//
// Mutations are mutex-serialized because the HTTP host may invoke a session
// concurrently; within one request flow the service appends synchronously
// after its single model call, so history order equals call completion order.
type SessionStore struct {
	mu      sync.Mutex
	last    *pkg.LastOutputs
	history []pkg.HistoryEntry
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// RecordGeneration overwrites the last outputs wholesale and appends a
// timestamped generation entry. Readers never observe a partial update.
func (s *SessionStore) RecordGeneration(patientText string, format pkg.OutputFormat, result *pkg.GenerationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &pkg.LastOutputs{
		PatientText:      patientText,
		OutputFormat:     format,
		Soap:             result.Soap,
		PlanTable:        result.PlanTable,
		ReasoningSummary: result.ReasoningSummary,
	}
	s.history = append(s.history, pkg.HistoryEntry{
		Kind:         pkg.HistoryGeneration,
		Timestamp:    time.Now(),
		PatientText:  patientText,
		OutputFormat: format,
		Result:       result,
	})
}

// RecordFollowUp appends a follow-up entry. Last outputs are untouched.
// The store trusts its caller to have checked HasLastOutputs first.
func (s *SessionStore) RecordFollowUp(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, pkg.HistoryEntry{
		Kind:      pkg.HistoryFollowUp,
		Timestamp: time.Now(),
		Question:  question,
		Answer:    answer,
	})
}

// HasLastOutputs reports whether a generation has succeeded this session.
func (s *SessionStore) HasLastOutputs() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last != nil
}

// CurrentContext returns a copy of the last outputs, or nil when no
// generation has succeeded yet.
func (s *SessionStore) CurrentContext() *pkg.LastOutputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	cp := *s.last
	return &cp
}

// History returns the session transcript in chronological order. The slice
// is a copy; appended entries are never reordered or pruned.
func (s *SessionStore) History() []pkg.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pkg.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}
