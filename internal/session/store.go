// Package session holds per-user conversation history and the WhatsApp
// symptom-capture state machine. State lives in process memory for the
// lifetime of the process; a restart intentionally starts everyone fresh.
package session

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const (
	// DefaultMaxExchanges caps the conversation log at the most recent
	// N query/response pairs per user.
	DefaultMaxExchanges = 10

	// DefaultContextExchanges is how many recent exchanges are rendered
	// into the conversation context given to responders.
	DefaultContextExchanges = 2

	// NoHistory is returned by RecentContext when a user has no stored
	// exchanges yet.
	NoHistory = "No previous conversation history."
)

// Exchange is one stored query/response pair. Immutable once appended.
type Exchange struct {
	Query    string
	Response string
}

// Snapshot is a read-only copy of one session's flags, safe to use
// outside the store lock.
type Snapshot struct {
	State               State
	PendingQuery        string
	Symptoms            string
	HasProvidedSymptoms bool
	Exchanges           int
}

type userSession struct {
	log                 []Exchange
	state               State
	pendingQuery        string
	symptoms            string
	hasProvidedSymptoms bool
}

// Store is the process-wide session registry, keyed by normalized user
// identifier. All read-modify-write access is serialized by one mutex;
// two concurrent messages from the same user cannot lose an update.
type Store struct {
	mu           sync.Mutex
	sessions     map[string]*userSession
	maxExchanges int
	logger       *slog.Logger
}

// NewStore creates an empty session store capping each conversation log
// at maxExchanges pairs. maxExchanges <= 0 falls back to the default.
func NewStore(maxExchanges int, logger *slog.Logger) *Store {
	if maxExchanges <= 0 {
		maxExchanges = DefaultMaxExchanges
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		sessions:     make(map[string]*userSession),
		maxExchanges: maxExchanges,
		logger:       logger.With("component", "session_store"),
	}
}

// Normalize strips messaging-channel decoration from a user identifier so
// that differently formatted identifiers for the same user collide:
// "whatsapp:+15551234" and "15551234" map to the same key.
func Normalize(userID string) string {
	id := strings.TrimPrefix(userID, "whatsapp:")
	return strings.ReplaceAll(id, "+", "")
}

// get returns the session for userID, creating it if needed. Caller must
// hold s.mu.
func (s *Store) get(userID string) *userSession {
	key := Normalize(userID)
	sess, ok := s.sessions[key]
	if !ok {
		sess = &userSession{state: StateFree}
		s.sessions[key] = sess
	}
	return sess
}

// GetOrCreate registers the identifier if new and returns a snapshot of
// its flags.
func (s *Store) GetOrCreate(userID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotOf(s.get(userID))
}

// Snapshot returns the current flags for userID, creating the session if
// it does not exist yet.
func (s *Store) Snapshot(userID string) Snapshot {
	return s.GetOrCreate(userID)
}

// IsFirst reports whether this is the user's first interaction: true iff
// the identifier is unknown or its conversation log is empty.
func (s *Store) IsFirst(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[Normalize(userID)]
	return !ok || len(sess.log) == 0
}

// RecentContext renders the last maxExchanges exchanges as alternating
// "User previously asked / You previously responded" lines, oldest first.
// Returns the NoHistory sentinel for users with no stored exchanges.
func (s *Store) RecentContext(userID string, maxExchanges int) string {
	if maxExchanges <= 0 {
		maxExchanges = DefaultContextExchanges
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[Normalize(userID)]
	if !ok || len(sess.log) == 0 {
		return NoHistory
	}

	recent := sess.log
	if len(recent) > maxExchanges {
		recent = recent[len(recent)-maxExchanges:]
	}

	var b strings.Builder
	for i, ex := range recent {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "User previously asked: %s\n", ex.Query)
		fmt.Fprintf(&b, "You previously responded: %s", ex.Response)
	}
	return b.String()
}

// Append stores a completed exchange for userID, evicting the oldest
// entries once the cap is exceeded. Safe to call for identifiers never
// seen before.
func (s *Store) Append(userID, query, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(userID)
	sess.log = append(sess.log, Exchange{Query: query, Response: response})
	if len(sess.log) > s.maxExchanges {
		sess.log = sess.log[len(sess.log)-s.maxExchanges:]
	}
}

// Transition applies ev to the session of userID and returns the
// resulting snapshot. The payload carries the pending query for
// EventAskSymptoms and EventResetSymptoms, and the symptom text for
// EventSymptomsProvided. Invalid events for the current state return
// *ErrInvalidTransition and leave the session untouched.
func (s *Store) Transition(userID string, ev Event, payload string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(userID)

	switch ev {
	case EventAskSymptoms:
		if sess.state != StateFree {
			return Snapshot{}, &ErrInvalidTransition{From: sess.state, Event: ev}
		}
		sess.state = StateAwaitingSymptoms
		sess.pendingQuery = payload

	case EventSymptomsProvided:
		if sess.state != StateAwaitingSymptoms {
			return Snapshot{}, &ErrInvalidTransition{From: sess.state, Event: ev}
		}
		sess.state = StateProcessing
		sess.symptoms = payload
		sess.hasProvidedSymptoms = true

	case EventProcessingDone:
		if sess.state != StateProcessing {
			return Snapshot{}, &ErrInvalidTransition{From: sess.state, Event: ev}
		}
		sess.state = StateFree
		sess.pendingQuery = ""

	case EventResetSymptoms:
		sess.state = StateAwaitingSymptoms
		sess.pendingQuery = payload
		sess.symptoms = ""
		sess.hasProvidedSymptoms = false

	default:
		return Snapshot{}, &ErrInvalidTransition{From: sess.state, Event: ev}
	}

	s.logger.Debug("session transition",
		"user_id", Normalize(userID),
		"event", ev.String(),
		"state", sess.state.String())

	return snapshotOf(sess), nil
}

// Len returns the number of registered sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func snapshotOf(sess *userSession) Snapshot {
	return Snapshot{
		State:               sess.state,
		PendingQuery:        sess.pendingQuery,
		Symptoms:            sess.symptoms,
		HasProvidedSymptoms: sess.hasProvidedSymptoms,
		Exchanges:           len(sess.log),
	}
}
