// Package session holds the typed per-visitor session state and the
// recency tracking over it. The state is carried opaquely by the transport
// layer; the engine only ever sees this record.
package session

import (
	"time"

	"github.com/google/uuid"
)

// State is the per-visitor session record. Fields are lazily initialized
// exactly once per session lifetime and never overwritten once set; pointer
// and nil-slice zero values distinguish "absent" from "set to zero".
type State struct {
	// UserID is an opaque generated id for this browser.
	UserID string `json:"userId,omitempty"`

	// FirstVisitDate is the RFC 3339 timestamp of the first request seen.
	FirstVisitDate string `json:"firstVisitDate,omitempty"`

	// RolledRandomQuotesCount counts every roll this session performed.
	// Nil signals a new or uninitialized session to the roll selector.
	RolledRandomQuotesCount *int `json:"rolledRandomQuotesCount,omitempty"`

	// RecentRolledQuoteIDs is the ordered, deduplicated recency list,
	// oldest first, capped at the tracker's history limit.
	RecentRolledQuoteIDs []string `json:"recentRolledQuoteIds,omitempty"`
}

// Tracker applies the recency and initialization rules to session state.
type Tracker struct {
	historyLimit int
}

// NewTracker creates a tracker that caps the recency list at historyLimit.
func NewTracker(historyLimit int) *Tracker {
	return &Tracker{historyLimit: historyLimit}
}

// EnsureInitialized fills in any absent field and leaves present ones
// untouched. It is idempotent: calling it again on an initialized state is
// a no-op.
func (t *Tracker) EnsureInitialized(s *State) {
	if s == nil {
		return
	}

	if s.UserID == "" {
		s.UserID = uuid.NewString()
	}

	if s.FirstVisitDate == "" {
		s.FirstVisitDate = time.Now().UTC().Format(time.RFC3339)
	}

	if s.RolledRandomQuotesCount == nil {
		zero := 0
		s.RolledRandomQuotesCount = &zero
	}

	if s.RecentRolledQuoteIDs == nil {
		s.RecentRolledQuoteIDs = []string{}
	}
}

// UserID returns the session's user id. Returns ErrUnauthorized when the
// session is absent or was never initialized.
func (t *Tracker) UserID(s *State) (string, error) {
	if s == nil {
		return "", ErrUnauthorized
	}

	if s.UserID == "" {
		return "", ErrUnauthorized
	}

	return s.UserID, nil
}

// RecentIDs returns the recency list, defaulting to empty when the stored
// value is absent.
func (t *Tracker) RecentIDs(s *State) []string {
	if s == nil || s.RecentRolledQuoteIDs == nil {
		return []string{}
	}

	return s.RecentRolledQuoteIDs
}

// RollCount returns the session's roll count, or nil when the session never
// rolled. The roll selector treats nil as "new user".
func (t *Tracker) RollCount(s *State) *int {
	if s == nil {
		return nil
	}

	return s.RolledRandomQuotesCount
}

// AddRolledID records one roll: the id moves to the tail of the recency
// list (re-rolling a seen quote refreshes its recency instead of creating a
// duplicate), the list is trimmed from the head to the history limit, and
// the roll counter increments whether or not the id was already present.
func (t *Tracker) AddRolledID(s *State, quoteID string) {
	if s == nil {
		return
	}

	recent := t.RecentIDs(s)

	updated := make([]string, 0, len(recent)+1)
	for _, id := range recent {
		if id != quoteID {
			updated = append(updated, id)
		}
	}
	updated = append(updated, quoteID)

	if overflow := len(updated) - t.historyLimit; overflow > 0 {
		updated = updated[overflow:]
	}

	s.RecentRolledQuoteIDs = updated

	count := 0
	if s.RolledRandomQuotesCount != nil {
		count = *s.RolledRandomQuotesCount
	}
	count++
	s.RolledRandomQuotesCount = &count
}
