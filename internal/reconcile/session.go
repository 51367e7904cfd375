// Package reconcile turns an edit session's form fields and attachment state
// into one create or update call against the record store.
package reconcile

import (
	"context"
	"errors"
	"sync"

	"carmodel-inventory/internal/attachment"
	"carmodel-inventory/internal/model"
	"carmodel-inventory/internal/storeclient"
)

// Mode selects between creating a record and updating an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// State of a session's submit trigger.
type State int

const (
	Idle State = iota
	Submitting
)

const (
	msgCreateFailed = "Failed to save car model. Please try again."
	msgUpdateFailed = "Error updating car model"
)

// ErrSubmitInProgress is returned when Submit is called while another
// submission of the same session is outstanding.
var ErrSubmitInProgress = errors.New("a submission is already in progress")

// Store is the part of the record store a session writes to.
type Store interface {
	Create(ctx context.Context, sub storeclient.Submission) (*model.Record, error)
	Update(ctx context.Context, id string, sub storeclient.Submission) (*model.Record, error)
}

// SubmitError is a failed store call. Message is what the user sees: the
// store's own message when it sent one, a generic one otherwise.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string { return e.Message }
func (e *SubmitError) Unwrap() error { return e.Err }

// Session is one edit session: a record (or a record to be), its
// attachment set, and the in-progress flag gating the submit trigger.
type Session struct {
	store    Store
	mode     Mode
	recordID string
	initial  Fields
	set      *attachment.Set

	mu         sync.Mutex
	submitting bool
}

// NewCreateSession starts a session for a record that does not exist yet.
func NewCreateSession(store Store) *Session {
	return &Session{store: store, mode: ModeCreate, set: attachment.NewSet(nil)}
}

// NewUpdateSession starts a session seeded from the fetched record.
func NewUpdateSession(store Store, record *model.Record) *Session {
	return &Session{
		store:    store,
		mode:     ModeUpdate,
		recordID: record.ID,
		initial:  FieldsFromRecord(record),
		set:      attachment.NewSet(record.Images),
	}
}

func (s *Session) Mode() Mode       { return s.mode }
func (s *Session) RecordID() string { return s.recordID }

// Initial returns the form values the session was seeded with; empty for
// create sessions.
func (s *Session) Initial() Fields { return s.initial }

// Stage applies a file selection to the attachment set. With replace the
// previously staged blobs are discarded first. The set is frozen while a
// submission is in flight.
func (s *Session) Stage(blobs []attachment.Blob, replace bool) (attachment.StageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return attachment.StageResult{}, ErrSubmitInProgress
	}
	if replace {
		return s.set.ReplacePending(blobs), nil
	}
	return s.set.StageNew(blobs), nil
}

// Remove marks an existing reference for removal.
func (s *Session) Remove(ref string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false, ErrSubmitInProgress
	}
	return s.set.MarkRemoved(ref), nil
}

// Snapshot returns the current kept references and pending blobs.
func (s *Session) Snapshot() ([]string, []attachment.Blob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Snapshot()
}

// State reports whether a submission is outstanding.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return Submitting
	}
	return Idle
}

// Submit validates fields, merges them with the attachment snapshot and
// issues a single create or update call. Validation failures return a
// *FieldError before any network access; store failures return a
// *SubmitError. The session is back in Idle on every return.
func (s *Session) Submit(ctx context.Context, fields Fields) (*model.Record, error) {
	normalized, err := fields.Normalize()
	if err != nil {
		return nil, err
	}

	if !s.begin() {
		return nil, ErrSubmitInProgress
	}
	defer s.end()

	sub := s.build(normalized)
	var out *model.Record
	switch s.mode {
	case ModeUpdate:
		out, err = s.store.Update(ctx, s.recordID, sub)
	default:
		out, err = s.store.Create(ctx, sub)
	}
	if err != nil {
		return nil, s.failure(err)
	}
	return out, nil
}

// build assembles the submission for already normalized fields. Update mode
// carries the kept references; create mode only the uploads. The caller
// holds the submitting flag, which keeps Stage and Remove out.
func (s *Session) build(fields Fields) storeclient.Submission {
	kept, pending := s.set.Snapshot()
	sub := storeclient.Submission{
		Fields: fields.formFields(),
		Files:  pending,
	}
	if s.mode == ModeUpdate {
		sub.Kept = kept
	}
	return sub
}

func (s *Session) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

func (s *Session) end() {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
}

func (s *Session) failure(err error) error {
	if msg, ok := storeclient.StoreMessage(err); ok {
		return &SubmitError{Message: msg, Err: err}
	}
	if s.mode == ModeUpdate {
		return &SubmitError{Message: msgUpdateFailed, Err: err}
	}
	return &SubmitError{Message: msgCreateFailed, Err: err}
}
