package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Manager owns the session lifecycle: establish, step-up grant, logout. It is
// the single gate the transfer engine consults before any mutating operation.
type Manager struct {
	store  Store
	logger *slog.Logger
}

// NewManager builds a session manager on top of the provided store.
func NewManager(store Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Event carries the outcome of a completed establishment flow (password
// verification or one-time-link confirmation) as observed from the identity
// side.
type Event struct {
	AccountID string
	Method    Method
}

// Establish creates a new valid session for the account named by the event.
func (m *Manager) Establish(ctx context.Context, ev Event) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		AccountID: ev.AccountID,
		Method:    ev.Method,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.Put(ctx, sess); err != nil {
		return Session{}, err
	}
	m.logger.Info("session established", "account_id", ev.AccountID, "method", string(ev.Method))
	return sess, nil
}

// Get returns the session if it is currently valid.
func (m *Manager) Get(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrNoActiveSession
	}
	sess, ok, err := m.store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ErrNoActiveSession
	}
	return sess, nil
}

// Valid reports whether the caller holds a currently valid session. Store
// errors count as invalid: an unreachable session store must never let a
// mutation through.
func (m *Manager) Valid(ctx context.Context, id string) bool {
	_, err := m.Get(ctx, id)
	return err == nil
}

// GrantStepUp sets the step-up capability on an existing valid session. This
// is the only transition that sets the flag; calling it without a valid
// session fails with ErrNoActiveSession. Granting twice is a no-op.
func (m *Manager) GrantStepUp(ctx context.Context, id string) (Session, error) {
	sess, err := m.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if sess.StepUp {
		return sess, nil
	}
	sess.StepUp = true
	if err := m.store.Put(ctx, sess); err != nil {
		return Session{}, err
	}
	m.logger.Info("step-up granted", "account_id", sess.AccountID)
	return sess, nil
}

// Logout invalidates the session and clears the step-up flag unconditionally.
// Logging out an already-absent session is not an error.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.logger.Info("session terminated", "session_id", id)
	return nil
}
