package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoActiveSession indicates an operation that requires a currently valid
// session was attempted without one.
var ErrNoActiveSession = errors.New("no active session")

// Method records how a session was established.
type Method string

const (
	// MethodPassword is email + password sign-in (also used after sign-up).
	MethodPassword Method = "password"
	// MethodMagicLink is one-time-link confirmation.
	MethodMagicLink Method = "magic_link"
)

// Session binds one authenticated caller to one account. StepUp starts false
// and can only be set through Manager.GrantStepUp while the session is valid;
// invalidation clears it by removing the record entirely.
type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Method    Method    `json:"method"`
	StepUp    bool      `json:"step_up"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists session records. Implementations own expiry: a session that
// outlives its TTL is simply absent on the next Get.
type Store interface {
	Put(ctx context.Context, sess Session) error
	Get(ctx context.Context, id string) (Session, bool, error)
	Delete(ctx context.Context, id string) error
}
