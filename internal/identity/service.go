package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rheet26/transakt-secure-smart/internal/account"
	"github.com/Rheet26/transakt-secure-smart/internal/notification"
)

var (
	// ErrEmailTaken indicates a sign-up attempt with an already registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates a failed email/password verification.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service manages the identity lifecycle: registration, credential
// verification and the one-time-link flow. It plays the role of the external
// identity provider toward the session manager; the session manager only ever
// observes its outcomes as establishment events.
type Service struct {
	repo     Repository
	links    LinkStore
	accounts account.Store
	notifier notification.Notifier
	opening  decimal.Decimal
	linkTTL  time.Duration
}

// NewService creates a new identity service. New accounts are seeded with the
// configured opening balance.
func NewService(repo Repository, links LinkStore, accounts account.Store, notifier notification.Notifier, opening decimal.Decimal, linkTTL time.Duration) *Service {
	return &Service{repo: repo, links: links, accounts: accounts, notifier: notifier, opening: opening, linkTTL: linkTTL}
}

// Register creates a user with a hashed password and provisions the backing
// account with the opening balance.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, errors.New("a valid email is required")
	}
	if len(creds.Password) < 8 {
		return User{}, errors.New("password must be at least 8 characters")
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(creds.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	if err := s.accounts.Create(ctx, account.Account{
		ID:          user.ID,
		DisplayName: user.Name,
		Balance:     s.opening,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// RequestLink issues a single-use sign-in link token for the email and hands
// it to the notifier for delivery. The token is returned for callers wiring
// their own delivery; HTTP handlers never echo it to the requester.
func (s *Service) RequestLink(ctx context.Context, email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if _, err := s.repo.FindByEmail(ctx, normalized); err != nil {
		// Do not reveal whether the email is registered.
		return "", nil
	}

	token := uuid.NewString()
	if err := s.links.Issue(ctx, token, normalized, s.linkTTL); err != nil {
		return "", err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindLoginLink,
			Destination: normalized,
			Body:        token,
		})
	}
	return token, nil
}

// ConfirmLink consumes a link token and resolves it to the user it was issued
// for. A second confirmation of the same token fails.
func (s *Service) ConfirmLink(ctx context.Context, token string) (User, error) {
	email, err := s.links.Consume(ctx, token)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, ErrLinkInvalid
	}
	return user, nil
}
