package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLinkInvalid indicates a one-time link token that is unknown, expired, or
// already consumed.
var ErrLinkInvalid = errors.New("invalid or expired link token")

const linkKeyPrefix = "login-link:v1:"

// LinkStore holds pending one-time sign-in link tokens. Tokens are single
// use: Consume removes the token as it resolves it.
type LinkStore interface {
	Issue(ctx context.Context, token, email string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

// RedisLinkStore keeps link tokens in Redis with a TTL.
type RedisLinkStore struct {
	client *redis.Client
}

// NewRedisLinkStore builds a Redis-backed link token store.
func NewRedisLinkStore(client *redis.Client) *RedisLinkStore {
	return &RedisLinkStore{client: client}
}

func (s *RedisLinkStore) Issue(ctx context.Context, token, email string, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, linkKeyPrefix+token, email, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("link token collision")
	}
	return nil
}

func (s *RedisLinkStore) Consume(ctx context.Context, token string) (string, error) {
	email, err := s.client.GetDel(ctx, linkKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrLinkInvalid
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

type memoryLink struct {
	email     string
	expiresAt time.Time
}

type memoryLinkStore struct {
	mu    sync.Mutex
	links map[string]memoryLink
}

// NewMemoryLinkStore builds an in-memory link token store for dev and tests.
func NewMemoryLinkStore() LinkStore {
	return &memoryLinkStore{links: make(map[string]memoryLink)}
}

func (s *memoryLinkStore) Issue(_ context.Context, token, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[token] = memoryLink{email: email, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *memoryLinkStore) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[token]
	if !ok {
		return "", ErrLinkInvalid
	}
	delete(s.links, token)
	if time.Now().After(link.expiresAt) {
		return "", ErrLinkInvalid
	}
	return link.email, nil
}
