package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := setupRedisStore(t, time.Minute)
	ctx := context.Background()

	sess := Session{
		ID:        uuid.NewString(),
		AccountID: uuid.NewString(),
		Method:    MethodPassword,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := store.Get(ctx, sess.ID)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.AccountID != sess.AccountID || got.Method != sess.Method || got.StepUp {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, sess.ID); ok {
		t.Fatal("session should be gone after delete")
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := setupRedisStore(t, 30*time.Second)
	ctx := context.Background()

	sess := Session{ID: uuid.NewString(), AccountID: uuid.NewString(), Method: MethodMagicLink}
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(time.Minute)

	if _, ok, err := store.Get(ctx, sess.ID); err != nil || ok {
		t.Fatalf("expected expired session to be absent: ok=%v err=%v", ok, err)
	}
}
