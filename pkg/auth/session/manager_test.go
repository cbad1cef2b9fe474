package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", redislib.Nil
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

type prefixKeyer struct{}

func (prefixKeyer) AccessSessionKey(accessID string) string {
	return "test:session:access:" + accessID
}

func newTestManager() (*Manager, *memoryStore) {
	store := newMemoryStore()
	return &Manager{store: store, keyer: prefixKeyer{}, ttl: time.Hour}, store
}

func TestGenerateAndHasSession(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	token, err := mgr.Generate(ctx, "access-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty refresh token")
	}

	ok, err := mgr.HasSession(ctx, "access-1")
	if err != nil || !ok {
		t.Fatalf("expected active session, got ok=%v err=%v", ok, err)
	}

	ok, err = mgr.HasSession(ctx, "access-2")
	if err != nil || ok {
		t.Fatalf("expected no session for unknown access id, got ok=%v err=%v", ok, err)
	}
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	token, err := mgr.Generate(ctx, "access-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	newID, newToken, err := mgr.Rotate(ctx, "access-1", token)
	if err != nil {
		t.Fatalf("Rotate returned error: %v", err)
	}
	if newID == "access-1" || newToken == token {
		t.Fatal("rotation should mint a fresh session")
	}

	if ok, _ := mgr.HasSession(ctx, "access-1"); ok {
		t.Fatal("old session should be revoked after rotation")
	}
	if ok, _ := mgr.HasSession(ctx, newID); !ok {
		t.Fatal("new session should be active after rotation")
	}
}

func TestRotateRejectsWrongToken(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "access-1"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, _, err := mgr.Rotate(ctx, "access-1", "forged"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
	if _, _, err := mgr.Rotate(ctx, "missing", "anything"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken for missing session, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "access-1"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if err := mgr.Revoke(ctx, "access-1"); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if ok, _ := mgr.HasSession(ctx, "access-1"); ok {
		t.Fatal("session should be gone after revoke")
	}
}
