//go:build !integration

package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRepo(t *testing.T) (*TokenRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewTokenRepository(client), mr
}

// login mimics the auth service writing a session.
func login(t *testing.T, mr *miniredis.Miniredis, token, userID string, ttl time.Duration) {
	t.Helper()
	key := "token:lookup:" + token
	if err := mr.Set(key, userID); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	mr.SetTTL(key, ttl)
}

func TestTokenRepository_Validate(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	login(t, mr, "abc", "42", time.Hour)

	userID, err := repo.ValidateToken(ctx, "abc")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != "42" {
		t.Fatalf("expected user 42, got %q", userID)
	}

	if _, err := repo.ValidateToken(ctx, "unknown"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestTokenRepository_Expiry(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	login(t, mr, "short", "7", time.Minute)
	mr.FastForward(2 * time.Minute)

	if _, err := repo.ValidateToken(ctx, "short"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound after expiry, got %v", err)
	}
}

func TestTokenRepository_Logout(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	login(t, mr, "tok", "9", time.Hour)
	mr.Del("token:lookup:tok")

	if _, err := repo.ValidateToken(ctx, "tok"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound after logout, got %v", err)
	}
}

func TestTokenRepository_RedisDown(t *testing.T) {
	repo, mr := newTestRepo(t)
	mr.Close()

	_, err := repo.ValidateToken(context.Background(), "x")
	if err == nil || errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected a connection error, got %v", err)
	}
}
