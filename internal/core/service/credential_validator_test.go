package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/ports"
)

const testSecret = "secret"

type stubUserRepo struct {
	users map[string]*domain.User
	err   error
	calls int
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type stubUserCache struct {
	entries map[string]*domain.User
	ttls    map[string]time.Duration
	getErr  error
}

var _ ports.UserCache = (*stubUserCache)(nil)

func newStubUserCache() *stubUserCache {
	return &stubUserCache{entries: map[string]*domain.User{}, ttls: map[string]time.Duration{}}
}

func (c *stubUserCache) Get(_ context.Context, key string) (*domain.User, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[key], nil
}

func (c *stubUserCache) Set(_ context.Context, key string, user *domain.User, ttl time.Duration) error {
	c.entries[key] = user
	c.ttls[key] = ttl
	return nil
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func seededUsers() *stubUserRepo {
	return &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Status: domain.UserActive, Profile: map[string]any{"nome": "Ana"}},
		"u2": {ID: "u2", Status: "inativo"},
		"42": {ID: "42", Status: domain.UserActive},
	}}
}

func TestCredentialValidator_ValidToken(t *testing.T) {
	repo := seededUsers()
	v := NewCredentialValidator(repo, testSecret, discardLogger)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"id":  "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	user, err := v.Authenticate(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" || user.Profile["nome"] != "Ana" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestCredentialValidator_SubAndNumericClaims(t *testing.T) {
	repo := seededUsers()
	v := NewCredentialValidator(repo, testSecret, discardLogger)

	sub := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "u1"})
	if _, err := v.Authenticate(context.Background(), "Bearer "+sub); err != nil {
		t.Errorf("sub claim: unexpected error: %v", err)
	}

	numeric := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": 42})
	user, err := v.Authenticate(context.Background(), "bearer "+numeric)
	if err != nil {
		t.Fatalf("numeric id: unexpected error: %v", err)
	}
	if user.ID != "42" {
		t.Errorf("expected id 42, got %q", user.ID)
	}
}

func TestCredentialValidator_Failures(t *testing.T) {
	valid := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "u1"})
	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"no header", "", domain.ErrMissingToken},
		{"scheme only", "Bearer", domain.ErrMissingToken},
		{"empty token", "Bearer   ", domain.ErrMissingToken},
		{"wrong scheme", "Basic " + valid, domain.ErrMissingToken},
		{"malformed", "Bearer not-a-token", domain.ErrInvalidToken},
		{"bad signature", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"id": "u1"}), domain.ErrInvalidToken},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "u1", "exp": time.Now().Add(-time.Minute).Unix()}), domain.ErrInvalidToken},
		{"wrong algorithm", "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{"id": "u1"}), domain.ErrInvalidToken},
		{"no id claim", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"role": "admin"}), domain.ErrInvalidToken},
		{"unknown user", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "ghost"}), domain.ErrUserNotFound},
		{"inactive user", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "u2"}), domain.ErrUserInactive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewCredentialValidator(seededUsers(), testSecret, discardLogger)
			user, err := v.Authenticate(context.Background(), tc.header)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if user != nil {
				t.Errorf("expected no user, got %+v", user)
			}
		})
	}
}

func TestCredentialValidator_LookupErrorIsUserNotFound(t *testing.T) {
	repo := &stubUserRepo{err: errors.New("connection refused")}
	v := NewCredentialValidator(repo, testSecret, discardLogger)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "u1"})

	if _, err := v.Authenticate(context.Background(), "Bearer "+token); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCredentialValidator_NoCacheRefetchesEveryCall(t *testing.T) {
	repo := seededUsers()
	v := NewCredentialValidator(repo, testSecret, discardLogger).WithCache(newStubUserCache(), 0)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "u1"})

	for i := 0; i < 3; i++ {
		if _, err := v.Authenticate(context.Background(), "Bearer "+token); err != nil {
			t.Fatal(err)
		}
	}
	if repo.calls != 3 {
		t.Errorf("expected 3 lookups without cache, got %d", repo.calls)
	}
}

func TestCredentialValidator_CacheHit(t *testing.T) {
	repo := seededUsers()
	cache := newStubUserCache()
	v := NewCredentialValidator(repo, testSecret, discardLogger).WithCache(cache, time.Minute)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"id":  "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	for i := 0; i < 3; i++ {
		if _, err := v.Authenticate(context.Background(), "Bearer "+token); err != nil {
			t.Fatal(err)
		}
	}
	if repo.calls != 1 {
		t.Errorf("expected a single lookup with cache, got %d", repo.calls)
	}
	if ttl := cache.ttls[tokenKey(token)]; ttl != time.Minute {
		t.Errorf("expected ttl of 1m, got %v", ttl)
	}
}

func TestCredentialValidator_CacheTTLCappedByExpiry(t *testing.T) {
	cache := newStubUserCache()
	v := NewCredentialValidator(seededUsers(), testSecret, discardLogger).WithCache(cache, time.Hour)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"id":  "u1",
		"exp": time.Now().Add(2 * time.Minute).Unix(),
	})

	if _, err := v.Authenticate(context.Background(), "Bearer "+token); err != nil {
		t.Fatal(err)
	}
	ttl := cache.ttls[tokenKey(token)]
	if ttl <= 0 || ttl > 2*time.Minute {
		t.Errorf("ttl must not outlive the token, got %v", ttl)
	}
}

func TestCredentialValidator_InactiveUsersAreNotCached(t *testing.T) {
	cache := newStubUserCache()
	v := NewCredentialValidator(seededUsers(), testSecret, discardLogger).WithCache(cache, time.Minute)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "u2"})

	_, _ = v.Authenticate(context.Background(), "Bearer "+token)
	if len(cache.entries) != 0 {
		t.Errorf("inactive user must not be cached")
	}
}

func TestCredentialValidator_CacheErrorFallsBackToStore(t *testing.T) {
	repo := seededUsers()
	cache := newStubUserCache()
	cache.getErr = errors.New("redis timeout")
	v := NewCredentialValidator(repo, testSecret, discardLogger).WithCache(cache, time.Minute)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "u1"})

	if _, err := v.Authenticate(context.Background(), "Bearer "+token); err != nil {
		t.Fatalf("cache failure must not fail auth: %v", err)
	}
	if repo.calls != 1 {
		t.Errorf("expected store lookup, got %d calls", repo.calls)
	}
}
