package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/ports"
)

// CredentialValidator verifies HS256 bearer tokens and resolves them to an
// active user. Without a cache every call re-verifies and re-fetches.
type CredentialValidator struct {
	users    ports.UserRepository
	secret   []byte
	cache    ports.UserCache
	cacheTTL time.Duration
	log      zerolog.Logger
}

func NewCredentialValidator(users ports.UserRepository, jwtSecret string, log zerolog.Logger) *CredentialValidator {
	return &CredentialValidator{users: users, secret: []byte(jwtSecret), log: log}
}

// WithCache enables caching of resolved users for at most ttl. A nil cache
// or a non-positive ttl leaves caching off.
func (v *CredentialValidator) WithCache(cache ports.UserCache, ttl time.Duration) *CredentialValidator {
	if cache == nil || ttl <= 0 {
		return v
	}
	v.cache = cache
	v.cacheTTL = ttl
	return v
}

// Authenticate implements ports.CredentialValidator.
func (v *CredentialValidator) Authenticate(ctx context.Context, authorization string) (*domain.User, error) {
	raw, err := bearerToken(authorization)
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	userID, ok := userIDClaim(claims)
	if !ok {
		return nil, fmt.Errorf("%w: no user id claim", domain.ErrInvalidToken)
	}

	key := tokenKey(raw)
	if v.cache != nil {
		cached, err := v.cache.Get(ctx, key)
		if err != nil {
			v.log.Warn().Err(err).Msg("auth cache read failed, falling back to store")
		} else if cached.Active() && cached.ID == userID {
			return cached, nil
		}
	}

	user, err := v.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUserNotFound, err)
	}
	if !user.Active() {
		return nil, domain.ErrUserInactive
	}

	if v.cache != nil {
		if ttl := v.entryTTL(claims); ttl > 0 {
			if err := v.cache.Set(ctx, key, user, ttl); err != nil {
				v.log.Warn().Err(err).Str("user_id", user.ID).Msg("auth cache write failed")
			}
		}
	}
	return user, nil
}

// entryTTL caps the cache TTL at the token's remaining lifetime.
func (v *CredentialValidator) entryTTL(claims jwt.MapClaims) time.Duration {
	ttl := v.cacheTTL
	exp, err := claims.GetExpirationTime()
	if err == nil && exp != nil {
		if left := time.Until(exp.Time); left < ttl {
			ttl = left
		}
	}
	return ttl
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.ErrMissingToken
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", domain.ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrMissingToken
	}
	return token, nil
}

// userIDClaim reads the user identifier from "id", falling back to "sub".
// Numeric ids are rendered in decimal.
func userIDClaim(claims jwt.MapClaims) (string, bool) {
	for _, name := range []string{"id", "sub"} {
		switch id := claims[name].(type) {
		case string:
			if id != "" {
				return id, true
			}
		case float64:
			return strconv.FormatFloat(id, 'f', -1, 64), true
		}
	}
	return "", false
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
