package utils

import (
	"fmt"
	"time"

	"forum-api/core/config"
	"forum-api/core/constants"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenData is what the auth middleware places into the request context.
type TokenData struct {
	TokenID string
	UserID  uuid.UUID
	Role    string
	Scope   string
}

type tokenClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

// IssueToken signs a JWT for the given user. Scope is one of
// constants.ScopeTokenAccess / constants.ScopeTokenRefresh.
func IssueToken(userID uuid.UUID, role, scope string) (string, error) {
	cfg := config.Get()

	expiry := time.Duration(cfg.JWT.AccessExpiryMins) * time.Minute
	if scope == constants.ScopeTokenRefresh {
		expiry = time.Duration(cfg.JWT.RefreshExpiryMins) * time.Minute
	}

	now := time.Now()
	claims := tokenClaims{
		UserID: userID.String(),
		Role:   role,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        GenerateID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ParseToken verifies the signature and expiry and returns the token data.
func ParseToken(raw string) (*TokenData, error) {
	cfg := config.Get()

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token: %w", err)
	}

	return &TokenData{
		TokenID: claims.ID,
		UserID:  userID,
		Role:    claims.Role,
		Scope:   claims.Scope,
	}, nil
}

// TokenRemainingTTL returns how long until the token expires, for blacklist
// TTLs on logout. Unparseable tokens get a zero TTL.
func TokenRemainingTTL(raw string) time.Duration {
	cfg := config.Get()
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil || claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}
