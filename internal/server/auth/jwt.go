// Package auth mints and verifies the bearer tokens issued after a
// successful login. Tokens are HS256 JWTs signed with the server's
// persisted signing key; issuer and audience are both the configured
// pseudo-domain.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/passkeeper/server/internal/common"
)

// Claims carries the identity claims of an issued token: the username as
// subject, a unique token id to prevent replay-caching collisions, and the
// user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"nameid,string"`
}

// GenerateToken mints a signed token for the user. Issuer and audience are
// both set to pseudoDomain, expiry is now+validityDuration.
func GenerateToken(username string, userID int64, signingKey []byte, pseudoDomain string, validityDuration time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        uuid.NewString(),
			Issuer:    pseudoDomain,
			Audience:  jwt.ClaimStrings{pseudoDomain},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// ParseToken validates the token signature, issuer, audience and lifetime,
// and returns its claims. Expired tokens yield common.ErrTokenExpired, any
// other validation failure yields common.ErrInvalidToken.
func ParseToken(tokenString string, signingKey []byte, pseudoDomain string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(pseudoDomain),
		jwt.WithAudience(pseudoDomain),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
