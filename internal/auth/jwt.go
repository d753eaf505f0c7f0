// Package auth provides token issuance, password hashing and the
// request authentication middleware for the board API.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. POST /login verifies nickname + password and issues a signed JWT
//  2. The token is returned in the body and set as the "Authorization"
//     cookie with the value "Bearer <token>"
//  3. RequireAuth reads the cookie on protected routes, verifies the token,
//     resolves the subject to a stored user and puts the user in the
//     request context
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"sub":"<userID>","iss":"bulletin-board","exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secret)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultIssuer is used when TokenConfig.Issuer is empty.
const DefaultIssuer = "bulletin-board"

// TokenConfig is the signing configuration. It is fixed when the
// TokenService is built and never changes afterwards.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// TokenService handles JWT creation and validation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenService creates a TokenService from cfg.
// The secret must be at least 16 characters and the TTL positive.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: issuer,
	}, nil
}

// TTL returns the lifetime of tokens issued by Generate.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// claims is the JWT payload. The user ID travels in the standard "sub"
// claim.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a token for userID using the configured TTL.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, s.ttl)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns its subject.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid
//   - Algorithm is HS256 (no "none", no algorithm confusion)
//   - Issuer matches
//   - Token carries an expiry and it is in the future
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
