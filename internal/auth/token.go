package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/filedrop/filedrop/internal/model"
)

// Verification errors. Each maps to a distinct failure mode so callers
// never have to parse error text.
var (
	ErrTokenExpired      = errors.New("session token expired")
	ErrInvalidSignature  = errors.New("session token signature invalid")
	ErrMalformedToken    = errors.New("session token malformed")
	ErrInvalidTokenClaim = errors.New("session token claims invalid")
)

const issuer = "filedrop"

// sessionClaims is the JWT payload for a session credential. The subject
// holds the internal user id; email rides along so profile reads don't
// need a lookup.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies signed session credentials.
// The HMAC secret is process-wide configuration; verification is pure
// and stateless, so issued tokens cannot be revoked before expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. The secret should be at least 32 bytes of random data.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a signed session credential for the user, expiring at
// issue time plus the configured TTL.
func (s *TokenService) Issue(user *model.User) (string, error) {
	return s.issueAt(user, time.Now())
}

// issueAt is split out so expiry behavior is testable at exact instants.
func (s *TokenService) issueAt(user *model.User, now time.Time) (string, error) {
	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// TTL returns the configured credential lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Verify parses and verifies a session credential and returns the
// embedded identity. Restricting valid methods to HS256 prevents
// algorithm-confusion attacks.
func (s *TokenService) Verify(tokenStr string) (*model.Identity, error) {
	return s.verifyAt(tokenStr, time.Now())
}

// verifyAt mirrors issueAt: the clock is pinned so the expiry boundary
// is testable at exact instants. A credential is expired at issue time
// plus TTL, not one tick later.
func (s *TokenService) verifyAt(tokenStr string, now time.Time) (*model.Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidTokenClaim, err)
		}
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidTokenClaim
	}
	if claims.Subject == "" {
		return nil, ErrInvalidTokenClaim
	}

	return &model.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}
