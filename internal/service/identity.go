// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/filedrop/filedrop/internal/metrics"
	"github.com/filedrop/filedrop/internal/model"
	"github.com/filedrop/filedrop/internal/repository"
)

// Identity service errors.
var (
	ErrMissingCode  = errors.New("authorization code is required")
	ErrUserNotFound = errors.New("user not found")
)

// identityProvider exchanges authorization codes for verified identity claims.
type identityProvider interface {
	AuthURL() string
	Exchange(ctx context.Context, code string) (string, error)
	VerifyIDToken(ctx context.Context, rawIDToken string) (*model.IdentityClaims, error)
}

// userStore persists user records.
type userStore interface {
	UpsertUserByGoogleID(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// tokenIssuer mints session credentials for resolved users.
type tokenIssuer interface {
	Issue(user *model.User) (string, error)
	TTL() time.Duration
}

// Login failure stages reported to metrics.
const (
	loginStageExchange = "exchange"
	loginStageVerify   = "verify"
	loginStageResolve  = "resolve"
	loginStageIssue    = "issue"
)

// IdentityService drives the login handshake: code exchange, identity
// verification, local user resolution and credential issuance. Any failure
// aborts the handshake; no user or credential is produced on a partial run.
type IdentityService struct {
	provider identityProvider
	users    userStore
	tokens   tokenIssuer
	metrics  metrics.Recorder
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(provider identityProvider, users userStore, tokens tokenIssuer, recorder metrics.Recorder) *IdentityService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &IdentityService{
		provider: provider,
		users:    users,
		tokens:   tokens,
		metrics:  recorder,
	}
}

// AuthURL returns the provider consent URL for starting a login.
func (s *IdentityService) AuthURL() string {
	return s.provider.AuthURL()
}

// TokenTTL returns the lifetime of issued session credentials.
func (s *IdentityService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Authenticate completes the handshake for an authorization code. It returns
// the resolved user and a signed session credential for it.
func (s *IdentityService) Authenticate(ctx context.Context, code string) (*model.User, string, error) {
	if code == "" {
		return nil, "", ErrMissingCode
	}

	rawIDToken, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.metrics.IncLoginFailed(loginStageExchange)
		return nil, "", fmt.Errorf("exchange code: %w", err)
	}

	claims, err := s.provider.VerifyIDToken(ctx, rawIDToken)
	if err != nil {
		s.metrics.IncLoginFailed(loginStageVerify)
		return nil, "", fmt.Errorf("verify identity token: %w", err)
	}

	user, err := s.users.UpsertUserByGoogleID(ctx, &model.User{
		ID:        ulid.Make().String(),
		GoogleID:  claims.GoogleID,
		Email:     claims.Email,
		Name:      claims.Name,
		Picture:   claims.Picture,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.metrics.IncLoginFailed(loginStageResolve)
		return nil, "", fmt.Errorf("resolve user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.metrics.IncLoginFailed(loginStageIssue)
		return nil, "", fmt.Errorf("issue credential: %w", err)
	}

	s.metrics.IncLoginCompleted()

	return user, token, nil
}

// Profile returns the user record behind an authenticated identity.
func (s *IdentityService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
