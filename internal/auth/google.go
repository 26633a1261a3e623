// Package auth provides the Google identity handshake and session token
// issuance/verification.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/filedrop/filedrop/internal/model"
)

// Handshake errors.
var (
	// ErrExchangeFailed means the provider rejected the authorization code
	// or returned a token response without an ID token. Codes are
	// single-use; the exchange is never retried.
	ErrExchangeFailed = errors.New("authorization code exchange failed")

	// ErrInvalidIDToken means the ID token failed signature, issuer,
	// audience, or expiry validation.
	ErrInvalidIDToken = errors.New("invalid ID token")
)

// idTokenValidator validates a raw ID token against an audience and
// returns its payload. Injectable for tests; production uses
// idtoken.Validate, which fetches and caches Google's signing keys.
type idTokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// GoogleProvider drives the Google authorization-code flow: it builds the
// consent URL, exchanges a code for provider tokens, and verifies the
// returned ID token.
type GoogleProvider struct {
	config   *oauth2.Config
	validate idTokenValidator
}

// NewGoogleProvider creates a GoogleProvider.
// callbackURL must exactly match a redirect URI registered in the Google
// console for this client.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		validate: idtoken.Validate,
	}
}

// AuthURL returns the provider authorization URL. Construction is
// deterministic: client id, redirect target, and the fixed scope set.
// offline access and forced consent match the registered frontend flow.
func (p *GoogleProvider) AuthURL() string {
	return p.config.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for the provider token set and
// returns the raw ID token from it. Fails with ErrExchangeFailed if the
// provider rejects the code or the response carries no ID token.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (string, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", fmt.Errorf("%w: token response missing id_token", ErrExchangeFailed)
	}

	return rawIDToken, nil
}

// VerifyIDToken validates the ID token's signature, issuer, audience
// (must equal the configured client id), and expiry, and extracts the
// identity claims. Any validation failure yields ErrInvalidIDToken with
// no partial trust extended.
func (p *GoogleProvider) VerifyIDToken(ctx context.Context, rawIDToken string) (*model.IdentityClaims, error) {
	payload, err := p.validate(ctx, rawIDToken, p.config.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	if payload.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject claim", ErrInvalidIDToken)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidIDToken)
	}

	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return &model.IdentityClaims{
		GoogleID: payload.Subject,
		Email:    email,
		Name:     name,
		Picture:  picture,
	}, nil
}
