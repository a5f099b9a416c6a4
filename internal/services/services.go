// package services defines interface OAuthService for authorization-code providers
//
// Spotify
package services

import (
	"context"

	"golang.org/x/oauth2"
)

// OAuthService defines the two halves of the OAuth2 authorization-code flow for a provider.
type OAuthService interface {
	// AuthCodeURL returns the provider URL the browser is sent to for login and consent.
	AuthCodeURL() string

	// Exchange trades an authorization code for an access token.
	// It never panics; every failure is reported through [TokenResult.Error].
	Exchange(ctx context.Context, code string) TokenResult

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// TokenResult contains the outcome of a single token exchange.
//
// Exactly one of Token and Error() is set. Status and Body hold the upstream response when
// one was received, for logging.
type TokenResult struct {
	Token  *oauth2.Token
	Status int
	Body   []byte
	err    error
}

func (t TokenResult) Error() error {
	return t.err
}

// OK reports whether the exchange produced a token.
func (t TokenResult) OK() bool {
	return t.err == nil && t.Token != nil
}
