// Package services defines the [OAuthService] interface for authorization-code providers and implements it for Spotify.
//
// # OAuth Service Interface
//
// A provider builds the login URL the browser is redirected to, and exchanges the code from the
// callback for an access token. The HTTP layer in internal/server depends only on the interface.
//
// # Spotify Implementation
//
// [SpotifyService] keeps its client settings in an [oauth2.Config]: client id and secret, redirect
// URL, the fixed scopes and the accounts.spotify.com [oauth2.Endpoint].
//
// The authorization URL is assembled by hand so the parameter order and %20 space encoding match
// what the front-end and existing tests expect; [oauth2.Config.AuthCodeURL] sorts keys and always adds state.
//
// The token request is a single form POST with client credentials in a Basic Authorization header.
// No retries are made and no timeout is set beyond the caller's context.
//
// # Error Handling
//
// [SpotifyService.Exchange] returns a [TokenResult] instead of (token, error) so the caller keeps
// the upstream status and body for logs. Errors wrap sentinels from the shared package:
//   - [shared.ErrTokenExchange] : request could not be built or sent
//   - [shared.ErrUpstreamStatus] : non-2xx response, also wraps an [oauth2.RetrieveError]
//   - [shared.ErrMalformedResponse] : 2xx response that is not JSON
//   - [shared.ErrMissingToken] : 2xx JSON without access_token
package services
