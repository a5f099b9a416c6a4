// Spotify Accounts implementation of [OAuthService]
//
// Authorization code flow per https://developer.spotify.com/documentation/web-api/tutorials/code-flow
package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/spotify-relay/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// maxTokenBody caps how much of a token response is read.
	maxTokenBody = 1 << 20
)

// SpotifyScopes are the permissions requested on login.
var SpotifyScopes = []string{"user-top-read", "user-library-read"}

// SpotifyEndpoint is the Spotify Accounts service.
var SpotifyEndpoint = oauth2.Endpoint{
	AuthURL:   spotifyAuthURL,
	TokenURL:  spotifyTokenURL,
	AuthStyle: oauth2.AuthStyleInHeader,
}

// SpotifyService implements [OAuthService] against the Spotify Accounts service.
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
	now        func() time.Time
}

// SpotifyOpts contains options for creating a [SpotifyService].
type SpotifyOpts struct {
	Credentials shared.SpotifyConfig
	// Endpoint overrides [SpotifyEndpoint] when either URL is set.
	Endpoint   oauth2.Endpoint
	HTTPClient *http.Client
}

// NewSpotifyService creates a Spotify service from the given credentials.
//
// Credentials are not validated; empty values produce requests the upstream rejects.
func NewSpotifyService(opts SpotifyOpts) *SpotifyService {
	endpoint := SpotifyEndpoint
	if opts.Endpoint.AuthURL != "" {
		endpoint.AuthURL = opts.Endpoint.AuthURL
	}
	if opts.Endpoint.TokenURL != "" {
		endpoint.TokenURL = opts.Endpoint.TokenURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &SpotifyService{
		config: &oauth2.Config{
			ClientID:     opts.Credentials.ClientID,
			ClientSecret: opts.Credentials.ClientSecret,
			RedirectURL:  opts.Credentials.RedirectURI,
			Scopes:       SpotifyScopes,
			Endpoint:     endpoint,
		},
		httpClient: opts.HTTPClient,
		now:        time.Now,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthCodeURL returns the authorization URL for user login.
//
// Parameters are written in the order response_type, client_id, scope, redirect_uri.
func (s *SpotifyService) AuthCodeURL() string {
	var b strings.Builder
	b.WriteString(s.config.Endpoint.AuthURL)
	if strings.Contains(s.config.Endpoint.AuthURL, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}
	b.WriteString("response_type=code")
	b.WriteString("&client_id=" + encodeURIComponent(s.config.ClientID))
	b.WriteString("&scope=" + encodeURIComponent(strings.Join(s.config.Scopes, " ")))
	b.WriteString("&redirect_uri=" + encodeURIComponent(s.config.RedirectURL))
	return b.String()
}

// BasicAuth returns the Authorization header value for client authentication.
func (s *SpotifyService) BasicAuth() string {
	creds := s.config.ClientID + ":" + s.config.ClientSecret
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}

// Exchange trades an authorization code for an access token with one POST to the token endpoint.
//
// The code is sent as-is, including when it is empty.
func (s *SpotifyService) Exchange(ctx context.Context, code string) TokenResult {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", s.config.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResult{err: fmt.Errorf("%w: failed to create request: %v", shared.ErrTokenExchange, err)}
	}

	req.Header.Set("Authorization", s.BasicAuth())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return TokenResult{err: fmt.Errorf("%w: request failed: %v", shared.ErrTokenExchange, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenBody))
	if err != nil {
		return TokenResult{
			Status: resp.StatusCode,
			err:    fmt.Errorf("%w: failed to read response: %v", shared.ErrTokenExchange, err),
		}
	}

	result := TokenResult{Status: resp.StatusCode, Body: body}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.err = fmt.Errorf("%w %d: %w", shared.ErrUpstreamStatus, resp.StatusCode, retrieveError(resp, body))
		return result
	}

	token, err := s.parseToken(body)
	if err != nil {
		result.err = err
		return result
	}

	result.Token = token
	return result
}

// parseToken reads a token response body into an [oauth2.Token].
func (s *SpotifyService) parseToken(body []byte) (*oauth2.Token, error) {
	if !gjson.ValidBytes(body) {
		return nil, shared.ErrMalformedResponse
	}

	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		return nil, shared.ErrMalformedResponse
	}

	access := res.Get("access_token").String()
	if access == "" {
		return nil, shared.ErrMissingToken
	}

	token := &oauth2.Token{
		AccessToken:  access,
		TokenType:    res.Get("token_type").String(),
		RefreshToken: res.Get("refresh_token").String(),
	}

	if expiresIn := res.Get("expires_in").Int(); expiresIn > 0 {
		token.ExpiresIn = expiresIn
		token.Expiry = s.now().Add(time.Duration(expiresIn) * time.Second)
	}

	if scope := res.Get("scope"); scope.Exists() {
		token = token.WithExtra(map[string]any{"scope": scope.String()})
	}

	return token, nil
}

// retrieveError describes a non-2xx token response using the OAuth2 error fields when present.
func retrieveError(resp *http.Response, body []byte) *oauth2.RetrieveError {
	rerr := &oauth2.RetrieveError{Response: resp, Body: body}
	if gjson.ValidBytes(body) {
		res := gjson.ParseBytes(body)
		rerr.ErrorCode = res.Get("error").String()
		rerr.ErrorDescription = res.Get("error_description").String()
		rerr.ErrorURI = res.Get("error_uri").String()
	}
	return rerr
}

// encodeURIComponent escapes s for use as a query value, encoding spaces as %20.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
