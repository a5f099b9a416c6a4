package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-relay/internal/services"
	"github.com/desertthunder/spotify-relay/internal/shared"
	"golang.org/x/oauth2"
)

// FailureMessage is the body of every failed callback response.
const FailureMessage = "Failed to get token"

// LoginHandler redirects the browser to the provider's authorization page.
// Implements the Handler interface for registration with a Router.
type LoginHandler struct {
	service services.OAuthService
}

// NewLoginHandler creates a login handler for the given OAuth service.
func NewLoginHandler(service services.OAuthService) *LoginHandler {
	return &LoginHandler{service: service}
}

// Routes returns the HTTP routes this handler serves.
func (h *LoginHandler) Routes() []string {
	return []string{"GET /login"}
}

// ServeHTTP responds with a 302 to the authorization URL.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.service.AuthCodeURL(), http.StatusFound)
}

// CallbackHandler handles OAuth2 callback requests for authorization code flow.
//
// It exchanges the code for an access token and forwards the token to the front-end.
type CallbackHandler struct {
	service     services.OAuthService
	frontendURI string
	requireCode bool
	logger      *log.Logger
}

// CallbackOpts contains options for creating a [CallbackHandler].
type CallbackOpts struct {
	Service     services.OAuthService
	FrontendURI string
	// RequireCode rejects requests without a code instead of passing them upstream.
	RequireCode bool
	Logger      *log.Logger
}

// NewCallbackHandler creates a new callback handler.
func NewCallbackHandler(opts CallbackOpts) *CallbackHandler {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &CallbackHandler{
		service:     opts.Service,
		frontendURI: opts.FrontendURI,
		requireCode: opts.RequireCode,
		logger:      shared.WithLogger(opts.Logger, "handler", "callback"),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"GET /callback"}
}

// ServeHTTP handles the OAuth callback request.
//
// A successful exchange redirects to the front-end with the access token; any failure is a 500
// with [FailureMessage].
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")

	if code == "" {
		if errParam := query.Get("error"); errParam != "" {
			h.logger.Warn("authorization denied", "error", errParam)
		}
		if h.requireCode {
			h.logger.Error("token error", "err", shared.ErrMissingCode)
			http.Error(w, FailureMessage, http.StatusInternalServerError)
			return
		}
	}

	result := h.service.Exchange(r.Context(), code)
	if !result.OK() {
		h.logFailure(result)
		http.Error(w, FailureMessage, http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, FrontendRedirect(h.frontendURI, result.Token.AccessToken), http.StatusFound)
}

func (h *CallbackHandler) logFailure(result services.TokenResult) {
	err := result.Error()
	if err == nil {
		err = shared.ErrMissingToken
	}

	kv := []any{"err", err}
	if result.Status != 0 {
		kv = append(kv, "status", result.Status)
	}

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) && rerr.ErrorCode != "" {
		kv = append(kv, "error_code", rerr.ErrorCode, "error_description", rerr.ErrorDescription)
	} else if len(result.Body) > 0 {
		kv = append(kv, "body", string(result.Body))
	}

	h.logger.Error("token error", kv...)
}

// FrontendRedirect returns the front-end URL carrying the access token.
func FrontendRedirect(frontendURI, token string) string {
	return strings.TrimSuffix(frontendURI, "/") + "/?access_token=" + url.QueryEscape(token)
}
