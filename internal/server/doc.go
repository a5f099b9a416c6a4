// Package server provides HTTP routing, middleware, and the OAuth relay handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /login").
// Middleware wraps the whole mux, so unmatched requests still pass through it.
//
// # Relay Handlers
//
// [LoginHandler] redirects the browser to the provider's authorization URL.
//
// [CallbackHandler] reads the code from the query string, exchanges it through a
// [services.OAuthService], and redirects to the front-end as
//
//	<frontend>/?access_token=<token>
//
// Every failure becomes a 500 with "Failed to get token". Upstream status and error body are
// logged and never returned to the browser.
//
// The state parameter is neither sent nor checked. Codes are passed through unchecked unless
// [CallbackOpts.RequireCode] is set.
//
// # Middleware
//
//   - [CORS]: allows any origin, answers preflights with 204
//   - [RequestLogger]: one log line per request, tagged with an X-Request-ID
//   - [Recoverer]: converts handler panics into 500s
//
// # Server
//
// [Server] listens on port 8888 and shuts down gracefully when its context is cancelled.
package server
