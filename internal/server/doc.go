// Package server provides the loopback HTTP plumbing for the Google OAuth
// sign-in flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first).
// The [BasicRouter] implementation uses [http.ServeMux] internally with
// method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback. It
// validates the state parameter, exchanges the authorization code for a
// token pair, and delivers the outcome through a one-shot channel. Only the
// first callback is processed; replays get a 400.
//
// During sign-in a temporary server is bound to the configured loopback
// address, the browser is opened at the provider's consent page, and the
// server is shut down as soon as the callback lands.
package server
