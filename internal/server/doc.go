// Package server implements a single-shot local HTTP callback server.
//
// # Lifecycle
//
// A [CallbackServer] moves between two states:
//
//	Stopped --Start()--> Running --(handler posts stop signal)--> Stopped
//
// [CallbackServer.Start] binds the configured address, resets the visitor
// counter, and blocks until the serving loop observes the stop signal. The
// signal is a channel owned by the server: handlers that terminate the server
// call [CallbackServer.Stop], which closes the channel, and the loop performs
// a graceful shutdown once the in-flight response has been flushed. Handlers
// never touch the serving loop directly.
//
// # Routes
//
// Three handlers ship with the package:
//
//   - [GreetingHandler] on "/" returns a greeting with the current date.
//     Its shutdown flag defaults to off so the route can serve as a
//     liveness probe.
//   - [VisitorHandler] on "/testNYU" increments and reports the per-run
//     visitor counter. Its shutdown flag defaults to on, so the first visit
//     terminates the server.
//   - [OAuthHandler] on "/callback" implements the OAuth2 authorization-code
//     callback: it validates the state parameter (CSRF protection),
//     exchanges the code for tokens, and delivers the outcome through a
//     one-shot channel. It processes at most one callback.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support, with
// [BasicRouter] implementing it over [http.ServeMux]. [Middleware] wraps
// handlers in reverse order (last added executes first). Shipped middleware
// covers request IDs, request logging, and token-bucket throttling.
//
// # Usage
//
// The CLI starts a temporary server for OAuth login flows: the server comes
// up on the configured port, the browser opens the provider's consent page,
// the redirect lands on /callback, and the server shuts itself down after
// delivering the token.
package server
