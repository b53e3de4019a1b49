// Package server runs the short-lived local HTTP listener used by the browser OAuth flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [Middleware] wraps handlers
// in reverse order (last added executes first), and [BasicRouter] implements it on top of [http.ServeMux].
//
// # Callback Handler
//
// [CallbackHandler] serves /callback. The first request carrying a code parameter records it and
// closes [CallbackHandler.Done]; later codes are ignored so a replayed redirect can't swap the code
// that gets exchanged. Requests without a code get a 200 and leave the handler waiting. Any other
// path is a 404.
//
// # Capture
//
// [Capture] binds 127.0.0.1 on port 0, builds the redirect URI http://localhost:<port>/callback,
// opens the browser after a short delay and blocks until the code arrives, the context is cancelled
// or the timeout expires. The listener is bound before the browser is launched, so the delay only
// gives the serve loop time to start. Shutdown waits a grace period after the code arrives so the
// browser can render the confirmation page.
package server
