// Package server provides HTTP routing, middleware, and the API handlers of the SquadCast conferencing app.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally. [BasicRouter.Handle] registers method-qualified
// patterns, while [BasicRouter.Handler] leaves method dispatch to the handler so it can answer unsupported methods
// with its own status and body.
//
// # Middleware
//
//   - [Logging] : one charmbracelet/log line per request
//   - [Recovery] : panics become 500 {"message":"Something went wrong"}
//   - [Session] : resolves "Authorization: Bearer" or the session cookie to a user id in the request context
//
// Session never rejects; each handler decides whether an anonymous request is allowed.
//
// # Handlers
//
//   - [AddHandler] : /api/integrations/squadcast/add stores the encrypted API key
//   - [CaptureHandler] : /api/integrations/squadcast/capture proxies the show list as [id, name] pairs
//   - [EventTypeAppHandler] : /api/event-types/{id}/apps/squadcast reads and writes the show association
//   - [BookingsHandler] : /api/bookings/events feeds booking triggers to the lifecycle manager
//
// All JSON errors use the body {"message": string}.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
