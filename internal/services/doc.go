// Package services defines the [Service] interface for the SquadCast recording platform and implements it with [SquadCastService].
//
// # Authentication
//
// SquadCast issues long-lived API keys. The key is not held by the service; each call receives the caller's decrypted key
// and wraps the configured base [http.Client] with an [oauth2.StaticTokenSource], so the bearer header is added by the transport.
//
// # Rate Limiting
//
// Outbound requests share a [rate.Limiter] (requests per second from config, burst 1).
// Blocking waits respect the request context.
//
// # Form Encoding
//
// Session create and update bodies are application/x-www-form-urlencoded. [Form] keeps insertion order,
// including repeated "stage" entries for attendees.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : empty API key
//   - [shared.ErrServiceUnavailable] : transport failure
//   - [shared.ErrAPIRequest] : unexpected status, carried by [*APIError]
//
// [StatusCode] extracts the provider status for callers that branch on it (e.g. 404 on delete).
package services
