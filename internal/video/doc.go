// Package video adapts booking lifecycle events to remote conferencing sessions.
//
// A [VideoAPIAdapter] is bound to one installed credential. [SquadCastAdapter] decrypts the credential's API key on every call,
// encodes the booking as a SquadCast session form and reports the remote meeting as [models.VideoCallData].
//
// # Form Encoding
//
// Fields are written in a fixed order: sessionTitle, date, startTime, endTime, timeZone, an optional showID and one
// stage entry per attendee. Date and times are rendered in the organizer's time zone ("2006-01-02" and "03:04 PM").
//
// # Failure Semantics
//
// A rejected create yields the empty [models.VideoCallData] rather than an error, so the booking still succeeds without a
// meeting. Update ignores the provider status. Delete treats 404 as already deleted.
//
// tasks.Manager maps booking triggers onto adapter calls and keeps [models.BookingReference] rows in step.
package video
