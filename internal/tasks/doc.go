// Package tasks orchestrates the booking lifecycle for the SquadCast conferencing app.
//
// # Core Operations
//
// The [LifecycleEngine] interface defines three operations, one per booking trigger:
//
//  1. [LifecycleEngine.Created] : BOOKING_CREATED
//     - Finds the organizer's installed credential
//     - Asks the adapter to create a session
//     - Stores a booking reference when a session id came back
//
//  2. [LifecycleEngine.Rescheduled] : BOOKING_RESCHEDULED
//     - Loads the booking reference and updates the session
//     - Falls back to Created when no reference exists
//
//  3. [LifecycleEngine.Cancelled] : BOOKING_CANCELLED
//     - Deletes the session and soft-deletes the reference
//     - A booking without a reference is a no-op
//
// [Manager.BulkCancel] runs Cancelled over many bookings with a worker pool and a [rate.Limiter].
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default to prevent blocking; a nil channel disables reporting.
//
// # Implementation
//
// [Manager] implements [LifecycleEngine] with dependencies on:
//   - [CredentialStore] : repositories.CredentialRepository
//   - [ReferenceStore] : repositories.BookingReferenceRepository
//   - [video.AdapterFactory] : builds a [video.VideoAPIAdapter] per credential
package tasks
