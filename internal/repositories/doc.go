// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// Repositories with soft deletes stamp deleted_at and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [UserRepository] : Platform users with email-based lookups
//   - [SessionRepository] : Bearer tokens with expiry
//   - [CredentialRepository] : Installed app credentials, looked up by user and credential type
//   - [EventTypeRepository] : Event types with per-app metadata, scoped to their owner
//   - [BookingReferenceRepository] : Remote meetings created for bookings
//
// Missing rows are reported by wrapping [shared.ErrNotFound] so callers can use errors.Is.
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
