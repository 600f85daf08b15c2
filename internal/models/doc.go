// Package models defines domain entities and persistence interfaces for the SquadCast conferencing app.
//
// The package contains three categories of types:
//
// 1. App metadata: the static description of the conferencing app
//   - [AppMeta] and the [SquadCast] value: slug, credential type, location type, derived paths
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [User] : Platform users who install the app
//   - [Session] : Bearer tokens that identify a user on the HTTP surface
//   - [Credential] : Installed app credentials holding the encrypted provider API key
//   - [EventType] : Scheduled event types carrying per-app settings in their metadata
//   - [BookingReference] : Remote video sessions created for a booking
//
// 3. Video call DTOs exchanged with the video adapter
//   - [CalendarEvent], [Person], [VideoCallData], [PartialReference]
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models

import _ "time/tzdata" // time zones validated here must resolve on hosts without a zoneinfo database
