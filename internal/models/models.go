package models

import "time"

// Model is satisfied by every row the plugin persists: users, sessions,
// installed credentials, event types and booking references.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Repository is the storage contract shared by the entity stores.
//
// Get and List skip soft-deleted rows. List criteria are exact matches on
// the keys each store recognizes; other keys are ignored.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}

var (
	_ Model = (*User)(nil)
	_ Model = (*Session)(nil)
	_ Model = (*Credential)(nil)
	_ Model = (*EventType)(nil)
	_ Model = (*BookingReference)(nil)
)
