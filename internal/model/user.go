package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// User is an account identified by email
// Email is unique in practice but not enforced by the store
type User struct {
	ID        UserID
	CreatedAt time.Time
	Email     string
	Username  Optional[string]
}
