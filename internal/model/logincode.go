package model

import "time"

// LoginCodeID identifies an issued login code record
type LoginCodeID string

// LoginCode is a short numeric credential used to escalate a session
type LoginCode struct {
	ID        LoginCodeID
	CreatedAt time.Time
	UserID    UserID
	Code      string
}
