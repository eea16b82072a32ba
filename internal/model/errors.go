package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Login code errors
	ErrLoginCodeNotFound = errors.New("login code not found")

	// Game errors
	ErrGameNotFound = errors.New("game not found")
	ErrAccessDenied = errors.New("session may not access this game")

	// Snapshot errors
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
