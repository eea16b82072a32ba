package model

import "time"

// GameID uniquely identifies a game document
type GameID string

// Game is a user-authored program
type Game struct {
	ID         GameID
	OwnerID    UserID
	CreatedAt  time.Time
	ModifiedAt time.Time
	// Unprotected games can be edited under a partial (email only) session
	Unprotected   bool
	Name          string
	Code          string
	TutorialName  Optional[string]
	TutorialIndex Optional[int]
}
