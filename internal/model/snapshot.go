package model

import "time"

// SnapshotID identifies a snapshot
type SnapshotID string

// Snapshot is an immutable copy of a game taken at a point in time.
// GameID and OwnerID are lookup keys only; Name, OwnerName and Code are frozen.
type Snapshot struct {
	ID        SnapshotID
	CreatedAt time.Time
	GameID    GameID
	OwnerID   UserID
	Name      string
	OwnerName Optional[string]
	Code      string
}

// SnapshotData is the display view of a snapshot
type SnapshotData struct {
	ID        SnapshotID
	CreatedAt time.Time
	Name      string
	OwnerName Optional[string]
	Code      string
}
