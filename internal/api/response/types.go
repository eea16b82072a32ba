package response

import (
	"time"

	"github.com/mcoot/sprig-core/internal/model"
)

// User represents a user in API responses
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  *string   `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:        string(u.ID),
		Email:     u.Email,
		Username:  u.Username.Ptr(),
		CreatedAt: u.CreatedAt,
	}
}

// Session represents a session in API responses
type Session struct {
	ID        string    `json:"id"`
	Tier      string    `json:"tier"`
	Full      bool      `json:"full"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse is the response for session endpoints
type SessionResponse struct {
	Session Session `json:"session"`
	User    User    `json:"user"`
}

// SessionResponseFromModel converts a model.SessionInfo
func SessionResponseFromModel(info *model.SessionInfo) SessionResponse {
	return SessionResponse{
		Session: Session{
			ID:        string(info.Session.ID),
			Tier:      info.Session.Tier.String(),
			Full:      info.Session.Tier.IsFull(),
			CreatedAt: info.Session.CreatedAt,
		},
		User: UserFromModel(&info.User),
	}
}

// Game represents a game in API responses
type Game struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
	Unprotected   bool      `json:"unprotected"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	TutorialName  *string   `json:"tutorial_name"`
	TutorialIndex *int      `json:"tutorial_index"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:            string(g.ID),
		OwnerID:       string(g.OwnerID),
		CreatedAt:     g.CreatedAt,
		ModifiedAt:    g.ModifiedAt,
		Unprotected:   g.Unprotected,
		Name:          g.Name,
		Code:          g.Code,
		TutorialName:  g.TutorialName.Ptr(),
		TutorialIndex: g.TutorialIndex.Ptr(),
	}
}

// Snapshot represents a newly taken snapshot
type Snapshot struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	OwnerName *string   `json:"owner_name"`
	Code      string    `json:"code"`
}

// SnapshotFromModel converts a model.Snapshot
func SnapshotFromModel(s *model.Snapshot) Snapshot {
	return Snapshot{
		ID:        string(s.ID),
		GameID:    string(s.GameID),
		OwnerID:   string(s.OwnerID),
		CreatedAt: s.CreatedAt,
		Name:      s.Name,
		OwnerName: s.OwnerName.Ptr(),
		Code:      s.Code,
	}
}

// SnapshotData is the public view of a snapshot
type SnapshotData struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	OwnerName *string   `json:"owner_name"`
	Code      string    `json:"code"`
}

// SnapshotDataFromModel converts a model.SnapshotData
func SnapshotDataFromModel(d *model.SnapshotData) SnapshotData {
	return SnapshotData{
		ID:        string(d.ID),
		CreatedAt: d.CreatedAt,
		Name:      d.Name,
		OwnerName: d.OwnerName.Ptr(),
		Code:      d.Code,
	}
}

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
}
