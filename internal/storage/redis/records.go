package redis

import (
	"time"

	"github.com/mcoot/sprig-core/internal/model"
)

// sessionRecord is the stored form of a session. The tier is kept as the
// boolean "full" flag shared with the mongo backend.
type sessionRecord struct {
	ID        model.SessionID `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UserID    model.UserID    `json:"user_id"`
	Full      bool            `json:"full"`
}

func sessionRecordFromModel(s *model.Session) sessionRecord {
	return sessionRecord{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UserID:    s.UserID,
		Full:      s.Tier.IsFull(),
	}
}

func (r sessionRecord) toModel() *model.Session {
	return &model.Session{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		UserID:    r.UserID,
		Tier:      model.TierFromFull(r.Full),
	}
}
