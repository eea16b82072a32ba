package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mcoot/sprig-core/internal/model"
)

// Collection names
const (
	usersCollection      = "users"
	sessionsCollection   = "sessions"
	loginCodesCollection = "loginCodes"
	gamesCollection      = "games"
	snapshotsCollection  = "snapshots"
)

// Documents mirror the model types with the stored field names.
// Nullable fields are pointers so absence is persisted as an explicit null.

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	Email     string             `bson:"email"`
	Username  *string            `bson:"username"`
}

func (d userDoc) toModel() *model.User {
	return &model.User{
		ID:        model.UserID(d.ID.Hex()),
		CreatedAt: d.CreatedAt,
		Email:     d.Email,
		Username:  model.FromPtr(d.Username),
	}
}

type sessionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UserID    string             `bson:"userId"`
	Full      bool               `bson:"full"`
}

func (d sessionDoc) toModel() *model.Session {
	return &model.Session{
		ID:        model.SessionID(d.ID.Hex()),
		CreatedAt: d.CreatedAt,
		UserID:    model.UserID(d.UserID),
		Tier:      model.TierFromFull(d.Full),
	}
}

type loginCodeDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UserID    string             `bson:"userId"`
	Code      string             `bson:"code"`
}

func (d loginCodeDoc) toModel() *model.LoginCode {
	return &model.LoginCode{
		ID:        model.LoginCodeID(d.ID.Hex()),
		CreatedAt: d.CreatedAt,
		UserID:    model.UserID(d.UserID),
		Code:      d.Code,
	}
}

type gameDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID       string             `bson:"ownerId"`
	CreatedAt     time.Time          `bson:"createdAt"`
	ModifiedAt    time.Time          `bson:"modifiedAt"`
	Unprotected   bool               `bson:"unprotected"`
	Name          string             `bson:"name"`
	Code          string             `bson:"code"`
	TutorialName  *string            `bson:"tutorialName"`
	TutorialIndex *int               `bson:"tutorialIndex"`
}

func gameDocFromModel(g *model.Game) gameDoc {
	return gameDoc{
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

func (d gameDoc) toModel() *model.Game {
	return &model.Game{
		ID:            model.GameID(d.ID.Hex()),
		OwnerID:       model.UserID(d.OwnerID),
		CreatedAt:     d.CreatedAt,
		ModifiedAt:    d.ModifiedAt,
		Unprotected:   d.Unprotected,
		Name:          d.Name,
		Code:          d.Code,
		TutorialName:  model.FromPtr(d.TutorialName),
		TutorialIndex: model.FromPtr(d.TutorialIndex),
	}
}

type snapshotDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	GameID    string             `bson:"gameId"`
	OwnerID   string             `bson:"ownerId"`
	Name      string             `bson:"name"`
	OwnerName *string            `bson:"ownerName"`
	Code      string             `bson:"code"`
}

func (d snapshotDoc) toModel() *model.Snapshot {
	return &model.Snapshot{
		ID:        model.SnapshotID(d.ID.Hex()),
		CreatedAt: d.CreatedAt,
		GameID:    model.GameID(d.GameID),
		OwnerID:   model.UserID(d.OwnerID),
		Name:      d.Name,
		OwnerName: model.FromPtr(d.OwnerName),
		Code:      d.Code,
	}
}
