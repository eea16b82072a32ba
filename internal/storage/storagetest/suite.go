// Package storagetest holds the behaviour every storage backend must share.
// Backend test suites embed Suite and assign Storage in their SetupTest.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/storage"
)

// Suite runs the storage contract against Storage
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) createUser(email string, username model.Optional[string]) *model.User {
	user := &model.User{CreatedAt: baseTime, Email: email, Username: username}
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, user))
	return user
}

// User tests

func (s *Suite) TestCreateUserAssignsID() {
	user := s.createUser("alice@example.com", model.Some("alice"))
	s.NotEmpty(user.ID)

	retrieved, err := s.Storage.GetUser(s.Ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user.ID, retrieved.ID)
	s.Equal("alice@example.com", retrieved.Email)
	s.Equal(model.Some("alice"), retrieved.Username)
	s.True(baseTime.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestCreateUserWithoutUsername() {
	user := s.createUser("anon@example.com", model.None[string]())

	retrieved, err := s.Storage.GetUser(s.Ctx, user.ID)
	s.Require().NoError(err)
	s.False(retrieved.Username.IsSome())
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.Storage.GetUser(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestGetUserByEmailReturnsFirstMatch() {
	first := s.createUser("dup@example.com", model.Some("first"))
	_ = s.createUser("dup@example.com", model.Some("second"))

	retrieved, err := s.Storage.GetUserByEmail(s.Ctx, "dup@example.com")
	s.Require().NoError(err)
	s.Equal(first.ID, retrieved.ID)
}

func (s *Suite) TestGetUserByEmailNotFound() {
	_, err := s.Storage.GetUserByEmail(s.Ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestDeleteUser() {
	first := s.createUser("dup@example.com", model.None[string]())
	second := s.createUser("dup@example.com", model.None[string]())

	s.Require().NoError(s.Storage.DeleteUser(s.Ctx, first.ID))

	_, err := s.Storage.GetUser(s.Ctx, first.ID)
	s.ErrorIs(err, model.ErrUserNotFound)

	retrieved, err := s.Storage.GetUserByEmail(s.Ctx, "dup@example.com")
	s.Require().NoError(err)
	s.Equal(second.ID, retrieved.ID)
}

// Session tests

func (s *Suite) TestCreateAndGetSession() {
	session := &model.Session{CreatedAt: baseTime, UserID: "user-1", Tier: model.TierPartial}
	s.Require().NoError(s.Storage.CreateSession(s.Ctx, session))
	s.NotEmpty(session.ID)

	retrieved, err := s.Storage.GetSession(s.Ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), retrieved.UserID)
	s.Equal(model.TierPartial, retrieved.Tier)
}

func (s *Suite) TestGetSessionNotFound() {
	_, err := s.Storage.GetSession(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *Suite) TestUpdateSessionTier() {
	session := &model.Session{CreatedAt: baseTime, UserID: "user-1", Tier: model.TierPartial}
	s.Require().NoError(s.Storage.CreateSession(s.Ctx, session))

	s.Require().NoError(s.Storage.UpdateSessionTier(s.Ctx, session.ID, model.TierFull))
	retrieved, err := s.Storage.GetSession(s.Ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.TierFull, retrieved.Tier)

	s.Require().NoError(s.Storage.UpdateSessionTier(s.Ctx, session.ID, model.TierPartial))
	retrieved, err = s.Storage.GetSession(s.Ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.TierPartial, retrieved.Tier)
}

func (s *Suite) TestUpdateSessionTierNotFound() {
	err := s.Storage.UpdateSessionTier(s.Ctx, "nonexistent", model.TierFull)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *Suite) TestDeleteSession() {
	session := &model.Session{CreatedAt: baseTime, UserID: "user-1"}
	s.Require().NoError(s.Storage.CreateSession(s.Ctx, session))

	s.Require().NoError(s.Storage.DeleteSession(s.Ctx, session.ID))

	_, err := s.Storage.GetSession(s.Ctx, session.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Login code tests

func (s *Suite) TestLoginCodesForUser() {
	for _, c := range []*model.LoginCode{
		{CreatedAt: baseTime, UserID: "user-1", Code: "111111"},
		{CreatedAt: baseTime, UserID: "user-1", Code: "222222"},
		{CreatedAt: baseTime, UserID: "user-2", Code: "333333"},
	} {
		s.Require().NoError(s.Storage.CreateLoginCode(s.Ctx, c))
		s.NotEmpty(c.ID)
	}

	codes, err := s.Storage.GetLoginCodesForUser(s.Ctx, "user-1")
	s.Require().NoError(err)
	s.Len(codes, 2)

	values := []string{codes[0].Code, codes[1].Code}
	s.ElementsMatch([]string{"111111", "222222"}, values)
}

func (s *Suite) TestLoginCodesForUserEmpty() {
	codes, err := s.Storage.GetLoginCodesForUser(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(codes)
}

func (s *Suite) TestDeleteLoginCode() {
	code := &model.LoginCode{CreatedAt: baseTime, UserID: "user-1", Code: "123456"}
	s.Require().NoError(s.Storage.CreateLoginCode(s.Ctx, code))

	s.Require().NoError(s.Storage.DeleteLoginCode(s.Ctx, code.ID))

	codes, err := s.Storage.GetLoginCodesForUser(s.Ctx, "user-1")
	s.Require().NoError(err)
	s.Empty(codes)
}

// Game tests

func (s *Suite) TestCreateAndGetGame() {
	game := &model.Game{
		OwnerID:       "user-1",
		CreatedAt:     baseTime,
		ModifiedAt:    baseTime,
		Unprotected:   true,
		Name:          "brave-otter",
		Code:          "setMap(map`...`)",
		TutorialName:  model.Some("intro"),
		TutorialIndex: model.Some(2),
	}
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, game))
	s.NotEmpty(game.ID)

	retrieved, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.OwnerID, retrieved.OwnerID)
	s.True(retrieved.Unprotected)
	s.Equal(game.Name, retrieved.Name)
	s.Equal(game.Code, retrieved.Code)
	s.Equal(model.Some("intro"), retrieved.TutorialName)
	s.Equal(model.Some(2), retrieved.TutorialIndex)
	s.True(baseTime.Equal(retrieved.ModifiedAt))
}

func (s *Suite) TestGameWithoutTutorial() {
	game := &model.Game{OwnerID: "user-1", CreatedAt: baseTime, ModifiedAt: baseTime, Name: "g"}
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, game))

	retrieved, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.Require().NoError(err)
	s.False(retrieved.TutorialName.IsSome())
	s.False(retrieved.TutorialIndex.IsSome())
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.Storage.GetGame(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestSaveGameOverwrites() {
	game := &model.Game{OwnerID: "user-1", CreatedAt: baseTime, ModifiedAt: baseTime, Name: "g", Code: "A"}
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, game))

	game.Code = "B"
	game.ModifiedAt = baseTime.Add(time.Minute)
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, game))

	retrieved, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.Require().NoError(err)
	s.Equal("B", retrieved.Code)
	s.True(baseTime.Add(time.Minute).Equal(retrieved.ModifiedAt))
}

func (s *Suite) TestSaveGameDoesNotRecreateDeletedGame() {
	game := &model.Game{OwnerID: "user-1", CreatedAt: baseTime, ModifiedAt: baseTime, Name: "g", Code: "A"}
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, game))
	s.Require().NoError(s.Storage.DeleteGame(s.Ctx, game.ID))

	game.Code = "B"
	s.ErrorIs(s.Storage.SaveGame(s.Ctx, game), model.ErrGameNotFound)

	_, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestReturnedGameIsDetached() {
	game := &model.Game{OwnerID: "user-1", CreatedAt: baseTime, ModifiedAt: baseTime, Name: "g", Code: "A"}
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, game))

	retrieved, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.Require().NoError(err)
	retrieved.Code = "mutated"
	game.Code = "also mutated"

	again, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.Require().NoError(err)
	s.Equal("A", again.Code)
}

func (s *Suite) TestDeleteGame() {
	game := &model.Game{OwnerID: "user-1", CreatedAt: baseTime, ModifiedAt: baseTime, Name: "g"}
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, game))

	s.Require().NoError(s.Storage.DeleteGame(s.Ctx, game.ID))

	_, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Snapshot tests

func (s *Suite) TestCreateAndGetSnapshot() {
	snapshot := &model.Snapshot{
		CreatedAt: baseTime,
		GameID:    "game-1",
		OwnerID:   "user-1",
		Name:      "brave-otter",
		OwnerName: model.Some("alice"),
		Code:      "A",
	}
	s.Require().NoError(s.Storage.CreateSnapshot(s.Ctx, snapshot))
	s.NotEmpty(snapshot.ID)

	retrieved, err := s.Storage.GetSnapshot(s.Ctx, snapshot.ID)
	s.Require().NoError(err)
	s.Equal(snapshot.GameID, retrieved.GameID)
	s.Equal(snapshot.OwnerID, retrieved.OwnerID)
	s.Equal("brave-otter", retrieved.Name)
	s.Equal(model.Some("alice"), retrieved.OwnerName)
	s.Equal("A", retrieved.Code)
	s.True(baseTime.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestGetSnapshotNotFound() {
	_, err := s.Storage.GetSnapshot(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}
