package games

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sprig-core/internal/dependencies/mocks"
	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/storage/memory"
	"github.com/mcoot/sprig-core/internal/testutil"
)

type fixedNames struct {
	name  string
	calls int
}

func (f *fixedNames) Generate() string {
	f.calls++
	return f.name
}

// deleteOnRead deletes a game right after it is read, as a concurrent
// DELETE landing between UpdateGame's read and write would
type deleteOnRead struct {
	*memory.Storage
}

func (d deleteOnRead) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	game, err := d.Storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	return game, d.Storage.DeleteGame(ctx, id)
}

type RepositorySuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	names      *fixedNames
	repository *Repository
	ctx        context.Context
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.names = &fixedNames{name: "sneaky-otter"}
	s.repository = NewRepository(s.storage, s.names, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

// MakeGame tests

func (s *RepositorySuite) TestMakeGameDefaults() {
	game, err := s.repository.MakeGame(s.ctx, MakeGameParams{OwnerID: "u1"})
	s.Require().NoError(err)

	s.NotEmpty(game.ID)
	s.Equal(model.UserID("u1"), game.OwnerID)
	s.Equal("sneaky-otter", game.Name)
	s.Equal("", game.Code)
	s.False(game.Unprotected)
	s.False(game.TutorialName.IsSome())
	s.False(game.TutorialIndex.IsSome())
	s.True(game.CreatedAt.Equal(s.clock.Now()))
	s.True(game.ModifiedAt.Equal(s.clock.Now()))
	s.Equal(1, s.names.calls)
}

func (s *RepositorySuite) TestMakeGameWithExplicitFields() {
	game, err := s.repository.MakeGame(s.ctx, MakeGameParams{
		OwnerID:       "u1",
		Unprotected:   true,
		Name:          model.Some("my game"),
		Code:          model.Some("A"),
		TutorialName:  model.Some("intro"),
		TutorialIndex: model.Some(3),
	})
	s.Require().NoError(err)

	s.Equal("my game", game.Name)
	s.Equal("A", game.Code)
	s.True(game.Unprotected)
	s.Equal(model.Some("intro"), game.TutorialName)
	s.Equal(model.Some(3), game.TutorialIndex)
	s.Equal(0, s.names.calls)
}

func (s *RepositorySuite) TestMakeGameIsPersisted() {
	game, _ := s.repository.MakeGame(s.ctx, MakeGameParams{OwnerID: "u1", Code: model.Some("A")})

	stored, err := s.repository.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal("A", stored.Code)
}

// GetGame tests

func (s *RepositorySuite) TestGetGameEmptyIDIsNil() {
	game, err := s.repository.GetGame(s.ctx, "")
	s.NoError(err)
	s.Nil(game)
}

func (s *RepositorySuite) TestGetGameMissingIsNil() {
	game, err := s.repository.GetGame(s.ctx, "missing")
	s.NoError(err)
	s.Nil(game)
}

// UpdateGame tests

func (s *RepositorySuite) TestUpdateGameStampsModifiedAt() {
	game, _ := s.repository.MakeGame(s.ctx, MakeGameParams{OwnerID: "u1", Code: model.Some("A")})
	created := game.CreatedAt
	s.clock.Advance(time.Minute)

	updated, err := s.repository.UpdateGame(s.ctx, game.ID, GameUpdate{Code: model.Some("B")})
	s.Require().NoError(err)

	s.Equal("B", updated.Code)
	s.Equal("sneaky-otter", updated.Name)
	s.True(updated.CreatedAt.Equal(created))
	s.True(updated.ModifiedAt.Equal(s.clock.Now()))

	stored, _ := s.repository.GetGame(s.ctx, game.ID)
	s.Equal("B", stored.Code)
}

func (s *RepositorySuite) TestUpdateGameLastWriteWins() {
	game, _ := s.repository.MakeGame(s.ctx, MakeGameParams{OwnerID: "u1"})

	_, err := s.repository.UpdateGame(s.ctx, game.ID, GameUpdate{Name: model.Some("first")})
	s.Require().NoError(err)
	_, err = s.repository.UpdateGame(s.ctx, game.ID, GameUpdate{Name: model.Some("second")})
	s.Require().NoError(err)

	stored, _ := s.repository.GetGame(s.ctx, game.ID)
	s.Equal("second", stored.Name)
}

func (s *RepositorySuite) TestUpdateMissingGameFails() {
	_, err := s.repository.UpdateGame(s.ctx, "missing", GameUpdate{Code: model.Some("B")})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *RepositorySuite) TestUpdateRacingDeleteDoesNotRecreateGame() {
	game, err := s.repository.MakeGame(s.ctx, MakeGameParams{OwnerID: "u1"})
	s.Require().NoError(err)

	racing := NewRepository(deleteOnRead{s.storage}, s.names, s.clock, testutil.NopLogger())
	_, err = racing.UpdateGame(s.ctx, game.ID, GameUpdate{Code: model.Some("B")})
	s.ErrorIs(err, model.ErrGameNotFound)

	_, err = s.storage.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

// DeleteGame tests

func (s *RepositorySuite) TestDeleteGame() {
	game, _ := s.repository.MakeGame(s.ctx, MakeGameParams{OwnerID: "u1"})

	s.Require().NoError(s.repository.DeleteGame(s.ctx, game.ID))

	stored, err := s.repository.GetGame(s.ctx, game.ID)
	s.NoError(err)
	s.Nil(stored)
}

// CanEdit tests

func TestCanEdit(t *testing.T) {
	owner := model.User{ID: "u1"}
	other := model.User{ID: "u2"}
	protected := &model.Game{OwnerID: "u1"}
	unprotected := &model.Game{OwnerID: "u1", Unprotected: true}

	session := func(user model.User, tier model.TrustTier) *model.SessionInfo {
		return &model.SessionInfo{Session: model.Session{UserID: user.ID, Tier: tier}, User: user}
	}

	tests := []struct {
		name string
		info *model.SessionInfo
		game *model.Game
		want bool
	}{
		{"full owner protected", session(owner, model.TierFull), protected, true},
		{"full owner unprotected", session(owner, model.TierFull), unprotected, true},
		{"partial owner protected", session(owner, model.TierPartial), protected, false},
		{"partial owner unprotected", session(owner, model.TierPartial), unprotected, true},
		{"full other user", session(other, model.TierFull), protected, false},
		{"partial other user unprotected", session(other, model.TierPartial), unprotected, false},
		{"no session", nil, unprotected, false},
		{"no game", session(owner, model.TierFull), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEdit(tt.info, tt.game))
		})
	}
}
