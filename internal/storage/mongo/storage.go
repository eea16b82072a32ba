package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/storage"
)

// Storage is a MongoDB-backed implementation of the storage interface.
// Each logical collection maps onto a Mongo collection of the same name and
// ids are ObjectID hex strings.
type Storage struct {
	client *mongo.Client
	db     *mongo.Database

	indexOnce sync.Once
	indexErr  error
}

// New connects to MongoDB, verifies the connection and ensures indexes
func New(ctx context.Context, cfg Config) (*Storage, error) {
	connectCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &Storage{client: client, db: client.Database(cfg.Database)}
	if err := s.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewWithDatabase creates a storage over an existing database handle (for testing)
func NewWithDatabase(db *mongo.Database) *Storage {
	return &Storage{client: db.Client(), db: db}
}

// EnsureIndexes creates the lookup indexes. Only the first call does any
// work; later calls return the first result.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	s.indexOnce.Do(func() {
		if _, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "_id", Value: 1}},
		}); err != nil {
			s.indexErr = fmt.Errorf("mongo users index: %w", err)
			return
		}
		if _, err := s.db.Collection(loginCodesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "userId", Value: 1}},
		}); err != nil {
			s.indexErr = fmt.Errorf("mongo loginCodes index: %w", err)
		}
	})
	return s.indexErr
}

// Close disconnects the client
func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// objectID parses a store id. Ids that do not parse cannot name a stored
// record, so they are reported as notFound.
func objectID(id string, notFound error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return oid, nil
}

// insert stores doc and returns the generated id as hex
func (s *Storage) insert(ctx context.Context, collection string, doc any) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("mongo insert %s: %w", collection, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("mongo insert %s: unexpected id type %T", collection, res.InsertedID)
	}
	return oid.Hex(), nil
}

// findByID decodes the document with the given id into dest
func (s *Storage) findByID(ctx context.Context, collection, id string, dest any, notFound error) error {
	oid, err := objectID(id, notFound)
	if err != nil {
		return err
	}
	err = s.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(dest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return err
}

// deleteByID removes the document with the given id; missing ids are ignored
func (s *Storage) deleteByID(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	id, err := s.insert(ctx, usersCollection, userDoc{
		CreatedAt: user.CreatedAt,
		Email:     user.Email,
		Username:  user.Username.Ptr(),
	})
	if err != nil {
		return err
	}
	user.ID = model.UserID(id)
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var doc userDoc
	if err := s.findByID(ctx, usersCollection, string(id), &doc, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	// ObjectIDs grow with insertion time, so the lowest id is the first user
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})

	var doc userDoc
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	return s.deleteByID(ctx, usersCollection, string(id))
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	id, err := s.insert(ctx, sessionsCollection, sessionDoc{
		CreatedAt: session.CreatedAt,
		UserID:    string(session.UserID),
		Full:      session.Tier.IsFull(),
	})
	if err != nil {
		return err
	}
	session.ID = model.SessionID(id)
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	var doc sessionDoc
	if err := s.findByID(ctx, sessionsCollection, string(id), &doc, model.ErrSessionNotFound); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *Storage) UpdateSessionTier(ctx context.Context, id model.SessionID, tier model.TrustTier) error {
	oid, err := objectID(string(id), model.ErrSessionNotFound)
	if err != nil {
		return err
	}

	res, err := s.db.Collection(sessionsCollection).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"full": tier.IsFull()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	return s.deleteByID(ctx, sessionsCollection, string(id))
}

// Login code operations

func (s *Storage) CreateLoginCode(ctx context.Context, code *model.LoginCode) error {
	id, err := s.insert(ctx, loginCodesCollection, loginCodeDoc{
		CreatedAt: code.CreatedAt,
		UserID:    string(code.UserID),
		Code:      code.Code,
	})
	if err != nil {
		return err
	}
	code.ID = model.LoginCodeID(id)
	return nil
}

func (s *Storage) GetLoginCodesForUser(ctx context.Context, userID model.UserID) ([]*model.LoginCode, error) {
	cur, err := s.db.Collection(loginCodesCollection).Find(ctx, bson.M{"userId": string(userID)})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []loginCodeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	codes := make([]*model.LoginCode, 0, len(docs))
	for _, doc := range docs {
		codes = append(codes, doc.toModel())
	}
	return codes, nil
}

func (s *Storage) DeleteLoginCode(ctx context.Context, id model.LoginCodeID) error {
	return s.deleteByID(ctx, loginCodesCollection, string(id))
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	id, err := s.insert(ctx, gamesCollection, gameDocFromModel(game))
	if err != nil {
		return err
	}
	game.ID = model.GameID(id)
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var doc gameDoc
	if err := s.findByID(ctx, gamesCollection, string(id), &doc, model.ErrGameNotFound); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	oid, err := objectID(string(game.ID), model.ErrGameNotFound)
	if err != nil {
		return err
	}

	doc := gameDocFromModel(game)
	doc.ID = oid
	res, err := s.db.Collection(gamesCollection).ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrGameNotFound
	}
	return nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	return s.deleteByID(ctx, gamesCollection, string(id))
}

// Snapshot operations

func (s *Storage) CreateSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	id, err := s.insert(ctx, snapshotsCollection, snapshotDoc{
		CreatedAt: snapshot.CreatedAt,
		GameID:    string(snapshot.GameID),
		OwnerID:   string(snapshot.OwnerID),
		Name:      snapshot.Name,
		OwnerName: snapshot.OwnerName.Ptr(),
		Code:      snapshot.Code,
	})
	if err != nil {
		return err
	}
	snapshot.ID = model.SnapshotID(id)
	return nil
}

func (s *Storage) GetSnapshot(ctx context.Context, id model.SnapshotID) (*model.Snapshot, error) {
	var doc snapshotDoc
	if err := s.findByID(ctx, snapshotsCollection, string(id), &doc, model.ErrSnapshotNotFound); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}
