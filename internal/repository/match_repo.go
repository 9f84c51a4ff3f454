package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"kickerledger/internal/model"
)

// MatchRepo persists match records. Matches are never edited apart from
// flipping the status marker of a staged commit.
type MatchRepo interface {
	Create(ctx context.Context, match *model.Match) error
	GetByID(ctx context.Context, id string) (*model.Match, error)
	List(ctx context.Context) ([]*model.Match, error)
	SetStatus(ctx context.Context, id string, status model.MatchStatus) error
}

type matchRepo struct {
	collection *mongo.Collection
}

// NewMatchRepo creates a MongoDB backed match repository.
// MongoDB offers no BatchCommitter here, so the ledger stages its writes.
func NewMatchRepo(db *mongo.Database) MatchRepo {
	return &matchRepo{
		collection: db.Collection("matches"),
	}
}

func (r *matchRepo) Create(ctx context.Context, match *model.Match) error {
	_, err := r.collection.InsertOne(ctx, match)
	return err
}

func (r *matchRepo) GetByID(ctx context.Context, id string) (*model.Match, error) {
	var match model.Match
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&match)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *matchRepo) List(ctx context.Context) ([]*model.Match, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	matches := []*model.Match{}
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *matchRepo) SetStatus(ctx context.Context, id string, status model.MatchStatus) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// NewMongoStore wires the MongoDB collections into a Store
func NewMongoStore(db *mongo.Database) Store {
	return Store{
		Users:   NewUserRepo(db),
		Matches: NewMatchRepo(db),
	}
}
