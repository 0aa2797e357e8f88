package repo

import (
	"context"
	"errors"
	"time"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/service/i"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxRecent = 100

var _ i.ResultRepo = &ResultRepo{}

// ResultRepo handles the persistence of match results.
type ResultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new ResultRepo with the given MongoDB client, database name, and collection name.
func NewResultRepo(client *mongo.Client, dbName, collectionName string) *ResultRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &ResultRepo{
		collection: collection,
	}
}

// Save inserts or replaces the result with the same ID.
func (r *ResultRepo) Save(result *dmn.MatchResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	filter := bson.M{"_id": result.ID}
	update := bson.M{
		"$set": bson.M{
			"localPeer":    result.LocalPeer,
			"remotePeer":   result.RemotePeer,
			"role":         result.Role,
			"mode":         result.Mode,
			"round":        result.Round,
			"localSlot":    result.LocalSlot,
			"winner":       result.Winner,
			"scores":       result.Scores,
			"ticks":        result.Ticks,
			"configDigest": result.ConfigDigest,
			"endedAt":      result.EndedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// Recent returns up to limit results, newest first.
func (r *ResultRepo) Recent(limit int) ([]*dmn.MatchResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}
	opts := options.Find().SetSort(bson.D{{Key: "endedAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	defer cursor.Close(ctx)

	results := make([]*dmn.MatchResult, 0, limit)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return results, nil
}
