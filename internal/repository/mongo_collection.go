package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection stores a snapshot as one document per item
type MongoCollection[T any] struct {
	coll *mongo.Collection
}

// NewMongoCollection wraps a driver collection
func NewMongoCollection[T any](coll *mongo.Collection) *MongoCollection[T] {
	return &MongoCollection[T]{coll: coll}
}

func (c *MongoCollection[T]) GetAll(ctx context.Context) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})
	cur, err := c.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", c.coll.Name(), err)
	}
	defer cur.Close(ctx)

	items := []T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("mongo decode %s: %w", c.coll.Name(), err)
	}
	return items, nil
}

// Save replaces the whole collection. Items are written to a staging
// collection which is then renamed over the target, so a failed write
// leaves the previous snapshot in place.
func (c *MongoCollection[T]) Save(ctx context.Context, items []T) error {
	if len(items) == 0 {
		if _, err := c.coll.DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("mongo clear %s: %w", c.coll.Name(), err)
		}
		return nil
	}

	db := c.coll.Database()
	stagingName := c.coll.Name() + "_staging_" + uuid.NewString()
	staging := db.Collection(stagingName)

	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	if _, err := staging.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		_ = staging.Drop(ctx)
		return fmt.Errorf("mongo insert %s: %w", c.coll.Name(), err)
	}

	rename := bson.D{
		{Key: "renameCollection", Value: db.Name() + "." + stagingName},
		{Key: "to", Value: db.Name() + "." + c.coll.Name()},
		{Key: "dropTarget", Value: true},
	}
	if err := db.Client().Database("admin").RunCommand(ctx, rename).Err(); err != nil {
		_ = staging.Drop(ctx)
		return fmt.Errorf("mongo swap %s: %w", c.coll.Name(), err)
	}
	return nil
}
