// Package mongo backs docstore collections with MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"
)

// Connect dials uri and pings the deployment before returning the database.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return client.Database(database), client.Disconnect, nil
}

type Collection[T any] struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewCollection[T any](db *mongo.Database, name string) *Collection[T] {
	return &Collection[T]{
		coll: db.Collection(name),
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	return c.FindOne(ctx, docstore.Filter{"_id": id})
}

func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	if _, err := docstore.PrepareInsert(doc, c.now()); err != nil {
		return err
	}
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: insert %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, doc *T) error {
	current, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	currentMeta, err := docstore.MetaOf(current)
	if err != nil {
		return err
	}
	if _, err := docstore.PrepareUpdate(doc, id, currentMeta.CreatedAt, c.now()); err != nil {
		return err
	}
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("mongo: update %s: %w", c.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo: delete %s: %w", c.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (c *Collection[T]) Find(ctx context.Context, q docstore.Query) ([]T, int64, error) {
	q = q.Normalize()
	filter := toBSON(q.Filter)

	total, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo: count %s: %w", c.coll.Name(), err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))
	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo: find %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0, q.Limit)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("mongo: decode %s: %w", c.coll.Name(), err)
	}
	return items, total, nil
}

func (c *Collection[T]) FindOne(ctx context.Context, filter docstore.Filter) (*T, error) {
	var doc T
	err := c.coll.FindOne(ctx, toBSON(filter)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: get %s: %w", c.coll.Name(), err)
	}
	return &doc, nil
}

func toBSON(f docstore.Filter) bson.M {
	m := bson.M{}
	for k, v := range f {
		m[k] = v
	}
	return m
}
