// Package store provides typed, soft-delete-aware access to named Mongo
// collections. Every entity embeds the Audit envelope; live read paths
// compose the caller's filter with the soft-delete predicate so callers
// never have to carry it themselves.
//
// Every operation takes a context. Goroutines are the scheduling unit in
// Go, so a single context-aware form serves both blocking and non-blocking
// callers with identical semantics.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Option adjusts how a single operation routes to the backend.
type Option func(*opConfig)

type opConfig struct {
	partitionKey string
}

// WithPartition routes the operation to the shard of the collection named
// by key. It is a routing hint only; result semantics do not change.
func WithPartition(key string) Option {
	return func(c *opConfig) {
		c.partitionKey = key
	}
}

// Collection is a typed handle on a named Mongo collection of T.
type Collection[T any] struct {
	db   *mongo.Database
	name string
}

// NewCollection binds a collection handle for T under the given name.
func NewCollection[T any](db *mongo.Database, name string) *Collection[T] {
	return &Collection[T]{db: db, name: name}
}

// handle resolves the backing collection, honoring a partition key when
// one was supplied. Partitioned collections are named "<key>-<name>".
func (c *Collection[T]) handle(opts []Option) *mongo.Collection {
	var cfg opConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	name := c.name
	if cfg.partitionKey != "" {
		name = cfg.partitionKey + "-" + c.name
	}
	return c.db.Collection(name)
}

// GetByID looks a document up by identifier only. It applies no
// soft-delete filtering; callers that need visibility rules must use the
// filtered variants.
func (c *Collection[T]) GetByID(ctx context.Context, id primitive.ObjectID, opts ...Option) (*T, error) {
	var doc T
	if err := c.handle(opts).FindOne(ctx, bson.M{fieldID: id}).Decode(&doc); err != nil {
		return nil, wrapErr(err)
	}
	return &doc, nil
}

// GetOne returns the first live document matching filter.
func (c *Collection[T]) GetOne(ctx context.Context, filter bson.M, opts ...Option) (*T, error) {
	return c.findOne(ctx, Live.apply(filter), opts)
}

// GetOneIncludingDeleted returns the first document matching filter, even
// when it has been soft-deleted. For internal processes that must act on
// deleted rows.
func (c *Collection[T]) GetOneIncludingDeleted(ctx context.Context, filter bson.M, opts ...Option) (*T, error) {
	return c.findOne(ctx, filter, opts)
}

func (c *Collection[T]) findOne(ctx context.Context, filter bson.M, opts []Option) (*T, error) {
	var doc T
	if err := c.handle(opts).FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, wrapErr(err)
	}
	return &doc, nil
}

// GetAll returns every live document matching filter.
func (c *Collection[T]) GetAll(ctx context.Context, filter bson.M, opts ...Option) ([]T, error) {
	return c.findAll(ctx, Live.apply(filter), opts)
}

// GetAllIncludingDeleted returns every document matching filter, deleted
// ones included.
func (c *Collection[T]) GetAllIncludingDeleted(ctx context.Context, filter bson.M, opts ...Option) ([]T, error) {
	return c.findAll(ctx, filter, opts)
}

func (c *Collection[T]) findAll(ctx context.Context, filter bson.M, opts []Option) ([]T, error) {
	cursor, err := c.handle(opts).Find(ctx, filter)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapErr(err)
	}
	if docs == nil {
		docs = make([]T, 0)
	}
	return docs, nil
}

// Any reports whether at least one document matches filter under the given
// visibility.
func (c *Collection[T]) Any(ctx context.Context, filter bson.M, vis Visibility, opts ...Option) (bool, error) {
	n, err := c.Count(ctx, filter, vis, opts...)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns how many documents match filter under the given visibility.
func (c *Collection[T]) Count(ctx context.Context, filter bson.M, vis Visibility, opts ...Option) (int64, error) {
	n, err := c.handle(opts).CountDocuments(ctx, vis.apply(filter))
	if err != nil {
		return 0, wrapErr(err)
	}
	return n, nil
}

// AddOne inserts a new document. The store assigns a fresh identifier when
// the entity has none and stamps the creation provenance. Returns the hex
// identifier of the inserted document.
func (c *Collection[T]) AddOne(ctx context.Context, doc Entity, actor string, opts ...Option) (string, error) {
	env := doc.Envelope()
	if env.ID.IsZero() {
		env.ID = primitive.NewObjectID()
	}
	env.stampCreated(actor, time.Now().UTC())
	if _, err := c.handle(opts).InsertOne(ctx, doc); err != nil {
		return "", wrapErr(err)
	}
	return env.ID.Hex(), nil
}

// UpdateField atomically sets one field on the first live document matching
// filter and refreshes the modification stamps. Reports whether a document
// matched.
func (c *Collection[T]) UpdateField(ctx context.Context, filter bson.M, field string, value any, actor string, opts ...Option) (bool, error) {
	update := bson.M{"$set": bson.M{
		field:           value,
		fieldModifiedOn: time.Now().UTC(),
		fieldModifiedBy: actor,
	}}
	res, err := c.handle(opts).UpdateOne(ctx, Live.apply(filter), update)
	if err != nil {
		return false, wrapErr(err)
	}
	return res.MatchedCount > 0, nil
}

// SoftDeleteOne marks the first live document matching filter as deleted.
// Documents are never physically removed. Reports whether a document
// matched.
func (c *Collection[T]) SoftDeleteOne(ctx context.Context, filter bson.M, actor string, opts ...Option) (bool, error) {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		fieldIsDeleted:  true,
		fieldDeletedBy:  actor,
		fieldDeletedOn:  now,
		fieldModifiedOn: now,
		fieldModifiedBy: actor,
	}}
	res, err := c.handle(opts).UpdateOne(ctx, Live.apply(filter), update)
	if err != nil {
		return false, wrapErr(err)
	}
	return res.MatchedCount > 0, nil
}
