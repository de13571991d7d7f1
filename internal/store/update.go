package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SwapArrayValue removes oldVal from and appends newVal to an array field
// of the first live document matching filter, in one server-side update.
// Removing an absent value is a no-op, so an empty oldVal turns the swap
// into a plain append. Because the remove+append delta executes inside the
// document's single atomic update, concurrent swaps on the same document
// cannot lose each other's writes the way a read-modify-write sequence
// would. Reports whether a document matched.
func (c *Collection[T]) SwapArrayValue(ctx context.Context, filter bson.M, field string, oldVal, newVal any, actor string, opts ...Option) (bool, error) {
	pipeline := swapPipeline(field, oldVal, newVal, actor, time.Now().UTC())
	res, err := c.handle(opts).UpdateOne(ctx, Live.apply(filter), pipeline)
	if err != nil {
		return false, wrapErr(err)
	}
	return res.MatchedCount > 0, nil
}

// PullArrayValue removes value from an array field of the first live
// document matching filter. Idempotent: pulling an absent value still
// succeeds. Reports whether a document matched.
func (c *Collection[T]) PullArrayValue(ctx context.Context, filter bson.M, field string, value any, actor string, opts ...Option) (bool, error) {
	update := bson.M{
		"$pull": bson.M{field: value},
		"$set": bson.M{
			fieldModifiedOn: time.Now().UTC(),
			fieldModifiedBy: actor,
		},
	}
	res, err := c.handle(opts).UpdateOne(ctx, Live.apply(filter), update)
	if err != nil {
		return false, wrapErr(err)
	}
	return res.MatchedCount > 0, nil
}

// swapPipeline builds the aggregation-pipeline update for SwapArrayValue:
// filter oldVal out of the existing array (treating a missing array as
// empty) and concatenate newVal onto the result.
func swapPipeline(field string, oldVal, newVal any, actor string, now time.Time) mongo.Pipeline {
	withoutOld := bson.M{"$filter": bson.M{
		"input": bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}},
		"as":    "item",
		"cond":  bson.M{"$ne": bson.A{"$$item", oldVal}},
	}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			field:           bson.M{"$concatArrays": bson.A{withoutOld, bson.A{newVal}}},
			fieldModifiedOn: now,
			fieldModifiedBy: actor,
		}}},
	}
}
