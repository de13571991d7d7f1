package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProjectOne returns a single field of the first live document matching
// filter, decoded as P, instead of transferring the whole document. A
// missing or null field decodes to P's zero value with no error; a missing
// document is ErrNotFound.
//
// It is a package function because Go methods cannot introduce the result
// type parameter.
func ProjectOne[P any, T any](ctx context.Context, c *Collection[T], filter bson.M, field string, opts ...Option) (P, error) {
	var zero P
	res := c.handle(opts).FindOne(ctx, Live.apply(filter), options.FindOne().SetProjection(bson.M{field: 1}))

	var raw bson.Raw
	if err := res.Decode(&raw); err != nil {
		return zero, wrapErr(err)
	}
	return decodeField[P](raw, field)
}

// ProjectAll returns one field of every live document matching filter,
// decoded as P, in cursor order.
func ProjectAll[P any, T any](ctx context.Context, c *Collection[T], filter bson.M, field string, opts ...Option) ([]P, error) {
	cursor, err := c.handle(opts).Find(ctx, Live.apply(filter), options.Find().SetProjection(bson.M{field: 1}))
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	values := make([]P, 0)
	for cursor.Next(ctx) {
		v, err := decodeField[P](cursor.Current, field)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := cursor.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return values, nil
}

func decodeField[P any](raw bson.Raw, field string) (P, error) {
	var out P
	val := raw.Lookup(field)
	if val.Validate() != nil {
		// Field absent on the document: zero value, not an error.
		return out, nil
	}
	if err := val.Unmarshal(&out); err != nil {
		return out, wrapErr(err)
	}
	return out, nil
}
