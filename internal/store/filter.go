package store

import "go.mongodb.org/mongo-driver/bson"

// Visibility names the soft-delete policy of an existence or count query.
// Read operations that must see deleted rows (email uniqueness checks,
// cleanup jobs) say so explicitly instead of relying on which method
// happens to add the predicate.
type Visibility int

const (
	// Live excludes soft-deleted documents.
	Live Visibility = iota
	// IncludeDeleted matches documents regardless of deletion markers.
	IncludeDeleted
)

// And combines filters under $and. Callers never have to know about the
// predicates the store itself adds: $and keeps clauses independent, so the
// composition is order-independent and duplicate keys cannot clobber each
// other. Nil and empty filters are dropped.
func And(filters ...bson.M) bson.M {
	parts := make([]bson.M, 0, len(filters))
	for _, f := range filters {
		if len(f) == 0 {
			continue
		}
		parts = append(parts, f)
	}
	switch len(parts) {
	case 0:
		return bson.M{}
	case 1:
		return parts[0]
	}
	clauses := make(bson.A, 0, len(parts))
	for _, p := range parts {
		clauses = append(clauses, p)
	}
	return bson.M{"$and": clauses}
}

func notDeleted() bson.M {
	return bson.M{fieldIsDeleted: false}
}

// apply composes the caller's filter with the soft-delete predicate the
// visibility demands.
func (v Visibility) apply(filter bson.M) bson.M {
	if v == IncludeDeleted {
		return filter
	}
	return And(filter, notDeleted())
}
