package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit is the envelope every persisted entity embeds. It carries identity,
// provenance stamps, and the soft-delete markers. A document with
// IsDeleted set is never physically removed and never visible on live
// read paths.
type Audit struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedOn  time.Time          `bson:"createdOn" json:"createdOn"`
	CreatedBy  string             `bson:"createdBy" json:"createdBy"`
	ModifiedOn time.Time          `bson:"modifiedOn" json:"modifiedOn"`
	ModifiedBy string             `bson:"modifiedBy" json:"modifiedBy"`
	IsDeleted  bool               `bson:"isDeleted" json:"-"`
	DeletedBy  string             `bson:"deletedBy,omitempty" json:"-"`
	DeletedOn  time.Time          `bson:"deletedOn,omitempty" json:"-"`
}

// Entity is satisfied by any struct that embeds Audit.
type Entity interface {
	Envelope() *Audit
}

// Envelope returns the audit envelope itself, so embedding Audit is all an
// entity needs to do.
func (a *Audit) Envelope() *Audit { return a }

func (a *Audit) stampCreated(actor string, now time.Time) {
	a.CreatedOn = now
	a.CreatedBy = actor
	a.ModifiedOn = now
	a.ModifiedBy = actor
}

// Field names of the envelope as stored in Mongo. Update paths set these
// directly so the stamps stay server-side consistent with the mutation.
const (
	fieldID         = "_id"
	fieldModifiedOn = "modifiedOn"
	fieldModifiedBy = "modifiedBy"
	fieldIsDeleted  = "isDeleted"
	fieldDeletedOn  = "deletedOn"
	fieldDeletedBy  = "deletedBy"
)
