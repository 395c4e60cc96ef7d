package db

import (
	"context"

	"github.com/mongodb/anser/db"
)

// ChangeInfo reports the outcome of a write.
type ChangeInfo = db.ChangeInfo

// ErrNotFound is returned by id-targeted updates that match nothing.
var ErrNotFound = db.ErrNotFound

// Store is the document store consumed by the models. Implementations
// must be safe for concurrent use. Every method accepts the context of
// the calling request; inside WithTransaction that context carries the
// transaction.
type Store interface {
	// Insert adds a single document to the collection.
	Insert(ctx context.Context, collection string, doc any) error
	// FindOneQ decodes the first document matching q into out, returning
	// an error for which ResultsNotFound is true when nothing matches.
	FindOneQ(ctx context.Context, collection string, q Q, out any) error
	// FindAllQ decodes every document matching q into out, which must be
	// a pointer to a slice.
	FindAllQ(ctx context.Context, collection string, q Q, out any) error
	Count(ctx context.Context, collection string, filter any) (int, error)
	// ReplaceId replaces the document with the given _id. Updated is
	// zero when the stored document was already identical.
	ReplaceId(ctx context.Context, collection string, id, doc any) (*ChangeInfo, error)
	// UpdateId applies an update document to the document with the given
	// _id, returning ErrNotFound when no document matches.
	UpdateId(ctx context.Context, collection string, id, update any) (*ChangeInfo, error)
	UpdateAll(ctx context.Context, collection string, filter, update any) (*ChangeInfo, error)
	// RemoveId deletes the document with the given _id. Removed is zero
	// when no document matched.
	RemoveId(ctx context.Context, collection string, id any) (*ChangeInfo, error)
	// WithTransaction runs fn so that either all of its writes are
	// applied or none are.
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
	// ClearCollections removes all documents from the given collections.
	ClearCollections(ctx context.Context, collections ...string) error
}

// ResultsNotFound reports whether err means that a query matched no
// documents.
func ResultsNotFound(err error) bool {
	return db.ResultsNotFound(err)
}
