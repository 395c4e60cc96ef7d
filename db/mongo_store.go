package db

import (
	"context"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	collectionAttribute = "yoga_studio.db.collection"
	operationAttribute  = "yoga_studio.db.operation"
)

// MongoStore is a Store backed by a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore wraps the named database of a connected client.
func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{
		client: client,
		db:     client.Database(dbName),
	}
}

func annotate(ctx context.Context, collection, op string) {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String(collectionAttribute, collection),
		attribute.String(operationAttribute, op),
	)
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc any) error {
	annotate(ctx, collection, "insert")
	_, err := s.db.Collection(collection).InsertOne(ctx, doc)
	return errors.Wrapf(err, "inserting document into '%s'", collection)
}

func (s *MongoStore) findOptions(q Q) *options.FindOptions {
	opts := options.Find()
	if q.projection != nil {
		opts.SetProjection(q.projection)
	}
	if len(q.sort) > 0 {
		opts.SetSort(sortToBSON(q.sort))
	}
	if q.skip > 0 {
		opts.SetSkip(int64(q.skip))
	}
	if q.limit > 0 {
		opts.SetLimit(int64(q.limit))
	}
	if q.maxTime > 0 {
		opts.SetMaxTime(q.maxTime)
	}
	return opts
}

func filterOrEmpty(filter any) any {
	if filter == nil {
		return bson.D{}
	}
	return filter
}

func (s *MongoStore) FindOneQ(ctx context.Context, collection string, q Q, out any) error {
	annotate(ctx, collection, "find_one")
	opts := options.FindOne()
	if q.projection != nil {
		opts.SetProjection(q.projection)
	}
	if len(q.sort) > 0 {
		opts.SetSort(sortToBSON(q.sort))
	}
	if q.skip > 0 {
		opts.SetSkip(int64(q.skip))
	}
	if q.maxTime > 0 {
		opts.SetMaxTime(q.maxTime)
	}

	err := s.db.Collection(collection).FindOne(ctx, filterOrEmpty(q.filter), opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	return errors.Wrapf(err, "finding document in '%s'", collection)
}

func (s *MongoStore) FindAllQ(ctx context.Context, collection string, q Q, out any) error {
	annotate(ctx, collection, "find")
	cursor, err := s.db.Collection(collection).Find(ctx, filterOrEmpty(q.filter), s.findOptions(q))
	if err != nil {
		return errors.Wrapf(err, "finding documents in '%s'", collection)
	}

	return errors.Wrapf(cursor.All(ctx, out), "decoding documents from '%s'", collection)
}

func (s *MongoStore) Count(ctx context.Context, collection string, filter any) (int, error) {
	annotate(ctx, collection, "count")
	res, err := s.db.Collection(collection).CountDocuments(ctx, filterOrEmpty(filter))
	return int(res), errors.Wrapf(err, "counting documents in '%s'", collection)
}

func (s *MongoStore) ReplaceId(ctx context.Context, collection string, id, doc any) (*ChangeInfo, error) {
	annotate(ctx, collection, "replace")
	res, err := s.db.Collection(collection).ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc)
	if err != nil {
		return nil, errors.Wrapf(err, "replacing document in '%s'", collection)
	}

	return &ChangeInfo{Updated: int(res.ModifiedCount)}, nil
}

func (s *MongoStore) UpdateId(ctx context.Context, collection string, id, update any) (*ChangeInfo, error) {
	annotate(ctx, collection, "update")
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return nil, errors.Wrapf(err, "updating document in '%s'", collection)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	return &ChangeInfo{Updated: int(res.ModifiedCount)}, nil
}

func (s *MongoStore) UpdateAll(ctx context.Context, collection string, filter, update any) (*ChangeInfo, error) {
	annotate(ctx, collection, "update_many")
	res, err := s.db.Collection(collection).UpdateMany(ctx, filterOrEmpty(filter), update)
	if err != nil {
		return nil, errors.Wrapf(err, "updating documents in '%s'", collection)
	}

	return &ChangeInfo{Updated: int(res.ModifiedCount)}, nil
}

func (s *MongoStore) RemoveId(ctx context.Context, collection string, id any) (*ChangeInfo, error) {
	annotate(ctx, collection, "remove")
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, errors.Wrapf(err, "removing document from '%s'", collection)
	}

	return &ChangeInfo{Removed: int(res.DeletedCount)}, nil
}

// WithTransaction runs fn inside a multi-document transaction. The
// server must be a replica set member or mongos.
func (s *MongoStore) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "starting session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})
	if IsTransactionUnsupported(err) {
		return errors.Wrap(err, "transactional link maintenance needs a replica set or mongos")
	}

	return errors.Wrap(err, "running transaction")
}

func (s *MongoStore) ClearCollections(ctx context.Context, collections ...string) error {
	for _, collection := range collections {
		if _, err := s.db.Collection(collection).DeleteMany(ctx, bson.M{}); err != nil {
			return errors.Wrapf(err, "clearing collection '%s'", collection)
		}
	}
	return nil
}

// CreateCollections ensures that all the given collections exist.
func (s *MongoStore) CreateCollections(ctx context.Context, collections ...string) error {
	const namespaceExistsErrCode = 48
	for _, collection := range collections {
		err := s.db.CreateCollection(ctx, collection)
		if err == nil {
			continue
		}
		// If the collection already exists, this does not count as an error.
		if mongoErr, ok := errors.Cause(err).(mongo.CommandError); ok && mongoErr.HasErrorCode(namespaceExistsErrCode) {
			continue
		}
		return errors.Wrapf(err, "creating collection '%s'", collection)
	}
	return nil
}

// EnsureIndex creates the index if it does not already exist.
func (s *MongoStore) EnsureIndex(ctx context.Context, collection string, index mongo.IndexModel) error {
	name, err := s.db.Collection(collection).Indexes().CreateOne(ctx, index)
	if err != nil {
		return errors.Wrapf(err, "creating index on '%s'", collection)
	}

	grip.Debug(message.Fields{
		"message":    "ensured index",
		"collection": collection,
		"index":      name,
	})
	return nil
}

// Ping checks that the server is reachable within the timeout.
func (s *MongoStore) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return errors.Wrap(s.client.Ping(ctx, nil), "pinging database")
}
