package model

import (
	"context"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/instructor"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/location"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// IndexStore is the part of a store that can create collections and
// indexes. db.MongoStore implements it.
type IndexStore interface {
	CreateCollections(ctx context.Context, collections ...string) error
	EnsureIndex(ctx context.Context, collection string, index mongo.IndexModel) error
}

// Collections lists every collection the service stores documents in.
func Collections() []string {
	return []string{instructor.Collection, location.Collection, class.Collection}
}

// Indexes returns the secondary indexes of each collection: classes are
// looked up by the instructor and location they name and listed by date,
// and the other entities are listed by name.
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		class.Collection: {
			{Keys: bson.D{{Key: class.InstructorIdKey, Value: 1}}},
			{Keys: bson.D{{Key: class.ClassLocationIdKey, Value: 1}}},
			{Keys: bson.D{{Key: class.DateKey, Value: 1}}},
		},
		instructor.Collection: {
			{Keys: bson.D{{Key: instructor.NameKey, Value: 1}}},
		},
		location.Collection: {
			{Keys: bson.D{{Key: location.NameKey, Value: 1}}},
		},
	}
}

// SetupCollections creates the collections and their indexes. It is safe
// to run against a database that is already set up.
func SetupCollections(ctx context.Context, store IndexStore) error {
	if err := store.CreateCollections(ctx, Collections()...); err != nil {
		return errors.Wrap(err, "creating collections")
	}

	catcher := grip.NewBasicCatcher()
	for _, collection := range Collections() {
		for _, index := range Indexes()[collection] {
			catcher.Wrapf(store.EnsureIndex(ctx, collection, index), "ensuring index on '%s'", collection)
		}
	}
	return catcher.Resolve()
}
