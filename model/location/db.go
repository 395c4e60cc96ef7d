package location

import (
	"context"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/mongodb/anser/bsonutil"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// Collection is the name of the MongoDB collection that stores class locations.
	Collection = "ClassLocations"
)

var (
	IdKey           = bsonutil.MustHaveTag(ClassLocation{}, "Id")
	NameKey         = bsonutil.MustHaveTag(ClassLocation{}, "Name")
	MaxCapacityKey  = bsonutil.MustHaveTag(ClassLocation{}, "MaxCapacity")
	LocationKey     = bsonutil.MustHaveTag(ClassLocation{}, "Location")
	ClassFormatsKey = bsonutil.MustHaveTag(ClassLocation{}, "ClassFormats")
	ClassIDsKey     = bsonutil.MustHaveTag(ClassLocation{}, "ClassIDs")
)

// FilterSchema lists the fields a listing may filter on.
var FilterSchema = db.FilterSchema{
	IdKey:           db.ObjectIDField,
	NameKey:         db.StringField,
	MaxCapacityKey:  db.IntField,
	LocationKey:     db.StringField,
	ClassFormatsKey: db.StringListField,
	ClassIDsKey:     db.ObjectIDListField,
}

// PatchableFields lists the fields a partial update may set.
var PatchableFields = db.FieldSet{
	NameKey:         db.StringField,
	MaxCapacityKey:  db.IntField,
	LocationKey:     db.StringField,
	ClassFormatsKey: db.StringListField,
	ClassIDsKey:     db.ObjectIDListField,
}

// === Queries ===

// ById returns a query for the class location with the given id.
func ById(id primitive.ObjectID) db.Q {
	return db.Query(bson.M{IdKey: id})
}

// ByFilter returns a listing query: sorted by name, without ids.
func ByFilter(expr db.FilterExpr) db.Q {
	return db.Query(expr.BSON()).
		Sort([]string{NameKey}).
		WithoutFields(IdKey)
}

// BackReferences is a query that returns the id and back-reference list
// of every document.
var BackReferences = db.Query(nil).WithFields(IdKey, ClassIDsKey)

// === DB Logic ===

// FindOne gets one ClassLocation for the given query, returning nil if
// nothing matches.
func FindOne(ctx context.Context, store db.Store, query db.Q) (*ClassLocation, error) {
	location := &ClassLocation{}
	err := store.FindOneQ(ctx, Collection, query, location)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding class location")
	}
	return location, nil
}

// FindOneId gets the class location with the given id.
func FindOneId(ctx context.Context, store db.Store, id primitive.ObjectID) (*ClassLocation, error) {
	return FindOne(ctx, store, ById(id))
}

// Find gets all ClassLocations for the given query.
func Find(ctx context.Context, store db.Store, query db.Q) ([]ClassLocation, error) {
	locations := []ClassLocation{}
	err := store.FindAllQ(ctx, Collection, query, &locations)
	return locations, errors.Wrap(err, "finding class locations")
}

// Exists reports whether a class location with the given id is stored.
func Exists(ctx context.Context, store db.Store, id primitive.ObjectID) (bool, error) {
	n, err := store.Count(ctx, Collection, bson.M{IdKey: id})
	if err != nil {
		return false, errors.Wrapf(err, "counting class locations with id '%s'", id.Hex())
	}
	return n > 0, nil
}

// Insert stores a new class location, assigning an id if it has none.
func (l *ClassLocation) Insert(ctx context.Context, store db.Store) error {
	if l.Id.IsZero() {
		l.Id = primitive.NewObjectID()
	}
	return errors.Wrapf(store.Insert(ctx, Collection, l), "inserting class location '%s'", l.Id.Hex())
}

// Replace overwrites the stored class location with the same id, reporting
// whether any field changed.
func (l *ClassLocation) Replace(ctx context.Context, store db.Store) (bool, error) {
	info, err := store.ReplaceId(ctx, Collection, l.Id, l)
	if err != nil {
		return false, errors.Wrapf(err, "replacing class location '%s'", l.Id.Hex())
	}
	return info.Updated > 0, nil
}

// UpdateOne applies an update document to the class location, reporting
// whether anything changed. A missing class location is not an error.
func UpdateOne(ctx context.Context, store db.Store, id primitive.ObjectID, update any) (bool, error) {
	info, err := store.UpdateId(ctx, Collection, id, update)
	if errors.Cause(err) == db.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "updating class location '%s'", id.Hex())
	}
	return info.Updated > 0, nil
}

// Remove deletes the class location, reporting whether it existed. Classes
// that reference it are left as they are.
func Remove(ctx context.Context, store db.Store, id primitive.ObjectID) (bool, error) {
	info, err := store.RemoveId(ctx, Collection, id)
	if err != nil {
		return false, errors.Wrapf(err, "removing class location '%s'", id.Hex())
	}
	return info.Removed > 0, nil
}

// AddClass adds the class to the class location's back-reference list. It
// is idempotent and returns db.ErrNotFound if the class location is missing.
func AddClass(ctx context.Context, store db.Store, id, classId primitive.ObjectID) error {
	_, err := store.UpdateId(ctx, Collection, id, bson.M{"$addToSet": bson.M{ClassIDsKey: classId}})
	return errors.Wrapf(err, "adding class '%s' to class location '%s'", classId.Hex(), id.Hex())
}

// RemoveClass pulls the class from the class location's back-reference list.
// It is idempotent and returns db.ErrNotFound if the class location is missing.
func RemoveClass(ctx context.Context, store db.Store, id, classId primitive.ObjectID) error {
	_, err := store.UpdateId(ctx, Collection, id, bson.M{"$pull": bson.M{ClassIDsKey: classId}})
	return errors.Wrapf(err, "removing class '%s' from class location '%s'", classId.Hex(), id.Hex())
}

// RemoveClasses pulls the given classes from every class location, returning
// the number of class locations changed.
func RemoveClasses(ctx context.Context, store db.Store, classIds []primitive.ObjectID) (int, error) {
	if len(classIds) == 0 {
		return 0, nil
	}
	info, err := store.UpdateAll(ctx, Collection,
		bson.M{ClassIDsKey: bson.M{"$in": classIds}},
		bson.M{"$pull": bson.M{ClassIDsKey: bson.M{"$in": classIds}}},
	)
	if err != nil {
		return 0, errors.Wrap(err, "removing classes from class locations")
	}
	return info.Updated, nil
}
