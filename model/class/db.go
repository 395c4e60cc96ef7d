package class

import (
	"context"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/mongodb/anser/bsonutil"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// Collection is the name of the MongoDB collection that stores classes.
	Collection = "classes"
)

var (
	IdKey              = bsonutil.MustHaveTag(Class{}, "Id")
	InstructorIdKey    = bsonutil.MustHaveTag(Class{}, "InstructorId")
	DescriptionKey     = bsonutil.MustHaveTag(Class{}, "Description")
	ClassLocationIdKey = bsonutil.MustHaveTag(Class{}, "ClassLocationId")
	DateKey            = bsonutil.MustHaveTag(Class{}, "Date")
	StartTimeKey       = bsonutil.MustHaveTag(Class{}, "StartTime")
	EndTimeKey         = bsonutil.MustHaveTag(Class{}, "EndTime")
	LevelKey           = bsonutil.MustHaveTag(Class{}, "Level")
	TypeKey            = bsonutil.MustHaveTag(Class{}, "Type")
	CategoryKey        = bsonutil.MustHaveTag(Class{}, "Category")
	ClassFormatKey     = bsonutil.MustHaveTag(Class{}, "ClassFormat")
	SpacesAvailableKey = bsonutil.MustHaveTag(Class{}, "SpacesAvailable")
)

// FilterSchema lists the fields a listing may filter on. The reference
// fields take identifier strings and the date takes ISO-8601 bounds.
var FilterSchema = db.FilterSchema{
	IdKey:              db.ObjectIDField,
	InstructorIdKey:    db.ObjectIDField,
	ClassLocationIdKey: db.ObjectIDField,
	DescriptionKey:     db.StringField,
	DateKey:            db.DateField,
	StartTimeKey:       db.StringField,
	EndTimeKey:         db.StringField,
	LevelKey:           db.StringListField,
	TypeKey:            db.StringListField,
	CategoryKey:        db.StringListField,
	ClassFormatKey:     db.StringField,
	SpacesAvailableKey: db.IntField,
}

// PatchableFields lists the fields a partial update may set. Unlike the
// instructor and location sets it covers every stored field, references
// included; changing a reference does not move back-references.
var PatchableFields = db.FieldSet{
	InstructorIdKey:    db.ObjectIDField,
	ClassLocationIdKey: db.ObjectIDField,
	DescriptionKey:     db.StringField,
	DateKey:            db.DateField,
	StartTimeKey:       db.StringField,
	EndTimeKey:         db.StringField,
	LevelKey:           db.StringListField,
	TypeKey:            db.StringListField,
	CategoryKey:        db.StringListField,
	ClassFormatKey:     db.StringField,
	SpacesAvailableKey: db.IntField,
}

// === Queries ===

// All is a query that returns every class in store order.
var All = db.Query(nil)

// ById returns a query for the class with the given id.
func ById(id primitive.ObjectID) db.Q {
	return db.Query(bson.M{IdKey: id})
}

// ByFilter returns a listing query in store order.
func ByFilter(expr db.FilterExpr) db.Q {
	return db.Query(expr.BSON())
}

// ByInstructorId returns a query for the classes an instructor teaches.
func ByInstructorId(instructorId primitive.ObjectID) db.Q {
	return db.Query(bson.M{InstructorIdKey: instructorId})
}

// ByClassLocationId returns a query for the classes held at a location.
func ByClassLocationId(locationId primitive.ObjectID) db.Q {
	return db.Query(bson.M{ClassLocationIdKey: locationId})
}

// References is a query that returns only the identifier fields of every
// class.
var References = db.Query(nil).WithFields(IdKey, InstructorIdKey, ClassLocationIdKey)

// === DB Logic ===

// FindOne gets one Class for the given query, returning nil if nothing
// matches.
func FindOne(ctx context.Context, store db.Store, query db.Q) (*Class, error) {
	class := &Class{}
	err := store.FindOneQ(ctx, Collection, query, class)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding class")
	}
	return class, nil
}

// FindOneId gets the class with the given id.
func FindOneId(ctx context.Context, store db.Store, id primitive.ObjectID) (*Class, error) {
	return FindOne(ctx, store, ById(id))
}

// Find gets all Classes for the given query.
func Find(ctx context.Context, store db.Store, query db.Q) ([]Class, error) {
	classes := []Class{}
	err := store.FindAllQ(ctx, Collection, query, &classes)
	return classes, errors.Wrap(err, "finding classes")
}

// FindIds returns the ids of the given classes that are stored.
func FindIds(ctx context.Context, store db.Store, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	found := map[primitive.ObjectID]bool{}
	if len(ids) == 0 {
		return found, nil
	}
	classes, err := Find(ctx, store, db.Query(bson.M{IdKey: bson.M{"$in": ids}}).WithFields(IdKey))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for _, c := range classes {
		found[c.Id] = true
	}
	return found, nil
}

// Insert stores a new class, assigning an id if it has none.
func (c *Class) Insert(ctx context.Context, store db.Store) error {
	if c.Id.IsZero() {
		c.Id = primitive.NewObjectID()
	}
	return errors.Wrapf(store.Insert(ctx, Collection, c), "inserting class '%s'", c.Id.Hex())
}

// Replace overwrites the stored class with the same id, reporting whether
// any field changed. References are not re-checked.
func (c *Class) Replace(ctx context.Context, store db.Store) (bool, error) {
	info, err := store.ReplaceId(ctx, Collection, c.Id, c)
	if err != nil {
		return false, errors.Wrapf(err, "replacing class '%s'", c.Id.Hex())
	}
	return info.Updated > 0, nil
}

// UpdateOne applies an update document to the class, reporting whether
// anything changed. A missing class is not an error.
func UpdateOne(ctx context.Context, store db.Store, id primitive.ObjectID, update any) (bool, error) {
	info, err := store.UpdateId(ctx, Collection, id, update)
	if errors.Cause(err) == db.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "updating class '%s'", id.Hex())
	}
	return info.Updated > 0, nil
}

// Remove deletes the class, reporting whether it existed. It does not
// touch back-references; see model.RemoveClass.
func Remove(ctx context.Context, store db.Store, id primitive.ObjectID) (bool, error) {
	info, err := store.RemoveId(ctx, Collection, id)
	if err != nil {
		return false, errors.Wrapf(err, "removing class '%s'", id.Hex())
	}
	return info.Removed > 0, nil
}
