package instructor

import (
	"context"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/mongodb/anser/bsonutil"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// Collection is the name of the MongoDB collection that stores instructors.
	Collection = "instructors"
)

var (
	IdKey               = bsonutil.MustHaveTag(Instructor{}, "Id")
	NameKey             = bsonutil.MustHaveTag(Instructor{}, "Name")
	YogaSpecialitiesKey = bsonutil.MustHaveTag(Instructor{}, "YogaSpecialities")
	EmailKey            = bsonutil.MustHaveTag(Instructor{}, "Email")
	ClassIdsKey         = bsonutil.MustHaveTag(Instructor{}, "ClassIds")
)

// FilterSchema lists the fields a listing may filter on.
var FilterSchema = db.FilterSchema{
	IdKey:               db.ObjectIDField,
	NameKey:             db.StringField,
	YogaSpecialitiesKey: db.StringListField,
	EmailKey:            db.StringField,
	ClassIdsKey:         db.ObjectIDListField,
}

// PatchableFields lists the fields a partial update may set.
var PatchableFields = db.FieldSet{
	NameKey:             db.StringField,
	YogaSpecialitiesKey: db.StringListField,
	EmailKey:            db.StringField,
	ClassIdsKey:         db.ObjectIDListField,
}

// === Queries ===

// ById returns a query for the instructor with the given id.
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
var BackReferences = db.Query(nil).WithFields(IdKey, ClassIdsKey)

// === DB Logic ===

// FindOne gets one Instructor for the given query, returning nil if
// nothing matches.
func FindOne(ctx context.Context, store db.Store, query db.Q) (*Instructor, error) {
	instructor := &Instructor{}
	err := store.FindOneQ(ctx, Collection, query, instructor)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding instructor")
	}
	return instructor, nil
}

// FindOneId gets the instructor with the given id.
func FindOneId(ctx context.Context, store db.Store, id primitive.ObjectID) (*Instructor, error) {
	return FindOne(ctx, store, ById(id))
}

// Find gets all Instructors for the given query.
func Find(ctx context.Context, store db.Store, query db.Q) ([]Instructor, error) {
	instructors := []Instructor{}
	err := store.FindAllQ(ctx, Collection, query, &instructors)
	return instructors, errors.Wrap(err, "finding instructors")
}

// Exists reports whether an instructor with the given id is stored.
func Exists(ctx context.Context, store db.Store, id primitive.ObjectID) (bool, error) {
	n, err := store.Count(ctx, Collection, bson.M{IdKey: id})
	if err != nil {
		return false, errors.Wrapf(err, "counting instructors with id '%s'", id.Hex())
	}
	return n > 0, nil
}

// Insert stores a new instructor, assigning an id if it has none.
func (i *Instructor) Insert(ctx context.Context, store db.Store) error {
	if i.Id.IsZero() {
		i.Id = primitive.NewObjectID()
	}
	return errors.Wrapf(store.Insert(ctx, Collection, i), "inserting instructor '%s'", i.Id.Hex())
}

// Replace overwrites the stored instructor with the same id, reporting
// whether any field changed.
func (i *Instructor) Replace(ctx context.Context, store db.Store) (bool, error) {
	info, err := store.ReplaceId(ctx, Collection, i.Id, i)
	if err != nil {
		return false, errors.Wrapf(err, "replacing instructor '%s'", i.Id.Hex())
	}
	return info.Updated > 0, nil
}

// UpdateOne applies an update document to the instructor, reporting
// whether anything changed. A missing instructor is not an error.
func UpdateOne(ctx context.Context, store db.Store, id primitive.ObjectID, update any) (bool, error) {
	info, err := store.UpdateId(ctx, Collection, id, update)
	if errors.Cause(err) == db.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "updating instructor '%s'", id.Hex())
	}
	return info.Updated > 0, nil
}

// Remove deletes the instructor, reporting whether it existed. Classes
// that reference it are left as they are.
func Remove(ctx context.Context, store db.Store, id primitive.ObjectID) (bool, error) {
	info, err := store.RemoveId(ctx, Collection, id)
	if err != nil {
		return false, errors.Wrapf(err, "removing instructor '%s'", id.Hex())
	}
	return info.Removed > 0, nil
}

// AddClass adds the class to the instructor's back-reference list. It
// is idempotent and returns db.ErrNotFound if the instructor is missing.
func AddClass(ctx context.Context, store db.Store, id, classId primitive.ObjectID) error {
	_, err := store.UpdateId(ctx, Collection, id, bson.M{"$addToSet": bson.M{ClassIdsKey: classId}})
	return errors.Wrapf(err, "adding class '%s' to instructor '%s'", classId.Hex(), id.Hex())
}

// RemoveClass pulls the class from the instructor's back-reference list.
// It is idempotent and returns db.ErrNotFound if the instructor is missing.
func RemoveClass(ctx context.Context, store db.Store, id, classId primitive.ObjectID) error {
	_, err := store.UpdateId(ctx, Collection, id, bson.M{"$pull": bson.M{ClassIdsKey: classId}})
	return errors.Wrapf(err, "removing class '%s' from instructor '%s'", classId.Hex(), id.Hex())
}

// RemoveClasses pulls the given classes from every instructor, returning
// the number of instructors changed.
func RemoveClasses(ctx context.Context, store db.Store, classIds []primitive.ObjectID) (int, error) {
	if len(classIds) == 0 {
		return 0, nil
	}
	info, err := store.UpdateAll(ctx, Collection,
		bson.M{ClassIdsKey: bson.M{"$in": classIds}},
		bson.M{"$pull": bson.M{ClassIdsKey: bson.M{"$in": classIds}}},
	)
	if err != nil {
		return 0, errors.Wrap(err, "removing classes from instructors")
	}
	return info.Updated, nil
}
