package model

import (
	"context"
	"fmt"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/instructor"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/location"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrMalformedIdentifier is the cause of errors for identifier strings
// that are not in the store's identifier format.
var ErrMalformedIdentifier = errors.New("malformed identifier")

// IsMalformedIdentifier reports whether err came from ParseId.
func IsMalformedIdentifier(err error) bool {
	return errors.Cause(err) == ErrMalformedIdentifier
}

// ParseId converts an external identifier to a reference handle.
func ParseId(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(ErrMalformedIdentifier, "parsing '%s'", id)
	}
	return oid, nil
}

// MissingReferenceError reports that a class names an instructor or
// class location that is not stored.
type MissingReferenceError struct {
	Collection string
	Id         primitive.ObjectID
}

func (e *MissingReferenceError) Error() string {
	switch e.Collection {
	case instructor.Collection:
		return fmt.Sprintf("No instructor found with instructor id %s", e.Id.Hex())
	case location.Collection:
		return fmt.Sprintf("No class location found with class location id %s", e.Id.Hex())
	default:
		return fmt.Sprintf("no document in '%s' with id %s", e.Collection, e.Id.Hex())
	}
}

// IsMissingReference reports whether err is a *MissingReferenceError.
func IsMissingReference(err error) bool {
	_, ok := errors.Cause(err).(*MissingReferenceError)
	return ok
}

// CheckReferences verifies that the instructor and class location a class
// names both exist. The instructor is checked first.
func CheckReferences(ctx context.Context, store db.Store, c *class.Class) error {
	ok, err := instructor.Exists(ctx, store, c.InstructorId)
	if err != nil {
		return errors.Wrap(err, "checking instructor reference")
	}
	if !ok {
		return &MissingReferenceError{Collection: instructor.Collection, Id: c.InstructorId}
	}

	ok, err = location.Exists(ctx, store, c.ClassLocationId)
	if err != nil {
		return errors.Wrap(err, "checking class location reference")
	}
	if !ok {
		return &MissingReferenceError{Collection: location.Collection, Id: c.ClassLocationId}
	}
	return nil
}
