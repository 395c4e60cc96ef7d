package location

import (
	"slices"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClassLocation is a place, physical or streamed, where classes run.
// ClassIDs is a back-reference list kept in step with the classes that
// name this location.
type ClassLocation struct {
	Id           primitive.ObjectID   `bson:"_id"`
	Name         string               `bson:"name"`
	MaxCapacity  int                  `bson:"maxCapacity"`
	Location     string               `bson:"location"`
	ClassFormats []studio.ClassFormat `bson:"classFormats"`
	ClassIDs     []primitive.ObjectID `bson:"classIDs,omitempty"`
}

// HasClass reports whether the class is in the back-reference list.
func (l *ClassLocation) HasClass(classId primitive.ObjectID) bool {
	return slices.Contains(l.ClassIDs, classId)
}
