package instructor

import (
	"slices"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Instructor teaches classes. ClassIds is a back-reference list kept in
// step with the classes that name this instructor.
type Instructor struct {
	Id               primitive.ObjectID      `bson:"_id"`
	Name             string                  `bson:"name"`
	YogaSpecialities []studio.YogaSpeciality `bson:"yogaSpecialities"`
	Email            string                  `bson:"email"`
	ClassIds         []primitive.ObjectID    `bson:"classIds,omitempty"`
}

// HasClass reports whether the class is in the back-reference list.
func (i *Instructor) HasClass(classId primitive.ObjectID) bool {
	return slices.Contains(i.ClassIds, classId)
}
