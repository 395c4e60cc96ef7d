package class

import (
	"time"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Class is a scheduled session taught by one instructor at one location.
// Both references are checked when the class is created and not after.
type Class struct {
	Id              primitive.ObjectID      `bson:"_id"`
	InstructorId    primitive.ObjectID      `bson:"instructorId"`
	Description     string                  `bson:"description"`
	ClassLocationId primitive.ObjectID      `bson:"classLocationId"`
	Date            time.Time               `bson:"date"`
	StartTime       string                  `bson:"startTime"`
	EndTime         string                  `bson:"endTime"`
	Level           []studio.ClassLevel     `bson:"level"`
	Type            []studio.YogaSpeciality `bson:"type"`
	Category        []studio.ClassCategory  `bson:"category"`
	ClassFormat     studio.ClassFormat      `bson:"classFormat"`
	SpacesAvailable int                     `bson:"spacesAvailable"`
}
