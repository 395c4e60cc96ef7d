package model

import (
	"testing"
	"time"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/instructor"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/location"
	"github.com/evergreen-ci/utility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAPIInstructor(t *testing.T) {
	classId := primitive.NewObjectID()
	i := instructor.Instructor{
		Id:               primitive.NewObjectID(),
		Name:             "Sinead",
		YogaSpecialities: []studio.YogaSpeciality{studio.SpecialityHatha, studio.SpecialityNidra},
		Email:            "sinead@studio.ie",
		ClassIds:         []primitive.ObjectID{classId},
	}

	apiInstructor := APIInstructor{}
	apiInstructor.BuildFromService(i)
	assert.Equal(t, i.Id.Hex(), utility.FromStringPtr(apiInstructor.Id))
	assert.Equal(t, []string{"Hatha", "Yoga Nidra"}, apiInstructor.YogaSpecialities)
	assert.Equal(t, []string{classId.Hex()}, apiInstructor.ClassIds)

	back, err := apiInstructor.ToService()
	require.NoError(t, err)
	assert.Equal(t, i, *back)

	t.Run("ListingsOmitTheId", func(t *testing.T) {
		listed := APIInstructor{}
		listed.BuildFromService(instructor.Instructor{Name: "No Id"})
		assert.Nil(t, listed.Id)
		assert.NotNil(t, listed.ClassIds)
	})
	t.Run("BadClassId", func(t *testing.T) {
		apiInstructor.ClassIds = []string{"nope"}
		_, err := apiInstructor.ToService()
		assert.Error(t, err)
	})
}

func TestAPIClassLocation(t *testing.T) {
	l := location.ClassLocation{
		Id:           primitive.NewObjectID(),
		Name:         "Claddagh Hall",
		MaxCapacity:  30,
		Location:     "Claddagh, Galway",
		ClassFormats: []studio.ClassFormat{studio.FormatBoth},
	}

	apiLocation := APIClassLocation{}
	apiLocation.BuildFromService(l)
	assert.Equal(t, 30, utility.FromIntPtr(apiLocation.MaxCapacity))
	assert.Equal(t, []string{"Both"}, apiLocation.ClassFormats)
	assert.Empty(t, apiLocation.ClassIDs)

	back, err := apiLocation.ToService()
	require.NoError(t, err)
	assert.Equal(t, l.Name, back.Name)
	assert.Equal(t, l.MaxCapacity, back.MaxCapacity)
	assert.Equal(t, l.ClassFormats, back.ClassFormats)
}

func TestAPIClass(t *testing.T) {
	c := class.Class{
		Id:              primitive.NewObjectID(),
		InstructorId:    primitive.NewObjectID(),
		ClassLocationId: primitive.NewObjectID(),
		Description:     "Inversions workshop",
		Date:            time.Date(2025, time.October, 3, 0, 0, 0, 0, time.UTC),
		StartTime:       "12:00",
		EndTime:         "13:30",
		Level:           []studio.ClassLevel{studio.LevelIntermediate},
		Type:            []studio.YogaSpeciality{studio.SpecialityVinyasa},
		Category:        []studio.ClassCategory{studio.CategoryUpsideDown, studio.CategoryHandstands},
		ClassFormat:     studio.FormatLocation,
		SpacesAvailable: 8,
	}

	apiClass := APIClass{}
	apiClass.BuildFromService(c)
	assert.Equal(t, "2025-10-03T00:00:00.000Z", utility.FromStringPtr(apiClass.Date))
	assert.Equal(t, c.InstructorId.Hex(), utility.FromStringPtr(apiClass.InstructorId))
	assert.Equal(t, []string{"Upside Down", "Handstands"}, apiClass.Category)

	back, err := apiClass.ToService()
	require.NoError(t, err)
	assert.True(t, c.Date.Equal(back.Date))
	back.Date = c.Date
	assert.Equal(t, c, *back)

	t.Run("DateOnly", func(t *testing.T) {
		apiClass.Date = utility.ToStringPtr("2025-12-24")
		out, err := apiClass.ToService()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.December, 24, 0, 0, 0, 0, time.UTC), out.Date.UTC())
	})
	t.Run("BadReference", func(t *testing.T) {
		apiClass.ClassLocationId = utility.ToStringPtr("zzz")
		_, err := apiClass.ToService()
		assert.Error(t, err)
	})
}
