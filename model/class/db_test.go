package class

import (
	"context"
	"testing"
	"time"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newClass(instructorId, locationId primitive.ObjectID, date time.Time) *Class {
	return &Class{
		InstructorId:    instructorId,
		ClassLocationId: locationId,
		Description:     "Morning flow",
		Date:            date,
		StartTime:       "09:00",
		EndTime:         "10:00",
		Level:           []studio.ClassLevel{studio.LevelBeginner},
		Type:            []studio.YogaSpeciality{studio.SpecialityVinyasa},
		Category:        []studio.ClassCategory{studio.CategoryFlexibility},
		ClassFormat:     studio.FormatBoth,
		SpacesAvailable: 10,
	}
}

func TestClassQueries(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	instructorA, instructorB := primitive.NewObjectID(), primitive.NewObjectID()
	locationId := primitive.NewObjectID()
	may := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	june := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	first := newClass(instructorA, locationId, may)
	second := newClass(instructorB, locationId, june)
	third := newClass(instructorA, primitive.NewObjectID(), june)
	for _, c := range []*Class{first, second, third} {
		require.NoError(t, c.Insert(ctx, store))
	}

	t.Run("ByInstructorId", func(t *testing.T) {
		found, err := Find(ctx, store, ByInstructorId(instructorA))
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})
	t.Run("ByClassLocationId", func(t *testing.T) {
		found, err := Find(ctx, store, ByClassLocationId(locationId))
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})
	t.Run("DateRangeFilter", func(t *testing.T) {
		expr, err := db.ParseFilter(`{"date": {"from": "2025-05-15", "to": "2025-06-30"}}`, FilterSchema)
		require.NoError(t, err)
		found, err := Find(ctx, store, ByFilter(expr))
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})
	t.Run("ReferenceFilter", func(t *testing.T) {
		expr, err := db.ParseFilter(`{"instructorId": "`+instructorB.Hex()+`"}`, FilterSchema)
		require.NoError(t, err)
		found, err := Find(ctx, store, ByFilter(expr))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, second.Id, found[0].Id)
	})
	t.Run("FindIds", func(t *testing.T) {
		missing := primitive.NewObjectID()
		found, err := FindIds(ctx, store, []primitive.ObjectID{first.Id, missing})
		require.NoError(t, err)
		assert.True(t, found[first.Id])
		assert.False(t, found[missing])
	})
	t.Run("References", func(t *testing.T) {
		refs, err := Find(ctx, store, References)
		require.NoError(t, err)
		require.Len(t, refs, 3)
		for _, c := range refs {
			assert.False(t, c.InstructorId.IsZero())
			assert.Empty(t, c.Description)
		}
	})
}

func TestClassPatchCoversReferences(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	c := newClass(primitive.NewObjectID(), primitive.NewObjectID(), time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, c.Insert(ctx, store))

	newInstructor := primitive.NewObjectID()
	update, err := PatchableFields.SetDocument(map[string]any{
		InstructorIdKey:    newInstructor.Hex(),
		SpacesAvailableKey: float64(4),
		DateKey:            "2025-07-01",
	})
	require.NoError(t, err)

	changed, err := UpdateOne(ctx, store, c.Id, update)
	require.NoError(t, err)
	assert.True(t, changed)

	stored, err := FindOneId(ctx, store, c.Id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, newInstructor, stored.InstructorId)
	assert.Equal(t, 4, stored.SpacesAvailable)
	assert.True(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC).Equal(stored.Date))
}

func TestClassRemove(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	c := newClass(primitive.NewObjectID(), primitive.NewObjectID(), time.Now())
	require.NoError(t, c.Insert(ctx, store))

	existed, err := Remove(ctx, store, c.Id)
	require.NoError(t, err)
	assert.True(t, existed)

	stored, err := FindOneId(ctx, store, c.Id)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
