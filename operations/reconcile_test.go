package operations

import (
	"context"
	"testing"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/instructor"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnvironment(t *testing.T, interval string) (studio.Environment, *db.MemoryStore) {
	store := db.NewMemoryStore()
	env, err := studio.NewStoreEnvironment(&studio.Settings{
		Links: studio.LinksConfig{ReconcileInterval: interval},
	}, store)
	require.NoError(t, err)
	return env, store
}

func TestStartReconcileJob(t *testing.T) {
	ctx := context.Background()

	t.Run("Disabled", func(t *testing.T) {
		env, _ := newTestEnvironment(t, "")
		stop, err := startReconcileJob(ctx, env)
		require.NoError(t, err)
		require.NotNil(t, stop)
		stop()
	})
	t.Run("Scheduled", func(t *testing.T) {
		env, _ := newTestEnvironment(t, "1h")
		stop, err := startReconcileJob(ctx, env)
		require.NoError(t, err)
		stop()
	})
}

func TestReconcileJobRepairsLinks(t *testing.T) {
	ctx := context.Background()
	env, store := newTestEnvironment(t, "")

	i := &instructor.Instructor{Name: "Maeve", YogaSpecialities: []studio.YogaSpeciality{studio.SpecialityYin}, Email: "maeve@studio.ie"}
	require.NoError(t, i.Insert(ctx, store))
	l := &location.ClassLocation{Name: "Quay Street", MaxCapacity: 10, Location: "Galway", ClassFormats: []studio.ClassFormat{studio.FormatLocation}}
	require.NoError(t, l.Insert(ctx, store))
	c := &class.Class{InstructorId: i.Id, ClassLocationId: l.Id, Description: "Unlinked", StartTime: "09:00", EndTime: "10:00"}
	require.NoError(t, c.Insert(ctx, store))

	job := &reconcileJob{env: env}
	job.run(ctx)

	found, err := instructor.FindOneId(ctx, store, i.Id)
	require.NoError(t, err)
	assert.True(t, found.HasClass(c.Id))

	foundLocation, err := location.FindOneId(ctx, store, l.Id)
	require.NoError(t, err)
	assert.Contains(t, foundLocation.ClassIDs, c.Id)
}

func TestReconcileJobSkipsOverlappingRuns(t *testing.T) {
	env, _ := newTestEnvironment(t, "")
	job := &reconcileJob{env: env}
	job.mu.Lock()
	defer job.mu.Unlock()

	assert.NotPanics(t, func() { job.run(context.Background()) })
}
