package data

import (
	"context"
	"testing"
	"time"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/db"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/class"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model/instructor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore keeps every listing query it is asked to run.
type recordingStore struct {
	*db.MemoryStore
	queries []db.Q
}

func (s *recordingStore) FindAllQ(ctx context.Context, collection string, q db.Q, out any) error {
	s.queries = append(s.queries, q)
	return s.MemoryStore.FindAllQ(ctx, collection, q, out)
}

func TestListingsUseQueryTimeout(t *testing.T) {
	ctx := context.Background()
	store := &recordingStore{MemoryStore: db.NewMemoryStore()}
	settings := &studio.Settings{Database: studio.DBSettings{QueryTimeoutSecs: 7}}
	env, err := studio.NewStoreEnvironment(settings, store)
	require.NoError(t, err)
	dc := NewDBConnector(env)

	_, err = dc.FindInstructors(ctx, ListOptions{Page: 2, PageSize: 5})
	require.NoError(t, err)
	_, err = dc.FindClasses(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, store.queries, 2)

	expr, err := db.ParseFilter("", instructor.FilterSchema)
	require.NoError(t, err)
	assert.Equal(t, instructor.ByFilter(expr).Page(2, 5).MaxTime(7*time.Second), store.queries[0])

	expr, err = db.ParseFilter("", class.FilterSchema)
	require.NoError(t, err)
	assert.Equal(t, class.ByFilter(expr).Page(1, 0).MaxTime(7*time.Second), store.queries[1])
}
