package route

import (
	"context"
	"net/http"
	"testing"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/data"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/model"
	"github.com/evergreen-ci/utility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassLocationRoutes(t *testing.T) {
	ctx := context.Background()
	sc := newTestConnector(t, &studio.Settings{})

	rh := makeCreateClassLocation(sc)
	body := `{"name": "Harbour Loft", "maxCapacity": 18, "location": "Docks, Galway", "classFormats": ["Location", "Stream"], "classIDs": ["000000000000000000000001"]}`
	require.NoError(t, rh.Parse(ctx, newJSONRequest(t, http.MethodPost, "/classlocations", body, nil)))
	resp := rh.Run(ctx)
	require.Equal(t, http.StatusCreated, resp.Status())

	locations, err := sc.FindClassLocations(ctx, data.ListOptions{})
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Empty(t, locations[0].ClassIDs, "create starts with no classes")

	details, err := sc.FindClassLocationById(ctx, messageOf(resp)[len("Created a new class location with id "):])
	require.NoError(t, err)
	id := utility.FromStringPtr(details.ClassLocation.Id)
	vars := map[string]string{"class_location_id": id}

	t.Run("Get", func(t *testing.T) {
		rh := makeGetClassLocation(sc)
		require.NoError(t, rh.Parse(ctx, newJSONRequest(t, http.MethodGet, "/classlocations/"+id, "", vars)))
		resp := rh.Run(ctx)
		require.Equal(t, http.StatusOK, resp.Status())
		out := resp.Data().(*model.APIClassLocationDetails)
		assert.Equal(t, 18, utility.FromIntPtr(out.ClassLocation.MaxCapacity))
		assert.Empty(t, out.Classes)
	})
	t.Run("PatchDropsUnknownFields", func(t *testing.T) {
		rh := makePatchClassLocation(sc)
		require.NoError(t, rh.Parse(ctx, newJSONRequest(t, http.MethodPatch, "/classlocations/"+id, `{"maxCapacity": 25, "parking": true}`, vars)))
		resp := rh.Run(ctx)
		assert.Equal(t, http.StatusOK, resp.Status())
		assert.Equal(t, "Successfully updated class location with id "+id, messageOf(resp))
	})
	t.Run("PatchWithWrongType", func(t *testing.T) {
		rh := makePatchClassLocation(sc)
		require.NoError(t, rh.Parse(ctx, newJSONRequest(t, http.MethodPatch, "/classlocations/"+id, `{"maxCapacity": "lots"}`, vars)))
		resp := rh.Run(ctx)
		assert.Equal(t, http.StatusBadRequest, resp.Status())
	})
	t.Run("Delete", func(t *testing.T) {
		rh := makeDeleteClassLocation(sc)
		require.NoError(t, rh.Parse(ctx, newJSONRequest(t, http.MethodDelete, "/classlocations/"+id, "", vars)))
		resp := rh.Run(ctx)
		assert.Equal(t, http.StatusAccepted, resp.Status())
		assert.Equal(t, "Successfully removed class location with id "+id, messageOf(resp))
	})
}
