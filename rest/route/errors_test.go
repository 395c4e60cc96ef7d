package route

import (
	"context"
	"net/http"
	"testing"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/data"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/model"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/validator"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingConnector fails every listing with err.
type failingConnector struct {
	data.Connector
	err error
}

func (c *failingConnector) FindClasses(context.Context, data.ListOptions) ([]model.APIClass, error) {
	return nil, c.err
}

func TestConnectorErrorStatus(t *testing.T) {
	ctx := context.Background()
	for kind, status := range map[data.ErrorKind]int{
		data.ValidationError:     http.StatusBadRequest,
		data.MalformedIdentifier: http.StatusBadRequest,
		data.ReferenceNotFound:   http.StatusNotFound,
		data.NotFound:            http.StatusNotFound,
		data.NoValidFields:       http.StatusBadRequest,
		data.InvalidFilter:       http.StatusBadRequest,
		data.MalformedFilter:     http.StatusInternalServerError,
		data.StorageFailure:      http.StatusInternalServerError,
	} {
		t.Run(string(kind), func(t *testing.T) {
			resp := makeConnectorErrorResponder(ctx, &data.Error{Kind: kind, Message: "failed"})
			assert.Equal(t, status, resp.Status())
			assert.Equal(t, "failed", messageOf(resp))
		})
	}
}

func TestLookupErrorStatus(t *testing.T) {
	ctx := context.Background()

	resp := makeLookupErrorResponder(ctx, &data.Error{Kind: data.MalformedIdentifier, Message: "Invalid class ID format"})
	assert.Equal(t, http.StatusNotFound, resp.Status())
	assert.Equal(t, "Invalid class ID format", messageOf(resp))

	resp = makeLookupErrorResponder(ctx, &data.Error{Kind: data.StorageFailure, Message: "Unable to fetch class."})
	assert.Equal(t, http.StatusInternalServerError, resp.Status())
}

func TestValidationErrorBody(t *testing.T) {
	errs := validator.ValidationErrors{
		{Field: "name", Rule: "required", Message: `"name" is required`},
		{Field: "email", Rule: "email", Message: `"email" must be a valid email`},
	}
	resp := makeConnectorErrorResponder(context.Background(), &data.Error{Kind: data.ValidationError, Message: "Validation failed", Errors: errs})
	assert.Equal(t, http.StatusBadRequest, resp.Status())

	out, ok := resp.Data().(messageResponse)
	require.True(t, ok)
	assert.Equal(t, "Validation failed", out.Message)
	assert.Equal(t, errs, out.Errors)
}

func TestUnexpectedErrorsHideTheirCause(t *testing.T) {
	ctx := context.Background()
	rh := makeListClasses(&failingConnector{err: errors.New("connection reset by peer")})
	require.NoError(t, rh.Parse(ctx, newJSONRequest(t, http.MethodGet, "/classes", "", nil)))

	resp := rh.Run(ctx)
	assert.Equal(t, http.StatusInternalServerError, resp.Status())
	assert.Equal(t, "Internal server error", messageOf(resp))
}
