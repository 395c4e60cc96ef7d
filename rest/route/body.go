package route

import (
	"context"
	"net/http"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/data"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/validator"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
)

// readBody decodes the JSON request body into target.
func readBody(r *http.Request, target any) error {
	if err := utility.ReadJSON(utility.NewRequestReader(r), target); err != nil {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "Request body is not valid JSON",
		}
	}
	return nil
}

// readObject decodes a body that must be a JSON object.
func readObject(r *http.Request) (map[string]any, error) {
	payload := map[string]any{}
	if err := readBody(r, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// makeInvalidBodyResponder reports a create or replace body that broke
// one or more rules. For a replace, an id that is not in the store's
// format is reported instead.
func makeInvalidBodyResponder(ctx context.Context, entity, id string, errs validator.ValidationErrors) gimlet.Responder {
	if id != "" {
		if _, err := data.ParseId(id, entity); err != nil {
			return makeConnectorErrorResponder(ctx, err)
		}
	}
	return makeConnectorErrorResponder(ctx, data.ValidationFailure(errs))
}
