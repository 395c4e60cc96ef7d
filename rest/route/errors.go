package route

import (
	"context"
	"net/http"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/data"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/validator"
	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// messageResponse is the body of every non-listing response.
type messageResponse struct {
	Message string                     `json:"message"`
	Errors  validator.ValidationErrors `json:"errors,omitempty"`
}

var statusByKind = map[data.ErrorKind]int{
	data.ValidationError:     http.StatusBadRequest,
	data.MalformedIdentifier: http.StatusBadRequest,
	data.ReferenceNotFound:   http.StatusNotFound,
	data.NotFound:            http.StatusNotFound,
	data.NoValidFields:       http.StatusBadRequest,
	data.InvalidFilter:       http.StatusBadRequest,
	data.MalformedFilter:     http.StatusInternalServerError,
	data.StorageFailure:      http.StatusInternalServerError,
}

func makeMessageResponder(status int, msg string) gimlet.Responder {
	return makeStatusResponder(status, messageResponse{Message: msg})
}

func makeStatusResponder(status int, body any) gimlet.Responder {
	resp := gimlet.NewJSONResponse(body)
	if err := resp.SetStatus(status); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "setting HTTP status code to %d", status))
	}
	return resp
}

// makeConnectorErrorResponder translates a connector error into a
// response. Storage failures are logged with their cause and reported
// without it.
func makeConnectorErrorResponder(ctx context.Context, err error) gimlet.Responder {
	kind := data.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := messageResponse{Message: err.Error()}
	var dataErr *data.Error
	if errors.As(err, &dataErr) {
		body.Message = dataErr.Message
		body.Errors = dataErr.Errors
	}

	if status >= http.StatusInternalServerError {
		gimlet.GetLogger(ctx).Error(message.WrapError(err, message.Fields{
			"message": "request failed",
			"kind":    kind,
		}))
		if dataErr == nil {
			body.Message = "Internal server error"
		}
	}

	return makeStatusResponder(status, body)
}

// makeLookupErrorResponder is makeConnectorErrorResponder for get-by-id
// routes, where an id that cannot exist is reported as not found.
func makeLookupErrorResponder(ctx context.Context, err error) gimlet.Responder {
	var dataErr *data.Error
	if errors.As(err, &dataErr) && dataErr.Kind == data.MalformedIdentifier {
		return makeMessageResponder(http.StatusNotFound, dataErr.Message)
	}
	return makeConnectorErrorResponder(ctx, err)
}
