package route

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/data"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/model"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/validator"
	"github.com/evergreen-ci/gimlet"
)

////////////////////////////////////////////////////////////////////////
//
// GET /classlocations

type classLocationsGetHandler struct {
	opts data.ListOptions
	sc   data.Connector
}

func makeListClassLocations(sc data.Connector) gimlet.RouteHandler {
	return &classLocationsGetHandler{sc: sc}
}

func (h *classLocationsGetHandler) Factory() gimlet.RouteHandler {
	return &classLocationsGetHandler{sc: h.sc}
}

func (h *classLocationsGetHandler) Parse(ctx context.Context, r *http.Request) error {
	h.opts = getListOptions(r.URL.Query())
	return nil
}

func (h *classLocationsGetHandler) Run(ctx context.Context) gimlet.Responder {
	locations, err := h.sc.FindClassLocations(ctx, h.opts)
	if err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return gimlet.NewJSONResponse(locations)
}

////////////////////////////////////////////////////////////////////////
//
// GET /classlocations/{class_location_id}

type classLocationIDGetHandler struct {
	classLocationID string
	sc              data.Connector
}

func makeGetClassLocation(sc data.Connector) gimlet.RouteHandler {
	return &classLocationIDGetHandler{sc: sc}
}

func (h *classLocationIDGetHandler) Factory() gimlet.RouteHandler {
	return &classLocationIDGetHandler{sc: h.sc}
}

func (h *classLocationIDGetHandler) Parse(ctx context.Context, r *http.Request) error {
	h.classLocationID = gimlet.GetVars(r)["class_location_id"]
	return nil
}

func (h *classLocationIDGetHandler) Run(ctx context.Context) gimlet.Responder {
	details, err := h.sc.FindClassLocationById(ctx, h.classLocationID)
	if err != nil {
		return makeLookupErrorResponder(ctx, err)
	}
	return gimlet.NewJSONResponse(details)
}

////////////////////////////////////////////////////////////////////////
//
// POST /classlocations

type classLocationPostHandler struct {
	body    *model.APIClassLocation
	invalid validator.ValidationErrors
	sc      data.Connector
}

func makeCreateClassLocation(sc data.Connector) gimlet.RouteHandler {
	return &classLocationPostHandler{sc: sc}
}

func (h *classLocationPostHandler) Factory() gimlet.RouteHandler {
	return &classLocationPostHandler{sc: h.sc}
}

func (h *classLocationPostHandler) Parse(ctx context.Context, r *http.Request) error {
	payload, err := readObject(r)
	if err != nil {
		return err
	}
	h.body, h.invalid = validator.DecodeClassLocation(payload)
	return nil
}

func (h *classLocationPostHandler) Run(ctx context.Context) gimlet.Responder {
	if len(h.invalid) > 0 {
		return makeInvalidBodyResponder(ctx, "class location", "", h.invalid)
	}
	id, err := h.sc.CreateClassLocation(ctx, h.body)
	if err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return makeMessageResponder(http.StatusCreated, fmt.Sprintf("Created a new class location with id %s", id))
}

////////////////////////////////////////////////////////////////////////
//
// PUT /classlocations/{class_location_id}

type classLocationIDPutHandler struct {
	classLocationID string
	body            *model.APIClassLocation
	invalid         validator.ValidationErrors
	sc              data.Connector
}

func makeReplaceClassLocation(sc data.Connector) gimlet.RouteHandler {
	return &classLocationIDPutHandler{sc: sc}
}

func (h *classLocationIDPutHandler) Factory() gimlet.RouteHandler {
	return &classLocationIDPutHandler{sc: h.sc}
}

func (h *classLocationIDPutHandler) Parse(ctx context.Context, r *http.Request) error {
	h.classLocationID = gimlet.GetVars(r)["class_location_id"]
	payload, err := readObject(r)
	if err != nil {
		return err
	}
	h.body, h.invalid = validator.DecodeClassLocation(payload)
	return nil
}

func (h *classLocationIDPutHandler) Run(ctx context.Context) gimlet.Responder {
	if len(h.invalid) > 0 {
		return makeInvalidBodyResponder(ctx, "class location", h.classLocationID, h.invalid)
	}
	changed, err := h.sc.ReplaceClassLocation(ctx, h.classLocationID, h.body)
	if err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return makeUpdateResponder("class location", h.classLocationID, changed)
}

////////////////////////////////////////////////////////////////////////
//
// PATCH /classlocations/{class_location_id}

type classLocationIDPatchHandler struct {
	classLocationID string
	payload         map[string]any
	sc              data.Connector
}

func makePatchClassLocation(sc data.Connector) gimlet.RouteHandler {
	return &classLocationIDPatchHandler{sc: sc}
}

func (h *classLocationIDPatchHandler) Factory() gimlet.RouteHandler {
	return &classLocationIDPatchHandler{sc: h.sc}
}

func (h *classLocationIDPatchHandler) Parse(ctx context.Context, r *http.Request) error {
	h.classLocationID = gimlet.GetVars(r)["class_location_id"]
	var err error
	h.payload, err = readObject(r)
	return err
}

func (h *classLocationIDPatchHandler) Run(ctx context.Context) gimlet.Responder {
	changed, err := h.sc.PatchClassLocation(ctx, h.classLocationID, h.payload)
	if err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return makeUpdateResponder("class location", h.classLocationID, changed)
}

////////////////////////////////////////////////////////////////////////
//
// DELETE /classlocations/{class_location_id}

type classLocationIDDeleteHandler struct {
	classLocationID string
	sc              data.Connector
}

func makeDeleteClassLocation(sc data.Connector) gimlet.RouteHandler {
	return &classLocationIDDeleteHandler{sc: sc}
}

func (h *classLocationIDDeleteHandler) Factory() gimlet.RouteHandler {
	return &classLocationIDDeleteHandler{sc: h.sc}
}

func (h *classLocationIDDeleteHandler) Parse(ctx context.Context, r *http.Request) error {
	h.classLocationID = gimlet.GetVars(r)["class_location_id"]
	return nil
}

func (h *classLocationIDDeleteHandler) Run(ctx context.Context) gimlet.Responder {
	if err := h.sc.RemoveClassLocation(ctx, h.classLocationID); err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return makeRemoveResponder("class location", h.classLocationID)
}
