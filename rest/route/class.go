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
// GET /classes

type classesGetHandler struct {
	opts data.ListOptions
	sc   data.Connector
}

func makeListClasses(sc data.Connector) gimlet.RouteHandler {
	return &classesGetHandler{sc: sc}
}

func (h *classesGetHandler) Factory() gimlet.RouteHandler {
	return &classesGetHandler{sc: h.sc}
}

func (h *classesGetHandler) Parse(ctx context.Context, r *http.Request) error {
	h.opts = getListOptions(r.URL.Query())
	return nil
}

func (h *classesGetHandler) Run(ctx context.Context) gimlet.Responder {
	classes, err := h.sc.FindClasses(ctx, h.opts)
	if err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return gimlet.NewJSONResponse(classes)
}

////////////////////////////////////////////////////////////////////////
//
// GET /classes/{class_id}

type classIDGetHandler struct {
	classID string
	sc      data.Connector
}

func makeGetClass(sc data.Connector) gimlet.RouteHandler {
	return &classIDGetHandler{sc: sc}
}

func (h *classIDGetHandler) Factory() gimlet.RouteHandler {
	return &classIDGetHandler{sc: h.sc}
}

func (h *classIDGetHandler) Parse(ctx context.Context, r *http.Request) error {
	h.classID = gimlet.GetVars(r)["class_id"]
	return nil
}

func (h *classIDGetHandler) Run(ctx context.Context) gimlet.Responder {
	c, err := h.sc.FindClassById(ctx, h.classID)
	if err != nil {
		return makeLookupErrorResponder(ctx, err)
	}
	return gimlet.NewJSONResponse(c)
}

////////////////////////////////////////////////////////////////////////
//
// POST /classes
//
// The instructor and class location a class names must exist. Both gain
// the new class in their class lists.

type classPostHandler struct {
	body    *model.APIClass
	invalid validator.ValidationErrors
	sc      data.Connector
}

func makeCreateClass(sc data.Connector) gimlet.RouteHandler {
	return &classPostHandler{sc: sc}
}

func (h *classPostHandler) Factory() gimlet.RouteHandler {
	return &classPostHandler{sc: h.sc}
}

func (h *classPostHandler) Parse(ctx context.Context, r *http.Request) error {
	payload, err := readObject(r)
	if err != nil {
		return err
	}
	h.body, h.invalid = validator.DecodeClass(payload)
	return nil
}

func (h *classPostHandler) Run(ctx context.Context) gimlet.Responder {
	if len(h.invalid) > 0 {
		return makeInvalidBodyResponder(ctx, "class", "", h.invalid)
	}
	id, err := h.sc.CreateClass(ctx, h.body)
	if err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return makeMessageResponder(http.StatusCreated, fmt.Sprintf("Created a new class with id %s", id))
}

////////////////////////////////////////////////////////////////////////
//
// PUT /classes/{class_id}

type classIDPutHandler struct {
	classID string
	body    *model.APIClass
	invalid validator.ValidationErrors
	sc      data.Connector
}

func makeReplaceClass(sc data.Connector) gimlet.RouteHandler {
	return &classIDPutHandler{sc: sc}
}

func (h *classIDPutHandler) Factory() gimlet.RouteHandler {
	return &classIDPutHandler{sc: h.sc}
}

func (h *classIDPutHandler) Parse(ctx context.Context, r *http.Request) error {
	h.classID = gimlet.GetVars(r)["class_id"]
	payload, err := readObject(r)
	if err != nil {
		return err
	}
	h.body, h.invalid = validator.DecodeClass(payload)
	return nil
}

func (h *classIDPutHandler) Run(ctx context.Context) gimlet.Responder {
	if len(h.invalid) > 0 {
		return makeInvalidBodyResponder(ctx, "class", h.classID, h.invalid)
	}
	changed, err := h.sc.ReplaceClass(ctx, h.classID, h.body)
	if err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return makeUpdateResponder("class", h.classID, changed)
}

////////////////////////////////////////////////////////////////////////
//
// PATCH /classes/{class_id}

type classIDPatchHandler struct {
	classID string
	payload map[string]any
	sc      data.Connector
}

func makePatchClass(sc data.Connector) gimlet.RouteHandler {
	return &classIDPatchHandler{sc: sc}
}

func (h *classIDPatchHandler) Factory() gimlet.RouteHandler {
	return &classIDPatchHandler{sc: h.sc}
}

func (h *classIDPatchHandler) Parse(ctx context.Context, r *http.Request) error {
	h.classID = gimlet.GetVars(r)["class_id"]
	var err error
	h.payload, err = readObject(r)
	return err
}

func (h *classIDPatchHandler) Run(ctx context.Context) gimlet.Responder {
	changed, err := h.sc.PatchClass(ctx, h.classID, h.payload)
	if err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return makeUpdateResponder("class", h.classID, changed)
}

////////////////////////////////////////////////////////////////////////
//
// DELETE /classes/{class_id}

type classIDDeleteHandler struct {
	classID string
	sc      data.Connector
}

func makeDeleteClass(sc data.Connector) gimlet.RouteHandler {
	return &classIDDeleteHandler{sc: sc}
}

func (h *classIDDeleteHandler) Factory() gimlet.RouteHandler {
	return &classIDDeleteHandler{sc: h.sc}
}

func (h *classIDDeleteHandler) Parse(ctx context.Context, r *http.Request) error {
	h.classID = gimlet.GetVars(r)["class_id"]
	return nil
}

func (h *classIDDeleteHandler) Run(ctx context.Context) gimlet.Responder {
	if err := h.sc.RemoveClass(ctx, h.classID); err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return makeRemoveResponder("class", h.classID)
}
