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
// GET /instructors

type instructorsGetHandler struct {
	opts data.ListOptions
	sc   data.Connector
}

func makeListInstructors(sc data.Connector) gimlet.RouteHandler {
	return &instructorsGetHandler{sc: sc}
}

func (h *instructorsGetHandler) Factory() gimlet.RouteHandler {
	return &instructorsGetHandler{sc: h.sc}
}

func (h *instructorsGetHandler) Parse(ctx context.Context, r *http.Request) error {
	h.opts = getListOptions(r.URL.Query())
	return nil
}

func (h *instructorsGetHandler) Run(ctx context.Context) gimlet.Responder {
	instructors, err := h.sc.FindInstructors(ctx, h.opts)
	if err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return gimlet.NewJSONResponse(instructors)
}

////////////////////////////////////////////////////////////////////////
//
// GET /instructors/{instructor_id}

type instructorIDGetHandler struct {
	instructorID string
	sc           data.Connector
}

func makeGetInstructor(sc data.Connector) gimlet.RouteHandler {
	return &instructorIDGetHandler{sc: sc}
}

func (h *instructorIDGetHandler) Factory() gimlet.RouteHandler {
	return &instructorIDGetHandler{sc: h.sc}
}

func (h *instructorIDGetHandler) Parse(ctx context.Context, r *http.Request) error {
	h.instructorID = gimlet.GetVars(r)["instructor_id"]
	return nil
}

func (h *instructorIDGetHandler) Run(ctx context.Context) gimlet.Responder {
	details, err := h.sc.FindInstructorById(ctx, h.instructorID)
	if err != nil {
		return makeLookupErrorResponder(ctx, err)
	}
	return gimlet.NewJSONResponse(details)
}

////////////////////////////////////////////////////////////////////////
//
// POST /instructors

type instructorPostHandler struct {
	body    *model.APIInstructor
	invalid validator.ValidationErrors
	sc      data.Connector
}

func makeCreateInstructor(sc data.Connector) gimlet.RouteHandler {
	return &instructorPostHandler{sc: sc}
}

func (h *instructorPostHandler) Factory() gimlet.RouteHandler {
	return &instructorPostHandler{sc: h.sc}
}

func (h *instructorPostHandler) Parse(ctx context.Context, r *http.Request) error {
	payload, err := readObject(r)
	if err != nil {
		return err
	}
	h.body, h.invalid = validator.DecodeInstructor(payload)
	return nil
}

func (h *instructorPostHandler) Run(ctx context.Context) gimlet.Responder {
	if len(h.invalid) > 0 {
		return makeInvalidBodyResponder(ctx, "instructor", "", h.invalid)
	}
	id, err := h.sc.CreateInstructor(ctx, h.body)
	if err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return makeMessageResponder(http.StatusCreated, fmt.Sprintf("Created a new instructor with id %s", id))
}

////////////////////////////////////////////////////////////////////////
//
// PUT /instructors/{instructor_id}

type instructorIDPutHandler struct {
	instructorID string
	body         *model.APIInstructor
	invalid      validator.ValidationErrors
	sc           data.Connector
}

func makeReplaceInstructor(sc data.Connector) gimlet.RouteHandler {
	return &instructorIDPutHandler{sc: sc}
}

func (h *instructorIDPutHandler) Factory() gimlet.RouteHandler {
	return &instructorIDPutHandler{sc: h.sc}
}

func (h *instructorIDPutHandler) Parse(ctx context.Context, r *http.Request) error {
	h.instructorID = gimlet.GetVars(r)["instructor_id"]
	payload, err := readObject(r)
	if err != nil {
		return err
	}
	h.body, h.invalid = validator.DecodeInstructor(payload)
	return nil
}

func (h *instructorIDPutHandler) Run(ctx context.Context) gimlet.Responder {
	if len(h.invalid) > 0 {
		return makeInvalidBodyResponder(ctx, "instructor", h.instructorID, h.invalid)
	}
	changed, err := h.sc.ReplaceInstructor(ctx, h.instructorID, h.body)
	if err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return makeUpdateResponder("instructor", h.instructorID, changed)
}

////////////////////////////////////////////////////////////////////////
//
// PATCH /instructors/{instructor_id}

type instructorIDPatchHandler struct {
	instructorID string
	payload      map[string]any
	sc           data.Connector
}

func makePatchInstructor(sc data.Connector) gimlet.RouteHandler {
	return &instructorIDPatchHandler{sc: sc}
}

func (h *instructorIDPatchHandler) Factory() gimlet.RouteHandler {
	return &instructorIDPatchHandler{sc: h.sc}
}

func (h *instructorIDPatchHandler) Parse(ctx context.Context, r *http.Request) error {
	h.instructorID = gimlet.GetVars(r)["instructor_id"]
	var err error
	h.payload, err = readObject(r)
	return err
}

func (h *instructorIDPatchHandler) Run(ctx context.Context) gimlet.Responder {
	changed, err := h.sc.PatchInstructor(ctx, h.instructorID, h.payload)
	if err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return makeUpdateResponder("instructor", h.instructorID, changed)
}

////////////////////////////////////////////////////////////////////////
//
// DELETE /instructors/{instructor_id}

type instructorIDDeleteHandler struct {
	instructorID string
	sc           data.Connector
}

func makeDeleteInstructor(sc data.Connector) gimlet.RouteHandler {
	return &instructorIDDeleteHandler{sc: sc}
}

func (h *instructorIDDeleteHandler) Factory() gimlet.RouteHandler {
	return &instructorIDDeleteHandler{sc: h.sc}
}

func (h *instructorIDDeleteHandler) Parse(ctx context.Context, r *http.Request) error {
	h.instructorID = gimlet.GetVars(r)["instructor_id"]
	return nil
}

func (h *instructorIDDeleteHandler) Run(ctx context.Context) gimlet.Responder {
	if err := h.sc.RemoveInstructor(ctx, h.instructorID); err != nil {
		return makeConnectorErrorResponder(ctx, err)
	}
	return makeRemoveResponder("instructor", h.instructorID)
}
