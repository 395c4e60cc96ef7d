package route

import (
	"context"
	"net/http"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/evergreen-ci/gimlet"
)

type pingResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

func makePing() gimlet.RouteHandler {
	return &pingHandler{}
}

type pingHandler struct{}

func (p *pingHandler) Factory() gimlet.RouteHandler {
	return &pingHandler{}
}

func (p *pingHandler) Parse(ctx context.Context, r *http.Request) error {
	return nil
}

func (p *pingHandler) Run(ctx context.Context) gimlet.Responder {
	return gimlet.NewJSONResponse(pingResponse{
		Message: "running",
		Version: studio.BuildRevision,
	})
}
