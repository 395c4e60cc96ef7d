package route

import (
	"net/http"
	"strings"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/data"
	"github.com/evergreen-ci/gimlet"
	"github.com/gorilla/handlers"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const apiVersion = 1

// NewHandler builds the service's HTTP handler: the versioned entity
// routes under the configured prefix, plus /ping and /metrics.
func NewHandler(env studio.Environment) (http.Handler, error) {
	conf := env.Settings().Api

	app := gimlet.NewApp()
	app.ResetMiddleware()
	app.AddMiddleware(NewRequestIDMiddleware())
	app.AddMiddleware(gimlet.MakeRecoveryLogger())

	AttachHandler(app, data.NewDBConnector(env), conf.URLPrefix)

	h, err := app.Handler()
	if err != nil {
		return nil, errors.Wrap(err, "resolving routes")
	}

	h = handlers.CORS(
		handlers.AllowedOrigins(conf.CORSOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)(h)

	return otelhttp.NewHandler(h, studio.ServiceName), nil
}

// AttachHandler registers every route of the service on app. The entity
// routes are served at /{prefix}/v1/....
func AttachHandler(app *gimlet.APIApp, sc data.Connector, prefix string) {
	prefix = "/" + strings.Trim(prefix, "/")
	route := func(path string) *gimlet.APIRoute {
		return app.AddRoute(path).
			Prefix(prefix).
			Version(apiVersion).
			Wrap(newRequestMetrics(prefix + "/v1" + path))
	}

	route("/instructors").Get().RouteHandler(makeListInstructors(sc))
	route("/instructors").Post().RouteHandler(makeCreateInstructor(sc))
	route("/instructors/{instructor_id}").Get().RouteHandler(makeGetInstructor(sc))
	route("/instructors/{instructor_id}").Put().RouteHandler(makeReplaceInstructor(sc))
	route("/instructors/{instructor_id}").Patch().RouteHandler(makePatchInstructor(sc))
	route("/instructors/{instructor_id}").Delete().RouteHandler(makeDeleteInstructor(sc))

	route("/classlocations").Get().RouteHandler(makeListClassLocations(sc))
	route("/classlocations").Post().RouteHandler(makeCreateClassLocation(sc))
	route("/classlocations/{class_location_id}").Get().RouteHandler(makeGetClassLocation(sc))
	route("/classlocations/{class_location_id}").Put().RouteHandler(makeReplaceClassLocation(sc))
	route("/classlocations/{class_location_id}").Patch().RouteHandler(makePatchClassLocation(sc))
	route("/classlocations/{class_location_id}").Delete().RouteHandler(makeDeleteClassLocation(sc))

	route("/classes").Get().RouteHandler(makeListClasses(sc))
	route("/classes").Post().RouteHandler(makeCreateClass(sc))
	route("/classes/{class_id}").Get().RouteHandler(makeGetClass(sc))
	route("/classes/{class_id}").Put().RouteHandler(makeReplaceClass(sc))
	route("/classes/{class_id}").Patch().RouteHandler(makePatchClass(sc))
	route("/classes/{class_id}").Delete().RouteHandler(makeDeleteClass(sc))

	app.AddRoute("/ping").Get().RouteHandler(makePing())
	app.AddRoute("/metrics").Get().Handler(makeMetricsHandler(prometheus.DefaultGatherer))
}
