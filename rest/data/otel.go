package data

import (
	"fmt"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"go.opentelemetry.io/otel"
)

var packageName = fmt.Sprintf("%s%s", studio.PackageName, "/rest/data")

var tracer = otel.GetTracerProvider().Tracer(packageName)
