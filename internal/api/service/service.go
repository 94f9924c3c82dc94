package service

import "go.opentelemetry.io/otel"

var (
	tracer = otel.Tracer("api.service")
	meter  = otel.Meter("api.service")
)
