package tracing

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Transport wraps an http.RoundTripper with one client span per request.
type Transport struct {
	Base   http.RoundTripper
	Tracer trace.Tracer
}

// NewTransport returns base unchanged when tracer is nil.
func NewTransport(tracer trace.Tracer, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if tracer == nil {
		return base
	}
	return &Transport{Base: base, Tracer: tracer}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := t.Tracer.Start(req.Context(), SpanPrefixHub+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrHubMethod, req.Method),
			attribute.String(AttrHubPath, req.URL.Path),
		),
	)
	defer span.End()

	resp, err := t.Base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int(AttrHTTPStatusCode, resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", resp.StatusCode))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return resp, nil
}
