package client

import (
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader carries the id of a logical request, shared by all of its attempts.
const RequestIDHeader = "X-Request-ID"

// startSpan opens the span for one logical request and returns a copy of
// req carrying the span context, propagation headers and a request id.
func (c *Client) startSpan(req *http.Request) (*http.Request, trace.Span) {
	ctx, span := c.tracer.Start(req.Context(), "client.fetch", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("url.path", req.URL.Path),
	)

	req = req.Clone(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if req.Header.Get(RequestIDHeader) == "" {
		id := span.SpanContext().TraceID().String()
		if !span.SpanContext().TraceID().IsValid() {
			id = uuid.New().String()
		}
		req.Header.Set(RequestIDHeader, id)
	}

	return req, span
}

func endSpan(span trace.Span, resp *http.Response, attempts int, err error) {
	span.SetAttributes(attribute.Int("attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	span.End()
}
