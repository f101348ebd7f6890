package outbox

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tuanvumaihuynh/product-catalog/pkg/correlationid"
)

// EventTypeHeader names the header carrying the event type of a message.
const EventTypeHeader = "event-type"

// BuildHeaders creates the headers of an outbox message of the given event type,
// with trace context and correlation ID injected from context.
func BuildHeaders(ctx context.Context, eventType string) map[string]string {
	headers := map[string]string{
		EventTypeHeader: eventType,
	}

	propagator := otel.GetTextMapPropagator()
	propagator.Inject(ctx, propagation.MapCarrier(headers))

	if correlationID, ok := correlationid.FromContext(ctx); ok {
		headers[correlationid.Header] = correlationID
	}

	return headers
}

// ExtractContext returns a copy of ctx carrying the trace context and
// correlation ID found in headers.
func ExtractContext(ctx context.Context, headers map[string]string) context.Context {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(headers))

	if correlationID := headers[correlationid.Header]; correlationID != "" {
		ctx = correlationid.NewContext(ctx, correlationID)
	}

	return ctx
}
