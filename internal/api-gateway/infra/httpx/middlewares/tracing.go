package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/interceptors/constants"
)

const tracerName = "api-gateway"

// AttachTracingMetadata opens a server span for the request, stores the
// request id and idempotency key in the context, and writes the request id
// and trace context back onto the request headers so forwarded requests
// carry them to the backend. Runs after middleware.RequestID.
func AttachTracingMetadata(next http.Handler) http.Handler {
	tracer := otel.Tracer(tracerName)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prop := otel.GetTextMapPropagator()
		ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			))
		defer span.End()

		requestID := middleware.GetReqID(ctx)
		ctx = interceptors.WithRequestID(ctx, requestID)
		ctx = interceptors.WithIdempotencyKey(ctx, r.Header.Get(constants.HeaderXIdempotencyKey))

		r = r.WithContext(ctx)
		if requestID != "" {
			r.Header.Set(constants.HeaderXRequestId, requestID)
		}
		prop.Inject(ctx, propagation.HeaderCarrier(r.Header))

		next.ServeHTTP(w, r)
	})
}
