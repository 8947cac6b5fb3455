package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/interceptors/constants"
)

// AttachRequestMetadata stores the request id and the idempotency key in the
// context, where the service layer reads them the same way it does for gRPC.
// Runs after middleware.RequestID.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := interceptors.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ctx = interceptors.WithIdempotencyKey(ctx, r.Header.Get(constants.HeaderXIdempotencyKey))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
