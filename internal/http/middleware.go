package http

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/fjod/go_storefront/internal/logging"
)

// RequestIDMiddleware exposes the request ID assigned by chi's RequestID
// middleware on the response and attaches a request-scoped logger carrying
// it. It must be installed after middleware.RequestID.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
		}
		ctx := logging.WithCtx(r.Context(), logging.FromCtx(r.Context()).With("request_id", requestID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
