package middleware

import (
	"log/slog"
	"net/http"

	"github.com/retrodesk/taskdesk-api/internal/api/shared"
)

// TraceMiddleware adds a trace ID to the request context and logs every
// inbound request (method and path) before it is dispatched to a
// handler. It should be applied early in the middleware chain so that
// all subsequent handlers see the trace ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		slog.Info("request received",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("trace_id", shared.GetTraceID(ctx)),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
