package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/erwire/pkg/observability"
)

// observe logs every request and reports it to the HTTP hooks. Both hooks
// receive the route pattern, so ids in URLs don't explode cardinality.
// Unmatched requests fall back to the raw path.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		path := routePattern(r)
		hooks.OnRequest(r.Context(), r.Method, path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, path, status, dur)

		s.logger.Debug("request",
			"method", r.Method,
			"path", path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", dur)
	})
}

// routePattern matches r against the router ahead of dispatch. The middleware
// runs before chi fills in the pattern, so a scratch context is used.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return r.URL.Path
	}
	tctx := chi.NewRouteContext()
	if !rctx.Routes.Match(tctx, r.Method, r.URL.Path) || tctx.RoutePattern() == "" {
		return r.URL.Path
	}
	return tctx.RoutePattern()
}
