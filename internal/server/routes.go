package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stepflow/pkg/httputil"
	"github.com/matzehuels/stepflow/pkg/observability"
)

func (s *Server) routes(r chi.Router) {
	s.handle(r, http.MethodGet, "/healthz", s.handleHealth)
	s.handle(r, http.MethodGet, "/version", s.handleVersion)
	s.handle(r, http.MethodPost, "/v1/layout", s.handleLayout)
	s.handle(r, http.MethodPost, "/v1/render/{format}", s.handleRender)
}

// handle registers h and wraps it with access logging and server hooks.
func (s *Server) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		hooks := observability.Server()
		hooks.OnRequest(ctx, method, pattern)

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()
		h(ww, req)
		elapsed := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(ctx, method, pattern, status, elapsed)

		logf := s.logger.Info
		if status >= http.StatusInternalServerError {
			logf = s.logger.Error
		}
		logf("request",
			"method", method,
			"path", req.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed.Round(time.Microsecond),
			"request_id", httputil.RequestIDFrom(ctx))
	}))
}
