package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stepflow/pkg/buildinfo"
	stepflowerrors "github.com/matzehuels/stepflow/pkg/errors"
	"github.com/matzehuels/stepflow/pkg/httputil"
	stepio "github.com/matzehuels/stepflow/pkg/io"
	"github.com/matzehuels/stepflow/pkg/layout"
	"github.com/matzehuels/stepflow/pkg/pipeline"
)

// Response headers set on pipeline results.
const (
	HeaderCache       = "X-Stepflow-Cache"
	HeaderDiagnostics = "X-Stepflow-Diagnostics"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, pipeline.FormatJSON)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, chi.URLParam(r, "format"))
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, format string) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	input, err := inputFormat(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	opts, err := s.requestOptions(r, format)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := s.runner.ExecuteBytes(r.Context(), data, input, opts)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cacheState := "miss"
	if res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set(HeaderCache, cacheState)
	w.Header().Set(HeaderDiagnostics, strconv.Itoa(res.Stats.Diagnostics))
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteJSON(w, http.StatusRequestEntityTooLarge, httputil.ErrorBody{
				Error: httputil.ErrorDetail{
					Code:    stepflowerrors.ErrCodeInvalidInput,
					Message: "request body exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
				},
			})
			return nil, false
		}
		httputil.WriteError(w, stepflowerrors.Wrap(stepflowerrors.ErrCodeInvalidInput, err, "read request body"))
		return nil, false
	}
	return data, true
}

// inputFormat picks the record format from ?input= or the Content-Type
// header. Requests without either are read as JSON.
func inputFormat(r *http.Request) (stepio.Format, error) {
	if q := r.URL.Query().Get("input"); q != "" {
		return parseInputFormat(q)
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return stepio.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", stepflowerrors.Wrap(stepflowerrors.ErrCodeInvalidInput, err, "parse content type")
	}
	switch mt {
	case "application/json", "text/json", "text/plain":
		return stepio.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return stepio.FormatYAML, nil
	case "application/toml", "text/toml":
		return stepio.FormatTOML, nil
	}
	return "", stepflowerrors.New(stepflowerrors.ErrCodeUnsupportedFormat, "unsupported content type %q", mt)
}

func parseInputFormat(s string) (stepio.Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return stepio.FormatJSON, nil
	case "yaml", "yml":
		return stepio.FormatYAML, nil
	case "toml":
		return stepio.FormatTOML, nil
	}
	return "", stepflowerrors.New(stepflowerrors.ErrCodeUnsupportedFormat, "unsupported input format %q", s)
}

// requestOptions applies query parameters on top of the server defaults.
func (s *Server) requestOptions(r *http.Request, format string) (pipeline.Options, error) {
	opts := s.base
	opts.Formats = []string{format}
	opts.Logger = s.logger.With("request_id", httputil.RequestIDFrom(r.Context()))

	q := r.URL.Query()
	if v := q.Get("strategy"); v != "" {
		opts.Strategy = layout.StrategyName(v)
	}
	if q.Has("background") {
		opts.Background = q.Get("background")
	}
	if v := q.Get("font"); v != "" {
		opts.FontFamily = v
	}
	for name, dst := range map[string]*bool{
		"hide_labels": &opts.HideLabels,
		"detailed":    &opts.Detailed,
		"refresh":     &opts.Refresh,
	} {
		if !q.Has(name) {
			continue
		}
		b, err := strconv.ParseBool(q.Get(name))
		if err != nil {
			return opts, stepflowerrors.New(stepflowerrors.ErrCodeInvalidInput, "%s: want a boolean, got %q", name, q.Get(name))
		}
		*dst = b
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return opts, stepflowerrors.New(stepflowerrors.ErrCodeInvalidInput, "scale: want a positive number, got %q", v)
		}
		opts.Scale = f
	}
	return opts, nil
}
