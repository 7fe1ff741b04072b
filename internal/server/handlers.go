package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/erwire/pkg/buildinfo"
	"github.com/matzehuels/erwire/pkg/cache"
	"github.com/matzehuels/erwire/pkg/connector"
	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/errors"
	erio "github.com/matzehuels/erwire/pkg/io"
	"github.com/matzehuels/erwire/pkg/pipeline"
)

// =============================================================================
// Wire Types
// =============================================================================

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// Request is the body of POST /v1/geometry and POST /v1/render.
type Request struct {
	Diagram diagram.Diagram `json:"diagram"`
	EdgeID  string          `json:"edge_id,omitempty"`
	Options RequestOptions  `json:"options"`
}

// RequestOptions are the per-request pipeline overrides.
type RequestOptions struct {
	NoHops   bool               `json:"no_hops,omitempty"`
	Labels   *bool              `json:"labels,omitempty"`
	RawPaths bool               `json:"raw_paths,omitempty"`
	Padding  float64            `json:"padding,omitempty"`
	Splines  string             `json:"splines,omitempty"`
	Metrics  *connector.Metrics `json:"metrics,omitempty"`
}

// GeometryResponse is returned by POST /v1/geometry. Geometry is set when
// the request named an edge, Geometries otherwise.
type GeometryResponse struct {
	DiagramHash string               `json:"diagram_hash"`
	Cached      bool                 `json:"cached"`
	Geometry    *connector.Geometry  `json:"geometry,omitempty"`
	Geometries  []connector.Geometry `json:"geometries,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatGraphviz: "image/svg+xml",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) geometry(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	opts := s.options(req)

	geoms, cached, err := s.runner.RouteWithCacheInfo(r.Context(), &req.Diagram, opts)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := GeometryResponse{Cached: cached}
	resp.DiagramHash, _ = cache.HashJSON(&req.Diagram)
	if req.EdgeID != "" && len(geoms) == 1 {
		resp.Geometry = &geoms[0]
	} else {
		resp.Geometries = geoms
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, err)
		return
	}

	req, err := decodeRequest(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	opts := s.options(req)
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), &req.Diagram, opts)
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Diagram-Hash", res.DiagramHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// options layers the request's overrides on top of the server defaults.
func (s *Server) options(req *Request) pipeline.Options {
	opts := s.defaults
	opts.Formats = nil
	opts.EdgeID = req.EdgeID
	opts.NoHops = opts.NoHops || req.Options.NoHops
	opts.RawPaths = opts.RawPaths || req.Options.RawPaths
	if req.Options.Labels != nil {
		opts.Labels = *req.Options.Labels
	}
	if req.Options.Padding != 0 {
		opts.Padding = req.Options.Padding
	}
	if req.Options.Splines != "" {
		opts.Splines = req.Options.Splines
	}
	if req.Options.Metrics != nil {
		opts.Metrics = *req.Options.Metrics
	}
	opts.Logger = s.logger
	return opts
}

// decodeRequest reads and validates a request body. Edges without ids get
// the same deterministic ids the file importer assigns.
func decodeRequest(w http.ResponseWriter, r *http.Request) (*Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var req Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	erio.AssignEdgeIDs(&req.Diagram)
	if err := req.Diagram.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// =============================================================================
// Responses
// =============================================================================

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		msg = "internal error"
	}
	if v := validationDetail(err); v != "" {
		msg = v
	}
	writeError(w, status, code, msg)
}

// validationDetail returns the full problem list of a diagram validation
// failure, or "".
func validationDetail(err error) string {
	var v *errors.ValidationErrors
	if !stderrors.As(err, &v) {
		return ""
	}
	return v.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}
