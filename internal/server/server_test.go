package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erwire/pkg/observability"
	"github.com/matzehuels/erwire/pkg/pipeline"
)

const twoEntities = `{
  "diagram": {
    "nodes": [
      {"id": "A", "position": {"x": 0, "y": 0}, "size": {"width": 200, "height": 150}},
      {"id": "B", "position": {"x": 400, "y": 0}, "size": {"width": 200, "height": 150}}
    ],
    "edges": [
      {"id": "e1", "source": "A", "target": "B", "source_anchor": "right", "target_anchor": "left", "type": "OneToMany"}
    ]
  }
}`

func newTestServer(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	logger := log.New(&bytes.Buffer{})
	return New(pipeline.NewRunner(nil, nil, logger), logger, opts...).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t), "GET", "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Build.Version == "" {
		t.Errorf("unexpected health response: %+v", resp)
	}
}

func TestGeometryAllEdges(t *testing.T) {
	w := do(t, newTestServer(t), "POST", "/v1/geometry", twoEntities)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body)
	}

	var resp GeometryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Geometry != nil || len(resp.Geometries) != 1 {
		t.Fatalf("expected one geometry in the list, got %+v", resp)
	}
	g := resp.Geometries[0]
	if got := g.Path.SVG(); got != "M 200 75 L 230 75 L 370 75 L 400 75" {
		t.Errorf("path = %q", got)
	}
	if len(g.Symbols) != 4 {
		t.Errorf("expected 2 source lines plus crow's foot and line, got %d symbols", len(g.Symbols))
	}
	if resp.DiagramHash == "" {
		t.Error("diagram hash missing")
	}
}

func TestGeometrySingleEdge(t *testing.T) {
	body := strings.Replace(twoEntities, `"diagram"`, `"edge_id": "e1", "diagram"`, 1)
	w := do(t, newTestServer(t), "POST", "/v1/geometry", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body)
	}
	var resp GeometryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Geometry == nil || resp.Geometry.EdgeID != "e1" {
		t.Fatalf("expected geometry for e1, got %+v", resp)
	}
	if resp.Geometry.LabelPoint.X != 300 || resp.Geometry.LabelPoint.Y != 75 {
		t.Errorf("label point = %+v", resp.Geometry.LabelPoint)
	}
}

func TestGeometryErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"diagram":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"diagrams": {}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{
			"unknown edge",
			strings.Replace(twoEntities, `"diagram"`, `"edge_id": "nope", "diagram"`, 1),
			http.StatusNotFound, "EDGE_NOT_FOUND",
		},
		{
			"invalid metrics",
			strings.Replace(twoEntities, `"diagram"`, `"options": {"metrics": {"hop_window": -1}}, "diagram"`, 1),
			http.StatusBadRequest, "INVALID_INPUT",
		},
		{
			"dangling node",
			`{"diagram": {"nodes": [{"id": "A"}], "edges": [{"id": "e", "source": "A", "target": "Z"}]}}`,
			http.StatusBadRequest, "INVALID_DIAGRAM",
		},
	}

	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/v1/geometry", tt.body)
			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d: %s", tt.status, w.Code, w.Body)
			}
			if resp := decodeError(t, w); resp.Code != tt.code {
				t.Errorf("expected code %s, got %+v", tt.code, resp)
			}
		})
	}
}

func TestRender(t *testing.T) {
	h := newTestServer(t)
	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"json", "application/json", `"connectors"`},
		{"dot", "text/vnd.graphviz; charset=utf-8", "digraph ER"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w := do(t, h, "POST", "/v1/render?format="+tt.format, twoEntities)
			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body)
			}
			if ct := w.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if w.Header().Get("X-Diagram-Hash") == "" {
				t.Error("X-Diagram-Hash header missing")
			}
			if !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestRenderDefaultsToSVG(t *testing.T) {
	w := do(t, newTestServer(t), "POST", "/v1/render", twoEntities)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/svg+xml" {
		t.Errorf("got %d %q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	w := do(t, newTestServer(t), "POST", "/v1/render?format=png", twoEntities)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if resp := decodeError(t, w); resp.Code != "INVALID_FORMAT" {
		t.Errorf("unexpected error: %+v", resp)
	}
}

func TestRoutingErrors(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, "GET", "/v1/nope", "")
	if w.Code != http.StatusNotFound || decodeError(t, w).Code != "NOT_FOUND" {
		t.Errorf("unknown route: got %d", w.Code)
	}

	w = do(t, h, "GET", "/v1/geometry", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method: got %d", w.Code)
	}
}

func TestRequestOptionsOverrideDefaults(t *testing.T) {
	s := New(nil, nil, WithDefaults(pipeline.Options{Labels: true, Padding: 12, Formats: []string{"dot"}}))

	no := false
	opts := s.options(&Request{EdgeID: "e1", Options: RequestOptions{Labels: &no, NoHops: true}})
	if opts.Labels || !opts.NoHops || opts.Padding != 12 || opts.EdgeID != "e1" {
		t.Errorf("options = %+v", opts)
	}
	if opts.Formats != nil {
		t.Errorf("default formats should not leak into requests: %v", opts.Formats)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	requests    int
	requestPath string
	path        string
	status      int
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, _, path string) {
	h.requests++
	h.requestPath = path
}
func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, path string, status int, _ time.Duration) {
	h.path, h.status = path, status
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	do(t, newTestServer(t), "POST", "/v1/geometry", twoEntities)

	if hooks.requests != 1 {
		t.Errorf("OnRequest called %d times", hooks.requests)
	}
	if hooks.path != "/v1/geometry" || hooks.status != http.StatusOK {
		t.Errorf("OnResponse got path %q status %d", hooks.path, hooks.status)
	}
	if hooks.requestPath != hooks.path {
		t.Errorf("OnRequest got path %q, OnResponse got %q", hooks.requestPath, hooks.path)
	}
}

func TestHTTPHooksUnmatchedPath(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	do(t, newTestServer(t), "GET", "/v1/missing", "")

	if hooks.requestPath != "/v1/missing" || hooks.path != "/v1/missing" {
		t.Errorf("hooks got request path %q, response path %q", hooks.requestPath, hooks.path)
	}
	if hooks.status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", hooks.status)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := New(pipeline.NewRunner(nil, nil, nil), log.New(&bytes.Buffer{}))
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, addr) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
