package connector

import (
	"context"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/errors"
	"github.com/matzehuels/erwire/pkg/geom"
)

// Geometry is everything a rendering surface needs to draw one connector.
type Geometry struct {
	EdgeID        string               `json:"edge_id"`
	Label         string               `json:"label,omitempty"`
	Kind          string               `json:"kind"`
	Relationship  diagram.Relationship `json:"relationship,omitempty"`
	Cardinality   *diagram.Cardinality `json:"cardinality,omitempty"`
	Source        Endpoint             `json:"source"`
	Target        Endpoint             `json:"target"`
	Raw           Polyline             `json:"raw"`
	Path          Path                 `json:"path"`
	Intersections []Intersection       `json:"intersections,omitempty"`
	Symbols       []Symbol             `json:"symbols,omitempty"`
	LabelPoint    geom.Point           `json:"label_point"`
}

// Option configures a Router.
type Option func(*Router)

// WithMetrics sets the metrics. Zero fields fall back to the defaults.
func WithMetrics(m Metrics) Option { return func(r *Router) { r.metrics = m.WithDefaults() } }

// WithLogger sets the logger used for degraded-input warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithoutHops disables crossing detection; paths are the raw polylines.
func WithoutHops() Option { return func(r *Router) { r.hops = false } }

// WithWorkers bounds the parallelism of ComputeAll. Values below 1 mean
// GOMAXPROCS.
func WithWorkers(n int) Option { return func(r *Router) { r.workers = n } }

// Router computes connector geometry. It only holds configuration and is
// safe for concurrent use.
type Router struct {
	metrics Metrics
	logger  *log.Logger
	hops    bool
	workers int
}

// New creates a Router with default metrics, hops enabled and a silent
// logger.
func New(opts ...Option) *Router {
	r := &Router{
		metrics: DefaultMetrics(),
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		hops:    true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	return r
}

// Metrics returns the router's metrics.
func (r *Router) Metrics() Metrics { return r.metrics }

// Compute is the package-level entry point: it computes the geometry of the
// edge edgeID using default settings.
func Compute(nodes []diagram.Node, edges []diagram.Edge, edgeID string) (Geometry, error) {
	return New().Compute(diagram.Diagram{Nodes: nodes, Edges: edges}, edgeID)
}

// Compute returns the geometry of edge edgeID in d. It fails only when the
// edge does not exist; dangling node references and unknown anchors or
// relationship types degrade gracefully and are logged.
func (r *Router) Compute(d diagram.Diagram, edgeID string) (Geometry, error) {
	i := d.EdgeIndex(edgeID)
	if i < 0 {
		return Geometry{}, errors.New(errors.ErrCodeEdgeNotFound, "edge %q not found", edgeID)
	}
	return r.compute(d, d.NodeIndex(), i), nil
}

// ComputeAll returns the geometry of every edge in d, in edge order. Edges
// are computed in parallel; each computation only reads d.
func (r *Router) ComputeAll(ctx context.Context, d diagram.Diagram) ([]Geometry, error) {
	idx := d.NodeIndex()
	out := make([]Geometry, len(d.Edges))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range d.Edges {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = r.compute(d, idx, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// compute builds the geometry of d.Edges[self].
func (r *Router) compute(d diagram.Diagram, idx map[string]diagram.Node, self int) Geometry {
	e := d.Edges[self]
	src, dst, raw := r.route(idx, e)
	r.warnUnresolved(e, src, dst)

	g := Geometry{
		EdgeID:     e.ID,
		Label:      e.Label,
		Kind:       e.RenderKind(),
		Source:     src,
		Target:     dst,
		Raw:        raw,
		LabelPoint: labelPoint(src, dst, r.metrics),
	}

	if r.hops {
		g.Intersections = FindIntersections(raw, r.peers(d, idx, self), r.metrics)
	}
	g.Path = InsertHops(raw, g.Intersections, r.metrics)

	if c, ok := EdgeCardinality(e); ok {
		g.Relationship = c.Class()
		g.Cardinality = &c
		if e.RenderKind() == diagram.KindRelationship {
			g.Symbols = Notation(src, dst, c, r.metrics)
		}
	} else if e.RenderKind() == diagram.KindRelationship {
		r.logger.Warn("unknown relationship type, drawing no notation", "edge", e.ID, "type", e.Type)
	}
	return g
}

// route resolves both anchors of e and builds its raw polyline. It is used
// for the edge being computed and for every peer alike.
func (r *Router) route(idx map[string]diagram.Node, e diagram.Edge) (src, dst Endpoint, raw Polyline) {
	src = ResolveAnchor(idx, e.Source, e.SourceAnchor, e.Target)
	dst = ResolveAnchor(idx, e.Target, e.TargetAnchor, e.Source)
	return src, dst, BuildPath(src, dst, r.metrics)
}

// peers rebuilds the raw polylines of every other edge of the same kind.
// Edges are told apart by position, so missing or repeated ids still cross.
func (r *Router) peers(d diagram.Diagram, idx map[string]diagram.Node, self int) []Peer {
	kind := d.Edges[self].RenderKind()
	peers := make([]Peer, 0, len(d.Edges))
	for i, e := range d.Edges {
		if i == self || e.RenderKind() != kind {
			continue
		}
		_, _, raw := r.route(idx, e)
		peers = append(peers, Peer{ID: e.ID, Path: raw})
	}
	return peers
}

func (r *Router) warnUnresolved(e diagram.Edge, ends ...Endpoint) {
	for _, ep := range ends {
		if !ep.Resolved {
			r.logger.Warn("node not found, placing connector end at origin", "edge", e.ID, "node", ep.NodeID)
			continue
		}
		if ep.Fallback {
			r.logger.Debug("unknown anchor, inferred side", "edge", e.ID, "node", ep.NodeID, "side", ep.Side)
		}
	}
}
