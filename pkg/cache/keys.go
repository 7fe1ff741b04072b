package cache

// Keyer generates cache keys. Implementations must be deterministic: equal
// inputs produce equal keys.
type Keyer interface {
	// GeometryKey identifies routed geometry for a diagram.
	GeometryKey(diagramHash string, opts GeometryKeyOpts) string
	// ArtifactKey identifies rendered output built from routed geometry.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// GeometryKeyOpts holds every routing input besides the diagram itself.
type GeometryKeyOpts struct {
	EdgeID      string `json:"edge_id,omitempty"` // empty means all edges
	Hops        bool   `json:"hops"`
	MetricsHash string `json:"metrics_hash"`
}

// ArtifactKeyOpts holds every rendering input besides the routed diagram.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Hops        bool    `json:"hops"`
	Labels      bool    `json:"labels"`
	RawPaths    bool    `json:"raw_paths,omitempty"`
	Padding     float64 `json:"padding,omitempty"`
	Splines     string  `json:"splines,omitempty"`
	MetricsHash string  `json:"metrics_hash"`
}

// DefaultKeyer produces "geometry:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GeometryKey hashes the diagram hash together with the routing options.
func (DefaultKeyer) GeometryKey(diagramHash string, opts GeometryKeyOpts) string {
	return hashKey("geometry", diagramHash, opts)
}

// ArtifactKey hashes the diagram hash together with the render options.
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}

var _ Keyer = DefaultKeyer{}
