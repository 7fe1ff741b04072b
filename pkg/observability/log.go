package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
// HTTP traffic is already logged by the server middleware, so LogHooks does
// not implement HTTPHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

func (h *LogHooks) OnRouteStart(_ context.Context, edgeCount int) {
	h.logger.Debug("route start", "edges", edgeCount)
}

func (h *LogHooks) OnRouteComplete(_ context.Context, edgeCount, hopCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("route failed", "edges", edgeCount, "elapsed", d, "error", err)
		return
	}
	h.logger.Debug("route complete", "edges", edgeCount, "hops", hopCount, "elapsed", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "elapsed", d, "error", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "elapsed", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
