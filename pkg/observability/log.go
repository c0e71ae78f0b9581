package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level
// structured log lines. Errors are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

// Install registers h for pipeline, cache and HTTP events.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnStyleStart(_ context.Context, brandID string) {
	h.logger.Debug("style start", "brand", brandID)
}

func (h *LogHooks) OnStyleComplete(_ context.Context, brandID string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("style failed", "brand", brandID, "error", err)
		return
	}
	h.logger.Debug("style done", "brand", brandID, "duration", d)
}

func (h *LogHooks) OnValidateComplete(_ context.Context, brandID, level string, issues int, d time.Duration) {
	h.logger.Debug("validated", "brand", brandID, "level", level, "issues", issues, "duration", d)
}

func (h *LogHooks) OnEncodeComplete(_ context.Context, brandID string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("encode failed", "brand", brandID, "error", err)
		return
	}
	h.logger.Debug("encoded", "brand", brandID, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.logger.Error("request failed", "method", method, "path", path, "error", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
