package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, except failures
// and order mismatches, which are warnings.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, mode string, nodeCount int) {
	h.Logger.Debug("layout started", "mode", mode, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, mode string, duration time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("layout failed", "mode", mode, "duration", duration, "error", err)
		return
	}
	h.Logger.Debug("layout finished", "mode", mode, "duration", duration)
}

func (h *LogHooks) OnSolveStart(_ context.Context, mode string, nodeCount int) {
	h.Logger.Debug("solver started", "mode", mode, "nodes", nodeCount)
}

func (h *LogHooks) OnSolveComplete(_ context.Context, mode string, placed int, duration time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("solver failed", "mode", mode, "duration", duration, "error", err)
		return
	}
	h.Logger.Debug("solver finished", "mode", mode, "placed", placed, "duration", duration)
}

func (h *LogHooks) OnOrderMismatch(_ context.Context, mismatches int) {
	h.Logger.Warn("solved order differs from backup", "mismatches", mismatches)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, requestID, method, path string) {
	h.Logger.Debug("request", "id", requestID, "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, requestID, method, path string, statusCode int, duration time.Duration) {
	h.Logger.Info("response", "id", requestID, "method", method, "path", path, "status", statusCode, "duration", duration)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
