package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pycompat/pkg/observability"
)

// logHooks reports observability events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks routes audit, cache and HTTP events to logger.
func registerLogHooks(logger *log.Logger) {
	h := &logHooks{logger: logger}
	observability.SetAuditHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnRunStart(_ context.Context, mode string, entries int) {
	h.logger.Debug("run started", "mode", mode, "entries", entries)
}

func (h *logHooks) OnRunComplete(_ context.Context, mode string, entries int, d time.Duration) {
	h.logger.Debug("run finished", "mode", mode, "entries", entries, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnCheckStart(_ context.Context, name, version string) {
	h.logger.Debug("checking", "package", name, "version", version)
}

func (h *logHooks) OnCheckComplete(_ context.Context, name, version, status string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("checked", "package", name, "version", version, "status", status, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("checked", "package", name, "version", version, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h *logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h *logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}

func (h *logHooks) OnRetry(_ context.Context, key string, attempt int, err error) {
	h.logger.Warn("retrying", "key", key, "attempt", attempt, "err", err)
}

var (
	_ observability.AuditHooks = (*logHooks)(nil)
	_ observability.CacheHooks = (*logHooks)(nil)
	_ observability.HTTPHooks  = (*logHooks)(nil)
)
