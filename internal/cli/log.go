package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/precommit/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logHooks writes pipeline and cache events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnStageStart(_ context.Context, stage, description string) {
	h.logger.Debug("starting", "stage", stage, "description", description)
}

func (h logHooks) OnStageComplete(_ context.Context, stage string, s observability.StageSummary, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("failed", "stage", stage, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("finished", "stage", stage,
		"errors", len(s.Errors),
		"warnings", len(s.Warnings),
		"duration", d.Round(time.Millisecond))
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.PipelineHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
)
