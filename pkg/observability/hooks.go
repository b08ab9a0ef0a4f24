// Package observability provides hooks for progress reporting, metrics and
// logging.
//
// Libraries emit events through the registered hooks; the CLI decides what
// to do with them (print per-check status lines, log timings with --debug).
// Defaults are no-ops, so library code never needs to check for nil.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetPipelineHooks(observability.ChainPipeline(console, debug))
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStageStart(ctx, "lint", "Running eslint on 12 files")
//	// ... run the stage ...
//	observability.Pipeline().OnStageComplete(ctx, "lint", summary, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// StageSummary describes what a finished stage recorded.
type StageSummary struct {
	Errors   []string // titles of error findings
	Warnings []string // titles of warning findings
	Passed   string   // status text for a stage that recorded nothing
}

// Clean reports whether the stage recorded nothing.
func (s StageSummary) Clean() bool {
	return len(s.Errors) == 0 && len(s.Warnings) == 0
}

// PipelineHooks receives events from the check pipeline.
type PipelineHooks interface {
	// OnStageStart is called before a stage runs.
	OnStageStart(ctx context.Context, stage, description string)

	// OnStageComplete is called after a stage ran. err is non-nil only for
	// fatal failures that abort the pipeline.
	OnStageComplete(ctx context.Context, stage string, summary StageSummary, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, StageSummary, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Composition
// =============================================================================

type pipelineChain []PipelineHooks

func (c pipelineChain) OnStageStart(ctx context.Context, stage, description string) {
	for _, h := range c {
		h.OnStageStart(ctx, stage, description)
	}
}

func (c pipelineChain) OnStageComplete(ctx context.Context, stage string, summary StageSummary, d time.Duration, err error) {
	for _, h := range c {
		h.OnStageComplete(ctx, stage, summary, d, err)
	}
}

// ChainPipeline returns hooks that forward every event to each of hooks in
// order. Nil entries are skipped.
func ChainPipeline(hooks ...PipelineHooks) PipelineHooks {
	var c pipelineChain
	for _, h := range hooks {
		if h != nil {
			c = append(c, h)
		}
	}
	if len(c) == 0 {
		return NoopPipelineHooks{}
	}
	return c
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
