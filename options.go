package drawdance

import "log/slog"

// EngineOption configures optional, non-spec-mandated construction
// parameters — the same functional-options shape the teacher uses for
// renderer configuration (NewParallelRasterizerWithWorkers taking an
// explicit worker-count override alongside a GOMAXPROCS-derived
// default).
type EngineOption func(*engineConfig)

type engineConfig struct {
	workers int
	logger  *slog.Logger
}

func defaultEngineConfig() engineConfig {
	return engineConfig{workers: 0} // 0 defers to runtime.GOMAXPROCS in internal/render
}

// WithRenderWorkers overrides the render worker pool size. n <= 0
// defers to runtime.GOMAXPROCS(0), approximating the host's CPU count.
func WithRenderWorkers(n int) EngineOption {
	return func(c *engineConfig) { c.workers = n }
}

// WithLogger overrides the engine's logger for this instance only,
// independent of the package-level logger set via [SetLogger].
func WithLogger(l *slog.Logger) EngineOption {
	return func(c *engineConfig) { c.logger = l }
}
