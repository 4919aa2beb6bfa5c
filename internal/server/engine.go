package server

import (
	"context"
	"sync/atomic"

	"resumeai/internal/config"
	"resumeai/internal/errors"
	"resumeai/internal/observability"
	"resumeai/internal/optimizer"
	"resumeai/internal/taxonomy"
	"resumeai/internal/watcher"
)

// Engine holds the current optimizer. A taxonomy reload builds a new
// optimizer and swaps it in; requests already running keep the old one.
type Engine struct {
	current atomic.Pointer[optimizer.Optimizer]
	reloads atomic.Int64
	failed  atomic.Int64

	cfg     config.EngineConfig
	logger  *errors.Logger
	metrics *observability.Metrics
	watcher *watcher.Watcher
}

// NewEngine loads the configured taxonomy and builds the first optimizer.
func NewEngine(cfg config.EngineConfig, metrics *observability.Metrics, logger *errors.Logger) (*Engine, error) {
	tax, err := taxonomy.Load(cfg.TaxonomyFile)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = &observability.Metrics{}
	}
	if logger == nil {
		logger = discardLogger()
	}
	e := &Engine{cfg: cfg, logger: logger, metrics: metrics}
	e.current.Store(optimizer.New(tax))
	return e, nil
}

// Optimizer returns the optimizer to use for one request
func (e *Engine) Optimizer() *optimizer.Optimizer {
	return e.current.Load()
}

// Reload re-reads the taxonomy file. An invalid file leaves the current
// optimizer in place and returns the error.
func (e *Engine) Reload() error {
	tax, err := taxonomy.Load(e.cfg.TaxonomyFile)
	e.metrics.RecordTaxonomyReload(context.Background(), err == nil)
	if err != nil {
		e.failed.Add(1)
		e.logger.LogError(err, "Taxonomy reload failed, keeping previous taxonomy",
			"file", e.cfg.TaxonomyFile)
		return err
	}

	e.current.Store(optimizer.New(tax))
	e.reloads.Add(1)
	e.logger.Info("Taxonomy reloaded",
		"file", e.cfg.TaxonomyFile,
		"version", tax.Version(),
		"checksum", tax.Checksum())
	return nil
}

// Watch starts reloading on taxonomy file changes when configured to.
func (e *Engine) Watch() error {
	if !e.cfg.WatchTaxonomy || e.cfg.TaxonomyFile == "" {
		return nil
	}
	w, err := watcher.New("taxonomy", []string{e.cfg.TaxonomyFile}, e.cfg.WatchDebounce,
		func() { _ = e.Reload() }, e.logger)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	e.watcher = w
	return nil
}

// Close stops the taxonomy watcher
func (e *Engine) Close() error {
	if e.watcher == nil {
		return nil
	}
	return e.watcher.Stop()
}

// Stats reports the taxonomy in use and reload counters.
func (e *Engine) Stats() map[string]any {
	stats := map[string]any{
		"taxonomy":          e.Optimizer().Taxonomy().Stats(),
		"taxonomy_file":     e.cfg.TaxonomyFile,
		"watching":          e.watcher != nil && e.watcher.IsRunning(),
		"reloads":           e.reloads.Load(),
		"failed_reloads":    e.failed.Load(),
		"batch_concurrency": e.cfg.BatchConcurrency,
		"max_batch_size":    e.cfg.MaxBatchSize,
	}
	if stats["taxonomy_file"] == "" {
		stats["taxonomy_file"] = "(embedded)"
	}
	return stats
}
