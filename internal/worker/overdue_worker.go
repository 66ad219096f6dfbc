package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/snupai/mira/internal/application/port"
)

// OverdueWorkerConfig holds configuration for the overdue check worker
type OverdueWorkerConfig struct {
	CheckInterval time.Duration
}

// DefaultOverdueWorkerConfig returns default configuration
func DefaultOverdueWorkerConfig() OverdueWorkerConfig {
	return OverdueWorkerConfig{
		CheckInterval: time.Hour,
	}
}

// OverdueWorker periodically marks sent invoices past their due date as
// overdue. The transition itself refuses anything but sent invoices, so
// the sweep is safe to repeat.
type OverdueWorker struct {
	config OverdueWorkerConfig

	store  port.DataStore
	logger *zap.Logger

	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool
	lastSweep time.Time
	lastError error
}

// NewOverdueWorker creates a new overdue check worker
func NewOverdueWorker(config OverdueWorkerConfig, store port.DataStore, logger *zap.Logger) *OverdueWorker {
	return &OverdueWorker{
		config: config,
		store:  store,
		logger: logger,
	}
}

// Start begins the periodic overdue sweep
func (w *OverdueWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("overdue worker already running")
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.isRunning = true
	w.mu.Unlock()

	w.logger.Info("OverdueWorker started",
		zap.Duration("check_interval", w.config.CheckInterval))

	go w.sweepLoop()

	return nil
}

// Stop terminates the worker
func (w *OverdueWorker) Stop() {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	w.isRunning = false
	w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}
}

// Name returns the worker name for identification
func (w *OverdueWorker) Name() string {
	return "OverdueWorker"
}

func (w *OverdueWorker) sweepLoop() {
	ticker := time.NewTicker(w.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Debug("Sweep loop context cancelled")
			return

		case <-ticker.C:
			if err := w.Sweep(w.ctx); err != nil {
				w.mu.Lock()
				w.lastError = err
				w.mu.Unlock()
				w.logger.Error("Overdue sweep failed", zap.Error(err))
			}

			w.mu.Lock()
			w.lastSweep = time.Now()
			w.mu.Unlock()
		}
	}
}

// Sweep runs one overdue check over all invoices
func (w *OverdueWorker) Sweep(ctx context.Context) error {
	invoices, err := w.store.Invoices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list invoices: %w", err)
	}

	now := time.Now()
	var marked int
	for _, inv := range invoices {
		if !inv.IsOverdue(now) {
			continue
		}
		if !inv.MarkOverdue() {
			continue
		}
		if err := w.store.SaveInvoice(ctx, inv); err != nil {
			return fmt.Errorf("failed to save overdue invoice %s: %w", inv.ID, err)
		}
		marked++
	}

	if marked > 0 {
		w.logger.Info("Marked invoices overdue", zap.Int("count", marked))
	}
	return nil
}
