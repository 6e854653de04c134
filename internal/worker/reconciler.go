package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mealflow/mealflow/internal/domain/model"
)

// ReconciliationFacade exposes the subset of application functionality
// required by the sweeps.
type ReconciliationFacade interface {
	PaymentTimeouts(ctx context.Context) ([]model.Order, error)
	CancelTimedOut(ctx context.Context, orders []model.Order) error
	UnsettledDeliveries(ctx context.Context) ([]model.Order, error)
	SettleDeliveries(ctx context.Context, orders []model.Order) error
}

// Reconciler periodically cancels stale unpaid orders and settles deliveries
// left in transit from a prior day. Both sweeps are idempotent, so an overlap
// with user-driven transitions resolves through the status guards.
type Reconciler struct {
	facade           ReconciliationFacade
	paymentInterval  time.Duration
	deliveryInterval time.Duration
	logger           *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the reconciliation worker.
func NewReconciler(facade ReconciliationFacade, paymentInterval, deliveryInterval time.Duration, logger *slog.Logger) *Reconciler {
	if paymentInterval <= 0 {
		paymentInterval = time.Minute
	}
	if deliveryInterval <= 0 {
		deliveryInterval = 30 * time.Minute
	}
	return &Reconciler{
		facade:           facade,
		paymentInterval:  paymentInterval,
		deliveryInterval: deliveryInterval,
		logger:           logger,
	}
}

// Start launches both sweep loops.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(2)
	go r.loop(runCtx, r.paymentInterval, r.sweepPayments)
	go r.loop(runCtx, r.deliveryInterval, r.sweepDeliveries)
}

// Stop waits for both sweep loops to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) loop(ctx context.Context, interval time.Duration, sweep func(context.Context)) {
	defer r.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx)
		}
	}
}

func (r *Reconciler) sweepPayments(ctx context.Context) {
	orders, err := r.facade.PaymentTimeouts(ctx)
	if err != nil {
		r.logger.Error("select timed out orders failed", slog.String("error", err.Error()))
		return
	}
	if len(orders) == 0 {
		return
	}

	if err := r.facade.CancelTimedOut(ctx, orders); err != nil {
		r.logger.Error("cancel timed out orders failed", slog.String("error", err.Error()))
		return
	}
	r.logger.Info("unpaid orders cancelled", slog.Int("count", len(orders)))
}

func (r *Reconciler) sweepDeliveries(ctx context.Context) {
	orders, err := r.facade.UnsettledDeliveries(ctx)
	if err != nil {
		r.logger.Error("select unsettled deliveries failed", slog.String("error", err.Error()))
		return
	}
	if len(orders) == 0 {
		return
	}

	if err := r.facade.SettleDeliveries(ctx, orders); err != nil {
		r.logger.Error("settle deliveries failed", slog.String("error", err.Error()))
		return
	}
	r.logger.Info("stale deliveries completed", slog.Int("count", len(orders)))
}
