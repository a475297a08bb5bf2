package recommend

import (
	"context"
	"time"

	"refrescobot/pkg/logger"

	"github.com/google/uuid"
)

type Retrainer interface {
	MaybeRetrain(ctx context.Context) (bool, error)
}

// RetrainScheduler asks the service for a retrain on a fixed interval. A
// failed retrain is logged and the next tick tries again.
type RetrainScheduler struct {
	svc      Retrainer
	interval time.Duration
}

func NewRetrainScheduler(svc Retrainer, interval time.Duration) *RetrainScheduler {
	return &RetrainScheduler{svc: svc, interval: interval}
}

// Run blocks until ctx is cancelled.
func (r *RetrainScheduler) Run(ctx context.Context) {
	if r.interval <= 0 {
		logger.Info("retrain_scheduler_disabled")
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logger.Info("retrain_scheduler_started", "interval", r.interval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("retrain_scheduler_stopped")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *RetrainScheduler) tick(ctx context.Context) {
	ctx = WithTraceID(ctx, uuid.NewString())
	ran, err := r.svc.MaybeRetrain(ctx)
	if err != nil {
		logger.Warn("scheduled_retrain_failed", "trace_id", TraceIDFromContext(ctx), "error", err)
		return
	}
	if ran {
		logger.Info("scheduled_retrain_done", "trace_id", TraceIDFromContext(ctx))
	}
}
