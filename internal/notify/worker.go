package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
	"github.com/mateuseller4-oss/celestial-register/internal/queue"
)

// RunWorker consumes dispatch jobs and delivers each one exactly once. A
// failed delivery is logged and dropped: retries are the submitter's call,
// never the system's.
func RunWorker(ctx context.Context, q queue.Queue, d attendance.Dispatcher, logger *zap.Logger) error {
	jobs, err := q.Consume(ctx)
	if err != nil {
		return err
	}

	logger = logger.Named("dispatch-worker")
	logger.Info("worker started", zap.String("channel", d.Name()))

	for job := range jobs {
		res := d.Dispatch(ctx, job.Record)
		switch res.Status {
		case attendance.DeliveryFailed:
			logger.Error("delivery failed",
				zap.String("record_id", job.Record.ID),
				zap.String("session_id", job.SessionID),
				zap.String("reason", res.Reason))
		default:
			logger.Info("delivered",
				zap.String("record_id", job.Record.ID),
				zap.String("status", string(res.Status)),
				zap.String("provider_id", res.ID))
		}
	}

	logger.Info("worker stopped")
	return nil
}
