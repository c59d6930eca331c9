package jobs

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"

	"watchlist/internal/mail"
	"watchlist/internal/metrics"
)

type Queue interface {
	Claim(ctx context.Context, workerID string) (*Job, error)
	MarkDone(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64, errMsg string) error
	RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error
}

type Worker struct {
	ID       string
	Queue    Queue
	Mailer   mail.Mailer
	BaseURL  string
	Log      *zap.Logger
	Interval time.Duration
}

func (w *Worker) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 800 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Queue.Claim(ctx, w.ID)
			if err != nil {
				w.Log.Warn("worker claim error", zap.String("worker", w.ID), zap.Error(err))
				continue
			}
			if job == nil {
				continue
			}
			w.handle(ctx, job)
		}
	}
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	switch job.Type {
	case TypeVerificationEmail:
		w.handleVerificationEmail(ctx, job)
	default:
		_ = w.Queue.MarkFailed(ctx, job.ID, "unknown job type")
	}
}

func (w *Worker) handleVerificationEmail(ctx context.Context, job *Job) {
	var p verificationPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil || p.Email == "" || p.Token == "" {
		_ = w.Queue.MarkFailed(ctx, job.ID, "bad payload")
		return
	}

	msg, err := mail.VerificationEmail(p.Email, w.BaseURL, p.Token)
	if err != nil {
		_ = w.Queue.MarkFailed(ctx, job.ID, err.Error())
		return
	}
	if err := w.Mailer.Send(ctx, msg); err != nil {
		metrics.RecordMailDelivery("failed")
		w.Log.Warn("verification email retry failed",
			zap.Uint64("job_id", job.ID), zap.Int("attempts", job.Attempts+1), zap.Error(err))
		w.retry(ctx, job, err.Error())
		return
	}

	metrics.RecordMailDelivery("sent")
	w.Log.Info("verification email delivered", zap.Uint64("job_id", job.ID), zap.Uint64("user_id", job.UserID))
	_ = w.Queue.MarkDone(ctx, job.ID)
}

func (w *Worker) retry(ctx context.Context, job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		_ = w.Queue.MarkFailed(ctx, job.ID, errMsg)
		return
	}
	_ = w.Queue.RetryLater(ctx, job.ID, attempts, time.Now().Add(Backoff(attempts)), errMsg)
}

// Backoff doubles per attempt and is capped at ten minutes.
func Backoff(attempts int) time.Duration {
	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	return time.Duration(sec) * time.Second
}
