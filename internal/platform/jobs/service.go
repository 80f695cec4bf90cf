package jobs

import (
	"context"
	"log/slog"
	"time"
)

const (
	JobDecisionNotice = "decision_notice"
	JobRetention      = "retention_sweep"
)

// Service is a single-worker background queue for work that must not
// block a request handler: decision notices and the retention sweep.
type Service struct {
	queue chan job
}

type job struct {
	Type     string
	EntityID string
	Run      func(context.Context) (any, error)
}

func New() *Service {
	return &Service{queue: make(chan job, 128)}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

func (s *Service) Enqueue(jobType, entityID string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, EntityID: entityID, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "entityId", entityID)
	}
}

// ScheduleEvery runs the job immediately and then on every tick until ctx
// is cancelled.
func (s *Service) ScheduleEvery(ctx context.Context, jobType string, interval time.Duration, run func(context.Context) (any, error)) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.Enqueue(jobType, "", run)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Enqueue(jobType, "", run)
			}
		}
	}()
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case next := <-s.queue:
			s.runJob(ctx, next)
		}
	}
}

func (s *Service) runJob(ctx context.Context, current job) {
	start := time.Now()
	result, err := current.Run(ctx)
	if err != nil {
		slog.Warn("job failed", "jobType", current.Type, "entityId", current.EntityID, "err", err)
		return
	}
	slog.Info("job completed", "jobType", current.Type, "entityId", current.EntityID, "durationMs", time.Since(start).Milliseconds(), "result", result)
}
