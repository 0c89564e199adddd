package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
	log *zap.Logger
}

func New(ctx context.Context, log *zap.Logger) *Runner {
	return &Runner{ctx: ctx, log: log}
}

// Every — периодический запуск; первый прогон сразу, не дожидаясь тика:
// absent-marker после рестарта сервиса не должен ждать десять минут.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	go func() {
		r.runOnce(name, fn)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.runOnce(name, fn)
			}
		}
	}()
}

func (r *Runner) runOnce(name string, fn Job) {
	start := time.Now()
	if err := fn(r.ctx); err != nil {
		jobErrors.WithLabelValues(name).Inc()
		r.log.Error("job failed", zap.String("job", name), zap.Error(err))
	}
	jobRuns.WithLabelValues(name).Inc()
	jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
