package ports

import (
	"context"
	"time"

	"blogjobs/internal/core/domain/model/job"
)

// JobScheduler hands named jobs to the job runtime.
type JobScheduler interface {
	// Enqueue runs the job as soon as a worker is free.
	Enqueue(ctx context.Context, name job.Name, payload any) (job.Handle, error)

	// ScheduleAt runs the job at when; a past or present time means now.
	ScheduleAt(ctx context.Context, name job.Name, payload any, when time.Time) (job.Handle, error)
}
