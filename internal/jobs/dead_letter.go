package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"blogjobs/internal/core/domain/model/job"
	"blogjobs/internal/core/domain/model/kernel"
)

// ListDeadJobs is the kv list exhausted jobs are pushed onto.
const ListDeadJobs = "jobs:dead"

// DeadJob is the record kept for a job that used up its attempts.
type DeadJob struct {
	ID       kernel.UUID     `json:"id"`
	Name     job.Name        `json:"name"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
	Error    string          `json:"error"`
	FailedAt time.Time       `json:"failed_at"`
}

type listPusher interface {
	Push(ctx context.Context, listKey string, value any) error
}

// PushDeadLetter returns a DeadLetterFunc that appends each exhausted job to
// the listKey list of store.
func PushDeadLetter(store listPusher, listKey string, clock kernel.Clock, logger *slog.Logger) DeadLetterFunc {
	logger = logger.With("component", "dead_letter")
	return func(ctx context.Context, j job.Job, err error) {
		record := DeadJob{
			ID:       j.ID,
			Name:     j.Name,
			Payload:  j.Payload,
			Attempts: j.Attempt,
			Error:    err.Error(),
			FailedAt: clock.Now(),
		}
		if pushErr := store.Push(ctx, listKey, record); pushErr != nil {
			logger.ErrorContext(ctx, "dead letter not stored", "job", j.String(), "error", pushErr)
		}
	}
}
