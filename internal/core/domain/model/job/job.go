// Package job describes named units of background work and their retry policies.
package job

import (
	"encoding/json"
	"fmt"
	"time"

	"blogjobs/internal/core/domain/model/kernel"
	"blogjobs/internal/pkg/errs"
)

// Name identifies a catalog entry.
type Name string

const (
	PublishPost              Name = "publish_post"
	RecordPostVisit          Name = "record_post_visit"
	InterceptLog             Name = "intercept_log"
	EverydayJob              Name = "everyday_job"
	CheckLinks               Name = "check_links"
	UpdateLinkWeight         Name = "update_link_weight"
	RebuildSearchIndex       Name = "rebuild_search_index"
	BroadcastPostPublished   Name = "broadcast_post_published"
	SendBroadcastUnit        Name = "send_broadcast_unit"
	StatisticsSearchKeywords Name = "statistics_search_keywords"
	LoginRecord              Name = "login_record"
)

// RetryPolicy bounds automatic re-invocation after a failed attempt.
type RetryPolicy struct {
	MaxRetries int
	RetryDelay time.Duration
}

// FireOnce runs a job exactly one time.
var FireOnce = RetryPolicy{}

// MaxAttempts is 1 + MaxRetries.
func (p RetryPolicy) MaxAttempts() int {
	if p.MaxRetries < 0 {
		return 1
	}
	return 1 + p.MaxRetries
}

// Job is one invocation request for a named handler.
type Job struct {
	ID      kernel.UUID
	Name    Name
	Payload json.RawMessage
	RunAt   time.Time
	Attempt int
	Policy  RetryPolicy
}

// New marshals payload and stamps a fresh ID.
func New(name Name, payload any, runAt time.Time, policy RetryPolicy) (Job, error) {
	if name == "" {
		return Job{}, errs.NewValueIsRequiredError("job name")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Job{}, errs.NewValueIsInvalidErrorWithCause("job payload", err)
	}
	return Job{
		ID:      kernel.NewUUID(),
		Name:    name,
		Payload: raw,
		RunAt:   runAt,
		Policy:  policy,
	}, nil
}

// Delay is the wait before RunAt; past and present times yield zero.
func (j Job) Delay(now time.Time) time.Duration {
	d := j.RunAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// CanRetry reports whether another attempt is allowed after the current one.
func (j Job) CanRetry() bool {
	return j.Attempt < j.Policy.MaxAttempts()
}

func (j Job) Handle() Handle {
	return Handle{ID: j.ID, Name: j.Name, RunAt: j.RunAt}
}

func (j Job) String() string {
	return fmt.Sprintf("%s(%s)", j.Name, j.ID)
}

// Handle is returned to callers that schedule a job.
type Handle struct {
	ID    kernel.UUID `json:"id"`
	Name  Name        `json:"name"`
	RunAt time.Time   `json:"run_at"`
}
