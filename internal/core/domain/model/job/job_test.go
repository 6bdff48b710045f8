package job_test

import (
	"encoding/json"
	"testing"
	"time"

	"blogjobs/internal/core/domain/model/job"
	"blogjobs/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	j, err := job.New(job.PublishPost, map[string]int64{"post_id": 3}, at, job.FireOnce)

	require.NoError(t, err)
	require.NoError(t, j.ID.Validate())
	assert.JSONEq(t, `{"post_id":3}`, string(j.Payload))
	assert.Equal(t, job.Handle{ID: j.ID, Name: job.PublishPost, RunAt: at}, j.Handle())
}

func TestNew_Invalid(t *testing.T) {
	_, err := job.New("", nil, time.Now(), job.FireOnce)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = job.New(job.PublishPost, func() {}, time.Now(), job.FireOnce)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestJob_Delay(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		runAt time.Time
		want  time.Duration
	}{
		{name: "future", runAt: now.Add(time.Minute), want: time.Minute},
		{name: "now", runAt: now, want: 0},
		{name: "past runs immediately", runAt: now.Add(-time.Hour), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := job.Job{RunAt: tt.runAt}
			assert.Equal(t, tt.want, j.Delay(now))
		})
	}
}

func TestRetryPolicy(t *testing.T) {
	assert.Equal(t, 1, job.FireOnce.MaxAttempts())
	assert.Equal(t, 2, job.RetryPolicy{MaxRetries: 1}.MaxAttempts())
	assert.Equal(t, 1, job.RetryPolicy{MaxRetries: -3}.MaxAttempts())

	j := job.Job{Policy: job.RetryPolicy{MaxRetries: 1}, Attempt: 1}
	assert.True(t, j.CanRetry())
	j.Attempt = 2
	assert.False(t, j.CanRetry())
}

func TestHandle_JSON(t *testing.T) {
	j, err := job.New(job.SendBroadcastUnit, struct{}{}, time.Unix(0, 0).UTC(), job.FireOnce)
	require.NoError(t, err)

	raw, err := json.Marshal(j.Handle())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name":"send_broadcast_unit"`)
	assert.Contains(t, string(raw), j.ID.String())
}
