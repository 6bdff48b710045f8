package jobs_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"blogjobs/internal/core/domain/model/job"
	"blogjobs/internal/jobs"
	"blogjobs/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobManager_RunsRecurringJob(t *testing.T) {
	var runs atomic.Int32
	c := jobs.NewCatalog()
	require.NoError(t, c.Register(job.CheckLinks, job.FireOnce, func(context.Context, json.RawMessage) error {
		runs.Add(1)
		return nil
	}))
	s, err := jobs.NewScheduler(c, 1, discardLogger())
	require.NoError(t, err)

	jm := jobs.NewJobManager(s, []jobs.RecurringJob{{Name: job.CheckLinks, Spec: "* * * * * *"}}, discardLogger())
	require.NoError(t, jm.StartAll())
	t.Cleanup(func() { _ = jm.StopAll(context.Background()) })

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestJobManager_Trigger(t *testing.T) {
	ran := make(chan struct{}, 1)
	c := jobs.NewCatalog()
	require.NoError(t, c.Register(job.RebuildSearchIndex, job.FireOnce, func(context.Context, json.RawMessage) error {
		ran <- struct{}{}
		return nil
	}))
	s, err := jobs.NewScheduler(c, 1, discardLogger())
	require.NoError(t, err)
	jm := jobs.NewJobManager(s, nil, discardLogger())
	require.NoError(t, jm.StartAll())
	t.Cleanup(func() { _ = jm.StopAll(context.Background()) })

	handle, err := jm.Trigger(t.Context(), job.RebuildSearchIndex)
	require.NoError(t, err)
	assert.Equal(t, job.RebuildSearchIndex, handle.Name)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("triggered job did not run")
	}
}

func TestJobManager_StartAll_Errors(t *testing.T) {
	c := jobs.NewCatalog()
	require.NoError(t, c.Register(job.EverydayJob, job.FireOnce, func(context.Context, json.RawMessage) error { return nil }))

	tests := []struct {
		name      string
		recurring jobs.RecurringJob
		wantIs    error
	}{
		{name: "unknown job", recurring: jobs.RecurringJob{Name: "nope", Spec: "0 0 0 * * *"}, wantIs: errs.ErrObjectNotFound},
		{name: "bad spec", recurring: jobs.RecurringJob{Name: job.EverydayJob, Spec: "every day"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := jobs.NewScheduler(c, 1, discardLogger())
			require.NoError(t, err)
			jm := jobs.NewJobManager(s, []jobs.RecurringJob{tt.recurring}, discardLogger())

			err = jm.StartAll()

			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestJobManager_Trigger_WhileRecurringRunIsActive(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	c := jobs.NewCatalog()
	require.NoError(t, c.Register(job.CheckLinks, job.FireOnce, func(context.Context, json.RawMessage) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}))
	s, err := jobs.NewScheduler(c, 2, discardLogger())
	require.NoError(t, err)
	jm := jobs.NewJobManager(s, []jobs.RecurringJob{{Name: job.CheckLinks, Spec: "* * * * * *"}}, discardLogger())
	require.NoError(t, jm.StartAll())
	t.Cleanup(func() { _ = jm.StopAll(context.Background()) })
	unblock := sync.OnceFunc(func() { close(release) })
	t.Cleanup(unblock)

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("recurring job did not start")
	}

	_, err = jm.Trigger(t.Context(), job.CheckLinks)

	require.ErrorIs(t, err, jobs.ErrJobAlreadyRunning)
	unblock()
	assert.Eventually(t, func() bool {
		h, err := jm.Trigger(t.Context(), job.CheckLinks)
		return err == nil && h.Name == job.CheckLinks
	}, 3*time.Second, 10*time.Millisecond)
}

func TestJobManager_RecurringJobNeverOverlaps(t *testing.T) {
	var inFlight, maxInFlight, runs atomic.Int32
	c := jobs.NewCatalog()
	require.NoError(t, c.Register(job.RebuildSearchIndex, job.FireOnce, func(context.Context, json.RawMessage) error {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		runs.Add(1)
		time.Sleep(30 * time.Millisecond)
		return nil
	}))
	s, err := jobs.NewScheduler(c, 4, discardLogger())
	require.NoError(t, err)
	jm := jobs.NewJobManager(s, []jobs.RecurringJob{{Name: job.RebuildSearchIndex, Spec: "* * * * * *"}}, discardLogger())
	require.NoError(t, jm.StartAll())
	t.Cleanup(func() { _ = jm.StopAll(context.Background()) })

	deadline := time.Now().Add(1500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if _, err := jm.Trigger(t.Context(), job.RebuildSearchIndex); err != nil {
			require.ErrorIs(t, err, jobs.ErrJobAlreadyRunning)
		}
		time.Sleep(2 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return inFlight.Load() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Positive(t, runs.Load())
	assert.Equal(t, int32(1), maxInFlight.Load())
}
