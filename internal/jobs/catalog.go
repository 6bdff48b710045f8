package jobs

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"blogjobs/internal/core/domain/model/job"
	"blogjobs/internal/pkg/errs"
)

// HandlerFunc runs one attempt of a job with its raw JSON payload.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Entry is a registered job: what runs and how often it may be retried.
type Entry struct {
	Name    job.Name
	Policy  job.RetryPolicy
	Handler HandlerFunc
}

// Catalog maps job names to entries. It is safe for concurrent use.
//
// The catalog is filled once at startup (see RegisterHandlers) and then read
// by the Scheduler for every submitted and every running job. Registering a
// name again replaces its entry; the JobManager relies on that to wrap
// recurring handlers with its in-flight guard.
type Catalog struct {
	mu      sync.RWMutex
	entries map[job.Name]Entry
}

// NewCatalog creates an empty catalog.
//
// Example:
//
//	c := jobs.NewCatalog()
//	err := c.Register(job.CheckLinks, job.FireOnce, func(ctx context.Context, _ json.RawMessage) error {
//		return checkLinks.Handle(ctx, cmd)
//	})
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[job.Name]Entry)}
}

// Register adds or replaces the entry for name.
func (c *Catalog) Register(name job.Name, policy job.RetryPolicy, handler HandlerFunc) error {
	if name == "" {
		return errs.NewValueIsRequiredError("job name")
	}
	if handler == nil {
		return errs.NewValueIsRequiredError("handler")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = Entry{Name: name, Policy: policy, Handler: handler}
	return nil
}

// Lookup returns errs.ObjectNotFoundError for unknown names.
func (c *Catalog) Lookup(name job.Name) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return Entry{}, errs.NewObjectNotFoundError("job", name)
	}
	return e, nil
}

// Names lists registered job names in lexical order.
func (c *Catalog) Names() []job.Name {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]job.Name, 0, len(c.entries))
	for n := range c.entries {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// decode unmarshals a payload; malformed payloads are reported as invalid
// values so the scheduler does not retry them.
func decode[T any](payload json.RawMessage) (T, error) {
	var v T
	if len(payload) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}
	return v, nil
}
