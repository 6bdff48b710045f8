// Package queries contains read operations over link and job state.
// Queries go straight to SQL and return read models, bypassing the aggregates.
package queries

import (
	"errors"

	"blogjobs/internal/core/domain/model/link"
	"blogjobs/internal/pkg/guard"
)

var (
	ErrGetLinksQueryIsNotConstructed = errors.New(
		"GetLinksQuery must be created via NewGetLinksQuery constructor",
	)
)

// GetLinksQuery lists partner links, optionally only those in one status.
//
// Example:
//
//	unavailable := link.Unavailable
//	query, err := NewGetLinksQuery(&unavailable)
//	if err != nil {
//	    return err
//	}
//	links, err := handler.Handle(ctx, query)
type GetLinksQuery struct {
	status *link.Status

	guard guard.ConstructorGuard
}

// NewGetLinksQuery builds the query; a nil status selects every link.
func NewGetLinksQuery(status *link.Status) (GetLinksQuery, error) {
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetLinksQuery{}, err
		}
		s := *status
		status = &s
	}
	return GetLinksQuery{status: status, guard: guard.NewConstructorGuard()}, nil
}

func (q GetLinksQuery) Validate() error {
	return q.guard.Validate(ErrGetLinksQueryIsNotConstructed)
}

// Status returns the filter, if any.
func (q GetLinksQuery) Status() (link.Status, bool) {
	if q.status == nil {
		return 0, false
	}
	return *q.status, true
}

// GetLinksQueryResponse is a link read model.
type GetLinksQueryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Excluded bool   `json:"excluded"`
	Status   string `json:"status"`
	Weight   int64  `json:"weight"`
}
