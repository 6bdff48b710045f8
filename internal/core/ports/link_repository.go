package ports

import (
	"context"

	"blogjobs/internal/core/domain/model/link"
)

// LinkRepository is the persistence contract for partner links.
type LinkRepository interface {
	// GetAllCheckable returns every link that is not excluded from health checks.
	GetAllCheckable(ctx context.Context) ([]*link.Link, error)

	// FindByHost returns every link whose URL contains host.
	FindByHost(ctx context.Context, host string) ([]*link.Link, error)

	// UpdateStatus persists only the status of an existing link.
	UpdateStatus(ctx context.Context, l *link.Link) error

	// IncrementWeight adds one to the stored weight of an existing link
	// atomically, whatever weight l carries.
	IncrementWeight(ctx context.Context, l *link.Link) error
}
