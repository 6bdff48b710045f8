package linkrepo

import (
	"context"
	"strconv"
	"strings"

	"blogjobs/internal/core/domain/model/link"
	"blogjobs/internal/pkg/errs"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormLinkRepository implements ports.LinkRepository using GORM.
type GormLinkRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(key string, aggregate any)
}

func NewGormLinkRepository(db *gorm.DB, tracker aggregateTracker) *GormLinkRepository {
	return &GormLinkRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a link; used by seeding and tests.
func (r *GormLinkRepository) Add(ctx context.Context, aggregate *link.Link) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	r.tracker.TrackAggregate(trackingKey(dto.ID), aggregate)
	return nil
}

// GetAllCheckable returns links not excluded from health checks, in id order.
func (r *GormLinkRepository) GetAllCheckable(ctx context.Context) ([]*link.Link, error) {
	var dtos []LinkDTO
	if err := r.db.WithContext(ctx).Where("excluded = ?", false).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// FindByHost returns links whose URL contains host, ignoring case.
func (r *GormLinkRepository) FindByHost(ctx context.Context, host string) ([]*link.Link, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errs.NewValueIsRequiredError("host")
	}

	var dtos []LinkDTO
	if err := r.db.WithContext(ctx).
		Where("url ILIKE ?", "%"+likeEscaper.Replace(host)+"%").
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// UpdateStatus writes the status of the link and nothing else, so a weight
// increment committed while the link was being probed survives.
func (r *GormLinkRepository) UpdateStatus(ctx context.Context, aggregate *link.Link) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&LinkDTO{}).
		Where("id = ?", aggregate.ID()).
		UpdateColumn("status", int(aggregate.Status()))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("link", aggregate.ID())
	}

	r.tracker.TrackAggregate(trackingKey(aggregate.ID()), aggregate)
	return nil
}

// IncrementWeight adds one to the stored weight in a single statement.
// Concurrent increments never overwrite each other; the weight held by
// aggregate is not written.
func (r *GormLinkRepository) IncrementWeight(ctx context.Context, aggregate *link.Link) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&LinkDTO{}).
		Where("id = ?", aggregate.ID()).
		UpdateColumn("weight", gorm.Expr("weight + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("link", aggregate.ID())
	}

	r.tracker.TrackAggregate(trackingKey(aggregate.ID()), aggregate)
	return nil
}

func toDomainList(dtos []LinkDTO) ([]*link.Link, error) {
	links := make([]*link.Link, 0, len(dtos))
	for _, dto := range dtos {
		l, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, nil
}

func trackingKey(id int64) string {
	return "link:" + strconv.FormatInt(id, 10)
}
