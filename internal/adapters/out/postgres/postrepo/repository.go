package postrepo

import (
	"context"
	"errors"
	"strconv"

	"blogjobs/internal/core/domain/model/post"
	"blogjobs/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPostRepository implements ports.PostRepository using GORM.
type GormPostRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(key string, aggregate any)
}

// NewGormPostRepository creates a new GORM post repository.
func NewGormPostRepository(db *gorm.DB, tracker aggregateTracker) *GormPostRepository {
	return &GormPostRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new post.
func (r *GormPostRepository) Add(ctx context.Context, aggregate *post.Post) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(trackingKey(aggregate.ID()), aggregate)
	return nil
}

// Update saves status, dates and counters of an existing post.
func (r *GormPostRepository) Update(ctx context.Context, aggregate *post.Post) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PostDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"title":         dto.Title,
		"author":        dto.Author,
		"content":       dto.Content,
		"status":        dto.Status,
		"post_date":     dto.PostDate,
		"modify_date":   dto.ModifyDate,
		"total_views":   dto.TotalViews,
		"average_views": dto.AverageViews,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("post", dto.ID)
	}

	r.tracker.TrackAggregate(trackingKey(aggregate.ID()), aggregate)
	return nil
}

// Get retrieves a post by ID.
func (r *GormPostRepository) Get(ctx context.Context, id int64) (*post.Post, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves a post by ID and locks its row with SELECT ... FOR
// UPDATE. Bound to a unit of work, the lock holds until Commit or Rollback,
// so concurrent read-modify-write jobs on one post run one after another.
func (r *GormPostRepository) GetForUpdate(ctx context.Context, id int64) (*post.Post, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormPostRepository) get(db *gorm.DB, id int64) (*post.Post, error) {
	var dto PostDTO
	if err := db.First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("post", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListIDsNotPublished returns ids of drafts and unavailable posts in id order.
func (r *GormPostRepository) ListIDsNotPublished(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0)
	if err := r.db.WithContext(ctx).
		Model(&PostDTO{}).
		Where("status <> ?", int(post.Published)).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func trackingKey(id int64) string {
	return "post:" + strconv.FormatInt(id, 10)
}
