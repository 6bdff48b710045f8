// Package subscriberrepo reads broadcast subscribers with GORM.
package subscriberrepo

import (
	"context"

	"blogjobs/internal/core/domain/model/subscriber"

	"gorm.io/gorm"
)

// SubscriberDTO is the subscribers table row.
type SubscriberDTO struct {
	ID           int64  `gorm:"primaryKey"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	ValidateCode string `gorm:"type:varchar(64);not null;default:''"`
	Status       int    `gorm:"type:smallint;not null;default:0"`
	Kind         int    `gorm:"type:smallint;not null;default:1"`
}

func (SubscriberDTO) TableName() string {
	return "subscribers"
}

type GormSubscriberRepository struct {
	db *gorm.DB
}

func NewGormSubscriberRepository(db *gorm.DB) *GormSubscriberRepository {
	return &GormSubscriberRepository{db: db}
}

// GetBroadcastRecipients returns confirmed broadcast subscribers in sign-up order.
func (r *GormSubscriberRepository) GetBroadcastRecipients(ctx context.Context) ([]subscriber.Subscriber, error) {
	var dtos []SubscriberDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND kind = ?", int(subscriber.Subscribed), int(subscriber.KindBroadcast)).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	subs := make([]subscriber.Subscriber, 0, len(dtos))
	for _, dto := range dtos {
		s, err := subscriber.RestoreSubscriber(dto.Email, dto.ValidateCode, subscriber.Status(dto.Status), subscriber.Kind(dto.Kind))
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, nil
}
