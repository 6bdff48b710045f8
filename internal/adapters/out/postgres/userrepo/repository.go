// Package userrepo stores login records of platform users with GORM.
package userrepo

import (
	"context"
	"errors"
	"time"

	"blogjobs/internal/core/domain/model/visitor"
	"blogjobs/internal/pkg/errs"

	"gorm.io/gorm"
)

// UserDTO is the users table row. Only the columns login tracking needs are mapped.
type UserDTO struct {
	ID       int64  `gorm:"primaryKey"`
	Username string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Email    string `gorm:"type:varchar(255);not null;default:''"`
}

func (UserDTO) TableName() string {
	return "users"
}

// LoginRecordDTO is the login_records table row.
type LoginRecordDTO struct {
	ID            int64     `gorm:"primaryKey"`
	UserID        int64     `gorm:"not null;index"`
	IP            string    `gorm:"column:ip;type:varchar(64);not null"`
	LoginType     int       `gorm:"type:smallint;not null"`
	LoginTime     time.Time `gorm:"not null;index"`
	PhysicAddress string    `gorm:"type:varchar(255);not null;default:''"`
	Province      string    `gorm:"type:varchar(128);not null;default:''"`
}

func (LoginRecordDTO) TableName() string {
	return "login_records"
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// AddLoginRecord appends a login record to the user with the given username.
func (r *GormUserRepository) AddLoginRecord(ctx context.Context, username string, record visitor.LoginRecord) error {
	var user UserDTO
	if err := r.db.WithContext(ctx).Select("id").First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("user", username)
		}
		return err
	}

	dto := LoginRecordDTO{
		UserID:        user.ID,
		IP:            record.IP,
		LoginType:     int(record.LoginType),
		LoginTime:     record.LoginTime,
		PhysicAddress: record.PhysicAddress,
		Province:      record.Province,
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// LoginRecords returns the latest records of a user, newest first.
func (r *GormUserRepository) LoginRecords(ctx context.Context, username string, limit int) ([]visitor.LoginRecord, error) {
	var dtos []LoginRecordDTO
	if err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = login_records.user_id").
		Where("users.username = ?", username).
		Order("login_records.login_time DESC, login_records.id DESC").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	records := make([]visitor.LoginRecord, 0, len(dtos))
	for _, dto := range dtos {
		records = append(records, visitor.LoginRecord{
			IP:            dto.IP,
			LoginType:     visitor.LoginType(dto.LoginType),
			LoginTime:     dto.LoginTime,
			PhysicAddress: dto.PhysicAddress,
			Province:      dto.Province,
		})
	}
	return records, nil
}
