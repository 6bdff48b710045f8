// Package kvstore keeps counters, cached values and bounded lists in postgres
// tables. It backs the intercept log, the tracking sink, the search ranks and
// the dead-letter list of the job runtime.
package kvstore

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"blogjobs/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterDTO is a named monotonically increasing counter.
type CounterDTO struct {
	Name      string    `gorm:"primaryKey;type:varchar(128)"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CounterDTO) TableName() string {
	return "kv_counters"
}

// ValueDTO is a JSON value under a key.
type ValueDTO struct {
	Key       string    `gorm:"primaryKey;type:varchar(128)"`
	Value     string    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ValueDTO) TableName() string {
	return "kv_values"
}

// ListItemDTO is one JSON element of a list; ID orders the list.
type ListItemDTO struct {
	ID        int64     `gorm:"primaryKey"`
	ListKey   string    `gorm:"type:varchar(128);not null;index:idx_kv_list_items_key_id,priority:1"`
	Value     string    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ListItemDTO) TableName() string {
	return "kv_list_items"
}

// GormKeyValueStore implements ports.KeyValueStore.
type GormKeyValueStore struct {
	db *gorm.DB
	// limits caps the length of the named lists; lists not named are unbounded.
	limits map[string]int
}

func NewGormKeyValueStore(db *gorm.DB, limits map[string]int) (*GormKeyValueStore, error) {
	if db == nil {
		return nil, errs.NewValueIsRequiredError("db")
	}
	copied := make(map[string]int, len(limits))
	for k, v := range limits {
		if v < 1 {
			return nil, errs.NewValueIsOutOfRangeError("limit of "+k, v, 1, "unbounded")
		}
		copied[k] = v
	}
	return &GormKeyValueStore{db: db, limits: copied}, nil
}

// IncrementCounter adds one to the counter and returns the new value. Missing
// counters start at zero.
func (s *GormKeyValueStore) IncrementCounter(ctx context.Context, name string) (int64, error) {
	if err := requireKey("name", name); err != nil {
		return 0, err
	}
	var value int64
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO kv_counters (name, value, updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (name) DO UPDATE SET
			value = kv_counters.value + 1,
			updated_at = EXCLUDED.updated_at
		RETURNING value
	`, name).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Counter returns the current value; a missing counter reads as zero.
func (s *GormKeyValueStore) Counter(ctx context.Context, name string) (int64, error) {
	var values []int64
	if err := s.db.WithContext(ctx).Model(&CounterDTO{}).
		Where("name = ?", name).
		Pluck("value", &values).Error; err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	return values[0], nil
}

// Set replaces the value stored under key.
func (s *GormKeyValueStore) Set(ctx context.Context, key string, value any) error {
	if err := requireKey("key", key); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("value", err)
	}
	dto := ValueDTO{Key: key, Value: string(raw), UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&dto).Error
}

// Get returns the raw JSON stored under key or errs.ObjectNotFoundError.
func (s *GormKeyValueStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var dto ValueDTO
	result := s.db.WithContext(ctx).Where("key = ?", key).Limit(1).Find(&dto)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("key", key)
	}
	return json.RawMessage(dto.Value), nil
}

// Push appends value to the list. Bounded lists drop their oldest entries in
// the same transaction.
func (s *GormKeyValueStore) Push(ctx context.Context, listKey string, value any) error {
	if err := requireKey("listKey", listKey); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("value", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item := ListItemDTO{ListKey: listKey, Value: string(raw), CreatedAt: time.Now()}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		limit, bounded := s.limits[listKey]
		if !bounded {
			return nil
		}
		return tx.Exec(`
			DELETE FROM kv_list_items
			WHERE list_key = ? AND id NOT IN (
				SELECT id FROM kv_list_items
				WHERE list_key = ?
				ORDER BY id DESC
				LIMIT ?
			)
		`, listKey, listKey, limit).Error
	})
}

// List returns up to limit of the newest entries, newest first.
func (s *GormKeyValueStore) List(ctx context.Context, listKey string, limit int) ([]json.RawMessage, error) {
	if limit < 1 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	var dtos []ListItemDTO
	if err := s.db.WithContext(ctx).
		Where("list_key = ?", listKey).
		Order("id DESC").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, json.RawMessage(dto.Value))
	}
	return out, nil
}

// Len reports the number of entries in the list.
func (s *GormKeyValueStore) Len(ctx context.Context, listKey string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&ListItemDTO{}).Where("list_key = ?", listKey).Count(&n).Error
	return n, err
}

func requireKey(param, key string) error {
	if strings.TrimSpace(key) == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}
