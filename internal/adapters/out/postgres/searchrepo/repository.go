// Package searchrepo holds the search history and the full-text post index.
package searchrepo

import (
	"context"
	"time"

	"blogjobs/internal/core/domain/model/visitor"
	"blogjobs/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PostCollection is the only indexed collection.
const PostCollection = "posts"

// SearchDetailDTO is one visitor search query.
type SearchDetailDTO struct {
	ID         int64     `gorm:"primaryKey"`
	Keywords   string    `gorm:"type:varchar(128);not null;index"`
	SearchTime time.Time `gorm:"not null;index"`
	IP         string    `gorm:"column:ip;type:varchar(64);not null;default:''"`
}

func (SearchDetailDTO) TableName() string {
	return "search_details"
}

// PostIndexDTO is one post in the full-text index.
type PostIndexDTO struct {
	PostID    int64     `gorm:"primaryKey;autoIncrement:false"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Document  string    `gorm:"type:tsvector;not null"`
	IndexedAt time.Time `gorm:"not null"`
}

func (PostIndexDTO) TableName() string {
	return "post_search_index"
}

// GormSearchLog implements ports.SearchLog.
type GormSearchLog struct {
	db *gorm.DB
}

func NewGormSearchLog(db *gorm.DB) *GormSearchLog {
	return &GormSearchLog{db: db}
}

// Add records a search query.
func (s *GormSearchLog) Add(ctx context.Context, keywords, ip string, at time.Time) error {
	return s.db.WithContext(ctx).Create(&SearchDetailDTO{Keywords: keywords, SearchTime: at, IP: ip}).Error
}

func (s *GormSearchLog) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("search_time < ?", t).Delete(&SearchDetailDTO{})
	return result.RowsAffected, result.Error
}

func (s *GormSearchLog) GetRanks(ctx context.Context, since time.Time, limit int) ([]visitor.SearchRank, error) {
	ranks := make([]visitor.SearchRank, 0)
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			keywords,
			COUNT(*) AS count
		FROM search_details
		WHERE search_time >= ?
		GROUP BY keywords
		ORDER BY count DESC, keywords
		LIMIT ?
	`, since, limit).Scan(&ranks).Error
	if err != nil {
		return nil, err
	}
	return ranks, nil
}

// GormSearchIndex implements ports.SearchIndex over a tsvector table.
type GormSearchIndex struct {
	db *gorm.DB
}

func NewGormSearchIndex(db *gorm.DB) *GormSearchIndex {
	return &GormSearchIndex{db: db}
}

// Rebuild re-indexes every row of the named collections in one transaction.
// Rows of posts that no longer exist are dropped, so after a rebuild the
// index holds exactly the current posts.
func (s *GormSearchIndex) Rebuild(ctx context.Context, collections []string) error {
	for _, c := range collections {
		if c != PostCollection {
			return errs.NewValueIsInvalidError("collection " + c)
		}
	}
	if len(collections) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`
			INSERT INTO post_search_index (post_id, title, document, indexed_at)
			SELECT
				id,
				title,
				to_tsvector('simple', coalesce(title, '') || ' ' || coalesce(author, '') || ' ' || coalesce(content, '')),
				NOW()
			FROM posts
			ON CONFLICT (post_id) DO UPDATE SET
				title = EXCLUDED.title,
				document = EXCLUDED.document,
				indexed_at = EXCLUDED.indexed_at
		`).Error
		if err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM post_search_index WHERE post_id NOT IN (SELECT id FROM posts)`).Error
	})
}

// Delete drops index entries for the given posts.
func (s *GormSearchIndex) Delete(ctx context.Context, postIDs []int64) error {
	if len(postIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Exec("DELETE FROM post_search_index WHERE post_id = ANY(?)", pq.Array(postIDs)).Error
}
