// Package postrepo persists post aggregates with GORM.
package postrepo

import (
	"time"

	"blogjobs/internal/core/domain/model/post"
)

// PostDTO is the posts table row.
type PostDTO struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false"`
	Title        string    `gorm:"type:varchar(255);not null"`
	Author       string    `gorm:"type:varchar(128);not null;default:''"`
	Content      string    `gorm:"type:text;not null;default:''"`
	Status       int       `gorm:"type:smallint;not null;index"`
	PostDate     time.Time `gorm:"not null"`
	ModifyDate   time.Time `gorm:"not null"`
	TotalViews   int64     `gorm:"not null;default:0"`
	AverageViews float64   `gorm:"not null;default:0"`
}

func (PostDTO) TableName() string {
	return "posts"
}

func fromDomain(p *post.Post) PostDTO {
	return PostDTO{
		ID:           p.ID(),
		Title:        p.Title(),
		Author:       p.Author(),
		Content:      p.Content(),
		Status:       int(p.Status()),
		PostDate:     p.PostDate(),
		ModifyDate:   p.ModifyDate(),
		TotalViews:   p.TotalViews(),
		AverageViews: p.AverageViews(),
	}
}

func toDomain(dto PostDTO) (*post.Post, error) {
	return post.RestorePost(
		dto.ID,
		dto.Title,
		dto.Author,
		dto.Content,
		post.Status(dto.Status),
		dto.PostDate,
		dto.ModifyDate,
		dto.TotalViews,
		dto.AverageViews,
	)
}
