// Package linkrepo persists partner links with GORM.
package linkrepo

import (
	"blogjobs/internal/core/domain/model/link"
)

// LinkDTO is the links table row.
type LinkDTO struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"type:varchar(128);not null"`
	URL      string `gorm:"column:url;type:varchar(512);not null"`
	Excluded bool   `gorm:"not null;default:false"`
	Status   int    `gorm:"type:smallint;not null;default:0"`
	Weight   int64  `gorm:"not null;default:0"`
}

func (LinkDTO) TableName() string {
	return "links"
}

func fromDomain(l *link.Link) LinkDTO {
	return LinkDTO{
		ID:       l.ID(),
		Name:     l.Name(),
		URL:      l.URL(),
		Excluded: l.Excluded(),
		Status:   int(l.Status()),
		Weight:   l.Weight(),
	}
}

func toDomain(dto LinkDTO) (*link.Link, error) {
	return link.RestoreLink(dto.ID, dto.Name, dto.URL, dto.Excluded, link.Status(dto.Status), dto.Weight)
}
