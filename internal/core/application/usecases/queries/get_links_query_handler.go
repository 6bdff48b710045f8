package queries

import (
	"context"

	"blogjobs/internal/core/domain/model/link"

	"gorm.io/gorm"
)

// GetLinksQueryHandler reads links ordered by weight, most referred first.
type GetLinksQueryHandler struct {
	db *gorm.DB
}

func NewGetLinksQueryHandler(db *gorm.DB) GetLinksQueryHandler {
	return GetLinksQueryHandler{db: db}
}

func (h GetLinksQueryHandler) Handle(ctx context.Context, query GetLinksQuery) ([]GetLinksQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			name,
			url,
			excluded,
			status,
			weight
		FROM links`
	args := make([]any, 0, 1)
	if status, ok := query.Status(); ok {
		sql += `
		WHERE status = ?`
		args = append(args, int(status))
	}
	sql += `
		ORDER BY weight DESC, id`

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]GetLinksQueryResponse, 0)
	for rows.Next() {
		var item GetLinksQueryResponse
		var status int

		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.URL,
			&item.Excluded,
			&status,
			&item.Weight,
		); err != nil {
			return nil, err
		}
		item.Status = link.Status(status).String()
		links = append(links, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return links, nil
}
