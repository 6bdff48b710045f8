package postgres

import (
	"strings"

	"blogjobs/internal/adapters/out/postgres/kvstore"
	"blogjobs/internal/adapters/out/postgres/linkrepo"
	"blogjobs/internal/adapters/out/postgres/postrepo"
	"blogjobs/internal/adapters/out/postgres/searchrepo"
	"blogjobs/internal/adapters/out/postgres/subscriberrepo"
	"blogjobs/internal/adapters/out/postgres/userrepo"

	"gorm.io/gorm"
)

func models() []any {
	return []any{
		&postrepo.PostDTO{},
		&linkrepo.LinkDTO{},
		&subscriberrepo.SubscriberDTO{},
		&userrepo.UserDTO{},
		&userrepo.LoginRecordDTO{},
		&searchrepo.SearchDetailDTO{},
		&searchrepo.PostIndexDTO{},
		&kvstore.CounterDTO{},
		&kvstore.ValueDTO{},
		&kvstore.ListItemDTO{},
	}
}

// Migrate creates or updates every table the jobs read and write.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models()...)
}

// TruncateAll empties every table and resets identities.
func TruncateAll(db *gorm.DB) error {
	names := make([]string, 0, len(models()))
	for _, m := range models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return err
		}
		names = append(names, stmt.Schema.Table)
	}
	return db.Exec("TRUNCATE TABLE " + strings.Join(names, ", ") + " RESTART IDENTITY CASCADE").Error
}
