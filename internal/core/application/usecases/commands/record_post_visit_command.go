package commands

import (
	"errors"

	"blogjobs/internal/pkg/errs"
	"blogjobs/internal/pkg/guard"
)

var ErrRecordPostVisitCommandIsNotConstructed = errors.New(
	"RecordPostVisitCommand must be created via NewRecordPostVisitCommand constructor",
)

// RecordPostVisitCommand counts one page view of a post.
type RecordPostVisitCommand struct {
	PostID int64 `json:"post_id"`

	guard guard.ConstructorGuard
}

func NewRecordPostVisitCommand(postID int64) (RecordPostVisitCommand, error) {
	if postID <= 0 {
		return RecordPostVisitCommand{}, errs.NewValueIsOutOfRangeError("post id", postID, 1, "max int64")
	}
	return RecordPostVisitCommand{PostID: postID, guard: guard.NewConstructorGuard()}, nil
}

func (c RecordPostVisitCommand) Validate() error {
	return c.guard.Validate(ErrRecordPostVisitCommandIsNotConstructed)
}
