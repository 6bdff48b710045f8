package commands

import (
	"errors"
	"strings"

	"blogjobs/internal/pkg/errs"
	"blogjobs/internal/pkg/guard"
)

var ErrPublishPostCommandIsNotConstructed = errors.New(
	"PublishPostCommand must be created via NewPublishPostCommand constructor",
)

// PublishPostCommand publishes a post at its scheduled time. The post fields
// are carried so a post that was scheduled before it was ever saved can be
// inserted as published.
type PublishPostCommand struct {
	PostID  int64  `json:"post_id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"`

	guard guard.ConstructorGuard
}

func NewPublishPostCommand(postID int64, title, author, content string) (PublishPostCommand, error) {
	if postID <= 0 {
		return PublishPostCommand{}, errs.NewValueIsOutOfRangeError("post id", postID, 1, "max int64")
	}
	if strings.TrimSpace(title) == "" {
		return PublishPostCommand{}, errs.NewValueIsRequiredError("title")
	}
	return PublishPostCommand{
		PostID:  postID,
		Title:   title,
		Author:  author,
		Content: content,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c PublishPostCommand) Validate() error {
	return c.guard.Validate(ErrPublishPostCommandIsNotConstructed)
}
