package commands

import (
	"errors"
	"net/url"

	"blogjobs/internal/pkg/errs"
	"blogjobs/internal/pkg/guard"
)

var ErrBroadcastPostPublishedCommandIsNotConstructed = errors.New(
	"BroadcastPostPublishedCommand must be created via NewBroadcastPostPublishedCommand constructor",
)

// BroadcastPostPublishedCommand announces a published post to every
// broadcast subscriber. Link is the absolute URL of the post page.
type BroadcastPostPublishedCommand struct {
	PostID int64  `json:"post_id"`
	Link   string `json:"link"`
	link   *url.URL

	guard guard.ConstructorGuard
}

func NewBroadcastPostPublishedCommand(postID int64, link string) (BroadcastPostPublishedCommand, error) {
	if postID <= 0 {
		return BroadcastPostPublishedCommand{}, errs.NewValueIsOutOfRangeError("post id", postID, 1, "max int64")
	}
	if link == "" {
		return BroadcastPostPublishedCommand{}, errs.NewValueIsRequiredError("link")
	}
	u, err := url.Parse(link)
	if err != nil {
		return BroadcastPostPublishedCommand{}, errs.NewValueIsInvalidErrorWithCause("link", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return BroadcastPostPublishedCommand{}, errs.NewValueIsInvalidError("link")
	}
	return BroadcastPostPublishedCommand{
		PostID: postID,
		Link:   link,
		link:   u,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// PostURL is the parsed Link.
func (c BroadcastPostPublishedCommand) PostURL() *url.URL {
	return c.link
}

func (c BroadcastPostPublishedCommand) Validate() error {
	return c.guard.Validate(ErrBroadcastPostPublishedCommandIsNotConstructed)
}
