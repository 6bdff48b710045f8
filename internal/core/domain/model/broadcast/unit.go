// Package broadcast provides the per-recipient unit a new-post broadcast fans out into.
package broadcast

import (
	"errors"
	"strings"
	"time"

	"blogjobs/internal/core/domain/model/kernel"
	"blogjobs/internal/pkg/errs"
)

// Unit is one (post, subscriber) delivery. Content is rendered before the
// unit is scheduled, so the unit is a self-contained job payload with no
// reference to live services.
type Unit struct {
	ID        kernel.UUID `json:"id"`
	PostID    int64       `json:"post_id"`
	Recipient string      `json:"recipient"`
	Subject   string      `json:"subject"`
	HTMLBody  string      `json:"html_body"`
	SendAt    time.Time   `json:"send_at"`
}

// NewUnit creates a delivery with a fresh id. The recipient is trimmed; the
// body must already be rendered for that recipient.
//
// Example:
//
//	at := broadcast.SendTime(p.ModifyDate(), i, stagger)
//	u, err := broadcast.NewUnit(p.ID(), s.Email(), subject, body, at)
//	if err != nil {
//		return err
//	}
//	_, err = scheduler.ScheduleAt(ctx, job.SendBroadcastUnit, u, u.SendAt)
//
// Returns a joined error listing every invalid field.
func NewUnit(postID int64, recipient, subject, htmlBody string, sendAt time.Time) (Unit, error) {
	u := Unit{
		ID:        kernel.NewUUID(),
		PostID:    postID,
		Recipient: strings.TrimSpace(recipient),
		Subject:   subject,
		HTMLBody:  htmlBody,
		SendAt:    sendAt,
	}
	if err := u.Validate(); err != nil {
		return Unit{}, err
	}
	return u, nil
}

// Validate is also applied to units decoded from the job queue.
func (u Unit) Validate() error {
	var problems []error
	if err := u.ID.Validate(); err != nil {
		problems = append(problems, err)
	}
	if u.Recipient == "" {
		problems = append(problems, errs.NewValueIsRequiredError("recipient"))
	}
	if strings.TrimSpace(u.HTMLBody) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("html body"))
	}
	return errors.Join(problems...)
}

// SendTime is the target send time of the index-th recipient: the post's last
// modification plus index staggers. It is never earlier than modifiedAt.
func SendTime(modifiedAt time.Time, index int, stagger time.Duration) time.Time {
	if index <= 0 || stagger <= 0 {
		return modifiedAt
	}
	return modifiedAt.Add(time.Duration(index) * stagger)
}
