package services

import (
	"errors"
	"time"

	"blogjobs/internal/core/domain/model/broadcast"
	"blogjobs/internal/core/domain/model/post"
	"blogjobs/internal/core/domain/model/subscriber"
	"blogjobs/internal/pkg/errs"
)

// ErrPostIsNotPublished is returned when a broadcast is planned for a post
// readers cannot open yet.
var ErrPostIsNotPublished = errors.New("post is not published")

// Delivery is one recipient of a broadcast with the time its mail is due.
type Delivery struct {
	Recipient subscriber.Subscriber
	SendAt    time.Time
}

// BroadcastPlanner turns a published post and its audience into deliveries.
//
// Rules:
//   - only published posts are broadcast
//   - recipients that do not receive broadcasts are skipped
//   - the n-th kept recipient is due n staggers after the post's last modification
//
// Example usage:
//
//	planner := NewBroadcastPlanner(time.Second)
//	deliveries, err := planner.Plan(p, recipients)
//	if errors.Is(err, ErrPostIsNotPublished) {
//	    return
//	}
type BroadcastPlanner struct {
	stagger time.Duration
}

func NewBroadcastPlanner(stagger time.Duration) (BroadcastPlanner, error) {
	if stagger < 0 {
		return BroadcastPlanner{}, errs.NewValueIsOutOfRangeError("stagger", stagger, 0, "max duration")
	}
	return BroadcastPlanner{stagger: stagger}, nil
}

// Plan returns the deliveries in recipient order.
func (b BroadcastPlanner) Plan(p *post.Post, recipients []subscriber.Subscriber) ([]Delivery, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !p.IsPublished() {
		return nil, ErrPostIsNotPublished
	}

	deliveries := make([]Delivery, 0, len(recipients))
	for _, r := range recipients {
		if !r.ReceivesBroadcasts() {
			continue
		}
		deliveries = append(deliveries, Delivery{
			Recipient: r,
			SendAt:    broadcast.SendTime(p.ModifyDate(), len(deliveries), b.stagger),
		})
	}
	return deliveries, nil
}
