package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"blogjobs/internal/core/domain/model/broadcast"
	"blogjobs/internal/core/domain/model/job"
	"blogjobs/internal/core/domain/model/kernel"
	"blogjobs/internal/core/domain/model/subscriber"
	"blogjobs/internal/core/domain/services"
	"blogjobs/internal/core/ports"
	"blogjobs/internal/pkg/errs"
)

const broadcastSummaryLength = 200

// UnitStatus is what happened to one recipient during a broadcast.
type UnitStatus struct {
	Recipient string
	Handle    job.Handle
	Err       error
}

// BroadcastResult lists one status per recipient, in recipient order.
type BroadcastResult struct {
	Units []UnitStatus
}

func (r BroadcastResult) Scheduled() int {
	n := 0
	for _, u := range r.Units {
		if u.Err == nil {
			n++
		}
	}
	return n
}

func (r BroadcastResult) Failed() int {
	return len(r.Units) - r.Scheduled()
}

// BroadcastConfig carries the site settings a broadcast mail is built from.
type BroadcastConfig struct {
	SiteTitle string
	// Stagger spaces consecutive recipients' send times; zero sends all at once.
	Stagger time.Duration
}

// BroadcastPostPublishedCommandHandler renders one mail per subscriber and
// schedules it as an independent SendBroadcastUnit job. A recipient whose
// rendering or scheduling fails is reported in the result and does not stop
// the rest of the broadcast. Unknown or unpublished posts are a no-op.
type BroadcastPostPublishedCommandHandler struct {
	uowFactory  PostUoWFactory
	subscribers ports.SubscriberRepository
	renderer    ports.NotificationRenderer
	signer      subscriber.UnsubscribeSigner
	scheduler   ports.JobScheduler
	clock       kernel.Clock
	planner     services.BroadcastPlanner
	cfg         BroadcastConfig
}

func NewBroadcastPostPublishedCommandHandler(
	uowFactory PostUoWFactory,
	subscribers ports.SubscriberRepository,
	renderer ports.NotificationRenderer,
	signer subscriber.UnsubscribeSigner,
	scheduler ports.JobScheduler,
	clock kernel.Clock,
	cfg BroadcastConfig,
) (BroadcastPostPublishedCommandHandler, error) {
	planner, err := services.NewBroadcastPlanner(cfg.Stagger)
	if err != nil {
		return BroadcastPostPublishedCommandHandler{}, err
	}
	return BroadcastPostPublishedCommandHandler{
		uowFactory:  uowFactory,
		subscribers: subscribers,
		renderer:    renderer,
		signer:      signer,
		scheduler:   scheduler,
		clock:       clock,
		planner:     planner,
		cfg:         cfg,
	}, nil
}

func (h *BroadcastPostPublishedCommandHandler) Handle(
	ctx context.Context,
	cmd BroadcastPostPublishedCommand,
) (BroadcastResult, error) {
	if err := cmd.Validate(); err != nil {
		return BroadcastResult{}, err
	}

	p, err := h.uowFactory.Create().PostRepository().Get(ctx, cmd.PostID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return BroadcastResult{}, nil
	}
	if err != nil {
		return BroadcastResult{}, err
	}
	if !p.IsPublished() {
		return BroadcastResult{}, nil
	}

	recipients, err := h.subscribers.GetBroadcastRecipients(ctx)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("load recipients: %w", err)
	}
	deliveries, err := h.planner.Plan(p, recipients)
	if err != nil {
		return BroadcastResult{}, err
	}

	subject := h.cfg.SiteTitle + " new post: " + p.Title()
	summary := p.Summary(broadcastSummaryLength)
	timestamp := h.clock.Now().UnixMilli()

	result := BroadcastResult{Units: make([]UnitStatus, 0, len(deliveries))}
	for _, d := range deliveries {
		sub := d.Recipient
		status := UnitStatus{Recipient: sub.Email()}

		body, renderErr := h.renderer.RenderBroadcast(ports.BroadcastView{
			Link:      recipientLink(cmd.PostURL(), sub.Email()),
			Title:     p.Title(),
			Author:    p.Author(),
			Summary:   summary,
			Modified:  p.ModifyDate(),
			CancelURL: h.signer.CancelURL(cmd.PostURL(), sub, timestamp),
		})
		if renderErr != nil {
			status.Err = fmt.Errorf("render broadcast for %s: %w", sub.Email(), renderErr)
			result.Units = append(result.Units, status)
			continue
		}

		unit, unitErr := broadcast.NewUnit(p.ID(), sub.Email(), subject, body, d.SendAt)
		if unitErr != nil {
			status.Err = unitErr
			result.Units = append(result.Units, status)
			continue
		}

		status.Handle, status.Err = h.scheduler.ScheduleAt(ctx, job.SendBroadcastUnit, unit, unit.SendAt)
		result.Units = append(result.Units, status)
	}

	return result, nil
}

// recipientLink tags the post link with the recipient so visits from mail can be attributed.
func recipientLink(postURL *url.URL, email string) string {
	u := *postURL
	q := u.Query()
	q.Set("email", email)
	u.RawQuery = q.Encode()
	return u.String()
}
