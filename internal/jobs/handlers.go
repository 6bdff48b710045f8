package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"blogjobs/internal/core/application/usecases/commands"
	"blogjobs/internal/core/domain/model/broadcast"
	"blogjobs/internal/core/domain/model/job"
)

// Handlers are the command handlers behind every catalog entry.
type Handlers struct {
	PublishPost              commands.PublishPostCommandHandler
	RecordPostVisit          commands.RecordPostVisitCommandHandler
	InterceptLog             commands.InterceptLogCommandHandler
	EverydayJob              commands.EverydayJobCommandHandler
	CheckLinks               commands.CheckLinksCommandHandler
	UpdateLinkWeight         commands.UpdateLinkWeightCommandHandler
	RebuildSearchIndex       commands.RebuildSearchIndexCommandHandler
	BroadcastPostPublished   commands.BroadcastPostPublishedCommandHandler
	SendBroadcastUnit        commands.SendBroadcastUnitCommandHandler
	StatisticsSearchKeywords commands.StatisticsSearchKeywordsCommandHandler
	LoginRecord              commands.LoginRecordCommandHandler

	// BroadcastRetryDelay is the wait before a failed broadcast unit is sent again.
	BroadcastRetryDelay time.Duration
}

// NewJobCatalog returns a catalog with every background job of the platform.
func NewJobCatalog(h Handlers, logger *slog.Logger) (*Catalog, error) {
	c := NewCatalog()
	if err := RegisterHandlers(c, h, logger); err != nil {
		return nil, err
	}
	return c, nil
}

// RegisterHandlers adds every background job to c. Handlers that schedule
// further jobs need the scheduler that owns c, so the composition root creates
// the catalog and scheduler first and registers afterwards.
func RegisterHandlers(c *Catalog, h Handlers, logger *slog.Logger) error {
	logger = logger.With("component", "job_catalog")

	broadcastUnitPolicy := job.RetryPolicy{MaxRetries: 1, RetryDelay: h.BroadcastRetryDelay}

	return errors.Join(
		c.Register(job.PublishPost, job.FireOnce, func(ctx context.Context, raw json.RawMessage) error {
			p, err := decode[commands.PublishPostCommand](raw)
			if err != nil {
				return err
			}
			cmd, err := commands.NewPublishPostCommand(p.PostID, p.Title, p.Author, p.Content)
			if err != nil {
				return err
			}
			return h.PublishPost.Handle(ctx, cmd)
		}),

		c.Register(job.RecordPostVisit, job.FireOnce, func(ctx context.Context, raw json.RawMessage) error {
			p, err := decode[commands.RecordPostVisitCommand](raw)
			if err != nil {
				return err
			}
			cmd, err := commands.NewRecordPostVisitCommand(p.PostID)
			if err != nil {
				return err
			}
			return h.RecordPostVisit.Handle(ctx, cmd)
		}),

		c.Register(job.InterceptLog, job.FireOnce, func(ctx context.Context, raw json.RawMessage) error {
			p, err := decode[commands.InterceptLogCommand](raw)
			if err != nil {
				return err
			}
			cmd, err := commands.NewInterceptLogCommand(p.Interception)
			if err != nil {
				return err
			}
			return h.InterceptLog.Handle(ctx, cmd)
		}),

		c.Register(job.EverydayJob, job.FireOnce, func(ctx context.Context, _ json.RawMessage) error {
			result, err := h.EverydayJob.Handle(ctx, commands.NewEverydayJobCommand())
			logger.InfoContext(ctx, "everyday job finished",
				"pruned_abuse_entries", result.PrunedAbuseEntries,
				"running_days", result.RunningDays,
				"deleted_search_rows", result.DeletedSearchRows,
				"flushed_tracking", result.FlushedTracking,
			)
			return err
		}),

		c.Register(job.CheckLinks, job.FireOnce, func(ctx context.Context, _ json.RawMessage) error {
			result, err := h.CheckLinks.Handle(ctx, commands.NewCheckLinksCommand())
			if err != nil {
				return err
			}
			for _, o := range result.Report.Outcomes {
				if o.Err != nil {
					logger.DebugContext(ctx, "link unavailable", "url", o.Target.URL(), "status", o.Status.String(), "error", o.Err)
				}
			}
			logger.InfoContext(ctx, "links checked", "available", result.Available(), "unavailable", result.Unavailable())
			return nil
		}),

		c.Register(job.UpdateLinkWeight, job.FireOnce, func(ctx context.Context, raw json.RawMessage) error {
			p, err := decode[commands.UpdateLinkWeightCommand](raw)
			if err != nil {
				return err
			}
			cmd, err := commands.NewUpdateLinkWeightCommand(p.Referrer)
			if err != nil {
				return err
			}
			_, err = h.UpdateLinkWeight.Handle(ctx, cmd)
			return err
		}),

		c.Register(job.RebuildSearchIndex, job.FireOnce, func(ctx context.Context, _ json.RawMessage) error {
			return h.RebuildSearchIndex.Handle(ctx, commands.NewRebuildSearchIndexCommand())
		}),

		c.Register(job.BroadcastPostPublished, job.FireOnce, func(ctx context.Context, raw json.RawMessage) error {
			p, err := decode[commands.BroadcastPostPublishedCommand](raw)
			if err != nil {
				return err
			}
			cmd, err := commands.NewBroadcastPostPublishedCommand(p.PostID, p.Link)
			if err != nil {
				return err
			}
			result, err := h.BroadcastPostPublished.Handle(ctx, cmd)
			if err != nil {
				return err
			}
			for _, u := range result.Units {
				if u.Err != nil {
					logger.WarnContext(ctx, "broadcast unit not scheduled", "post_id", p.PostID, "recipient", u.Recipient, "error", u.Err)
				}
			}
			logger.InfoContext(ctx, "broadcast scheduled", "post_id", p.PostID, "scheduled", result.Scheduled(), "failed", result.Failed())
			return nil
		}),

		c.Register(job.SendBroadcastUnit, broadcastUnitPolicy, func(ctx context.Context, raw json.RawMessage) error {
			unit, err := decode[broadcast.Unit](raw)
			if err != nil {
				return err
			}
			cmd, err := commands.NewSendBroadcastUnitCommand(unit)
			if err != nil {
				return err
			}
			return h.SendBroadcastUnit.Handle(ctx, cmd)
		}),

		c.Register(job.StatisticsSearchKeywords, job.FireOnce, func(ctx context.Context, _ json.RawMessage) error {
			return h.StatisticsSearchKeywords.Handle(ctx, commands.NewStatisticsSearchKeywordsCommand())
		}),

		c.Register(job.LoginRecord, job.FireOnce, func(ctx context.Context, raw json.RawMessage) error {
			p, err := decode[commands.LoginRecordCommand](raw)
			if err != nil {
				return err
			}
			cmd, err := commands.NewLoginRecordCommand(p.Username, p.IP, p.LoginType)
			if err != nil {
				return err
			}
			_, err = h.LoginRecord.Handle(ctx, cmd)
			return err
		}),
	)
}
