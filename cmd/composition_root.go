package cmd

import (
	"context"
	"log/slog"

	"blogjobs/internal/adapters/in/http"
	"blogjobs/internal/adapters/out/geo"
	"blogjobs/internal/adapters/out/mail"
	"blogjobs/internal/adapters/out/memory"
	"blogjobs/internal/adapters/out/postgres"
	"blogjobs/internal/adapters/out/postgres/kvstore"
	"blogjobs/internal/adapters/out/postgres/searchrepo"
	"blogjobs/internal/adapters/out/postgres/subscriberrepo"
	"blogjobs/internal/adapters/out/postgres/userrepo"
	"blogjobs/internal/adapters/out/probe"
	"blogjobs/internal/adapters/out/templates"
	"blogjobs/internal/core/application/usecases/commands"
	"blogjobs/internal/core/application/usecases/queries"
	"blogjobs/internal/core/domain/model/job"
	"blogjobs/internal/core/domain/model/kernel"
	"blogjobs/internal/core/domain/model/subscriber"
	"blogjobs/internal/core/ports"
	"blogjobs/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived component of the job host.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	clock      kernel.Clock
	uowFactory *postgres.GormUnitOfWorkFactory

	store    *kvstore.GormKeyValueStore
	abuse    *memory.AbuseCounter
	tracking *memory.TrackingBuffer
	offline  *geo.OfflineResolver

	catalog    *jobs.Catalog
	scheduler  *jobs.Scheduler
	jobManager *jobs.JobManager
}

func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		logger:     logger,
		clock:      kernel.SystemClock{},
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, logger),
		abuse:      memory.NewAbuseCounter(),
	}

	store, err := kvstore.NewGormKeyValueStore(gormDB, map[string]int{
		commands.ListIntercept: cfg.InterceptLogSize,
		jobs.ListDeadJobs:      cfg.DeadJobsLogSize,
	})
	if err != nil {
		return nil, err
	}
	c.store = store
	c.tracking = memory.NewTrackingBuffer(store, commands.ListTracking)

	if cfg.IPRegionDB != "" {
		offline, err := geo.OpenOfflineResolver(ctx, cfg.IPRegionDB)
		if err != nil {
			return nil, err
		}
		c.offline = offline
	}

	c.catalog = jobs.NewCatalog()
	scheduler, err := jobs.NewScheduler(c.catalog, cfg.JobWorkers, logger,
		jobs.WithDeadLetter(jobs.PushDeadLetter(store, jobs.ListDeadJobs, c.clock, logger)),
	)
	if err != nil {
		return nil, err
	}
	c.scheduler = scheduler

	handlers, err := c.createHandlers()
	if err != nil {
		return nil, err
	}
	if err := jobs.RegisterHandlers(c.catalog, handlers, logger); err != nil {
		return nil, err
	}

	c.jobManager = jobs.NewJobManager(scheduler, c.recurringJobs(), logger)
	return c, nil
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

func (c *CompositionRoot) AbuseCounter() *memory.AbuseCounter {
	return c.abuse
}

// Close releases resources the root opened itself.
func (c *CompositionRoot) Close() error {
	if c.offline != nil {
		return c.offline.Close()
	}
	return nil
}

func (c *CompositionRoot) recurringJobs() []jobs.RecurringJob {
	return []jobs.RecurringJob{
		{Name: job.CheckLinks, Spec: c.cfg.CronCheckLinks},
		{Name: job.RebuildSearchIndex, Spec: c.cfg.CronRebuildIndex},
		{Name: job.EverydayJob, Spec: c.cfg.CronEveryday},
		{Name: job.StatisticsSearchKeywords, Spec: c.cfg.CronSearchStats},
	}
}

func (c *CompositionRoot) createHandlers() (jobs.Handlers, error) {
	mailer, err := c.CreateMailSender()
	if err != nil {
		return jobs.Handlers{}, err
	}
	renderer, err := templates.NewRenderer()
	if err != nil {
		return jobs.Handlers{}, err
	}
	resolver, err := c.CreateGeoResolver()
	if err != nil {
		return jobs.Handlers{}, err
	}

	everyday, err := c.CreateEverydayJobCommandHandler()
	if err != nil {
		return jobs.Handlers{}, err
	}
	checkLinks, err := c.CreateCheckLinksCommandHandler()
	if err != nil {
		return jobs.Handlers{}, err
	}
	broadcastPost, err := c.CreateBroadcastPostPublishedCommandHandler(renderer)
	if err != nil {
		return jobs.Handlers{}, err
	}
	statistics, err := commands.NewStatisticsSearchKeywordsCommandHandler(
		searchrepo.NewGormSearchLog(c.gormDB), c.store, c.clock, c.cfg.SearchRankLimit,
	)
	if err != nil {
		return jobs.Handlers{}, err
	}

	return jobs.Handlers{
		PublishPost:              commands.NewPublishPostCommandHandler(c.postUoWFactory(), c.clock),
		RecordPostVisit:          commands.NewRecordPostVisitCommandHandler(c.postUoWFactory(), c.clock),
		InterceptLog:             commands.NewInterceptLogCommandHandler(c.store, resolver),
		EverydayJob:              everyday,
		CheckLinks:               checkLinks,
		UpdateLinkWeight:         commands.NewUpdateLinkWeightCommandHandler(c.linkUoWFactory()),
		RebuildSearchIndex:       commands.NewRebuildSearchIndexCommandHandler(c.postUoWFactory(), searchrepo.NewGormSearchIndex(c.gormDB)),
		BroadcastPostPublished:   broadcastPost,
		SendBroadcastUnit:        commands.NewSendBroadcastUnitCommandHandler(mailer),
		StatisticsSearchKeywords: statistics,
		LoginRecord: commands.NewLoginRecordCommandHandler(
			userrepo.NewGormUserRepository(c.gormDB),
			resolver,
			renderer,
			mailer,
			c.clock,
			commands.LoginNoticeConfig{SiteTitle: c.cfg.SiteTitle, AdminEmail: c.cfg.AdminEmail},
		),
		BroadcastRetryDelay: c.cfg.BroadcastRetryDelay,
	}, nil
}

func (c *CompositionRoot) CreateEverydayJobCommandHandler() (commands.EverydayJobCommandHandler, error) {
	return commands.NewEverydayJobCommandHandler(
		c.abuse,
		c.store,
		searchrepo.NewGormSearchLog(c.gormDB),
		c.tracking,
		c.clock,
		c.cfg.AbuseThreshold,
	)
}

func (c *CompositionRoot) CreateCheckLinksCommandHandler() (commands.CheckLinksCommandHandler, error) {
	prober, err := probe.NewHTTPProber(probe.Config{
		Domain:  c.cfg.SiteDomain,
		Referer: c.cfg.SiteURL,
		Timeout: c.cfg.LinkCheckTimeout,
	})
	if err != nil {
		return commands.CheckLinksCommandHandler{}, err
	}
	return commands.NewCheckLinksCommandHandler(c.linkUoWFactory(), prober, c.cfg.LinkCheckConcurrency)
}

func (c *CompositionRoot) CreateBroadcastPostPublishedCommandHandler(
	renderer ports.NotificationRenderer,
) (commands.BroadcastPostPublishedCommandHandler, error) {
	signer, err := subscriber.NewUnsubscribeSigner(c.cfg.UnsubscribeSecret)
	if err != nil {
		return commands.BroadcastPostPublishedCommandHandler{}, err
	}
	return commands.NewBroadcastPostPublishedCommandHandler(
		c.postUoWFactory(),
		subscriberrepo.NewGormSubscriberRepository(c.gormDB),
		renderer,
		signer,
		c.scheduler,
		c.clock,
		commands.BroadcastConfig{SiteTitle: c.cfg.SiteTitle, Stagger: c.cfg.BroadcastStagger},
	)
}

// CreateMailSender falls back to logging when no SMTP host is configured.
func (c *CompositionRoot) CreateMailSender() (ports.MailSender, error) {
	if c.cfg.SMTPHost == "" {
		return mail.NewLogSender(c.logger), nil
	}
	return mail.NewSMTPSender(mail.Config{
		Host:       c.cfg.SMTPHost,
		Port:       c.cfg.SMTPPort,
		Username:   c.cfg.SMTPUser,
		Password:   c.cfg.SMTPPassword,
		From:       c.cfg.SMTPFrom,
		RatePerSec: c.cfg.MailRatePerSec,
	})
}

// CreateGeoResolver tries the location API first and the local region table
// second.
func (c *CompositionRoot) CreateGeoResolver() (ports.GeoResolver, error) {
	resolvers := make([]ports.GeoResolver, 0, 2)
	if c.cfg.GeoAPIURL != "" {
		online, err := geo.NewOnlineResolver(c.cfg.GeoAPIURL, c.cfg.GeoAPIKey)
		if err != nil {
			return nil, err
		}
		resolvers = append(resolvers, online)
	}
	if c.offline != nil {
		resolvers = append(resolvers, c.offline)
	}
	if len(resolvers) == 0 {
		return unresolved{}, nil
	}
	return geo.NewChainResolver(c.logger, resolvers...)
}

func (c *CompositionRoot) CreateGetLinksQueryHandler() queries.GetLinksQueryHandler {
	return queries.NewGetLinksQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *http.Server {
	return http.NewServer(
		c.scheduler,
		c.jobManager,
		c.tracking,
		c.clock,
		c.CreateGetLinksQueryHandler(),
		[]job.Name{job.CheckLinks, job.RebuildSearchIndex, job.EverydayJob, job.StatisticsSearchKeywords},
	)
}

func (c *CompositionRoot) postUoWFactory() commands.PostUoWFactory {
	return FuncPostUoWFactory(func() commands.PostUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) linkUoWFactory() commands.LinkUoWFactory {
	return FuncLinkUoWFactory(func() commands.LinkUoW {
		return c.uowFactory.Create()
	})
}

type FuncPostUoWFactory func() commands.PostUoW

func (f FuncPostUoWFactory) Create() commands.PostUoW {
	return f()
}

type FuncLinkUoWFactory func() commands.LinkUoW

func (f FuncLinkUoWFactory) Create() commands.LinkUoW {
	return f()
}
